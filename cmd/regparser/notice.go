package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/coolbeans/regparser/pkg/amendment"
	"github.com/coolbeans/regparser/pkg/notice"
	"github.com/coolbeans/regparser/pkg/watch"
)

type noticeOptions struct {
	cfrPart    string
	cfrTitle   int
	fetch      string
	watchDir   string
	output     string
	formatFlag string
	validate   bool
}

func noticeCmd() *cobra.Command {
	options := &noticeOptions{}

	cmd := &cobra.Command{
		Use:   "notice [notice.xml]",
		Short: "Build a notice from Federal Register XML",
		Long: `Build a notice record: metadata, contact, amended sections and the
amendments of every instruction, parsed in document order.

The notice comes from an XML file, from the Federal Register API with
--fetch, or from every XML file written to a directory with --watch.

Example:
  regparser notice --part 1005 2013-10604.xml
  regparser notice --part 1005 --fetch 2013-10604 --validate
  regparser notice --part 1005 --watch ./incoming`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if options.cfrTitle == 0 {
				options.cfrTitle = cfg.Notice.CFRTitle
			}
			builder := notice.NewBuilder(notice.WithParser(newParser()), notice.WithBuilderLogger(logger))

			switch {
			case options.watchDir != "":
				return watchNotices(cmd.Context(), builder, options)
			case options.fetch != "":
				return fetchNotice(cmd.Context(), cmd.OutOrStdout(), builder, options)
			case len(args) == 1:
				built, err := buildNoticeFile(builder, options, args[0])
				if err != nil {
					return err
				}
				return writeNotice(cmd.OutOrStdout(), built, options)
			default:
				return fmt.Errorf("give a notice XML file, --fetch or --watch")
			}
		},
	}

	cmd.Flags().StringVarP(&options.cfrPart, "part", "p", "", "CFR part the notice amends (required)")
	cmd.Flags().IntVar(&options.cfrTitle, "title", 0, "CFR title (default from config)")
	cmd.Flags().StringVar(&options.fetch, "fetch", "", "Fetch this document number from the Federal Register API")
	cmd.Flags().StringVar(&options.watchDir, "watch", "", "Watch a directory and build a notice for each XML file written to it")
	cmd.Flags().StringVarP(&options.output, "output", "o", "", "Write to this file instead of stdout")
	cmd.Flags().StringVarP(&options.formatFlag, "format", "f", "", "Write only the amendments in this format: json, yaml, csv, text")
	cmd.Flags().BoolVar(&options.validate, "validate", false, "Validate the notice JSON against the notice schema")
	cmd.MarkFlagRequired("part")

	return cmd
}

func buildNoticeFile(builder *notice.Builder, options *noticeOptions, path string) (*notice.Notice, error) {
	noticeXML, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read notice: %w", err)
	}
	documentNumber := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return builder.Build(options.cfrTitle, options.cfrPart, &notice.Document{DocumentNumber: documentNumber}, noticeXML)
}

func fetchNotice(ctx context.Context, out io.Writer, builder *notice.Builder, options *noticeOptions) error {
	client := notice.NewClient(cfg.ClientConfig())
	defer client.Close()

	built, err := builder.Fetch(ctx, client, options.cfrTitle, options.cfrPart, options.fetch)
	if err != nil {
		return err
	}
	return writeNotice(out, built, options)
}

// watchNotices builds a notice for every XML file written to the watched
// directory and writes it next to the XML as a .json file.
func watchNotices(ctx context.Context, builder *notice.Builder, options *noticeOptions) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	watcher := watch.New(options.watchDir, func(path string) error {
		built, err := buildNoticeFile(builder, options, path)
		if err != nil {
			return err
		}
		outputPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".json"
		file, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", outputPath, err)
		}
		defer file.Close()

		fileOptions := *options
		fileOptions.output = ""
		if err := writeNotice(file, built, &fileOptions); err != nil {
			return err
		}
		logger.Info("built notice", "xml", path, "output", outputPath, "amendments", len(built.Amendments))
		return nil
	}, watch.WithExtensions(".xml"), watch.WithLogger(logger))

	logger.Info("watching for notices", "dir", options.watchDir)
	return watcher.Run(ctx)
}

func writeNotice(out io.Writer, built *notice.Notice, options *noticeOptions) error {
	data, err := json.MarshalIndent(built, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode notice: %w", err)
	}
	if options.validate {
		if err := notice.ValidateJSON(data); err != nil {
			return err
		}
	}

	if options.output != "" {
		file, err := os.Create(options.output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer file.Close()
		out = file
	}

	if options.formatFlag != "" {
		format, err := amendment.ParseFormat(options.formatFlag)
		if err != nil {
			return err
		}
		return amendment.Encode(out, format, built.Amendments)
	}

	_, err = fmt.Fprintln(out, string(data))
	return err
}
