package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/coolbeans/regparser/pkg/amendment"
	"github.com/coolbeans/regparser/pkg/tokens"
)

func parseCmd() *cobra.Command {
	var contextFlag string
	var formatFlag string
	var showContext bool

	cmd := &cobra.Command{
		Use:   "parse [instruction...]",
		Short: "Parse amendment instructions",
		Long: `Parse one or more amendment instructions. Instructions come from the
arguments, or one per line from standard input when there are none. The
running context carries from each instruction to the next.

Example:
  regparser parse "In § 1005.36, revise paragraph (b) to read as follows:"
  regparser parse --context 1005 "Add Model Forms E-11 through E-15."
  regparser parse --format csv < instructions.txt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat(formatFlag)
			if err != nil {
				return err
			}

			instructions := args
			if len(instructions) == 0 {
				instructions, err = readLines(cmd.InOrStdin())
				if err != nil {
					return err
				}
			}
			if len(instructions) == 0 {
				return fmt.Errorf("no instructions given")
			}

			document := newParser().NewDocument(parseContextFlag(contextFlag))
			for _, instruction := range instructions {
				document.Parse(instruction)
			}

			out := cmd.OutOrStdout()
			if err := amendment.Encode(out, format, document.Amendments()); err != nil {
				return fmt.Errorf("failed to write amendments: %w", err)
			}
			if showContext {
				fmt.Fprintf(cmd.ErrOrStderr(), "context: %s\n", document.Context().String())
			}
			if failures := document.Failures(); len(failures) > 0 {
				return fmt.Errorf("%d of %d instructions could not be parsed", len(failures), len(instructions))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&contextFlag, "context", "", "Initial context as comma separated label components, e.g. 1005,,36")
	cmd.Flags().StringVarP(&formatFlag, "format", "f", "", "Output format: json, yaml, csv, text (default from config)")
	cmd.Flags().BoolVar(&showContext, "show-context", false, "Print the final running context to stderr")

	return cmd
}

func tokensCmd() *cobra.Command {
	var contextFlag string
	var allStages bool

	cmd := &cobra.Command{
		Use:   "tokens <instruction>",
		Short: "Show the tokens of an instruction",
		Long: `Show how an instruction is tokenized. With --stages, also show the
output of each normalization pass, the compressed stream and the
resulting amendments.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			analysis, err := newParser().Analyze(args[0], parseContextFlag(contextFlag))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printTokens(out, "Tokens", analysis.Tokens)
			if len(analysis.Skipped) > 0 {
				fmt.Fprintln(out, "Skipped:")
				for _, span := range analysis.Skipped {
					fmt.Fprintf(out, "  %d-%d %q\n", span.Start, span.End, span.Text)
				}
			}
			for _, listError := range analysis.ListErrors {
				fmt.Fprintf(out, "List error: %v\n", listError)
			}

			if !allStages {
				return nil
			}
			printTokens(out, "Active voice", analysis.Active)
			printTokens(out, "Subpart designation", analysis.Designated)
			fmt.Fprintf(out, "  subpart: %v\n", analysis.Subpart)
			printTokens(out, "Promoted contexts", analysis.Promoted)
			printTokens(out, "Flattened lists", analysis.Flattened)
			printTokens(out, "Compressed", analysis.Compressed)
			fmt.Fprintln(out, "Amendments:")
			for _, result := range analysis.Amendments {
				fmt.Fprintf(out, "  %s\n", result)
			}
			fmt.Fprintf(out, "Context: %s\n", analysis.Context.String())
			return nil
		},
	}

	cmd.Flags().StringVar(&contextFlag, "context", "", "Running context as comma separated label components")
	cmd.Flags().BoolVar(&allStages, "stages", false, "Show every pipeline stage")

	return cmd
}

func printTokens(out io.Writer, title string, stream []tokens.Token) {
	fmt.Fprintf(out, "%s:\n", title)
	for i, token := range stream {
		fmt.Fprintf(out, "  %2d %v\n", i, token)
	}
}

func readLines(reader io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read instructions: %w", err)
	}
	return lines, nil
}

