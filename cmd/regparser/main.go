package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/coolbeans/regparser/pkg/amendment"
	"github.com/coolbeans/regparser/pkg/config"
	"github.com/coolbeans/regparser/pkg/grammar"
	"github.com/coolbeans/regparser/pkg/label"
)

var version = "0.1.0"

// Settings shared by every subcommand, filled in before any command runs.
var (
	configFile string
	logLevel   string
	logFormat  string
	cfg        *config.Config
	logger     *slog.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "regparser",
		Short: "Federal Register amendment instruction parser",
		Long: `Regparser reads the amendment instructions of Federal Register
notices ("Amend § 1005.36 to revise paragraph (b)...") and turns them into
structured amendments against regulation labels.

It provides:
  - Instruction parsing with a running context across instructions
  - Token and normalization stage inspection
  - Notice processing from XML files, the Federal Register API or a
    watched directory
  - An HTTP API`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadSettings()
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: ./regparser.yaml or $HOME/.regparser/regparser.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: text or json")

	rootCmd.AddCommand(parseCmd())
	rootCmd.AddCommand(tokensCmd())
	rootCmd.AddCommand(noticeCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(configCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadSettings() error {
	loaded, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if logLevel != "" {
		loaded.Log.Level = logLevel
	}
	if logFormat != "" {
		loaded.Log.Format = logFormat
	}
	if err := loaded.Validate(); err != nil {
		return err
	}

	cfg = loaded
	logger = cfg.Log.NewLogger(os.Stderr)
	slog.SetDefault(logger)
	return nil
}

func newParser() *amendment.Parser {
	return amendment.NewParser(
		amendment.WithGrammar(grammar.New(cfg.GrammarOptions()...)),
		amendment.WithLogger(logger),
	)
}

// parseContextFlag reads a comma separated label such as "1005,,36".
func parseContextFlag(value string) label.Label {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	components := strings.Split(value, ",")
	for i := range components {
		components[i] = strings.TrimSpace(components[i])
	}
	return label.New(components...)
}

func outputFormat(flagValue string) (amendment.Format, error) {
	if flagValue == "" {
		flagValue = cfg.Output.Format
	}
	return amendment.ParseFormat(flagValue)
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "init [path]",
		Short: "Write the default configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "regparser.yaml"
			if len(args) > 0 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			}
			if err := config.WriteDefault(path); err != nil {
				return err
			}
			fmt.Printf("Wrote default configuration to %s\n", path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("log:     level=%s format=%s\n", cfg.Log.Level, cfg.Log.Format)
			fmt.Printf("grammar: max_input_length=%d\n", cfg.Grammar.MaxInputLength)
			fmt.Printf("notice:  base_url=%s rate_limit=%s timeout=%s attempts=%d cfr_title=%d\n",
				cfg.Notice.BaseURL, cfg.Notice.RateLimit, cfg.Notice.Timeout, cfg.Notice.Attempts, cfg.Notice.CFRTitle)
			fmt.Printf("server:  addr=%s\n", cfg.Server.Addr)
			fmt.Printf("output:  format=%s\n", cfg.Output.Format)
			return nil
		},
	})

	return cmd
}
