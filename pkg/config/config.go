// Package config loads regparser settings from defaults, an optional YAML
// file and REGPARSER_ environment variables, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/coolbeans/regparser/pkg/amendment"
	"github.com/coolbeans/regparser/pkg/grammar"
	"github.com/coolbeans/regparser/pkg/notice"
)

// EnvPrefix prefixes environment overrides, e.g. REGPARSER_LOG_LEVEL.
const EnvPrefix = "REGPARSER"

// Config is the complete regparser configuration.
type Config struct {
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	Grammar GrammarConfig `mapstructure:"grammar" yaml:"grammar"`
	Notice  NoticeConfig  `mapstructure:"notice" yaml:"notice"`
	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
	Output  OutputConfig  `mapstructure:"output" yaml:"output"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `mapstructure:"level" yaml:"level"`

	// Format is text or json.
	Format string `mapstructure:"format" yaml:"format"`
}

// GrammarConfig tunes the instruction tokenizer.
type GrammarConfig struct {
	// MaxInputLength is the longest instruction accepted, in bytes. Zero
	// disables the limit.
	MaxInputLength int `mapstructure:"max_input_length" yaml:"max_input_length"`
}

// NoticeConfig configures the Federal Register client.
type NoticeConfig struct {
	BaseURL    string        `mapstructure:"base_url" yaml:"base_url"`
	UserAgent  string        `mapstructure:"user_agent" yaml:"user_agent"`
	RateLimit  time.Duration `mapstructure:"rate_limit" yaml:"rate_limit"`
	Timeout    time.Duration `mapstructure:"timeout" yaml:"timeout"`
	Attempts   uint          `mapstructure:"attempts" yaml:"attempts"`
	RetryDelay time.Duration `mapstructure:"retry_delay" yaml:"retry_delay"`
	CFRTitle   int           `mapstructure:"cfr_title" yaml:"cfr_title"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
}

// OutputConfig sets the CLI's default output format.
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format"`
}

// Load reads the configuration. When cfgFile is empty, regparser.yaml is
// looked up in the working directory and $HOME/.regparser; a missing file
// is not an error.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("regparser")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.regparser")
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	defaults := DefaultConfig()
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.format", defaults.Log.Format)
	v.SetDefault("grammar.max_input_length", defaults.Grammar.MaxInputLength)
	v.SetDefault("notice.base_url", defaults.Notice.BaseURL)
	v.SetDefault("notice.user_agent", defaults.Notice.UserAgent)
	v.SetDefault("notice.rate_limit", defaults.Notice.RateLimit)
	v.SetDefault("notice.timeout", defaults.Notice.Timeout)
	v.SetDefault("notice.attempts", defaults.Notice.Attempts)
	v.SetDefault("notice.retry_delay", defaults.Notice.RetryDelay)
	v.SetDefault("notice.cfr_title", defaults.Notice.CFRTitle)
	v.SetDefault("server.addr", defaults.Server.Addr)
	v.SetDefault("output.format", defaults.Output.Format)
}

// Validate rejects settings no component can run with.
func (c *Config) Validate() error {
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q (want text or json)", c.Log.Format)
	}
	if _, err := amendment.ParseFormat(c.Output.Format); err != nil {
		return fmt.Errorf("invalid output format: %w", err)
	}
	if c.Grammar.MaxInputLength < 0 {
		return fmt.Errorf("grammar.max_input_length must not be negative, got %d", c.Grammar.MaxInputLength)
	}
	if c.Notice.Attempts == 0 {
		return fmt.Errorf("notice.attempts must be at least 1")
	}
	return nil
}

// ParseLevel converts a level name to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q: %w", name, err)
	}
	return level, nil
}

// NewLogger builds the configured slog handler writing to w.
func (c LogConfig) NewLogger(w io.Writer) *slog.Logger {
	level, err := ParseLevel(c.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	options := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, options))
	}
	return slog.New(slog.NewTextHandler(w, options))
}

// GrammarOptions returns the grammar options for this configuration.
func (c *Config) GrammarOptions() []grammar.Option {
	return []grammar.Option{grammar.WithMaxInputLength(c.Grammar.MaxInputLength)}
}

// ClientConfig returns the Federal Register client configuration.
func (c *Config) ClientConfig() notice.ClientConfig {
	return notice.ClientConfig{
		BaseURL:    c.Notice.BaseURL,
		UserAgent:  c.Notice.UserAgent,
		RateLimit:  c.Notice.RateLimit,
		Timeout:    c.Notice.Timeout,
		Attempts:   c.Notice.Attempts,
		RetryDelay: c.Notice.RetryDelay,
	}
}

// WriteDefault writes the default configuration to path as YAML.
func WriteDefault(path string) error {
	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte("# regparser configuration\n# Every key can be overridden with a REGPARSER_ environment variable,\n# e.g. REGPARSER_LOG_LEVEL=debug or REGPARSER_NOTICE_RATE_LIMIT=2s.\n\n")
	return os.WriteFile(path, append(header, data...), 0o644)
}
