package config

import (
	"github.com/coolbeans/regparser/pkg/amendment"
	"github.com/coolbeans/regparser/pkg/grammar"
	"github.com/coolbeans/regparser/pkg/notice"
)

// DefaultServerAddr is the default listen address of the HTTP API.
const DefaultServerAddr = ":8080"

// DefaultCFRTitle is the CFR title notices are filed under unless told
// otherwise; title 12 holds the banking regulations.
const DefaultCFRTitle = 12

// DefaultConfig returns the configuration used when nothing overrides it.
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Grammar: GrammarConfig{
			MaxInputLength: grammar.DefaultMaxInputLength,
		},
		Notice: NoticeConfig{
			BaseURL:    notice.DefaultBaseURL,
			UserAgent:  notice.DefaultUserAgent,
			RateLimit:  notice.DefaultRequestInterval,
			Timeout:    notice.DefaultTimeout,
			Attempts:   notice.DefaultAttempts,
			RetryDelay: notice.DefaultRetryDelay,
			CFRTitle:   DefaultCFRTitle,
		},
		Server: ServerConfig{
			Addr: DefaultServerAddr,
		},
		Output: OutputConfig{
			Format: string(amendment.FormatText),
		},
	}
}
