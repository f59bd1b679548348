// Package config loads CLI settings from a config file, PARSELET_* environment
// variables and command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/goliatone/go-parselet/pkg/source"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "PARSELET"

// Config is the resolved CLI configuration.
type Config struct {
	Renderer  string        `mapstructure:"renderer"`
	Indent    int           `mapstructure:"indent"`
	AllowHTTP bool          `mapstructure:"allow_http"`
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
	MaxBytes  int64         `mapstructure:"max_bytes"`
	LogLevel  string        `mapstructure:"log_level"`
	LogFormat string        `mapstructure:"log_format"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Renderer:  "json",
		Indent:    2,
		Timeout:   30 * time.Second,
		UserAgent: "parselet/1.0",
		MaxBytes:  10 << 20,
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// Load resolves the configuration. cfgFile may be empty, in which case
// parselet.yaml is looked up in the working directory and $HOME/.parselet;
// a missing file is not an error. Flags that were set explicitly override
// file and environment values.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	defaults := Default()
	v.SetDefault("renderer", defaults.Renderer)
	v.SetDefault("indent", defaults.Indent)
	v.SetDefault("allow_http", defaults.AllowHTTP)
	v.SetDefault("timeout", defaults.Timeout)
	v.SetDefault("user_agent", defaults.UserAgent)
	v.SetDefault("max_bytes", defaults.MaxBytes)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("log_format", defaults.LogFormat)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("parselet")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.parselet")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config: read %s: %w", describe(cfgFile), err)
		}
	}

	if flags != nil {
		var bindErr error
		flags.VisitAll(func(f *pflag.Flag) {
			key := strings.ReplaceAll(f.Name, "-", "_")
			if !isKnown(key) {
				return
			}
			if err := v.BindPFlag(key, f); err != nil && bindErr == nil {
				bindErr = err
			}
		})
		if bindErr != nil {
			return Config{}, fmt.Errorf("config: bind flags: %w", bindErr)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the pipeline cannot honour.
func (c Config) Validate() error {
	if c.Indent < 0 {
		return errors.New("config: indent must not be negative")
	}
	if c.Timeout < 0 {
		return errors.New("config: timeout must not be negative")
	}
	if c.MaxBytes < 0 {
		return errors.New("config: max_bytes must not be negative")
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("config: unknown log format %q", c.LogFormat)
	}
	return nil
}

// LoaderOptions maps the HTTP and size settings onto loader options.
func (c Config) LoaderOptions() []source.LoaderOption {
	opts := []source.LoaderOption{source.WithUserAgent(c.UserAgent)}
	if c.AllowHTTP {
		opts = append(opts, source.WithHTTPFallback(c.Timeout))
	}
	if c.MaxBytes > 0 {
		opts = append(opts, source.WithMaxBytes(c.MaxBytes))
	}
	return opts
}

// Logger builds the slog logger described by the log settings.
func (c Config) Logger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(raw string) (slog.Level, error) {
	var level slog.Level
	if strings.TrimSpace(raw) == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		return 0, fmt.Errorf("config: unknown log level %q", raw)
	}
	return level, nil
}

var knownKeys = map[string]struct{}{
	"renderer": {}, "indent": {}, "allow_http": {}, "timeout": {},
	"user_agent": {}, "max_bytes": {}, "log_level": {}, "log_format": {},
}

func isKnown(key string) bool {
	_, ok := knownKeys[key]
	return ok
}

func describe(cfgFile string) string {
	if cfgFile == "" {
		return "config file"
	}
	return cfgFile
}
