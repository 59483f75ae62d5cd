package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Source     SourceConfig     `yaml:"source" mapstructure:"source"`
	Classifier ClassifierConfig `yaml:"classifier" mapstructure:"classifier"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Output     OutputConfig     `yaml:"output" mapstructure:"output"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// SourceConfig describes where the OKVED table is loaded from.
type SourceConfig struct {
	// Kind is one of csv, xlsx, postgres, sqlite. Empty means detect from Path.
	Kind        string `yaml:"kind" mapstructure:"kind"`
	Path        string `yaml:"path" mapstructure:"path"`
	Sheet       string `yaml:"sheet" mapstructure:"sheet"`
	SheetIndex  int    `yaml:"sheet_index" mapstructure:"sheet_index"`
	Delimiter   string `yaml:"delimiter" mapstructure:"delimiter"`
	Charset     string `yaml:"charset" mapstructure:"charset"`
	Table       string `yaml:"table" mapstructure:"table"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries  int    `yaml:"max_retries" mapstructure:"max_retries"`
}

// ClassifierConfig configures hierarchy construction.
type ClassifierConfig struct {
	// OrderIndependent sorts rows by depth before building so that children
	// listed ahead of their parents are kept.
	OrderIndependent bool `yaml:"order_independent" mapstructure:"order_independent"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port        int      `yaml:"port" mapstructure:"port"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
}

// OutputConfig configures CLI rendering.
type OutputConfig struct {
	Format string `yaml:"format" mapstructure:"format"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("OKVED")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("source.kind", "")
	v.SetDefault("source.path", "okved.csv")
	v.SetDefault("source.sheet", "")
	v.SetDefault("source.sheet_index", 0)
	v.SetDefault("source.delimiter", ",")
	v.SetDefault("source.charset", "utf-8")
	v.SetDefault("source.table", "okved")
	v.SetDefault("source.database_url", "")
	v.SetDefault("source.timeout_secs", 30)
	v.SetDefault("source.max_retries", 3)
	v.SetDefault("classifier.order_independent", false)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("output.format", "table")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}

var (
	validKinds   = []string{"", "csv", "xlsx", "postgres", "sqlite"}
	validFormats = []string{"table", "json", "yaml"}
)

// Validate checks the settings required by mode ("query" or "serve").
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "query":
	case "serve":
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, "server.port must be > 0 and <= 65535")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if !slices.Contains(validKinds, c.Source.Kind) {
		errs = append(errs, fmt.Sprintf("source.kind %q is not one of csv, xlsx, postgres, sqlite", c.Source.Kind))
	}
	switch c.Source.Kind {
	case "postgres":
		if c.Source.DatabaseURL == "" {
			errs = append(errs, "source.database_url is required for postgres")
		}
		if c.Source.Table == "" {
			errs = append(errs, "source.table is required for postgres")
		}
	case "sqlite":
		if c.Source.Path == "" && c.Source.DatabaseURL == "" {
			errs = append(errs, "source.path is required for sqlite")
		}
		if c.Source.Table == "" {
			errs = append(errs, "source.table is required for sqlite")
		}
	default:
		if c.Source.Path == "" {
			errs = append(errs, "source.path is required")
		}
	}
	if len([]rune(c.Source.Delimiter)) > 1 {
		errs = append(errs, "source.delimiter must be a single character")
	}
	if c.Source.SheetIndex < 0 {
		errs = append(errs, "source.sheet_index must be >= 0")
	}
	if c.Source.TimeoutSecs < 0 {
		errs = append(errs, "source.timeout_secs must be >= 0")
	}
	if c.Source.MaxRetries < 0 {
		errs = append(errs, "source.max_retries must be >= 0")
	}

	if !slices.Contains(validFormats, c.Output.Format) {
		errs = append(errs, fmt.Sprintf("output.format %q is not one of table, json, yaml", c.Output.Format))
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}
