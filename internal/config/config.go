// Package config loads and validates service configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	BOE      BOEConfig      `mapstructure:"boe"`
	DB       DBConfig       `mapstructure:"db"`
	Notify   NotifyConfig   `mapstructure:"notify"`
	Archive  ArchiveConfig  `mapstructure:"archive"`
	Schedule ScheduleConfig `mapstructure:"schedule"`
	Logging  LoggingConfig  `mapstructure:"logging"`

	// Regions overrides the built-in region reference list when non-empty.
	Regions []string `mapstructure:"regions"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// BOEConfig governs summary retrieval and extraction.
type BOEConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	SectionCode    string `mapstructure:"section_code"`
	UserAgent      string `mapstructure:"user_agent"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	LookbackDays   int    `mapstructure:"lookback_days"`
}

// DBConfig controls access to the announcement store.
type DBConfig struct {
	// Provider selects the store backend: postgres or memory.
	Provider string `mapstructure:"provider"`
	DSN      string `mapstructure:"dsn"`
	MaxConns int32  `mapstructure:"max_conns"`
	MinConns int32  `mapstructure:"min_conns"`
}

// NotifyConfig selects the digest transport and its distribution list. The
// subscriber list is owned by an external user component; this key is the
// read-only view the core consumes.
type NotifyConfig struct {
	// Provider selects the transport: none, smtp, or pubsub.
	Provider   string       `mapstructure:"provider"`
	Recipients []string     `mapstructure:"recipients"`
	SMTP       SMTPConfig   `mapstructure:"smtp"`
	PubSub     PubSubConfig `mapstructure:"pubsub"`
}

// SMTPConfig holds the external mail transport settings.
type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// PubSubConfig holds metadata for publish-subscribe digest dispatch.
type PubSubConfig struct {
	ProjectID string `mapstructure:"project_id"`
	TopicID   string `mapstructure:"topic_id"`
}

// ArchiveConfig selects where raw summary payloads are preserved.
type ArchiveConfig struct {
	// Provider selects the blob backend: none, local, or gcs.
	Provider string `mapstructure:"provider"`
	Prefix   string `mapstructure:"prefix"`
	BaseDir  string `mapstructure:"base_dir"`
	Bucket   string `mapstructure:"bucket"`
}

// ScheduleConfig enables periodic ingestion in serve mode.
type ScheduleConfig struct {
	// Cron is a standard five-field cron expression; empty disables the
	// scheduler.
	Cron string `mapstructure:"cron"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("BOE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("boe.base_url", "https://www.boe.es/datosabiertos/api/boe/sumario")
	v.SetDefault("boe.section_code", "2B")
	v.SetDefault("boe.user_agent", "boe-watcher/1.0 (+https://github.com/fransm/boe-watcher)")
	v.SetDefault("boe.timeout_seconds", 10)
	v.SetDefault("boe.lookback_days", 7)
	v.SetDefault("db.provider", "postgres")
	v.SetDefault("notify.provider", "none")
	v.SetDefault("notify.smtp.port", 587)
	v.SetDefault("archive.provider", "none")
	v.SetDefault("archive.prefix", "sumarios")
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.BOE.TimeoutSeconds <= 0 {
		return fmt.Errorf("boe.timeout_seconds must be > 0")
	}
	if c.BOE.LookbackDays <= 0 {
		return fmt.Errorf("boe.lookback_days must be > 0")
	}
	switch c.DB.Provider {
	case "postgres":
		if c.DB.DSN == "" {
			return fmt.Errorf("db.dsn must be set when db.provider is postgres")
		}
	case "memory":
	default:
		return fmt.Errorf("unknown db.provider: %s", c.DB.Provider)
	}
	switch c.Notify.Provider {
	case "none":
	case "smtp":
		if c.Notify.SMTP.Host == "" || c.Notify.SMTP.From == "" {
			return fmt.Errorf("notify.smtp.host and notify.smtp.from must be set when notify.provider is smtp")
		}
	case "pubsub":
		if c.Notify.PubSub.ProjectID == "" || c.Notify.PubSub.TopicID == "" {
			return fmt.Errorf("notify.pubsub.project_id and notify.pubsub.topic_id must be set when notify.provider is pubsub")
		}
	default:
		return fmt.Errorf("unknown notify.provider: %s", c.Notify.Provider)
	}
	switch c.Archive.Provider {
	case "none":
	case "local":
		if c.Archive.BaseDir == "" {
			return fmt.Errorf("archive.base_dir must be set when archive.provider is local")
		}
	case "gcs":
		if c.Archive.Bucket == "" {
			return fmt.Errorf("archive.bucket must be set when archive.provider is gcs")
		}
	default:
		return fmt.Errorf("unknown archive.provider: %s", c.Archive.Provider)
	}
	return nil
}

// FetchTimeout converts the configured timeout into a duration.
func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.BOE.TimeoutSeconds) * time.Second
}
