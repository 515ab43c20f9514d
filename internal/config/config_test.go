package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadWithFileOverrides(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	configYAML := `
server:
  port: 9090
boe:
  section_code: 2A
  timeout_seconds: 20
  lookback_days: 3
db:
  provider: memory
notify:
  provider: smtp
  recipients: ["subs@example.com"]
  smtp:
    host: mail.example.com
    from: boe-watcher@example.com
archive:
  provider: local
  base_dir: /tmp/sumarios
schedule:
  cron: "30 8 * * *"
logging:
  development: false
regions: ["Comarca del Sobrarbe"]
`
	if err := os.WriteFile(path, []byte(configYAML), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Fatalf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.BOE.SectionCode != "2A" || cfg.BOE.LookbackDays != 3 {
		t.Fatalf("expected boe overrides to apply: %+v", cfg.BOE)
	}
	if cfg.DB.Provider != "memory" {
		t.Fatalf("expected memory db provider, got %q", cfg.DB.Provider)
	}
	if cfg.Notify.Provider != "smtp" || cfg.Notify.SMTP.Host != "mail.example.com" {
		t.Fatalf("expected smtp notify overrides: %+v", cfg.Notify)
	}
	if cfg.Notify.SMTP.Port != 587 {
		t.Fatalf("expected default smtp port 587, got %d", cfg.Notify.SMTP.Port)
	}
	if len(cfg.Notify.Recipients) != 1 || cfg.Notify.Recipients[0] != "subs@example.com" {
		t.Fatalf("expected recipients to load: %+v", cfg.Notify.Recipients)
	}
	if cfg.Archive.Provider != "local" || cfg.Archive.BaseDir != "/tmp/sumarios" {
		t.Fatalf("expected local archive overrides: %+v", cfg.Archive)
	}
	if cfg.Schedule.Cron != "30 8 * * *" {
		t.Fatalf("expected cron schedule, got %q", cfg.Schedule.Cron)
	}
	if len(cfg.Regions) != 1 || cfg.Regions[0] != "Comarca del Sobrarbe" {
		t.Fatalf("expected custom regions: %+v", cfg.Regions)
	}
	if got := cfg.FetchTimeout(); got != 20*time.Second {
		t.Fatalf("expected fetch timeout 20s, got %v", got)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	configYAML := `
db:
  provider: memory
`
	if err := os.WriteFile(path, []byte(configYAML), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Fatalf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.BOE.BaseURL != "https://www.boe.es/datosabiertos/api/boe/sumario" {
		t.Fatalf("unexpected default base url: %q", cfg.BOE.BaseURL)
	}
	if cfg.BOE.SectionCode != "2B" || cfg.BOE.LookbackDays != 7 {
		t.Fatalf("unexpected boe defaults: %+v", cfg.BOE)
	}
	if cfg.Notify.Provider != "none" || cfg.Archive.Provider != "none" {
		t.Fatalf("expected inert providers by default: %+v %+v", cfg.Notify, cfg.Archive)
	}
	if cfg.Archive.Prefix != "sumarios" {
		t.Fatalf("expected default archive prefix, got %q", cfg.Archive.Prefix)
	}
}

func TestConfigValidateErrors(t *testing.T) {
	t.Parallel()

	base := Config{
		Server:  ServerConfig{Port: 8080},
		BOE:     BOEConfig{TimeoutSeconds: 10, LookbackDays: 7},
		DB:      DBConfig{Provider: "memory"},
		Notify:  NotifyConfig{Provider: "none"},
		Archive: ArchiveConfig{Provider: "none"},
	}

	tests := []struct {
		name string
		cfg  func() Config
		want string
	}{
		{
			name: "invalid port",
			cfg: func() Config {
				c := base
				c.Server.Port = 0
				return c
			},
			want: "server.port",
		},
		{
			name: "invalid timeout",
			cfg: func() Config {
				c := base
				c.BOE.TimeoutSeconds = 0
				return c
			},
			want: "boe.timeout_seconds",
		},
		{
			name: "invalid lookback",
			cfg: func() Config {
				c := base
				c.BOE.LookbackDays = 0
				return c
			},
			want: "boe.lookback_days",
		},
		{
			name: "postgres missing dsn",
			cfg: func() Config {
				c := base
				c.DB.Provider = "postgres"
				return c
			},
			want: "db.dsn",
		},
		{
			name: "unknown db provider",
			cfg: func() Config {
				c := base
				c.DB.Provider = "oracle"
				return c
			},
			want: "unknown db.provider",
		},
		{
			name: "smtp missing host",
			cfg: func() Config {
				c := base
				c.Notify.Provider = "smtp"
				return c
			},
			want: "notify.smtp.host",
		},
		{
			name: "pubsub missing topic",
			cfg: func() Config {
				c := base
				c.Notify.Provider = "pubsub"
				c.Notify.PubSub.ProjectID = "proj"
				return c
			},
			want: "notify.pubsub",
		},
		{
			name: "local archive missing dir",
			cfg: func() Config {
				c := base
				c.Archive.Provider = "local"
				return c
			},
			want: "archive.base_dir",
		},
		{
			name: "gcs archive missing bucket",
			cfg: func() Config {
				c := base
				c.Archive.Provider = "gcs"
				return c
			},
			want: "archive.bucket",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.cfg().Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}
