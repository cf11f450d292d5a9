// Package config loads the orchestrator configuration: a YAML file for
// everything shareable, environment variables for secrets and deploy-time
// overrides.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"

	"github.com/omnix-ai/orchestrator/internal/db"
	"github.com/omnix-ai/orchestrator/internal/tools"
	"github.com/omnix-ai/orchestrator/internal/tracing"
)

// Config is the full orchestrator configuration tree.
type Config struct {
	Service struct {
		Name        string `mapstructure:"name"`
		MetricsPort int    `mapstructure:"metrics_port"`
	} `mapstructure:"service"`

	Temporal struct {
		HostPort  string `mapstructure:"host_port"`
		Namespace string `mapstructure:"namespace"`
		TaskQueue string `mapstructure:"task_queue"`
	} `mapstructure:"temporal"`

	Research struct {
		MaxResults int                   `mapstructure:"max_results"`
		Firecrawl  tools.FirecrawlConfig `mapstructure:"firecrawl"`
	} `mapstructure:"research"`

	Email tools.SMTPConfig `mapstructure:"email"`

	Redis struct {
		Enabled bool          `mapstructure:"enabled"`
		Addr    string        `mapstructure:"addr"`
		PageTTL time.Duration `mapstructure:"page_ttl"`
	} `mapstructure:"redis"`

	Database struct {
		Enabled bool `mapstructure:"enabled"`
		db.Config `mapstructure:",squash"`
	} `mapstructure:"database"`

	Tracing tracing.Config `mapstructure:"tracing"`

	Patterns struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"patterns"`
}

// Load reads CONFIG_PATH (default config/orchestrator.yaml) and applies env
// overrides. A missing file is not an error: the service can run entirely
// from defaults plus environment, matching container deployments that mount
// no config volume.
func Load() (*Config, error) {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/orchestrator.yaml"
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(cfgPath)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(underlying(err)) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	applyEnvOverrides(&cfg)
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("service.name", "omnix-orchestrator")
	v.SetDefault("service.metrics_port", 2112)
	v.SetDefault("temporal.host_port", "localhost:7233")
	v.SetDefault("temporal.namespace", "default")
	v.SetDefault("temporal.task_queue", "omnix-tasks")
	v.SetDefault("research.max_results", 3)
	v.SetDefault("research.firecrawl.rate_limit", 2.0)
	v.SetDefault("email.host", "smtp.gmail.com")
	v.SetDefault("email.port", 587)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.page_ttl", time.Hour)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "omnix")
	v.SetDefault("database.database", "omnix")
	v.SetDefault("patterns.path", "config/patterns.yaml")
}

// applyEnvOverrides maps secrets and deploy knobs from the environment.
// Secrets are env-only and never appear in the YAML tree.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("FIRECRAWL_API_KEY"); v != "" {
		cfg.Research.Firecrawl.APIKey = v
	}
	if v := os.Getenv("SMTP_USER"); v != "" {
		cfg.Email.User = v
	}
	if v := os.Getenv("SMTP_PASS"); v != "" {
		cfg.Email.Pass = v
	}
	if v := os.Getenv("SMTP_FROM"); v != "" {
		cfg.Email.From = v
	}
	if v := os.Getenv("SMTP_HOST"); v != "" {
		cfg.Email.Host = v
	}
	if v := os.Getenv("SMTP_PORT"); v != "" {
		var p int
		_, _ = fmt.Sscanf(v, "%d", &p)
		if p > 0 {
			cfg.Email.Port = p
		}
	}
	if v := os.Getenv("DATABASE_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("TEMPORAL_HOST_PORT"); v != "" {
		cfg.Temporal.HostPort = v
	}
	if v := os.Getenv("METRICS_PORT"); v != "" {
		var p int
		_, _ = fmt.Sscanf(v, "%d", &p)
		if p > 0 {
			cfg.Service.MetricsPort = p
		}
	}
}

func underlying(err error) error {
	type unwrapper interface{ Unwrap() error }
	for {
		u, ok := err.(unwrapper)
		if !ok {
			return err
		}
		next := u.Unwrap()
		if next == nil {
			return err
		}
		err = next
	}
}
