// Package config loads ohsurveil settings. Environment variables prefixed
// OHSURVEIL_ override the optional config file, which overrides defaults.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"ohsurveil/internal/blob"
	"ohsurveil/internal/core"
	"ohsurveil/internal/insights"
	"ohsurveil/pkg/domain"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "OHSURVEIL"

// Config is the full application configuration.
type Config struct {
	Log      LogConfig          `mapstructure:"log"`
	Storage  core.StorageConfig `mapstructure:"storage"`
	Blob     blob.Config        `mapstructure:"blob"`
	Insights insights.Config    `mapstructure:"insights"`
	Clinic   ClinicConfig       `mapstructure:"clinic"`
	Seed     bool               `mapstructure:"seed"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level   string `mapstructure:"level"`
	Format  string `mapstructure:"format"`
	Service string `mapstructure:"service"`
}

// ClinicConfig is the clinic identity printed on certificates.
type ClinicConfig struct {
	Name   string `mapstructure:"name"`
	Doctor string `mapstructure:"doctor"`
}

// Settings converts to the domain value.
func (c ClinicConfig) Settings() domain.ClinicSettings {
	return domain.ClinicSettings{ClinicName: c.Name, DoctorName: c.Doctor}
}

var defaults = map[string]any{
	"log.level":   "info",
	"log.format":  "console",
	"log.service": "ohsurveil",

	"storage.driver":         string(core.StorageMemory),
	"storage.sqlite_path":    "ohsurveil.db",
	"storage.postgres_dsn":   "",
	"storage.redis.addr":     "localhost:6379",
	"storage.redis.password": "",
	"storage.redis.db":       0,
	"storage.redis.key":      "ohsurveil:state",

	"blob.driver":               string(blob.DriverMemory),
	"blob.fs_root":              "./attachments",
	"blob.s3.region":            "us-east-1",
	"blob.s3.bucket":            "",
	"blob.s3.endpoint":          "",
	"blob.s3.access_key_id":     "",
	"blob.s3.secret_access_key": "",
	"blob.s3.session_token":     "",
	"blob.s3.path_style":        false,

	"insights.base_url": insights.DefaultBaseURL,
	"insights.api_key":  "",
	"insights.model":    insights.DefaultModel,
	"insights.timeout":  insights.DefaultTimeout,

	"clinic.name":   "Klinik Dan Surgeri Abriel",
	"clinic.doctor": "DR Louis Nethaniel Johnson",

	"seed": true,
}

// Load reads configuration. path names an explicit config file; when empty
// an ohsurveil.{yaml,json,toml} in the working directory is used if present.
func Load(path string) (Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("insights.api_key", EnvPrefix+"_INSIGHTS_API_KEY", "GEMINI_API_KEY"); err != nil {
		return Config{}, err
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("ohsurveil")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the enumerated settings.
func (c Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("log.format %q", c.Log.Format)
	}
	switch c.Storage.Driver {
	case core.StorageMemory, core.StorageSQLite, core.StorageRedis:
	case core.StoragePostgres:
		if c.Storage.PostgresDSN == "" {
			return errors.New("storage.postgres_dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("storage.driver %q", c.Storage.Driver)
	}
	switch c.Blob.Driver {
	case blob.DriverMemory, blob.DriverFilesystem:
	case blob.DriverS3:
		if c.Blob.S3.Bucket == "" {
			return errors.New("blob.s3.bucket is required for the s3 driver")
		}
	default:
		return fmt.Errorf("blob.driver %q", c.Blob.Driver)
	}
	if c.Insights.Timeout < time.Second {
		return fmt.Errorf("insights.timeout %s is below one second", c.Insights.Timeout)
	}
	return nil
}
