// Package config loads the immodoc configuration.
//
// Priority (highest to lowest):
//  1. Environment variables with the IMMODOC_ prefix (e.g. IMMODOC_SETTINGS_DSN)
//  2. immodoc.yaml in the working directory or /etc/immodoc
//  3. Built-in defaults
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Templates TemplatesConfig `mapstructure:"templates"`
	Settings  SettingsConfig  `mapstructure:"settings"`
	Export    ExportConfig    `mapstructure:"export"`
	Assets    AssetsConfig    `mapstructure:"assets"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Batch     BatchConfig     `mapstructure:"batch"`
	Agency    AgencyConfig    `mapstructure:"agency"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=auto json console"`
	Output string `mapstructure:"output" validate:"required"` // stdout, stderr, or file path
}

// TemplatesConfig selects where document templates come from.
type TemplatesConfig struct {
	Dir     string `mapstructure:"dir"`                               // override directory
	BaseURL string `mapstructure:"base_url" validate:"omitempty,url"` // remote template server
	Watch   bool   `mapstructure:"watch"`
	Cache   bool   `mapstructure:"cache"`
}

// SettingsConfig locates the agency settings database. An empty driver
// uses built-in defaults for every agency.
type SettingsConfig struct {
	Driver string `mapstructure:"driver" validate:"omitempty,oneof=sqlite postgres"`
	DSN    string `mapstructure:"dsn" validate:"required_with=Driver"`
}

// ExportConfig selects where generated documents are stored. An empty
// driver keeps documents in memory only.
type ExportConfig struct {
	Driver  string   `mapstructure:"driver" validate:"omitempty,oneof=file s3"`
	Dir     string   `mapstructure:"dir" validate:"required_if=Driver file"`
	BaseURL string   `mapstructure:"base_url"`
	S3      S3Config `mapstructure:"s3"`
}

// S3Config holds object storage settings.
type S3Config struct {
	Bucket       string `mapstructure:"bucket"`
	Region       string `mapstructure:"region"`
	Endpoint     string `mapstructure:"endpoint" validate:"omitempty,url"`
	AccessKey    string `mapstructure:"access_key"`
	SecretKey    string `mapstructure:"secret_key"`
	UsePathStyle bool   `mapstructure:"use_path_style"`
	Prefix       string `mapstructure:"prefix"`
}

// AssetsConfig bounds branding image downloads.
type AssetsConfig struct {
	Timeout time.Duration `mapstructure:"timeout" validate:"gt=0"`
	MaxSize int64         `mapstructure:"max_size" validate:"gt=0"`
	S3      bool          `mapstructure:"s3"` // resolve s3:// references with export.s3 credentials
}

// HTTPConfig holds the API server settings.
type HTTPConfig struct {
	Addr        string `mapstructure:"addr" validate:"required"`
	MaxBodySize int64  `mapstructure:"max_body_size" validate:"gt=0"`
}

// BatchConfig bounds concurrent generation.
type BatchConfig struct {
	Concurrency int `mapstructure:"concurrency" validate:"min=1,max=64"`
}

// AgencyConfig names the agency used when a command does not.
type AgencyConfig struct {
	DefaultID string `mapstructure:"default_id"`
}

var defaults = map[string]any{
	"log.level":                "info",
	"log.format":               "auto",
	"log.output":               "stderr",
	"templates.dir":            "",
	"templates.base_url":       "",
	"templates.watch":          false,
	"templates.cache":          true,
	"settings.driver":          "",
	"settings.dsn":             "",
	"export.driver":            "",
	"export.dir":               "",
	"export.base_url":          "",
	"export.s3.bucket":         "",
	"export.s3.region":         "",
	"export.s3.endpoint":       "",
	"export.s3.access_key":     "",
	"export.s3.secret_key":     "",
	"export.s3.use_path_style": false,
	"export.s3.prefix":         "",
	"assets.timeout":           "10s",
	"assets.max_size":          5 << 20,
	"assets.s3":                false,
	"http.addr":                ":8080",
	"http.max_body_size":       10 << 20,
	"batch.concurrency":        4,
	"agency.default_id":        "",
}

// Load reads the configuration. path names an explicit config file; when
// empty, immodoc.yaml is searched and its absence is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("immodoc")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/immodoc")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("IMMODOC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decoding: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints and cross-field rules.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("config: %s fails %q", fe.Namespace(), fe.Tag())
		}
		return fmt.Errorf("config: %w", err)
	}
	if c.Export.Driver == "s3" && c.Export.S3.Bucket == "" {
		return errors.New("config: export.s3.bucket is required when export.driver is s3")
	}
	if c.Templates.Watch && c.Templates.Dir == "" {
		return errors.New("config: templates.watch requires templates.dir")
	}
	return nil
}
