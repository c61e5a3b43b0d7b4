package config

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"scene-mirror/core/database"
	"scene-mirror/core/logger"
	"scene-mirror/core/server"
	"scene-mirror/core/storage"
	"scene-mirror/feature/mirror"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for the object storage receiving exports.
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the snapshot database.
	Database database.Config `mapstructure:"database"`
	// Mirror holds configuration for the mirror session.
	Mirror mirror.Config `mapstructure:"mirror"`
}

var validate = validator.New()

// LoadConfig loads configuration from environment variables and the .env file
// found in dir, then validates it.
func LoadConfig(dir string) (*Config, error) {
	// a missing .env is normal outside development
	_ = godotenv.Overload(filepath.Join(dir, ".env"))

	v := viper.New()
	bindValues(v, Config{}, "")

	// SERVER_PORT -> server.port, MIRROR_FILTER_EXCLUDE_TYPES -> mirror.filter.exclude_types
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the `validate` tags of every section.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// bindValues walks the struct and registers every `mapstructure` key in Viper
// with its `default` tag, so AutomaticEnv can resolve it.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// set even when empty: an unregistered key is invisible to AutomaticEnv
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
