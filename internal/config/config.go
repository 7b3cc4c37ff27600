package config

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	StorageModeFile   = "file"
	StorageModeBolt   = "bbolt"
	StorageModeSQLite = "sqlite"

	OutputTable = "table"
	OutputYAML  = "yaml"
)

type AppConfig struct {
	StorageMode     string        `mapstructure:"STORAGE_MODE" validate:"oneof=file bbolt sqlite"`
	DataFile        string        `mapstructure:"DATA_FILE" validate:"min=1"`
	BoltPath        string        `mapstructure:"BOLT_PATH" validate:"min=1"`
	BoltOpenTimeout time.Duration `mapstructure:"BOLT_OPEN_TIMEOUT" validate:"nonzero_duration"`
	SQLitePath      string        `mapstructure:"SQLITE_PATH" validate:"min=1"`
	LogLevel        string        `mapstructure:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	// LogFile is optional; logs always go to stderr as well.
	LogFile      string `mapstructure:"LOG_FILE"`
	OutputFormat string `mapstructure:"OUTPUT_FORMAT" validate:"oneof=table yaml"`
}

func (c *AppConfig) Validate() error {
	v := validator.New()

	_ = v.RegisterValidation("nonzero_duration", func(fl validator.FieldLevel) bool {
		if d, ok := fl.Field().Interface().(time.Duration); ok {
			return d > 0
		} else {
			return false
		}
	})
	if err := v.Struct(c); err != nil {
		return err
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("STORAGE_MODE", StorageModeFile)
	v.SetDefault("DATA_FILE", "tasks.json")
	v.SetDefault("BOLT_PATH", "tasks.db")
	v.SetDefault("BOLT_OPEN_TIMEOUT", time.Second)
	v.SetDefault("SQLITE_PATH", "tasks.sqlite")
	v.SetDefault("LOG_LEVEL", "warn")
	v.SetDefault("LOG_FILE", "")
	v.SetDefault("OUTPUT_FORMAT", OutputTable)
}

// LoadAppConfig reads name.ext from the first matching path, then applies
// environment overrides. A missing config file is fine: defaults and env
// are enough to run.
func LoadAppConfig(name, ext string, paths ...string) (*AppConfig, error) {
	v := viper.New()
	for _, path := range paths {
		v.AddConfigPath(path)
	}
	v.SetConfigName(name)
	v.SetConfigType(ext)
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
