package rocketdb

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"github.com/tfkr-ae/rocketdb/db"
)

// Config holds the settings of a catalog. Values come from, in increasing precedence, the defaults,
// a yaml config file, ROCKETDB_* environment variables and flags bound to the viper instance.
type Config struct {
	viper    *viper.Viper
	Driver   string `mapstructure:"driver"`    // sqlite or pgx
	DSN      string `mapstructure:"dsn"`       // File path for sqlite, connection string for PostgreSQL
	LogEnv   string `mapstructure:"log_env"`   // production or development
	PageSize int    `mapstructure:"page_size"` // Rockets per listing page
}

// NewViper returns a viper instance carrying the catalog defaults and reading ROCKETDB_* variables.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("driver", db.DriverSQLite)
	v.SetDefault("dsn", "rocketdb.db")
	v.SetDefault("log_env", "development")
	v.SetDefault("page_size", 10)

	v.SetEnvPrefix("ROCKETDB")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// LoadConfig reads the configuration through v. When file is empty a rocketdb.yaml in the working
// directory is used if present; a named file that cannot be read is an error.
func LoadConfig(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("rocketdb")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file : %w", err)
		}
	}

	cfg := &Config{viper: v}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config to struct : %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports settings that cannot open a catalog.
func (cfg *Config) Validate() error {
	switch strings.ToLower(cfg.Driver) {
	case db.DriverSQLite, "sqlite3", db.DriverPostgres, "postgres", "postgresql":
	default:
		return fmt.Errorf("unsupported driver %q", cfg.Driver)
	}
	if cfg.DSN == "" {
		return errors.New("dsn must not be empty")
	}
	if cfg.PageSize <= 0 {
		return fmt.Errorf("page_size must be positive, got %d", cfg.PageSize)
	}
	return nil
}

// Save writes the current settings to path as yaml.
func (cfg *Config) Save(path string) error {
	if cfg.viper == nil {
		cfg.viper = NewViper()
	}
	cfg.viper.Set("driver", cfg.Driver)
	cfg.viper.Set("dsn", cfg.DSN)
	cfg.viper.Set("log_env", cfg.LogEnv)
	cfg.viper.Set("page_size", cfg.PageSize)

	if err := cfg.viper.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}
	return nil
}
