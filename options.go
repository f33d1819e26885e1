package rocketdb

import (
	"errors"
	"fmt"

	"github.com/tfkr-ae/rocketdb/domain"
	"github.com/tfkr-ae/rocketdb/metrics"
	"go.uber.org/zap"
)

// WithOptions applies a series of configuration functions to the catalog.
// It returns the first error encountered.
func (catalog *Catalog) WithOptions(options ...func(*Catalog) error) error {
	for _, option := range options {
		err := option(catalog)
		if err != nil {
			return fmt.Errorf("applying option on catalog : %w", err)
		}
	}
	return nil
}

// WithConfigFile loads the configuration from the yaml file at path, with environment overrides.
func WithConfigFile(path string) func(*Catalog) error {
	return func(catalog *Catalog) error {
		cfg, err := LoadConfig(NewViper(), path)
		if err != nil {
			return err
		}
		catalog.Config = cfg
		return nil
	}
}

// WithConfig uses cfg as is after validating it.
func WithConfig(cfg *Config) func(*Catalog) error {
	return func(catalog *Catalog) error {
		if cfg == nil {
			return errors.New("config is nil")
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		catalog.Config = cfg
		return nil
	}
}

// WithLogger sets the logger for the catalog and the storage it opens.
// A nil logger leaves the default no-op logger in place.
func WithLogger(logger *zap.SugaredLogger) func(*Catalog) error {
	return func(catalog *Catalog) error {
		if logger != nil {
			catalog.Logger = logger
		}
		return nil
	}
}

// WithMetrics reports store activity to registry.
func WithMetrics(registry *metrics.Registry) func(*Catalog) error {
	return func(catalog *Catalog) error {
		catalog.Metrics = registry
		return nil
	}
}

// WithRepository uses repo instead of opening storage from the configuration.
// A repository set earlier is closed first.
func WithRepository(repo domain.CatalogStore) func(*Catalog) error {
	return func(catalog *Catalog) error {
		if repo == nil {
			return errors.New("repository is nil")
		}
		if catalog.Repo != nil {
			if err := catalog.Repo.Close(); err != nil {
				return err
			}
		}
		catalog.Repo = repo
		return nil
	}
}
