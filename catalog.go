// Package rocketdb is the entry point to a spaceflight catalog: it opens the configured storage,
// wires logging and metrics into it, and offers the operations the command line tools are built on.
package rocketdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/tfkr-ae/rocketdb/db"
	"github.com/tfkr-ae/rocketdb/domain"
	"github.com/tfkr-ae/rocketdb/logging"
	"github.com/tfkr-ae/rocketdb/metrics"
	"go.uber.org/zap"
)

// Catalog is an opened catalog store together with its settings.
type Catalog struct {
	Config  *Config             // Settings the catalog was opened with
	Repo    domain.CatalogStore // Storage of every entity
	Logger  *zap.SugaredLogger  // Structured logger shared with the storage layer
	Metrics *metrics.Registry   // Optional Prometheus collectors, nil when disabled
}

// New creates a Catalog and applies options in order. Storage is opened from the configuration
// unless WithRepository supplied one; the configuration is loaded from the environment and an
// optional rocketdb.yaml unless WithConfig or WithConfigFile supplied it.
func New(options ...func(*Catalog) error) (*Catalog, error) {
	catalog := &Catalog{
		Logger: logging.Nop(),
	}
	if err := catalog.WithOptions(options...); err != nil {
		return nil, err
	}

	if catalog.Config == nil {
		cfg, err := LoadConfig(NewViper(), "")
		if err != nil {
			return nil, err
		}
		catalog.Config = cfg
	}

	if catalog.Repo == nil {
		dbConn, err := db.Open(catalog.Config.Driver, catalog.Config.DSN)
		if err != nil {
			return nil, fmt.Errorf("opening %s catalog : %w", catalog.Config.Driver, err)
		}
		catalog.Repo = db.NewRepository(dbConn, db.WithLogger(catalog.Logger), db.WithMetrics(catalog.Metrics))
	}
	return catalog, nil
}

// Close releases the catalog's storage.
func (catalog *Catalog) Close() error {
	if catalog.Repo == nil {
		return nil
	}
	return catalog.Repo.Close()
}

// Reconcile checks every site counter against the launches table.
// Drift is logged at warn level. Without repair the *domain.AggregateDriftError is returned; with
// repair the counters are recomputed and the number of repaired sites returned.
func (catalog *Catalog) Reconcile(ctx context.Context, repair bool) (int, error) {
	err := catalog.Repo.CheckAggregates(ctx)
	if err == nil {
		return 0, nil
	}

	var drift *domain.AggregateDriftError
	if !errors.As(err, &drift) {
		return 0, fmt.Errorf("checking aggregates : %w", err)
	}
	catalog.Logger.Warnw("site counters disagree with launches", "sites", len(drift.Drifts), "repair", repair)
	if !repair {
		return 0, err
	}

	n, err := catalog.Repo.RepairAggregates(ctx)
	if err != nil {
		return 0, fmt.Errorf("repairing aggregates : %w", err)
	}
	catalog.Logger.Infow("repaired site counters", "sites", n)
	return n, nil
}

// RocketPage is one page of the rocket listing.
type RocketPage struct {
	Rockets    []*domain.Rocket
	Page       int   // Current page, starting at 1
	TotalPages int   // Zero when the catalog has no rockets
	Total      int   // Number of rockets across all pages
	Range      []int // Page numbers to render, see PaginationRange
}

// RocketsPage returns the given page of rockets ordered by first flight, Config.PageSize at a time.
func (catalog *Catalog) RocketsPage(ctx context.Context, page int) (*RocketPage, error) {
	if page < 1 {
		page = 1
	}

	rockets, total, err := catalog.Repo.ListRocketsPage(ctx, page, catalog.Config.PageSize)
	if err != nil {
		return nil, fmt.Errorf("listing rockets page %d : %w", page, err)
	}

	pages := PageCount(total, catalog.Config.PageSize)
	return &RocketPage{
		Rockets:    rockets,
		Page:       page,
		TotalPages: pages,
		Total:      total,
		Range:      PaginationRange(page, pages, DefaultPaginationDelta),
	}, nil
}
