package db

import (
	"embed"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"github.com/tfkr-ae/rocketdb/metrics"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var embedMigrations embed.FS

// Supported database/sql driver names.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

// Repository provides a centralized structure for database operations, embedding the database connection.
// It acts as a receiver for methods that implement the repository interfaces defined in the domain package,
// and as a whole satisfies domain.CatalogStore.
type Repository struct {
	dbConn  *sqlx.DB           // dbConn is the active database connection pool.
	logger  *zap.SugaredLogger // logger receives one line per committed write and per rejected one.
	metrics *metrics.Registry  // metrics is optional; a nil registry records nothing.
}

// RepoOption configures a Repository.
type RepoOption func(repo *Repository)

// WithLogger sets the logger used by the repository.
func WithLogger(logger *zap.SugaredLogger) RepoOption {
	return func(repo *Repository) {
		repo.logger = logger
	}
}

// WithMetrics sets the Prometheus registry the repository reports to.
func WithMetrics(registry *metrics.Registry) RepoOption {
	return func(repo *Repository) {
		repo.metrics = registry
	}
}

// NewRepository initializes a new Repository with the given sqlx.DB database connection.
func NewRepository(db *sqlx.DB, options ...RepoOption) *Repository {
	repo := &Repository{
		dbConn: db,
		logger: zap.NewNop().Sugar(),
	}
	for _, option := range options {
		option(repo)
	}
	return repo
}

// Close terminates the database connection.
// It is critical to call this to free up database resources.
func (repo *Repository) Close() error {
	err := repo.dbConn.Close()
	if err != nil {
		return fmt.Errorf("closing repo : %w", err)
	}
	return nil
}

// Open connects to the database named by driver and dsn and applies all pending migrations.
// driver is either DriverSQLite or DriverPostgres ("postgres" is accepted as an alias).
func Open(driver, dsn string) (*sqlx.DB, error) {
	switch strings.ToLower(driver) {
	case DriverSQLite, "sqlite3":
		return New(dsn)
	case DriverPostgres, "postgres", "postgresql":
		return NewPostgres(dsn)
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}
}

// New establishes a new connection to a SQLite database file and applies all pending migrations.
// It configures the connection for data integrity by enabling WAL mode and foreign keys; the delete
// policy of the catalog depends on foreign keys being enforced.
//
// The `name` parameter should be the file path for the SQLite database.
//
// It returns a ready-to-use sqlx.DB connection pool or an error if the connection or migrations fail.
func New(name string) (*sqlx.DB, error) {
	dsn := fmt.Sprintf("%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", name)
	db, err := sqlx.Connect(DriverSQLite, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to db : %w", err)
	}

	db.SetMaxOpenConns(1)

	_, err = db.Exec("PRAGMA foreign_keys = ON;")
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	if err := migrate(db, goose.DialectSQLite3, "migrations/sqlite"); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// NewPostgres connects to a PostgreSQL server through the pgx driver and applies all pending migrations.
func NewPostgres(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Connect(DriverPostgres, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres : %w", err)
	}

	if err := migrate(db, goose.DialectPostgres, "migrations/postgres"); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func migrate(db *sqlx.DB, dialect goose.Dialect, dir string) error {
	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect(string(dialect)); err != nil {
		return fmt.Errorf("setting dialect for migrations : %w", err)
	}

	if err := goose.Up(db.DB, dir); err != nil {
		return fmt.Errorf("applying migration : %w", err)
	}
	return nil
}
