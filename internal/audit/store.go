// Package audit is an append-only record of terminal CC outcomes, kept
// for operator history and billing reconciliation. It is never consulted
// to rebuild FSM state: the record pool always starts empty on restart,
// regardless of what this store holds.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"github.com/golang-migrate/migrate/v4"
	migratepostgres "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/tormodfh/pricc/internal/audit/migrations"
)

// Driver selects the audit store's backing database.
type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// Store is the GORM-backed audit log.
type Store struct {
	db *gorm.DB
}

// Open connects to the configured backend and brings the schema up to
// date: sqlite uses GORM's AutoMigrate, postgres runs the embedded
// golang-migrate migrations so schema changes are reviewable and
// reversible in a multi-instance deployment.
func Open(ctx context.Context, driver Driver, dsn string) (*Store, error) {
	var dialector gorm.Dialector

	switch driver {
	case DriverSQLite:
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, fmt.Errorf("audit: create sqlite directory: %w", err)
		}
		dialector = sqlite.Open(dsn + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("audit: unsupported driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("audit: connect: %w", err)
	}

	switch driver {
	case DriverSQLite:
		if err := db.WithContext(ctx).AutoMigrate(&Outcome{}); err != nil {
			return nil, fmt.Errorf("audit: automigrate: %w", err)
		}
	case DriverPostgres:
		if err := runPostgresMigrations(dsn); err != nil {
			return nil, fmt.Errorf("audit: migrate: %w", err)
		}
	}

	return &Store{db: db}, nil
}

func runPostgresMigrations(dsn string) error {
	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open connection: %w", err)
	}
	defer sqlDB.Close()

	driver, err := migratepostgres.WithInstance(sqlDB, &migratepostgres.Config{
		MigrationsTable: "audit_schema_migrations",
		DatabaseName:    "pricc_audit",
	})
	if err != nil {
		return fmt.Errorf("postgres driver: %w", err)
	}

	source, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// Record appends one terminal CC outcome.
func (s *Store) Record(ctx context.Context, o Outcome) error {
	return s.db.WithContext(ctx).Create(&o).Error
}

// ListByChannel returns the most recent outcomes for a channel, newest
// first.
func (s *Store) ListByChannel(ctx context.Context, channelID string, limit int) ([]Outcome, error) {
	var out []Outcome
	err := s.db.WithContext(ctx).
		Where("channel_id = ?", channelID).
		Order("closed_at DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

// Close releases the underlying database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
