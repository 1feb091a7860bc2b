package database

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

// NewMigrate creates a migrate instance for the migrations in dir
func NewMigrate(dir, databaseURL string) (*migrate.Migrate, error) {
	path, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("error resolving migrations path: %w", err)
	}

	m, err := migrate.New("file://"+filepath.ToSlash(path), databaseURL)
	if err != nil {
		return nil, fmt.Errorf("error creating migrate instance: %w", err)
	}
	return m, nil
}

// RunMigrations runs all pending migrations
func (p *Postgres) RunMigrations() error {
	m, err := NewMigrate(p.migrationsPath, p.url)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("error running migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("error reading migration version: %w", err)
	}

	p.log.Info("Migrations completed successfully",
		zap.Uint("version", version),
		zap.Bool("dirty", dirty))
	return nil
}
