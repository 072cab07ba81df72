package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"path"

	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"
)

//go:embed migrations
var migrationsFS embed.FS

type Migrator struct {
	db     *sql.DB
	dbType string
	log    logrus.FieldLogger
}

func NewMigrator(db *sql.DB, dbType string, log logrus.FieldLogger) *Migrator {
	return &Migrator{
		db:     db,
		dbType: dbType,
		log:    log,
	}
}

// dialect maps a database type to its goose dialect, which is also the name
// of its migrations directory.
func (m *Migrator) dialect() (string, error) {
	switch m.dbType {
	case MySQL:
		return "mysql", nil
	case Postgres:
		return "postgres", nil
	case SQLite:
		return "sqlite3", nil
	}
	return "", fmt.Errorf("unsupported database type: %s", m.dbType)
}

// Run applies all pending migrations. Every migration creates its tables with
// IF NOT EXISTS, so running against a schema created by hand is a no-op.
func (m *Migrator) Run(ctx context.Context) error {
	dialect, err := m.prepare()
	if err != nil {
		return err
	}

	if err := goose.UpContext(ctx, m.db, path.Join("migrations", dialect)); err != nil {
		if errors.Is(err, goose.ErrNoNextVersion) {
			m.log.Debug("No migrations to apply")
			return nil
		}
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, err := m.Version(ctx)
	if err != nil {
		return err
	}
	m.log.WithField("version", version).Info("Schema ready")
	return nil
}

// Version returns the latest applied migration version.
func (m *Migrator) Version(ctx context.Context) (int64, error) {
	if _, err := m.prepare(); err != nil {
		return 0, err
	}
	version, err := goose.GetDBVersionContext(ctx, m.db)
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}

// goose keeps its settings in package state
func (m *Migrator) prepare() (string, error) {
	dialect, err := m.dialect()
	if err != nil {
		return "", err
	}
	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(m.log)
	if err := goose.SetDialect(dialect); err != nil {
		return "", fmt.Errorf("failed to set migration dialect: %w", err)
	}
	return dialect, nil
}

// EnsureSchema runs the migrations for db.
func (db *DB) EnsureSchema(ctx context.Context) error {
	return NewMigrator(db.conn, db.dbType, db.log).Run(ctx)
}
