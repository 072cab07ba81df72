package database

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mysql"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"github.com/kdimtricp/vshazam-fixtures/internal/fixtures"
	"github.com/kdimtricp/vshazam-fixtures/internal/models"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func sqliteConfig(t *testing.T) Config {
	t.Helper()
	return Config{
		Type:           SQLite,
		SQLitePath:     filepath.Join(t.TempDir(), "test.db"),
		ConnectTimeout: 5 * time.Second,
	}
}

// setupTestDB opens a fresh SQLite database with the schema applied.
func setupTestDB(t *testing.T) *DB {
	t.Helper()
	return openWithSchema(t, sqliteConfig(t))
}

func openWithSchema(t *testing.T, config Config) *DB {
	t.Helper()
	ctx := context.Background()

	db, err := NewDB(ctx, config, quietLogger())
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.EnsureSchema(ctx); err != nil {
		t.Fatalf("Failed to apply schema: %v", err)
	}
	return db
}

// setupPostgresDB starts a throwaway PostgreSQL container. Tests using it are
// skipped when no container runtime is reachable.
func setupPostgresDB(t *testing.T) *DB {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("fixtures_test"),
		postgres.WithUsername("fixtures_test"),
		postgres.WithPassword("fixtures_test_password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	host, err := pgContainer.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := pgContainer.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	return openWithSchema(t, Config{
		Type:           Postgres,
		Host:           host,
		Port:           port.Int(),
		User:           "fixtures_test",
		Password:       "fixtures_test_password",
		Name:           "fixtures_test",
		ConnectTimeout: 30 * time.Second,
	})
}

// setupMySQLDB starts a throwaway MySQL container. The harness talks to
// SingleStore over the same wire protocol and schema.
func setupMySQLDB(t *testing.T) *DB {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)
	ctx := context.Background()

	myContainer, err := mysql.Run(ctx,
		"mysql:8.0.36",
		mysql.WithDatabase("fixtures_test"),
		mysql.WithUsername("fixtures_test"),
		mysql.WithPassword("fixtures_test_password"),
	)
	if err != nil {
		t.Fatalf("Failed to start MySQL container: %v", err)
	}
	t.Cleanup(func() {
		if err := myContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	host, err := myContainer.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := myContainer.MappedPort(ctx, "3306/tcp")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	return openWithSchema(t, Config{
		Type:           MySQL,
		Host:           host,
		Port:           port.Int(),
		User:           "fixtures_test",
		Password:       "fixtures_test_password",
		Name:           "fixtures_test",
		ConnectTimeout: 30 * time.Second,
	})
}

// insertFixtures writes n videos with f frames each in one transaction.
func insertFixtures(t *testing.T, db *DB, n, f int) []models.Video {
	t.Helper()
	ctx := context.Background()
	gen := fixtures.NewGenerator(0, 384)

	var videos []models.Video
	for v := range gen.Videos(n) {
		videos = append(videos, v)
	}

	videoRepo := NewVideoRepository(db)
	frameRepo := NewFrameRepository(db)
	err := db.Transaction(ctx, func(tx *gorm.DB) error {
		if err := videoRepo.InsertVideos(ctx, tx, videos); err != nil {
			return err
		}
		for _, v := range videos {
			var frames []models.Frame
			for fr := range gen.Frames(v.ID, f) {
				frames = append(frames, fr)
			}
			if err := frameRepo.InsertFrames(ctx, tx, frames); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Failed to insert fixtures: %v", err)
	}
	return videos
}

func countRows(t *testing.T, db *DB, table string) int64 {
	t.Helper()
	var n int64
	if err := db.Conn().QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("Failed to count %s: %v", table, err)
	}
	return n
}
