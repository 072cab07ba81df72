package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kdimtricp/vshazam-fixtures/internal/database"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, database.MySQL, cfg.Database.Type)
	assert.Equal(t, "127.0.0.1", cfg.Database.Host)
	assert.Equal(t, 3306, cfg.Database.Port)
	assert.Equal(t, "video_analysis", cfg.Database.Name)
	assert.Equal(t, 30*time.Second, cfg.Database.ConnectTimeout)
	assert.Equal(t, 5, cfg.Fixtures.Videos)
	assert.Equal(t, 10, cfg.Fixtures.FramesPerVideo)
	assert.Equal(t, 384, cfg.Fixtures.EmbeddingDim)
	assert.False(t, cfg.Fixtures.Purge)
	require.NoError(t, cfg.Validate())
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_OverlaysYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixtures.yaml")
	content := `
database:
  type: sqlite
  sqlite_path: /tmp/x.db
  connect_timeout: 5s
fixtures:
  videos: 2
  purge: true
log:
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, database.SQLite, cfg.Database.Type)
	assert.Equal(t, "/tmp/x.db", cfg.Database.SQLitePath)
	assert.Equal(t, 5*time.Second, cfg.Database.ConnectTimeout)
	assert.Equal(t, 2, cfg.Fixtures.Videos)
	assert.True(t, cfg.Fixtures.Purge)
	// untouched keys keep their defaults
	assert.Equal(t, 10, cfg.Fixtures.FramesPerVideo)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("fixtures: [not, a, map"), 0644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_ZeroConnectTimeoutFailsValidation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixtures.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database:\n  connect_timeout: 0s\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Zero(t, cfg.Database.ConnectTimeout)
	assert.ErrorContains(t, cfg.Validate(), "connect timeout")
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("DB_TYPE", "postgres")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_USER", "fixtures")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "frames")

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv())

	assert.Equal(t, database.Postgres, cfg.Database.Type)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, "fixtures", cfg.Database.User)
	assert.Equal(t, "secret", cfg.Database.Password)
	assert.Equal(t, "frames", cfg.Database.Name)
}

func TestApplyEnv_InvalidPort(t *testing.T) {
	t.Setenv("DB_PORT", "not-a-port")

	cfg := Default()
	require.Error(t, cfg.ApplyEnv())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"unknown driver", func(c *Config) { c.Database.Type = "oracle" }, true},
		{"zero port", func(c *Config) { c.Database.Port = 0 }, true},
		{"sqlite ignores port", func(c *Config) {
			c.Database.Type = database.SQLite
			c.Database.Port = 0
		}, false},
		{"sqlite without path", func(c *Config) {
			c.Database.Type = database.SQLite
			c.Database.SQLitePath = ""
		}, true},
		{"negative videos", func(c *Config) { c.Fixtures.Videos = -1 }, true},
		{"zero videos", func(c *Config) { c.Fixtures.Videos = 0 }, false},
		{"zero embedding", func(c *Config) { c.Fixtures.EmbeddingDim = 0 }, true},
		{"zero connect timeout", func(c *Config) { c.Database.ConnectTimeout = 0 }, true},
		{"negative connect timeout", func(c *Config) { c.Database.ConnectTimeout = -time.Second }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	log := NewLogger(Log{Level: "debug", Format: "json"}, &buf)
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, log.Formatter)

	log.Info("hello")
	assert.Contains(t, buf.String(), `"msg":"hello"`)

	log = NewLogger(Log{Level: "loud"}, &buf)
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, log.Formatter)
}
