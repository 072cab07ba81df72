package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kdimtricp/vshazam-fixtures/internal/database"
)

type Config struct {
	Database  database.Config `yaml:"database"`
	Fixtures  Fixtures        `yaml:"fixtures"`
	Log       Log             `yaml:"log"`
	ReportDir string          `yaml:"report_dir"`
}

// Fixtures controls how much data a run synthesizes.
type Fixtures struct {
	Videos         int   `yaml:"videos"`
	FramesPerVideo int   `yaml:"frames_per_video"`
	EmbeddingDim   int   `yaml:"embedding_dim"`
	Seed           int64 `yaml:"seed"` // 0 seeds from the clock
	Purge          bool  `yaml:"purge"`
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text | json
}

// Default returns the endpoint and fixture sizes the harness has always
// targeted: a local SingleStore on 3306 and 5 videos x 10 frames.
func Default() Config {
	return Config{
		Database: database.Config{
			Type:           database.MySQL,
			Host:           "127.0.0.1",
			Port:           3306,
			User:           "root",
			Name:           "video_analysis",
			SQLitePath:     "./fixtures.db",
			ConnectTimeout: 30 * time.Second,
		},
		Fixtures: Fixtures{
			Videos:         5,
			FramesPerVideo: 10,
			EmbeddingDim:   384,
		},
		Log: Log{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads a YAML file on top of Default. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides database settings from the environment.
func (c *Config) ApplyEnv() error {
	if env := os.Getenv("DB_TYPE"); env != "" {
		c.Database.Type = env
	}
	if env := os.Getenv("DB_HOST"); env != "" {
		c.Database.Host = env
	}
	if env := os.Getenv("DB_PORT"); env != "" {
		port, err := strconv.Atoi(env)
		if err != nil {
			return fmt.Errorf("invalid DB_PORT: %w", err)
		}
		c.Database.Port = port
	}
	if env := os.Getenv("DB_USER"); env != "" {
		c.Database.User = env
	}
	if env := os.Getenv("DB_PASSWORD"); env != "" {
		c.Database.Password = env
	}
	if env := os.Getenv("DB_NAME"); env != "" {
		c.Database.Name = env
	}
	if env := os.Getenv("DB_PATH"); env != "" {
		c.Database.SQLitePath = env
	}
	return nil
}

func (c Config) Validate() error {
	switch c.Database.Type {
	case database.MySQL, database.Postgres:
		if c.Database.Port <= 0 {
			return fmt.Errorf("database port must be positive, got %d", c.Database.Port)
		}
	case database.SQLite:
		if c.Database.SQLitePath == "" {
			return fmt.Errorf("sqlite path is required")
		}
	default:
		return fmt.Errorf("unsupported database type: %s", c.Database.Type)
	}

	if c.Database.ConnectTimeout <= 0 {
		return fmt.Errorf("connect timeout must be positive, got %s", c.Database.ConnectTimeout)
	}

	if c.Fixtures.Videos < 0 || c.Fixtures.FramesPerVideo < 0 {
		return fmt.Errorf("fixture sizes must not be negative (videos=%d, frames=%d)",
			c.Fixtures.Videos, c.Fixtures.FramesPerVideo)
	}
	if c.Fixtures.EmbeddingDim <= 0 {
		return fmt.Errorf("embedding dimension must be positive, got %d", c.Fixtures.EmbeddingDim)
	}
	return nil
}
