package database

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
	gormmysql "gorm.io/driver/mysql"
	gormpostgres "gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Supported database types.
const (
	MySQL    = "mysql" // also SingleStore
	Postgres = "postgres"
	SQLite   = "sqlite"
)

type Config struct {
	Type           string        `yaml:"type"`
	Host           string        `yaml:"host"`
	Port           int           `yaml:"port"`
	User           string        `yaml:"user"`
	Password       string        `yaml:"password"`
	Name           string        `yaml:"name"`
	SQLitePath     string        `yaml:"sqlite_path"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
}

// Endpoint describes where the config points, without credentials.
func (c Config) Endpoint() string {
	if c.Type == SQLite {
		return c.SQLitePath
	}
	return fmt.Sprintf("%s@%s/%s", c.User, net.JoinHostPort(c.Host, strconv.Itoa(c.Port)), c.Name)
}

type DB struct {
	conn   *sql.DB
	orm    *gorm.DB
	dbType string
	log    logrus.FieldLogger
}

// NewDB opens and pings the configured database. The ping is bounded by
// config.ConnectTimeout when it is set.
func NewDB(ctx context.Context, config Config, log logrus.FieldLogger) (*DB, error) {
	var conn *sql.DB
	var dialector gorm.Dialector
	var err error

	switch config.Type {
	case SQLite:
		dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=%d",
			config.SQLitePath, config.ConnectTimeout.Milliseconds())
		conn, err = sql.Open("sqlite3", dsn)
		if err == nil {
			dialector = &gormsqlite.Dialector{Conn: conn}
		}
	case Postgres:
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable connect_timeout=%d",
			config.Host, config.Port, config.User, config.Password, config.Name, int(config.ConnectTimeout.Seconds()))
		conn, err = sql.Open("pgx", dsn)
		if err == nil {
			dialector = gormpostgres.New(gormpostgres.Config{Conn: conn})
		}
	case MySQL:
		conn, err = sql.Open("mysql", mysqlDSN(config))
		if err == nil {
			dialector = gormmysql.New(gormmysql.Config{Conn: conn, SkipInitializeWithVersion: true})
		}
	default:
		return nil, fmt.Errorf("unsupported database type: %s", config.Type)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// the harness is the only client
	conn.SetMaxOpenConns(1)

	pingCtx := ctx
	if config.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, config.ConnectTimeout)
		defer cancel()
	}
	if err := conn.PingContext(pingCtx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	orm, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	return &DB{conn: conn, orm: orm, dbType: config.Type, log: log}, nil
}

func mysqlDSN(config Config) string {
	cfg := mysql.NewConfig()
	cfg.User = config.User
	cfg.Passwd = config.Password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(config.Host, strconv.Itoa(config.Port))
	cfg.DBName = config.Name
	cfg.Timeout = config.ConnectTimeout
	cfg.ParseTime = true
	return cfg.FormatDSN()
}

// Transaction runs fn in a single transaction. Any error from fn rolls the
// whole transaction back.
func (db *DB) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return db.orm.WithContext(ctx).Transaction(fn)
}

// Purge removes every frame and video in one transaction.
func (db *DB) Purge(ctx context.Context) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"frames", "videos"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to delete from %s: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit purge: %w", err)
	}
	return nil
}

// Close releases the connection. It is safe on a nil DB and safe to repeat.
func (db *DB) Close() error {
	if db == nil || db.conn == nil {
		return nil
	}
	err := db.conn.Close()
	db.conn = nil
	db.orm = nil
	return err
}

func (db *DB) Conn() *sql.DB {
	return db.conn
}

func (db *DB) GORM() *gorm.DB {
	return db.orm
}
