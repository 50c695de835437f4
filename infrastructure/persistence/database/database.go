/*
Package database is the relational backend: connection setup for MySQL, PostgreSQL and SQLite,
schema migration, the generic GORM repository and the transactional unit of work.
*/
package database

import (
	"context"
	"fmt"
	"time"

	"storefront/config"
	"storefront/infrastructure/persistence/retry"
	"storefront/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	DefaultMaxOpenConns    = 25
	DefaultMaxIdleConns    = 10
	DefaultConnMaxLifetime = 10 * time.Minute
	DefaultConnMaxIdleTime = 5 * time.Minute
)

// Config is the connection configuration of one relational store.
type Config struct {
	Type            string // mysql, postgres, sqlite
	Host            string
	Port            string
	Username        string
	Password        string
	Database        string // database name, or file path for sqlite
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	LogLevel        string
	SlowThreshold   time.Duration
}

// FromAppConfig copies the database section of the application config.
func FromAppConfig(cfg config.DatabaseConfig) Config {
	return Config{
		Type:            cfg.Type,
		Host:            cfg.Host,
		Port:            cfg.Port,
		Username:        cfg.Username,
		Password:        cfg.Password,
		Database:        cfg.Database,
		SSLMode:         cfg.SSLMode,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.ConnMaxIdleTime,
		LogLevel:        cfg.LogLevel,
		SlowThreshold:   cfg.SlowThreshold,
	}
}

// DSN renders the driver specific connection string.
func (c *Config) DSN() string {
	switch c.Type {
	case "postgres":
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			c.Host, c.Port, c.Username, c.Password, c.Database, c.SSLMode)
	case "sqlite":
		if c.Database == "" || c.Database == ":memory:" {
			return "file::memory:?cache=shared&_foreign_keys=on"
		}
		return fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", c.Database)
	default:
		// clientFoundRows: an UPDATE reports matched rows, so re-saving unchanged values counts as written.
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&loc=Local&charset=utf8mb4&collation=utf8mb4_unicode_ci&clientFoundRows=true&readTimeout=10s&writeTimeout=10s",
			c.Username, c.Password, c.Host, c.Port, c.Database)
	}
}

func (c *Config) dialector() (gorm.Dialector, error) {
	switch c.Type {
	case "mysql":
		return mysql.Open(c.DSN()), nil
	case "postgres":
		return postgres.Open(c.DSN()), nil
	case "sqlite":
		return sqlite.Open(c.DSN()), nil
	default:
		return nil, fmt.Errorf("unsupported database type %q", c.Type)
	}
}

func (c *Config) applyDefaults() {
	if c.MaxOpenConns <= 0 {
		c.MaxOpenConns = DefaultMaxOpenConns
	}
	if c.MaxIdleConns <= 0 {
		c.MaxIdleConns = DefaultMaxIdleConns
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		c.MaxIdleConns = c.MaxOpenConns
	}
	if c.ConnMaxLifetime <= 0 {
		c.ConnMaxLifetime = DefaultConnMaxLifetime
	}
	if c.ConnMaxIdleTime <= 0 {
		c.ConnMaxIdleTime = DefaultConnMaxIdleTime
	}
	if c.Type == "sqlite" {
		// SQLite allows one writer at a time
		c.MaxOpenConns = 1
		c.MaxIdleConns = 1
	}
}

// GormConfig is shared by Open and the tests so that every connection logs through zap
// and reports driver errors as gorm.ErrDuplicatedKey / gorm.ErrForeignKeyViolated.
func GormConfig(logLevel string, slowThreshold time.Duration) *gorm.Config {
	loggerConfig := logger.DefaultGormLoggerConfig()
	if slowThreshold > 0 {
		loggerConfig.SlowThreshold = slowThreshold
	}
	return &gorm.Config{
		Logger:                 logger.NewGormLoggerAdapterWithConfig(logger.ParseGormLevel(logLevel), loggerConfig),
		TranslateError:         true,
		SkipDefaultTransaction: true,
	}
}

// Open connects and pings the database, retrying transient failures with backoff.
func Open(ctx context.Context, c Config, retryConfig retry.Config) (*gorm.DB, error) {
	c.applyDefaults()
	dialector, err := c.dialector()
	if err != nil {
		return nil, err
	}

	var db *gorm.DB
	attempt := 0
	err = retry.ExecuteWithRetry(ctx, retryConfig, func(ctx context.Context) error {
		attempt++
		conn, err := gorm.Open(dialector, GormConfig(c.LogLevel, c.SlowThreshold))
		if err != nil {
			logger.Warn("Database connection attempt failed", zap.Int("attempt", attempt), zap.Error(err))
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		sqlDB, err := conn.DB()
		if err != nil {
			return fmt.Errorf("failed to get underlying sql.DB: %w", err)
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			_ = sqlDB.Close()
			logger.Warn("Database ping failed", zap.Int("attempt", attempt), zap.Error(err))
			return fmt.Errorf("failed to ping database: %w", err)
		}
		db = conn
		return nil
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(c.MaxOpenConns)
	sqlDB.SetMaxIdleConns(c.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(c.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(c.ConnMaxIdleTime)

	logger.Info("Database connected",
		zap.String("type", c.Type),
		zap.String("host", c.Host),
		zap.String("database", c.Database),
		zap.Int("max_open_conns", c.MaxOpenConns),
		zap.Int("max_idle_conns", c.MaxIdleConns),
		zap.Duration("conn_max_lifetime", c.ConnMaxLifetime),
		zap.Int("attempts", attempt),
	)

	return db, nil
}

// Ping checks the connection; used by the readiness probe.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
