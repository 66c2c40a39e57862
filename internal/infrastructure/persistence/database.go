package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/setorcuan/backend/internal/infrastructure/config"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Database holds the database connection and provides methods for database operations
type Database struct {
	DB *gorm.DB
}

// NewDatabase connects to PostgreSQL with GORM's logger silenced
func NewDatabase(cfg *config.DatabaseConfig) (*Database, error) {
	return NewDatabaseWithLogger(cfg, gormlogger.Default.LogMode(gormlogger.Silent))
}

// NewDatabaseWithLogger connects to PostgreSQL using the given GORM logger
// (usually the zap-backed logger from the logger package).
func NewDatabaseWithLogger(cfg *config.DatabaseConfig, gl gormlogger.Interface) (*Database, error) {
	db, err := Open(postgres.Open(cfg.DSN()), gl)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// Open opens a GORM connection for any dialector with the settings every
// repository relies on. TranslateError turns driver unique violations into
// gorm.ErrDuplicatedKey.
func Open(dialector gorm.Dialector, gl gormlogger.Interface) (*Database, error) {
	if gl == nil {
		gl = gormlogger.Default.LogMode(gormlogger.Silent)
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 gl,
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	if err != nil {
		return nil, err
	}
	return &Database{DB: db}, nil
}

// TracingOptions controls the spans emitted for SQL statements
type TracingOptions struct {
	DBName string
	// IncludeVariables keeps bound values in db.statement; development only
	IncludeVariables bool
	// Provider defaults to the global tracer provider
	Provider trace.TracerProvider
}

// EnableTracing installs the otelgorm plugin so every statement becomes a
// child span of the request that issued it.
func EnableTracing(db *gorm.DB, opts TracingOptions) error {
	var pluginOpts []otelgorm.Option
	if opts.DBName != "" {
		pluginOpts = append(pluginOpts, otelgorm.WithDBName(opts.DBName))
	}
	if !opts.IncludeVariables {
		pluginOpts = append(pluginOpts, otelgorm.WithoutQueryVariables())
	}
	if opts.Provider != nil {
		pluginOpts = append(pluginOpts, otelgorm.WithTracerProvider(opts.Provider))
	}
	if err := db.Use(otelgorm.NewPlugin(pluginOpts...)); err != nil {
		return fmt.Errorf("failed to enable database tracing: %w", err)
	}
	return nil
}

// Close closes the database connection
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}

// Ping checks if the database connection is alive
func (d *Database) Ping() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Ping()
}

// PingGorm returns a health probe for db
func PingGorm(db *gorm.DB) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("failed to get underlying sql.DB: %w", err)
		}
		return sqlDB.PingContext(ctx)
	}
}

// Stats returns database connection pool statistics
func (d *Database) Stats() (ConnectionStats, error) {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return ConnectionStats{}, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	stats := sqlDB.Stats()
	return ConnectionStats{
		MaxOpenConnections: stats.MaxOpenConnections,
		OpenConnections:    stats.OpenConnections,
		InUse:              stats.InUse,
		Idle:               stats.Idle,
		WaitCount:          stats.WaitCount,
		WaitDuration:       stats.WaitDuration,
	}, nil
}

// ConnectionStats holds database connection pool statistics
type ConnectionStats struct {
	MaxOpenConnections int
	OpenConnections    int
	InUse              int
	Idle               int
	WaitCount          int64
	WaitDuration       time.Duration
}
