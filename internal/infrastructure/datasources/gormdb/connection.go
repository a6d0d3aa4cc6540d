package gormdb

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"assembly-directory.backend/internal/config"
	"assembly-directory.backend/internal/infrastructure/models"
)

var (
	sqlOpen = sql.Open
	dbPing  = func(db *sql.DB) error { return db.Ping() }
)

func gormConfig() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	}
}

// NewPostgres opens a lib/pq connection, pings it and wraps it with GORM
func NewPostgres(cfg config.DatabaseConfig) (*gorm.DB, error) {
	sqlDB, err := sqlOpen("postgres", cfg.URL())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := dbPing(sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), gormConfig())
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to init gorm: %w", err)
	}
	return db, nil
}

// NewSQLite opens a file (or in-memory DSN) sqlite database
func NewSQLite(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	return db, nil
}

// Open connects to the SQL store selected by cfg.Store.Driver
func Open(cfg *config.Config) (*gorm.DB, error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		return NewPostgres(cfg.Database)
	case config.DriverSQLite:
		return NewSQLite(cfg.Store.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", cfg.Store.Driver)
	}
}

// Migrate creates or updates the members and admins tables
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}
