package database

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect establishes a connection to the run-history database.
// The sqlite driver is the default and needs no external service; mysql
// is available for shared deployments.
func Connect(cfg Config) (*gorm.DB, error) {
	// Suppress GORM logging; the application logger owns output.
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	switch cfg.Driver {
	case "", "sqlite":
		db, err := gorm.Open(sqlite.Open(cfg.Path), gormConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database %s: %w", cfg.Path, err)
		}
		return db, nil

	case "mysql":
		return connectMySQL(cfg, gormConfig)

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func connectMySQL(cfg Config, gormConfig *gorm.Config) (*gorm.DB, error) {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}

	// Special characters in the password must be URL encoded in the DSN.
	userInfo := url.UserPassword(cfg.User, cfg.Password).String()

	dsn := fmt.Sprintf("%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local&timeout=%ds&readTimeout=%ds&writeTimeout=%ds",
		userInfo, cfg.Host, cfg.Port, cfg.Name, timeout, timeout, timeout)

	db, err := gorm.Open(mysql.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeout)*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
