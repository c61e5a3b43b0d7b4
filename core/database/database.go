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

// Connect opens the snapshot database and pings it within the configured
// timeout. The database is optional; callers log the error and run without
// snapshot history.
func Connect(cfg Config) (*gorm.DB, error) {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	dialector, err := dialect(cfg, timeout)
	if err != nil {
		return nil, err
	}

	// gorm stays silent; failures surface as returned errors
	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Driver, err)
	}

	pool, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get connection pool: %w", err)
	}
	tune(cfg.Driver, pool.SetMaxOpenConns, pool.SetMaxIdleConns, pool.SetConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := pool.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to reach %s database: %w", cfg.Driver, err)
	}
	return db, nil
}

// tune sizes the pool. A sqlite ":memory:" database exists per connection,
// so sqlite is pinned to one.
func tune(driver string, maxOpen, maxIdle func(int), lifetime func(time.Duration)) {
	if driver == "sqlite" {
		maxOpen(1)
		return
	}
	maxOpen(32)
	maxIdle(4)
	lifetime(30 * time.Minute)
}

func dialect(cfg Config, timeout time.Duration) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "sqlite":
		return sqlite.Open(cfg.Name), nil
	case "mysql", "":
		secs := int(timeout / time.Second)
		query := url.Values{}
		query.Set("charset", "utf8mb4")
		query.Set("parseTime", "true")
		query.Set("timeout", fmt.Sprintf("%ds", secs))
		query.Set("readTimeout", fmt.Sprintf("%ds", secs))
		query.Set("writeTimeout", fmt.Sprintf("%ds", secs))
		dsn := fmt.Sprintf("%s@tcp(%s:%d)/%s?%s",
			url.UserPassword(cfg.User, cfg.Password).String(), cfg.Host, cfg.Port, cfg.Name, query.Encode())
		return mysql.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
