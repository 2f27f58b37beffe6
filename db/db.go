// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/quickly-vote/cliparse"
)

// Driver names registered by lib/pq and modernc.org/sqlite
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

func init() {
	// sqlx only knows "sqlite3" out of the box
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// PoolConfig bounds the connection pool shared by all requests
type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// PoolConfigFrom extracts pool settings from the service config
func PoolConfigFrom(cfg cliparse.Config) PoolConfig {
	return PoolConfig{
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	}
}

// Open connects to the database, applies pool bounds and verifies the
// connection with a ping bounded by timeout.
func Open(ctx context.Context, dbType, url string, pool PoolConfig, timeout time.Duration) (*sqlx.DB, error) {
	driver, dsn, err := driverDSN(dbType, url)
	if err != nil {
		return nil, err
	}

	conn, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if pool.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(pool.MaxOpenConns)
	}
	if pool.MaxIdleConns > 0 {
		conn.SetMaxIdleConns(pool.MaxIdleConns)
	}
	if pool.ConnMaxLifetime > 0 {
		conn.SetConnMaxLifetime(pool.ConnMaxLifetime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return conn, nil
}

func driverDSN(dbType, url string) (string, string, error) {
	switch dbType {
	case "postgres":
		return DriverPostgres, url, nil
	case "sqlite":
		return DriverSQLite, SQLiteDSN(url), nil
	default:
		return "", "", fmt.Errorf("unsupported database type %q", dbType)
	}
}

// SQLiteDSN turns on foreign key enforcement and a busy timeout for every
// pooled connection and stores timestamps in sqlite's text format.
// sqlite leaves foreign keys off unless asked per connection.
func SQLiteDSN(url string) string {
	var pragmas []string
	if !strings.Contains(url, "foreign_keys") {
		pragmas = append(pragmas, "_pragma=foreign_keys(1)")
	}
	if !strings.Contains(url, "busy_timeout") {
		pragmas = append(pragmas, "_pragma=busy_timeout(5000)")
	}
	if !strings.Contains(url, "_time_format") {
		pragmas = append(pragmas, "_time_format=sqlite")
	}
	if len(pragmas) == 0 {
		return url
	}

	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	return url + sep + strings.Join(pragmas, "&")
}
