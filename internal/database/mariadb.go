// Package database provides connection setup for MariaDB and Redis.
// Connections are created once at startup and injected into the
// repositories and the session store. This package owns the connection
// lifecycle (open, configure pool, ping, close).
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	// MariaDB driver -- imported for side effect of registering the driver.
	_ "github.com/go-sql-driver/mysql"

	"github.com/keyxmakerx/storefront/internal/config"
)

// maxPingAttempts bounds how long startup waits for MariaDB.
const maxPingAttempts = 10

// NewMariaDB opens a MariaDB connection pool configured from cfg and pings
// it until it answers, backing off between attempts. ctx cancels the wait.
func NewMariaDB(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("opening mariadb connection: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := pingWithBackoff(ctx, db.PingContext, maxPingAttempts, time.Second); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// pingWithBackoff calls ping until it succeeds, doubling the delay between
// attempts up to 30 seconds. MariaDB may still be starting when the app
// container launches.
func pingWithBackoff(ctx context.Context, ping func(context.Context) error, attempts int, backoff time.Duration) error {
	var pingErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		pingErr = ping(pctx)
		cancel()

		if pingErr == nil {
			return nil
		}
		if attempt == attempts {
			break
		}

		slog.Warn("mariadb not ready, retrying",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", attempts),
			slog.Duration("backoff", backoff),
			slog.Any("error", pingErr),
		)

		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for mariadb: %w", ctx.Err())
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, 30*time.Second)
	}

	return fmt.Errorf("pinging mariadb after %d attempts: %w", attempts, pingErr)
}
