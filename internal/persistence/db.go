// Package persistence owns the database/sql handle lifecycle.
package persistence

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	"github.com/trustedlogin/go-vendor/internal/config"

	// Import postgres driver for database/sql package
	_ "github.com/lib/pq"
)

const pingTimeout = 5 * time.Second

// NewDB opens a PostgreSQL connection pool and verifies connectivity.
func NewDB(cfg config.Database) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.ConnectionString())
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database connection")
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to ping database")
	}

	return db, nil
}
