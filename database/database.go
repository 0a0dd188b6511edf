package database

import (
	"context"

	"github.com/jmoiron/sqlx"

	"schoolManager/config"
)

// OpenDB opens the pool and probes it once. A failed probe still
// returns the handle so the caller can run in degraded mode and let
// the pool reconnect when the server comes back.
func OpenDB(cfg *config.DatabaseConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", cfg.URI)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return db, err
	}

	return db, nil
}
