package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// The schema is idempotent so startup is safe across instances. The
// unique index on (latitude, longitude) backs coordinate deduplication;
// the composite primary key on nearby_users makes membership inserts
// idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS locations (
		id UUID PRIMARY KEY,
		city TEXT NOT NULL,
		state TEXT NOT NULL,
		address TEXT,
		latitude DOUBLE PRECISION NOT NULL,
		longitude DOUBLE PRECISION NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		UNIQUE (latitude, longitude)
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		device_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		netid TEXT NOT NULL,
		grad_year INT NOT NULL,
		age INT NOT NULL,
		gender INT NOT NULL,
		sleep_time INT NOT NULL,
		cleanliness INT NOT NULL,
		bio TEXT NOT NULL,
		email TEXT,
		phone TEXT,
		location_id UUID NOT NULL REFERENCES locations(id),
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS nearby_users (
		location_id UUID NOT NULL REFERENCES locations(id) ON DELETE CASCADE,
		device_id TEXT NOT NULL REFERENCES users(device_id) ON DELETE CASCADE,
		linked_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (location_id, device_id)
	)`,
}

func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("applying schema: %w", err)
		}
	}
	return nil
}
