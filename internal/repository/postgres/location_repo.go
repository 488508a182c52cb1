package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/roomiehq/roomie/internal/domain"
)

type LocationRepo struct {
	q Querier
}

const locationColumns = `id, city, state, address, latitude, longitude, created_at`

func (r *LocationRepo) Create(ctx context.Context, loc *domain.Location) (*domain.Location, bool, error) {
	// The unique index on (latitude, longitude) serializes concurrent
	// registrations that geocode to the same coordinate; the loser
	// re-reads the winner's row.
	query := `
		INSERT INTO locations (id, city, state, address, latitude, longitude, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (latitude, longitude) DO NOTHING
		RETURNING ` + locationColumns

	created, err := scanLocation(r.q.QueryRow(ctx, query,
		loc.ID, loc.City, loc.State, loc.Address, loc.Latitude, loc.Longitude, loc.CreatedAt,
	))
	if err == nil {
		return created, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, err
	}

	existing, err := r.GetByCoordinate(ctx, loc.Latitude, loc.Longitude)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (r *LocationRepo) GetByCoordinate(ctx context.Context, lat, lon float64) (*domain.Location, error) {
	row := r.q.QueryRow(ctx,
		`SELECT `+locationColumns+` FROM locations WHERE latitude = $1 AND longitude = $2`, lat, lon)
	loc, err := scanLocation(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return loc, nil
}

func (r *LocationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Location, error) {
	row := r.q.QueryRow(ctx, `SELECT `+locationColumns+` FROM locations WHERE id = $1`, id)
	loc, err := scanLocation(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return loc, nil
}

func (r *LocationRepo) List(ctx context.Context) ([]domain.Location, error) {
	rows, err := r.q.Query(ctx, `SELECT `+locationColumns+` FROM locations ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var locs []domain.Location
	for rows.Next() {
		loc, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		locs = append(locs, *loc)
	}
	return locs, rows.Err()
}

func scanLocation(row pgx.Row) (*domain.Location, error) {
	var loc domain.Location
	err := row.Scan(&loc.ID, &loc.City, &loc.State, &loc.Address,
		&loc.Latitude, &loc.Longitude, &loc.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &loc, nil
}
