package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/roomiehq/roomie/internal/domain"
)

type NearbyRepo struct {
	q Querier
}

func (r *NearbyRepo) Link(ctx context.Context, locationID uuid.UUID, deviceID string) error {
	query := `
		INSERT INTO nearby_users (location_id, device_id, linked_at)
		VALUES ($1, $2, now())
		ON CONFLICT (location_id, device_id) DO NOTHING`
	_, err := r.q.Exec(ctx, query, locationID, deviceID)
	return err
}

func (r *NearbyRepo) ListUsers(ctx context.Context, locationID uuid.UUID) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` ` + userJoin + `
		JOIN nearby_users n ON n.device_id = u.device_id
		WHERE n.location_id = $1
		ORDER BY n.linked_at`

	rows, err := r.q.Query(ctx, query, locationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUsers(rows)
}

func (r *NearbyRepo) RemoveUser(ctx context.Context, deviceID string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM nearby_users WHERE device_id = $1`, deviceID)
	return err
}
