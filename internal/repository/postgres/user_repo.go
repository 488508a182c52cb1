package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/roomiehq/roomie/internal/domain"
)

type UserRepo struct {
	q Querier
}

const userColumns = `u.device_id, u.name, u.netid, u.grad_year, u.age, u.gender,
	u.sleep_time, u.cleanliness, u.bio, u.email, u.phone, u.location_id, u.created_at,
	l.id, l.city, l.state, l.address, l.latitude, l.longitude, l.created_at`

const userJoin = `FROM users u JOIN locations l ON u.location_id = l.id`

func (r *UserRepo) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (device_id, name, netid, grad_year, age, gender,
			sleep_time, cleanliness, bio, email, phone, location_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.q.Exec(ctx, query,
		user.DeviceID, user.Name, user.NetID, user.GradYear, user.Age, user.Gender,
		user.SleepTime, user.Cleanliness, user.Bio, user.Email, user.Phone,
		user.LocationID, user.CreatedAt,
	)
	return err
}

func (r *UserRepo) GetByDeviceID(ctx context.Context, deviceID string) (*domain.User, error) {
	row := r.q.QueryRow(ctx, `SELECT `+userColumns+` `+userJoin+` WHERE u.device_id = $1`, deviceID)
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.q.Query(ctx, `SELECT `+userColumns+` `+userJoin+` ORDER BY u.created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUsers(rows)
}

func (r *UserRepo) Delete(ctx context.Context, deviceID string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM users WHERE device_id = $1`, deviceID)
	return err
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		u   domain.User
		loc domain.Location
	)
	err := row.Scan(
		&u.DeviceID, &u.Name, &u.NetID, &u.GradYear, &u.Age, &u.Gender,
		&u.SleepTime, &u.Cleanliness, &u.Bio, &u.Email, &u.Phone,
		&u.LocationID, &u.CreatedAt,
		&loc.ID, &loc.City, &loc.State, &loc.Address, &loc.Latitude,
		&loc.Longitude, &loc.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	u.Location = &loc
	return &u, nil
}

func collectUsers(rows pgx.Rows) ([]domain.User, error) {
	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}
