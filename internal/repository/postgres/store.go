package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/roomiehq/roomie/internal/repository"
)

// Querier is the subset of pgx shared by *pgxpool.Pool and pgx.Tx, so
// the same repositories run inside and outside a transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Store struct {
	pool *pgxpool.Pool
	q    Querier
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool, q: pool}
}

func (s *Store) Users() repository.UserRepository {
	return &UserRepo{q: s.q}
}

func (s *Store) Locations() repository.LocationRepository {
	return &LocationRepo{q: s.q}
}

func (s *Store) Nearby() repository.NearbyRepository {
	return &NearbyRepo{q: s.q}
}

func (s *Store) InTx(ctx context.Context, fn func(repository.Store) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(&Store{pool: s.pool, q: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
