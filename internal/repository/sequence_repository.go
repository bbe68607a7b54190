package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SequenceRepository allocates values from named global counters. Ticket
// numbers are user-facing identifiers; an allocation must never collide even
// under concurrent creation, so Next has to be atomic per counter row.
type SequenceRepository interface {
	Next(ctx context.Context, name string) (int64, error)
}

type sequenceRepository struct {
	pool *pgxpool.Pool
}

// NewSequenceRepository instantiates the repository.
func NewSequenceRepository(pool *pgxpool.Pool) SequenceRepository {
	return &sequenceRepository{pool: pool}
}

// Next increments the counter and returns the new value. The upsert is a
// single statement, so concurrent allocations serialize on the row and the
// returned values are unique and strictly increasing.
func (r *sequenceRepository) Next(ctx context.Context, name string) (int64, error) {
	const query = `
        INSERT INTO sequence_counters (name, current_value) VALUES ($1, 1)
        ON CONFLICT (name) DO UPDATE
            SET current_value = sequence_counters.current_value + 1, updated_at = NOW()
        RETURNING current_value`
	var value int64
	if err := r.pool.QueryRow(ctx, query, name).Scan(&value); err != nil {
		return 0, err
	}
	return value, nil
}
