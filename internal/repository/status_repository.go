package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-platform/internal/domain"
)

// StatusRepository reads the status directory.
type StatusRepository interface {
	GetByID(ctx context.Context, id string) (*domain.TicketStatus, error)
	GetBySlug(ctx context.Context, slug string) (*domain.TicketStatus, error)
	ListActive(ctx context.Context) ([]domain.TicketStatus, error)
}

type statusRepository struct {
	pool *pgxpool.Pool
}

// NewStatusRepository instantiates the repository.
func NewStatusRepository(pool *pgxpool.Pool) StatusRepository {
	return &statusRepository{pool: pool}
}

func (r *statusRepository) GetByID(ctx context.Context, id string) (*domain.TicketStatus, error) {
	const query = `
        SELECT id, slug, name, is_active, created_at, updated_at
        FROM ticket_statuses WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *statusRepository) GetBySlug(ctx context.Context, slug string) (*domain.TicketStatus, error) {
	const query = `
        SELECT id, slug, name, is_active, created_at, updated_at
        FROM ticket_statuses WHERE slug=$1`
	return r.fetchSingle(ctx, query, slug)
}

func (r *statusRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.TicketStatus, error) {
	var status domain.TicketStatus
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&status.ID,
		&status.Slug,
		&status.Name,
		&status.IsActive,
		&status.CreatedAt,
		&status.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &status, nil
}

func (r *statusRepository) ListActive(ctx context.Context) ([]domain.TicketStatus, error) {
	const query = `
        SELECT id, slug, name, is_active, created_at, updated_at
        FROM ticket_statuses WHERE is_active=TRUE ORDER BY slug ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketStatus
	for rows.Next() {
		var status domain.TicketStatus
		if err := rows.Scan(
			&status.ID,
			&status.Slug,
			&status.Name,
			&status.IsActive,
			&status.CreatedAt,
			&status.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, status)
	}
	return result, rows.Err()
}
