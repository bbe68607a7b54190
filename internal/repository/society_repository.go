package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-platform/internal/domain"
)

// SocietyRepository provides society and membership lookups.
type SocietyRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Society, error)
	ListActiveMembershipIDs(ctx context.Context, userID string) ([]string, error)
	AddMembership(ctx context.Context, membership *domain.SocietyMembership) error
}

type societyRepository struct {
	pool *pgxpool.Pool
}

// NewSocietyRepository instantiates the repository.
func NewSocietyRepository(pool *pgxpool.Pool) SocietyRepository {
	return &societyRepository{pool: pool}
}

func (r *societyRepository) GetByID(ctx context.Context, id string) (*domain.Society, error) {
	const query = `
        SELECT id, code, name, is_active, created_at, updated_at
        FROM societies WHERE id=$1`
	var society domain.Society
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&society.ID,
		&society.Code,
		&society.Name,
		&society.IsActive,
		&society.CreatedAt,
		&society.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &society, nil
}

// ListActiveMembershipIDs returns the society ids of the user's active
// memberships. This feeds the category access resolver.
func (r *societyRepository) ListActiveMembershipIDs(ctx context.Context, userID string) ([]string, error) {
	const query = `
        SELECT society_id FROM society_memberships
        WHERE user_id=$1 AND is_active=TRUE`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *societyRepository) AddMembership(ctx context.Context, membership *domain.SocietyMembership) error {
	const query = `
        INSERT INTO society_memberships (user_id, society_id, is_active)
        VALUES ($1,$2,$3)
        RETURNING id, assigned_at`
	return r.pool.QueryRow(ctx, query,
		membership.UserID,
		membership.SocietyID,
		membership.IsActive,
	).Scan(&membership.ID, &membership.AssignedAt)
}
