package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-platform/internal/domain"
)

// CompetencyRepository stores agent category competencies.
type CompetencyRepository interface {
	Add(ctx context.Context, competency *domain.AgentCompetency) error
	ListCategoryIDsByUser(ctx context.Context, userID string) ([]string, error)
}

type competencyRepository struct {
	pool *pgxpool.Pool
}

// NewCompetencyRepository builds repository.
func NewCompetencyRepository(pool *pgxpool.Pool) CompetencyRepository {
	return &competencyRepository{pool: pool}
}

func (r *competencyRepository) Add(ctx context.Context, competency *domain.AgentCompetency) error {
	const query = `
        INSERT INTO agent_competencies (user_id, category_id)
        VALUES ($1,$2)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		competency.UserID,
		competency.CategoryID,
	).Scan(&competency.ID, &competency.CreatedAt)
}

func (r *competencyRepository) ListCategoryIDsByUser(ctx context.Context, userID string) ([]string, error) {
	const query = `SELECT category_id FROM agent_competencies WHERE user_id=$1`
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
