package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-platform/internal/domain"
)

// TriggerRepository stores automation rules.
type TriggerRepository interface {
	Create(ctx context.Context, trigger *domain.Trigger) error
	// ListActiveByClinic returns active triggers in insertion order
	// (created_at, then id). This order is the firing contract: a later
	// trigger's action overwrites an earlier one's on the same field.
	ListActiveByClinic(ctx context.Context, clinicID string) ([]domain.Trigger, error)
}

type triggerRepository struct {
	pool *pgxpool.Pool
}

// NewTriggerRepository instantiates the repository.
func NewTriggerRepository(pool *pgxpool.Pool) TriggerRepository {
	return &triggerRepository{pool: pool}
}

func (r *triggerRepository) Create(ctx context.Context, trigger *domain.Trigger) error {
	const query = `
        INSERT INTO triggers (clinic_id, condition, action, society_ids, is_active)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		trigger.ClinicID,
		trigger.Condition,
		trigger.Action,
		trigger.SocietyIDs,
		trigger.IsActive,
	).Scan(&trigger.ID, &trigger.CreatedAt, &trigger.UpdatedAt)
}

func (r *triggerRepository) ListActiveByClinic(ctx context.Context, clinicID string) ([]domain.Trigger, error) {
	const query = `
        SELECT id, clinic_id, condition, action, society_ids, is_active, created_at, updated_at
        FROM triggers WHERE clinic_id=$1 AND is_active=TRUE
        ORDER BY created_at ASC, id ASC`
	rows, err := r.pool.Query(ctx, query, clinicID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Trigger
	for rows.Next() {
		var trigger domain.Trigger
		if err := rows.Scan(
			&trigger.ID,
			&trigger.ClinicID,
			&trigger.Condition,
			&trigger.Action,
			&trigger.SocietyIDs,
			&trigger.IsActive,
			&trigger.CreatedAt,
			&trigger.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, trigger)
	}
	return result, rows.Err()
}
