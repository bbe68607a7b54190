package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-platform/internal/domain"
)

// MacroRepository stores pre-authored action batches.
type MacroRepository interface {
	Create(ctx context.Context, macro *domain.Macro) error
	GetByID(ctx context.Context, id string) (*domain.Macro, error)
	ListActiveByClinic(ctx context.Context, clinicID string) ([]domain.Macro, error)
}

type macroRepository struct {
	pool *pgxpool.Pool
}

// NewMacroRepository instantiates the repository.
func NewMacroRepository(pool *pgxpool.Pool) MacroRepository {
	return &macroRepository{pool: pool}
}

func (r *macroRepository) Create(ctx context.Context, macro *domain.Macro) error {
	const query = `
        INSERT INTO macros (clinic_id, name, category, actions, is_active)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		macro.ClinicID,
		macro.Name,
		macro.Category,
		macro.Actions,
		macro.IsActive,
	).Scan(&macro.ID, &macro.CreatedAt, &macro.UpdatedAt)
}

func (r *macroRepository) GetByID(ctx context.Context, id string) (*domain.Macro, error) {
	const query = `
        SELECT id, clinic_id, name, category, actions, is_active, created_at, updated_at
        FROM macros WHERE id=$1`
	var macro domain.Macro
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&macro.ID,
		&macro.ClinicID,
		&macro.Name,
		&macro.Category,
		&macro.Actions,
		&macro.IsActive,
		&macro.CreatedAt,
		&macro.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &macro, nil
}

func (r *macroRepository) ListActiveByClinic(ctx context.Context, clinicID string) ([]domain.Macro, error) {
	const query = `
        SELECT id, clinic_id, name, category, actions, is_active, created_at, updated_at
        FROM macros WHERE clinic_id=$1 AND is_active=TRUE
        ORDER BY name ASC`
	rows, err := r.pool.Query(ctx, query, clinicID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Macro
	for rows.Next() {
		var macro domain.Macro
		if err := rows.Scan(
			&macro.ID,
			&macro.ClinicID,
			&macro.Name,
			&macro.Category,
			&macro.Actions,
			&macro.IsActive,
			&macro.CreatedAt,
			&macro.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, macro)
	}
	return result, rows.Err()
}
