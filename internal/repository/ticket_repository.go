package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-platform/internal/domain"
)

// TicketRepository encapsulates ticket persistence. Tickets are never
// hard-deleted.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	GetByNumber(ctx context.Context, number int64) (*domain.Ticket, error)
	ListByClinics(ctx context.Context, clinicIDs []string) ([]domain.Ticket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, ticket_number, title, description, status, category_id, clinic_id, creator_id,
               assignee_id, visibility, priority, last_activity_at, nudge_count, last_nudge_at, created_at, updated_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (ticket_number, title, description, status, category_id, clinic_id, creator_id,
            assignee_id, visibility, priority, last_activity_at, nudge_count, last_nudge_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.TicketNumber,
		ticket.Title,
		ticket.Description,
		ticket.Status,
		ticket.CategoryID,
		ticket.ClinicID,
		ticket.CreatorID,
		ticket.AssigneeID,
		ticket.Visibility,
		ticket.Priority,
		ticket.LastActivityAt,
		ticket.NudgeCount,
		ticket.LastNudgeAt,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET title=$1, description=$2, status=$3, category_id=$4, assignee_id=$5,
            visibility=$6, priority=$7, last_activity_at=$8, nudge_count=$9, last_nudge_at=$10, updated_at=NOW()
        WHERE id=$11`
	cmd, err := r.pool.Exec(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.Status,
		ticket.CategoryID,
		ticket.AssigneeID,
		ticket.Visibility,
		ticket.Priority,
		ticket.LastActivityAt,
		ticket.NudgeCount,
		ticket.LastNudgeAt,
		ticket.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *ticketRepository) GetByNumber(ctx context.Context, number int64) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE ticket_number=$1`
	return r.fetchSingle(ctx, query, number)
}

func (r *ticketRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&ticket.ID,
		&ticket.TicketNumber,
		&ticket.Title,
		&ticket.Description,
		&ticket.Status,
		&ticket.CategoryID,
		&ticket.ClinicID,
		&ticket.CreatorID,
		&ticket.AssigneeID,
		&ticket.Visibility,
		&ticket.Priority,
		&ticket.LastActivityAt,
		&ticket.NudgeCount,
		&ticket.LastNudgeAt,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

// ListByClinics returns every ticket belonging to the given clinics, most
// recent first. The competency filter projects its working set from this.
func (r *ticketRepository) ListByClinics(ctx context.Context, clinicIDs []string) ([]domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE clinic_id = ANY($1) ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, clinicIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.TicketNumber,
			&ticket.Title,
			&ticket.Description,
			&ticket.Status,
			&ticket.CategoryID,
			&ticket.ClinicID,
			&ticket.CreatorID,
			&ticket.AssigneeID,
			&ticket.Visibility,
			&ticket.Priority,
			&ticket.LastActivityAt,
			&ticket.NudgeCount,
			&ticket.LastNudgeAt,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
