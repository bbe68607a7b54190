package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-platform/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title       string                   `json:"title"`
	Description string                   `json:"description"`
	CategoryID  string                   `json:"category_id"`
	ClinicID    string                   `json:"clinic_id"`
	Visibility  *domain.TicketVisibility `json:"visibility"`
	Priority    *int                     `json:"priority"`
}

// TicketSummary response.
type TicketSummary struct {
	ID           string                  `json:"id"`
	TicketNumber int64                   `json:"ticket_number"`
	Title        string                  `json:"title"`
	Status       string                  `json:"status"`
	CategoryID   string                  `json:"category_id"`
	ClinicID     string                  `json:"clinic_id"`
	AssigneeID   *string                 `json:"assignee_id"`
	Visibility   domain.TicketVisibility `json:"visibility"`
	Priority     int                     `json:"priority"`
	NudgeCount   int                     `json:"nudge_count"`
	CreatedAt    time.Time               `json:"created_at"`
	UpdatedAt    time.Time               `json:"updated_at"`
}

// TicketDetailResponse provides full ticket info.
type TicketDetailResponse struct {
	TicketSummary
	Description    string            `json:"description"`
	CreatorID      string            `json:"creator_id"`
	LastActivityAt time.Time         `json:"last_activity_at"`
	LastNudgeAt    *time.Time        `json:"last_nudge_at"`
	Comments       []CommentResponse `json:"comments"`
}

// CommentResponse represents a thread comment.
type CommentResponse struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}
