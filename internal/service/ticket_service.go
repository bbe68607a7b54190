package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-platform/internal/domain"
	"github.com/spec-kit/helpdesk-platform/internal/events"
	"github.com/spec-kit/helpdesk-platform/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-platform/pkg/util"
)

// TicketCreateInput describes the ticket creation payload.
type TicketCreateInput struct {
	Title       string
	Description string
	CategoryID  string
	ClinicID    string
	Visibility  *domain.TicketVisibility
	Priority    *int
}

// TicketDependencies bundles collaborators for the factory.
type TicketDependencies struct {
	TicketRepo   repository.TicketRepository
	CategoryRepo repository.CategoryRepository
	CommentRepo  repository.CommentRepository
	SequenceRepo repository.SequenceRepository
	Access       *AccessService
	Triggers     *TriggerService
	Audit        *AuditService
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// TicketService is the intake factory: it authorizes the category, mints the
// ticket number, persists the record and hands it to the trigger engine.
type TicketService struct {
	tickets    repository.TicketRepository
	categories repository.CategoryRepository
	comments   repository.CommentRepository
	sequences  repository.SequenceRepository
	access     *AccessService
	triggers   *TriggerService
	audit      *AuditService
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewTicketService constructs the factory.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		categories: deps.CategoryRepo,
		comments:   deps.CommentRepo,
		sequences:  deps.SequenceRepo,
		access:     deps.Access,
		triggers:   deps.Triggers,
		audit:      deps.Audit,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// CreateTicket runs the intake pipeline. Validation and authorization
// failures abort before anything is persisted; a trigger failure after
// persistence is logged and never rolls the ticket back.
func (s *TicketService) CreateTicket(ctx context.Context, actor *domain.User, input TicketCreateInput) (*domain.Ticket, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("user required")
	}
	if len(actor.ClinicIDs) == 0 {
		return nil, apperrors.NewUnauthorized("no clinic assigned")
	}
	clinicID, err := s.resolveClinic(actor, input.ClinicID)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.NewValidationError("title required", nil)
	}

	category, err := s.categories.GetByID(ctx, input.CategoryID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("category", map[string]any{"category_id": input.CategoryID})
		}
		return nil, apperrors.MapError(err)
	}

	allowed, err := s.access.ResolveAccess(ctx, actor.ID, category)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !allowed {
		return nil, apperrors.NewAccessDenied("category not visible to user")
	}

	priority, err := resolvePriority(actor, input.Priority)
	if err != nil {
		return nil, err
	}

	number, err := s.sequences.Next(ctx, domain.SequenceTickets)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	visibility := domain.TicketVisibilityPublic
	if input.Visibility != nil {
		visibility = *input.Visibility
	}

	ticket := &domain.Ticket{
		TicketNumber:   number,
		Title:          title,
		Description:    strings.TrimSpace(input.Description),
		Status:         domain.StatusSlugOpen,
		CategoryID:     category.ID,
		ClinicID:       clinicID,
		CreatorID:      actor.ID,
		Visibility:     visibility,
		Priority:       priority,
		LastActivityAt: time.Now(),
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.audit.Record(ctx, "ticket", ticket.ID, "created", actor.ID, map[string]any{
		"ticket_number": ticket.TicketNumber,
		"category_id":   ticket.CategoryID,
		"clinic_id":     ticket.ClinicID,
		"priority":      ticket.Priority,
	})

	// Triggers run synchronously in the same logical operation. Their
	// failures are contained: the ticket stays persisted either way.
	if s.triggers != nil {
		if _, err := s.triggers.FireTriggers(ctx, ticket, category); err != nil {
			s.logger.Error("trigger firing failed",
				zap.String("ticket_id", ticket.ID),
				zap.Int64("ticket_number", ticket.TicketNumber),
				zap.Error(err))
		}
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		ActorID:  actor.ID,
		Payload: events.TicketCreatedPayload{
			TicketNumber: ticket.TicketNumber,
			ClinicID:     ticket.ClinicID,
			CategoryID:   ticket.CategoryID,
			Priority:     ticket.Priority,
			Title:        ticket.Title,
		},
	})
	return ticket, nil
}

// GetTicketForActor fetches a ticket plus its comment thread, ensuring the
// actor is the creator or holds the ticket-management capability.
func (s *TicketService) GetTicketForActor(ctx context.Context, actor *domain.User, ticketID string) (*domain.Ticket, []domain.TicketComment, error) {
	if actor == nil {
		return nil, nil, apperrors.NewUnauthorized("user required")
	}
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, nil, apperrors.MapError(err)
	}
	if ticket.CreatorID != actor.ID && !actor.Capabilities.Has(domain.CapabilityAssignTickets) {
		return nil, nil, apperrors.NewAccessDenied("access denied")
	}
	comments, err := s.comments.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}
	return ticket, comments, nil
}

// NudgeTicket lets the creator bump their ticket in the agent queue.
func (s *TicketService) NudgeTicket(ctx context.Context, actor *domain.User, ticketID string) (*domain.Ticket, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("user required")
	}
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	if ticket.CreatorID != actor.ID {
		return nil, apperrors.NewAccessDenied("only the creator can nudge")
	}
	now := time.Now()
	ticket.NudgeCount++
	ticket.LastNudgeAt = &now
	ticket.LastActivityAt = now
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketNudged,
		TicketID: ticket.ID,
		ActorID:  actor.ID,
		Payload:  events.TicketNudgedPayload{NudgeCount: ticket.NudgeCount},
	})
	return ticket, nil
}

func (s *TicketService) resolveClinic(actor *domain.User, requested string) (string, error) {
	if requested == "" {
		return actor.ClinicIDs[0], nil
	}
	for _, id := range actor.ClinicIDs {
		if id == requested {
			return id, nil
		}
	}
	return "", apperrors.NewAccessDenied("clinic not assigned to user")
}

// resolvePriority enforces the intentional asymmetry: out-of-range values are
// a hard validation failure for everyone, while in-range values from actors
// without the capability are silently pinned to the default.
func resolvePriority(actor *domain.User, requested *int) (int, error) {
	if requested == nil {
		return domain.PriorityDefault, nil
	}
	if !domain.ValidPriority(*requested) {
		return 0, apperrors.NewValidationError("priority out of range", map[string]any{"priority": *requested})
	}
	if !actor.Capabilities.Has(domain.CapabilitySetPriority) {
		return domain.PriorityDefault, nil
	}
	return *requested, nil
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
