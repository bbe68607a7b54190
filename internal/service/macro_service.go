package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-platform/internal/domain"
	"github.com/spec-kit/helpdesk-platform/internal/events"
	"github.com/spec-kit/helpdesk-platform/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-platform/pkg/util"
)

// MacroResult reports one macro execution. Success stays true even when
// individual actions were skipped; Skipped carries the degradation detail so
// callers can assert on it.
type MacroResult struct {
	Success   bool            `json:"success"`
	MacroName string          `json:"macro_name"`
	Applied   []AppliedAction `json:"applied"`
	Skipped   []SkippedAction `json:"skipped"`
}

// MacroDependencies bundles collaborators for the engine.
type MacroDependencies struct {
	MacroRepo   repository.MacroRepository
	TicketRepo  repository.TicketRepository
	UserRepo    repository.UserRepository
	CommentRepo repository.CommentRepository
	Statuses    *StatusDirectory
	Audit       *AuditService
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// MacroService replays a pre-authored ordered action batch against one
// existing ticket on demand. Execution is best-effort per action, not atomic.
type MacroService struct {
	macros     repository.MacroRepository
	tickets    repository.TicketRepository
	users      repository.UserRepository
	comments   repository.CommentRepository
	statuses   *StatusDirectory
	audit      *AuditService
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewMacroService constructs the engine.
func NewMacroService(deps MacroDependencies) *MacroService {
	return &MacroService{
		macros:     deps.MacroRepo,
		tickets:    deps.TicketRepo,
		users:      deps.UserRepo,
		comments:   deps.CommentRepo,
		statuses:   deps.Statuses,
		audit:      deps.Audit,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// ExecuteMacro runs the macro's actions in list order against the ticket.
// Unresolvable references skip the single offending action and execution
// continues; the ticket's lastActivityAt is bumped once after all actions.
func (s *MacroService) ExecuteMacro(ctx context.Context, actor *domain.User, macroID, ticketID string) (*MacroResult, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("user required")
	}

	macro, err := s.macros.GetByID(ctx, macroID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("macro", map[string]any{"macro_id": macroID})
		}
		return nil, apperrors.MapError(err)
	}
	if !macro.IsActive {
		return nil, apperrors.NewConflict("macro inactive", map[string]any{"macro_id": macroID})
	}

	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}

	actions := append([]domain.MacroAction{}, macro.Actions...)
	sort.SliceStable(actions, func(i, j int) bool {
		return actions[i].Order < actions[j].Order
	})

	result := &MacroResult{Success: true, MacroName: macro.Name}
	for _, action := range actions {
		s.applyAction(ctx, actor, macro, ticket, action, result)
	}

	ticket.LastActivityAt = time.Now()
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.audit.Record(ctx, "ticket", ticket.ID, "macro_executed", actor.ID, map[string]any{
		"macro_id": macro.ID,
		"applied":  len(result.Applied),
		"skipped":  len(result.Skipped),
	})
	s.publish(ctx, events.Event{
		Type:     events.EventMacroExecuted,
		TicketID: ticket.ID,
		ActorID:  actor.ID,
		Payload: events.MacroExecutedPayload{
			MacroID:   macro.ID,
			MacroName: macro.Name,
			Applied:   len(result.Applied),
			Skipped:   len(result.Skipped),
		},
	})
	return result, nil
}

func (s *MacroService) applyAction(ctx context.Context, actor *domain.User, macro *domain.Macro, ticket *domain.Ticket, action domain.MacroAction, result *MacroResult) {
	switch action.Type {
	case domain.MacroActionAddComment:
		comment := &domain.TicketComment{
			TicketID: ticket.ID,
			AuthorID: actor.ID,
			Body:     action.Value,
		}
		if err := s.comments.Create(ctx, comment); err != nil {
			s.skip(macro, action, "comment write failed", result)
			return
		}
	case domain.MacroActionChangeStatus:
		status, err := s.statuses.Resolve(ctx, action.Value)
		if err != nil {
			s.skip(macro, action, "status reference unresolvable", result)
			return
		}
		ticket.Status = status.ID
	case domain.MacroActionAssignUser:
		user, err := s.users.GetByEmail(ctx, action.Value)
		if err != nil {
			s.skip(macro, action, "no user with email", result)
			return
		}
		ticket.AssigneeID = &user.ID
	default:
		s.skip(macro, action, "unknown action type", result)
		return
	}

	result.Applied = append(result.Applied, AppliedAction{Source: macro.ID, Action: string(action.Type), Value: action.Value})
}

func (s *MacroService) skip(macro *domain.Macro, action domain.MacroAction, reason string, result *MacroResult) {
	s.logger.Warn("macro action skipped",
		zap.String("macro_id", macro.ID),
		zap.String("action", string(action.Type)),
		zap.String("reason", reason))
	result.Skipped = append(result.Skipped, SkippedAction{Source: macro.ID, Action: string(action.Type), Reason: reason})
}

func (s *MacroService) publish(ctx context.Context, event events.Event) {
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
