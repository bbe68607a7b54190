package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-platform/internal/domain"
	"github.com/spec-kit/helpdesk-platform/internal/events"
	"github.com/spec-kit/helpdesk-platform/internal/repository"
)

// AppliedAction records one automation action that took effect.
type AppliedAction struct {
	Source string `json:"source"`
	Action string `json:"action"`
	Value  string `json:"value"`
}

// SkippedAction records one automation action that was contained instead of
// applied, with the reason. Skips never fail the enclosing operation.
type SkippedAction struct {
	Source string `json:"source"`
	Action string `json:"action"`
	Reason string `json:"reason"`
}

// FireReport is the structured outcome of one trigger-firing pass.
type FireReport struct {
	Applied []AppliedAction `json:"applied"`
	Skipped []SkippedAction `json:"skipped"`
}

// TriggerDependencies bundles collaborators for the engine.
type TriggerDependencies struct {
	TriggerRepo repository.TriggerRepository
	TicketRepo  repository.TicketRepository
	UserRepo    repository.UserRepository
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// TriggerService evaluates a clinic's active rules against a freshly created
// ticket and applies the matching actions. Each trigger fires at most once
// per creation event and is never re-evaluated later.
type TriggerService struct {
	triggers   repository.TriggerRepository
	tickets    repository.TicketRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewTriggerService constructs the engine.
func NewTriggerService(deps TriggerDependencies) *TriggerService {
	return &TriggerService{
		triggers:   deps.TriggerRepo,
		tickets:    deps.TicketRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// FireTriggers runs once, immediately after a ticket is persisted. Triggers
// are evaluated in the repository's insertion order; a later matching
// trigger's action overwrites an earlier one's on the same field. Action
// failures are contained per action and reported, never propagated.
func (s *TriggerService) FireTriggers(ctx context.Context, ticket *domain.Ticket, category *domain.Category) (*FireReport, error) {
	triggers, err := s.triggers.ListActiveByClinic(ctx, ticket.ClinicID)
	if err != nil {
		return nil, err
	}

	report := &FireReport{}
	mutated := false
	for i := range triggers {
		trigger := &triggers[i]
		matched, reason := s.evaluate(trigger, ticket, category)
		if reason != "" {
			report.Skipped = append(report.Skipped, SkippedAction{
				Source: trigger.ID,
				Action: string(trigger.Action.Type),
				Reason: reason,
			})
			continue
		}
		if !matched {
			continue
		}
		if s.apply(ctx, trigger, ticket, report) {
			mutated = true
		}
	}

	if mutated {
		ticket.LastActivityAt = time.Now()
		if err := s.tickets.Update(ctx, ticket); err != nil {
			return report, err
		}
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketTriggersFired,
		TicketID: ticket.ID,
		ActorID:  ticket.CreatorID,
		Payload: events.TriggersFiredPayload{
			Applied: len(report.Applied),
			Skipped: len(report.Skipped),
		},
	})
	return report, nil
}

// evaluate returns whether the condition matches; a non-empty reason marks a
// condition that could not be evaluated at all.
func (s *TriggerService) evaluate(trigger *domain.Trigger, ticket *domain.Ticket, category *domain.Category) (bool, string) {
	cond := trigger.Condition
	switch cond.Type {
	case domain.ConditionCategoryMatch:
		return category != nil && cond.Value == category.Slug, ""
	case domain.ConditionStatusChange:
		// Always true at creation when the value is "open"; kept for parity
		// with rules authored against update events.
		return cond.Value == ticket.Status, ""
	case domain.ConditionPriorityEq, domain.ConditionPriorityGte, domain.ConditionPriorityLte:
		threshold, err := strconv.Atoi(cond.Value)
		if err != nil {
			return false, "condition value is not numeric"
		}
		switch cond.Type {
		case domain.ConditionPriorityEq:
			return ticket.Priority == threshold, ""
		case domain.ConditionPriorityGte:
			return ticket.Priority >= threshold, ""
		default:
			return ticket.Priority <= threshold, ""
		}
	default:
		return false, "unknown condition type"
	}
}

// apply mutates the in-memory ticket; the caller persists once after the
// whole pass so the last applicable trigger wins on each field.
func (s *TriggerService) apply(ctx context.Context, trigger *domain.Trigger, ticket *domain.Ticket, report *FireReport) bool {
	action := trigger.Action
	switch action.Type {
	case domain.ActionAssignUser:
		user, err := s.users.GetByEmail(ctx, action.Value)
		if err != nil {
			reason := "assignee lookup failed"
			if errors.Is(err, pgx.ErrNoRows) {
				reason = "no user with email"
			}
			s.logger.Warn("trigger action skipped",
				zap.String("trigger_id", trigger.ID),
				zap.String("action", string(action.Type)),
				zap.String("reason", reason))
			report.Skipped = append(report.Skipped, SkippedAction{Source: trigger.ID, Action: string(action.Type), Reason: reason})
			return false
		}
		ticket.AssigneeID = &user.ID
	case domain.ActionChangeStatus:
		// Literal patch, no directory validation.
		ticket.Status = action.Value
	case domain.ActionSetPriority:
		priority, err := strconv.Atoi(action.Value)
		if err != nil || !domain.ValidPriority(priority) {
			s.logger.Warn("trigger action skipped",
				zap.String("trigger_id", trigger.ID),
				zap.String("action", string(action.Type)),
				zap.String("reason", "priority out of range"))
			report.Skipped = append(report.Skipped, SkippedAction{Source: trigger.ID, Action: string(action.Type), Reason: "priority out of range"})
			return false
		}
		ticket.Priority = priority
	default:
		report.Skipped = append(report.Skipped, SkippedAction{Source: trigger.ID, Action: string(action.Type), Reason: "unknown action type"})
		return false
	}

	report.Applied = append(report.Applied, AppliedAction{Source: trigger.ID, Action: string(action.Type), Value: action.Value})
	return true
}

func (s *TriggerService) publish(ctx context.Context, event events.Event) {
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
