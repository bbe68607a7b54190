package service

import (
	"context"
	"testing"

	"github.com/spec-kit/helpdesk-platform/internal/domain"
)

func newTriggerFixture() (*TriggerService, *fakeTriggerRepo, *fakeTicketRepo, *fakeUserRepo) {
	triggers := &fakeTriggerRepo{}
	tickets := newFakeTicketRepo()
	users := newFakeUserRepo()
	engine := NewTriggerService(TriggerDependencies{
		TriggerRepo: triggers,
		TicketRepo:  tickets,
		UserRepo:    users,
		Logger:      testLogger(),
	})
	return engine, triggers, tickets, users
}

func seedTrigger(repo *fakeTriggerRepo, condition domain.TriggerCondition, action domain.TriggerAction) {
	_ = repo.Create(context.Background(), &domain.Trigger{
		ClinicID:  "clinic-1",
		Condition: condition,
		Action:    action,
		IsActive:  true,
	})
}

func openTicket(tickets *fakeTicketRepo, priority int) *domain.Ticket {
	return tickets.seed(domain.Ticket{
		TicketNumber: 1,
		Title:        "t",
		Status:       domain.StatusSlugOpen,
		CategoryID:   "cat-1",
		ClinicID:     "clinic-1",
		CreatorID:    "requester",
		Priority:     priority,
	})
}

func TestFireTriggersLastApplicableWins(t *testing.T) {
	engine, triggers, tickets, _ := newTriggerFixture()
	ticket := openTicket(tickets, 1)
	category := &domain.Category{ID: "cat-1", Slug: "general"}

	seedTrigger(triggers,
		domain.TriggerCondition{Type: domain.ConditionCategoryMatch, Value: "general"},
		domain.TriggerAction{Type: domain.ActionSetPriority, Value: "3"})
	seedTrigger(triggers,
		domain.TriggerCondition{Type: domain.ConditionCategoryMatch, Value: "general"},
		domain.TriggerAction{Type: domain.ActionSetPriority, Value: "5"})

	report, err := engine.FireTriggers(context.Background(), ticket, category)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Applied) != 2 {
		t.Fatalf("applied = %d, want both triggers applied", len(report.Applied))
	}
	if ticket.Priority != 5 {
		t.Fatalf("priority = %d, want 5 (later trigger wins)", ticket.Priority)
	}

	stored, err := tickets.GetByID(context.Background(), ticket.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.Priority != 5 {
		t.Fatalf("persisted priority = %d, want 5", stored.Priority)
	}
}

func TestFireTriggersConditionMatching(t *testing.T) {
	engine, triggers, tickets, _ := newTriggerFixture()
	ticket := openTicket(tickets, 3)
	category := &domain.Category{ID: "cat-1", Slug: "general"}

	seedTrigger(triggers,
		domain.TriggerCondition{Type: domain.ConditionCategoryMatch, Value: "other"},
		domain.TriggerAction{Type: domain.ActionSetPriority, Value: "5"})
	seedTrigger(triggers,
		domain.TriggerCondition{Type: domain.ConditionPriorityGte, Value: "4"},
		domain.TriggerAction{Type: domain.ActionSetPriority, Value: "5"})
	seedTrigger(triggers,
		domain.TriggerCondition{Type: domain.ConditionPriorityLte, Value: "3"},
		domain.TriggerAction{Type: domain.ActionChangeStatus, Value: domain.StatusSlugInProgress})
	seedTrigger(triggers,
		domain.TriggerCondition{Type: domain.ConditionStatusChange, Value: domain.StatusSlugOpen},
		domain.TriggerAction{Type: domain.ActionSetPriority, Value: "2"})

	report, err := engine.FireTriggers(context.Background(), ticket, category)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Applied) != 2 {
		t.Fatalf("applied = %d, want 2 (lte and status_change)", len(report.Applied))
	}
	if ticket.Status != domain.StatusSlugInProgress {
		t.Fatalf("status = %q, want in_progress", ticket.Status)
	}
	if ticket.Priority != 2 {
		t.Fatalf("priority = %d, want 2", ticket.Priority)
	}
}

func TestFireTriggersContainsBadActions(t *testing.T) {
	engine, triggers, tickets, users := newTriggerFixture()
	ticket := openTicket(tickets, 1)
	category := &domain.Category{ID: "cat-1", Slug: "general"}

	// Unresolvable assignee: the action is skipped, not fatal.
	seedTrigger(triggers,
		domain.TriggerCondition{Type: domain.ConditionCategoryMatch, Value: "general"},
		domain.TriggerAction{Type: domain.ActionAssignUser, Value: "ghost@example.com"})
	// Out-of-range priority payload.
	seedTrigger(triggers,
		domain.TriggerCondition{Type: domain.ConditionCategoryMatch, Value: "general"},
		domain.TriggerAction{Type: domain.ActionSetPriority, Value: "42"})
	// Malformed numeric condition.
	seedTrigger(triggers,
		domain.TriggerCondition{Type: domain.ConditionPriorityEq, Value: "high"},
		domain.TriggerAction{Type: domain.ActionSetPriority, Value: "2"})
	// A healthy trigger after the bad ones still fires.
	agent := users.seed(domain.User{Email: "agent@example.com", ID: "agent-1"})
	seedTrigger(triggers,
		domain.TriggerCondition{Type: domain.ConditionCategoryMatch, Value: "general"},
		domain.TriggerAction{Type: domain.ActionAssignUser, Value: "agent@example.com"})

	report, err := engine.FireTriggers(context.Background(), ticket, category)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Skipped) != 3 {
		t.Fatalf("skipped = %d, want 3", len(report.Skipped))
	}
	reasons := map[string]bool{}
	for _, skip := range report.Skipped {
		reasons[skip.Reason] = true
	}
	for _, want := range []string{"no user with email", "priority out of range", "condition value is not numeric"} {
		if !reasons[want] {
			t.Fatalf("missing skip reason %q in %v", want, reasons)
		}
	}
	if ticket.AssigneeID == nil || *ticket.AssigneeID != agent.ID {
		t.Fatalf("healthy trigger should have assigned %s, got %v", agent.ID, ticket.AssigneeID)
	}
	if ticket.Priority != 1 {
		t.Fatalf("priority = %d, want untouched 1", ticket.Priority)
	}
}

func TestFireTriggersNoMatchNoWrite(t *testing.T) {
	engine, triggers, tickets, _ := newTriggerFixture()
	ticket := openTicket(tickets, 1)
	before := ticket.LastActivityAt

	seedTrigger(triggers,
		domain.TriggerCondition{Type: domain.ConditionCategoryMatch, Value: "other"},
		domain.TriggerAction{Type: domain.ActionSetPriority, Value: "5"})

	report, err := engine.FireTriggers(context.Background(), ticket, &domain.Category{ID: "cat-1", Slug: "general"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Applied) != 0 || len(report.Skipped) != 0 {
		t.Fatalf("expected empty report, got %+v", report)
	}
	if !ticket.LastActivityAt.Equal(before) {
		t.Fatal("no matching trigger should leave lastActivityAt alone")
	}
}
