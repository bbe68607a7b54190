package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/spec-kit/helpdesk-platform/internal/domain"
	apperrors "github.com/spec-kit/helpdesk-platform/pkg/util"
)

type ticketFixture struct {
	service    *TicketService
	tickets    *fakeTicketRepo
	categories *fakeCategoryRepo
	societies  *fakeSocietyRepo
	users      *fakeUserRepo
	triggers   *fakeTriggerRepo
	comments   *fakeCommentRepo
	audit      *fakeAuditRepo
	category   *domain.Category
}

func newTicketFixture() *ticketFixture {
	f := &ticketFixture{
		tickets:    newFakeTicketRepo(),
		categories: newFakeCategoryRepo(),
		societies:  newFakeSocietyRepo(),
		users:      newFakeUserRepo(),
		triggers:   &fakeTriggerRepo{},
		comments:   &fakeCommentRepo{},
		audit:      &fakeAuditRepo{},
	}
	f.category = f.categories.seed(domain.Category{Name: "General", Slug: "general", IsActive: true})

	logger := testLogger()
	access := NewAccessService(f.categories, f.societies)
	triggerService := NewTriggerService(TriggerDependencies{
		TriggerRepo: f.triggers,
		TicketRepo:  f.tickets,
		UserRepo:    f.users,
		Logger:      logger,
	})
	f.service = NewTicketService(TicketDependencies{
		TicketRepo:   f.tickets,
		CategoryRepo: f.categories,
		CommentRepo:  f.comments,
		SequenceRepo: newFakeSequenceRepo(),
		Access:       access,
		Triggers:     triggerService,
		Audit:        NewAuditService(f.audit, logger),
		Logger:       logger,
	})
	return f
}

func requester(clinics ...string) *domain.User {
	return &domain.User{ID: "requester", Status: domain.UserStatusActive, ClinicIDs: clinics}
}

func domainCode(t *testing.T, err error) string {
	t.Helper()
	var de *apperrors.DomainError
	if !errors.As(err, &de) {
		t.Fatalf("expected DomainError, got %v", err)
	}
	return de.Code
}

func TestCreateTicketHappyPath(t *testing.T) {
	f := newTicketFixture()
	actor := requester("clinic-1")

	ticket, err := f.service.CreateTicket(context.Background(), actor, TicketCreateInput{
		Title:      "  Printer down  ",
		CategoryID: f.category.ID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ticket.TicketNumber != 1 {
		t.Fatalf("first ticket number = %d, want 1", ticket.TicketNumber)
	}
	if ticket.Title != "Printer down" {
		t.Fatalf("title not trimmed: %q", ticket.Title)
	}
	if ticket.Status != domain.StatusSlugOpen {
		t.Fatalf("status = %q, want %q", ticket.Status, domain.StatusSlugOpen)
	}
	if ticket.ClinicID != "clinic-1" {
		t.Fatalf("clinic = %q, want default clinic-1", ticket.ClinicID)
	}
	if ticket.Priority != domain.PriorityDefault {
		t.Fatalf("priority = %d, want default %d", ticket.Priority, domain.PriorityDefault)
	}
	if ticket.LastActivityAt.IsZero() {
		t.Fatal("lastActivityAt must be set at creation")
	}
	if len(f.audit.entries) == 0 {
		t.Fatal("expected an audit entry for the creation")
	}
}

func TestCreateTicketValidation(t *testing.T) {
	f := newTicketFixture()

	_, err := f.service.CreateTicket(context.Background(), nil, TicketCreateInput{Title: "x", CategoryID: f.category.ID})
	if code := domainCode(t, err); code != "UNAUTHORIZED" {
		t.Fatalf("nil actor: code = %q", code)
	}

	_, err = f.service.CreateTicket(context.Background(), requester(), TicketCreateInput{Title: "x", CategoryID: f.category.ID})
	if code := domainCode(t, err); code != "UNAUTHORIZED" {
		t.Fatalf("no clinics: code = %q", code)
	}

	_, err = f.service.CreateTicket(context.Background(), requester("clinic-1"), TicketCreateInput{Title: "   ", CategoryID: f.category.ID})
	if code := domainCode(t, err); code != "VALIDATION_FAILED" {
		t.Fatalf("blank title: code = %q", code)
	}

	_, err = f.service.CreateTicket(context.Background(), requester("clinic-1"), TicketCreateInput{Title: "x", CategoryID: "missing"})
	if code := domainCode(t, err); code != "NOT_FOUND" {
		t.Fatalf("missing category: code = %q", code)
	}

	_, err = f.service.CreateTicket(context.Background(), requester("clinic-1"), TicketCreateInput{
		Title: "x", CategoryID: f.category.ID, ClinicID: "clinic-9",
	})
	if code := domainCode(t, err); code != "ACCESS_DENIED" {
		t.Fatalf("foreign clinic: code = %q", code)
	}

	if len(f.tickets.items) != 0 {
		t.Fatalf("failed creations must not persist, stored %d tickets", len(f.tickets.items))
	}
}

func TestCreateTicketScopedCategoryDenied(t *testing.T) {
	f := newTicketFixture()
	scoped := f.categories.seed(domain.Category{
		Name: "Scoped", Slug: "scoped", IsActive: true, SocietyIDs: []string{"soc-a"},
	})

	_, err := f.service.CreateTicket(context.Background(), requester("clinic-1"), TicketCreateInput{
		Title: "x", CategoryID: scoped.ID,
	})
	if code := domainCode(t, err); code != "ACCESS_DENIED" {
		t.Fatalf("code = %q, want ACCESS_DENIED", code)
	}

	f.societies.memberships["requester"] = []string{"soc-a"}
	if _, err := f.service.CreateTicket(context.Background(), requester("clinic-1"), TicketCreateInput{
		Title: "x", CategoryID: scoped.ID,
	}); err != nil {
		t.Fatalf("member should create against scoped category: %v", err)
	}
}

func TestCreateTicketPriorityRules(t *testing.T) {
	f := newTicketFixture()
	ptr := func(v int) *int { return &v }

	// Out of range fails hard for everyone, privileged or not.
	privileged := requester("clinic-1")
	privileged.Capabilities = domain.CapabilitySet{domain.CapabilitySetPriority}
	_, err := f.service.CreateTicket(context.Background(), privileged, TicketCreateInput{
		Title: "x", CategoryID: f.category.ID, Priority: ptr(9),
	})
	if code := domainCode(t, err); code != "VALIDATION_FAILED" {
		t.Fatalf("out-of-range priority: code = %q", code)
	}

	// In range without the capability is silently pinned to the default.
	ticket, err := f.service.CreateTicket(context.Background(), requester("clinic-1"), TicketCreateInput{
		Title: "x", CategoryID: f.category.ID, Priority: ptr(4),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ticket.Priority != domain.PriorityDefault {
		t.Fatalf("unprivileged priority = %d, want pinned default %d", ticket.Priority, domain.PriorityDefault)
	}

	// With the capability the requested value sticks.
	ticket, err = f.service.CreateTicket(context.Background(), privileged, TicketCreateInput{
		Title: "x", CategoryID: f.category.ID, Priority: ptr(4),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ticket.Priority != 4 {
		t.Fatalf("privileged priority = %d, want 4", ticket.Priority)
	}
}

func TestCreateTicketNumbersUniqueUnderConcurrency(t *testing.T) {
	f := newTicketFixture()
	const n = 50

	var wg sync.WaitGroup
	errCh := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.service.CreateTicket(context.Background(), requester("clinic-1"), TicketCreateInput{
				Title: "load", CategoryID: f.category.ID,
			})
			errCh <- err
		}()
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			t.Fatalf("concurrent create failed: %v", err)
		}
	}

	seen := map[int64]bool{}
	for _, ticket := range f.tickets.items {
		if seen[ticket.TicketNumber] {
			t.Fatalf("duplicate ticket number %d", ticket.TicketNumber)
		}
		seen[ticket.TicketNumber] = true
	}
	for i := int64(1); i <= n; i++ {
		if !seen[i] {
			t.Fatalf("ticket number %d missing; allocation left a gap", i)
		}
	}
}

func TestCreateTicketSurvivesTriggerFailure(t *testing.T) {
	f := newTicketFixture()
	f.triggers.listErr = errors.New("trigger store down")

	ticket, err := f.service.CreateTicket(context.Background(), requester("clinic-1"), TicketCreateInput{
		Title: "x", CategoryID: f.category.ID,
	})
	if err != nil {
		t.Fatalf("trigger failure must not fail creation: %v", err)
	}
	if _, getErr := f.tickets.GetByID(context.Background(), ticket.ID); getErr != nil {
		t.Fatalf("ticket should stay persisted: %v", getErr)
	}
}

func TestNudgeTicket(t *testing.T) {
	f := newTicketFixture()
	actor := requester("clinic-1")
	ticket, err := f.service.CreateTicket(context.Background(), actor, TicketCreateInput{
		Title: "x", CategoryID: f.category.ID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	nudged, err := f.service.NudgeTicket(context.Background(), actor, ticket.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if nudged.NudgeCount != 1 || nudged.LastNudgeAt == nil {
		t.Fatalf("nudge not recorded: count=%d lastNudgeAt=%v", nudged.NudgeCount, nudged.LastNudgeAt)
	}

	other := &domain.User{ID: "other", ClinicIDs: []string{"clinic-1"}}
	_, err = f.service.NudgeTicket(context.Background(), other, ticket.ID)
	if code := domainCode(t, err); code != "ACCESS_DENIED" {
		t.Fatalf("non-creator nudge: code = %q", code)
	}
}

func TestGetTicketForActor(t *testing.T) {
	f := newTicketFixture()
	creator := requester("clinic-1")
	ticket, err := f.service.CreateTicket(context.Background(), creator, TicketCreateInput{
		Title: "x", CategoryID: f.category.ID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, _, err := f.service.GetTicketForActor(context.Background(), creator, ticket.ID); err != nil {
		t.Fatalf("creator read failed: %v", err)
	}

	agent := &domain.User{ID: "agent", Capabilities: domain.CapabilitySet{domain.CapabilityAssignTickets}}
	if _, _, err := f.service.GetTicketForActor(context.Background(), agent, ticket.ID); err != nil {
		t.Fatalf("capable agent read failed: %v", err)
	}

	stranger := &domain.User{ID: "stranger"}
	_, _, err = f.service.GetTicketForActor(context.Background(), stranger, ticket.ID)
	if code := domainCode(t, err); code != "ACCESS_DENIED" {
		t.Fatalf("stranger read: code = %q", code)
	}
}
