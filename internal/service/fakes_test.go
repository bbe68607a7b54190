package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-platform/internal/domain"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

type fakeCategoryRepo struct {
	mu     sync.Mutex
	nextID int
	items  map[string]*domain.Category
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{items: map[string]*domain.Category{}}
}

func (r *fakeCategoryRepo) Create(_ context.Context, category *domain.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	category.ID = fmt.Sprintf("cat-%d", r.nextID)
	category.CreatedAt = time.Now()
	category.UpdatedAt = category.CreatedAt
	stored := *category
	r.items[category.ID] = &stored
	return nil
}

func (r *fakeCategoryRepo) Update(_ context.Context, category *domain.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.items[category.ID]
	if !ok || existing.DeletedAt != nil {
		return pgx.ErrNoRows
	}
	stored := *category
	r.items[category.ID] = &stored
	return nil
}

func (r *fakeCategoryRepo) GetByID(_ context.Context, id string) (*domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	category, ok := r.items[id]
	if !ok || category.DeletedAt != nil {
		return nil, pgx.ErrNoRows
	}
	copied := *category
	return &copied, nil
}

func (r *fakeCategoryRepo) GetBySlug(_ context.Context, slug string) (*domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, category := range r.items {
		if category.Slug == slug && category.DeletedAt == nil {
			copied := *category
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeCategoryRepo) ListActive(_ context.Context) ([]domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Category
	for _, category := range r.items {
		if category.IsActive && category.DeletedAt == nil {
			result = append(result, *category)
		}
	}
	return result, nil
}

func (r *fakeCategoryRepo) CountChildren(_ context.Context, id string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, category := range r.items {
		if category.ParentID != nil && *category.ParentID == id && category.DeletedAt == nil {
			count++
		}
	}
	return count, nil
}

func (r *fakeCategoryRepo) SoftDelete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	category, ok := r.items[id]
	if !ok || category.DeletedAt != nil {
		return pgx.ErrNoRows
	}
	now := time.Now()
	category.DeletedAt = &now
	return nil
}

func (r *fakeCategoryRepo) seed(category domain.Category) *domain.Category {
	r.mu.Lock()
	defer r.mu.Unlock()
	if category.ID == "" {
		r.nextID++
		category.ID = fmt.Sprintf("cat-%d", r.nextID)
	}
	stored := category
	r.items[category.ID] = &stored
	return &stored
}

type fakeSocietyRepo struct {
	mu          sync.Mutex
	memberships map[string][]string
}

func newFakeSocietyRepo() *fakeSocietyRepo {
	return &fakeSocietyRepo{memberships: map[string][]string{}}
}

func (r *fakeSocietyRepo) GetByID(_ context.Context, id string) (*domain.Society, error) {
	return &domain.Society{ID: id, IsActive: true}, nil
}

func (r *fakeSocietyRepo) ListActiveMembershipIDs(_ context.Context, userID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string{}, r.memberships[userID]...), nil
}

func (r *fakeSocietyRepo) AddMembership(_ context.Context, membership *domain.SocietyMembership) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	membership.ID = fmt.Sprintf("mem-%d", len(r.memberships)+1)
	membership.AssignedAt = time.Now()
	r.memberships[membership.UserID] = append(r.memberships[membership.UserID], membership.SocietyID)
	return nil
}

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int
	items  map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{items: map[string]*domain.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	user.ID = fmt.Sprintf("user-%d", r.nextID)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	r.items[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	stored := *user
	r.items[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.items {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) seed(user domain.User) *domain.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == "" {
		r.nextID++
		user.ID = fmt.Sprintf("user-%d", r.nextID)
	}
	stored := user
	r.items[user.ID] = &stored
	return &stored
}

type fakeTicketRepo struct {
	mu     sync.Mutex
	nextID int
	items  map[string]*domain.Ticket
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{items: map[string]*domain.Ticket{}}
}

func (r *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.items {
		if existing.TicketNumber == ticket.TicketNumber {
			return fmt.Errorf("duplicate ticket_number %d", ticket.TicketNumber)
		}
	}
	r.nextID++
	ticket.ID = fmt.Sprintf("ticket-%d", r.nextID)
	ticket.CreatedAt = time.Now()
	ticket.UpdatedAt = ticket.CreatedAt
	stored := *ticket
	r.items[ticket.ID] = &stored
	return nil
}

func (r *fakeTicketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[ticket.ID]; !ok {
		return pgx.ErrNoRows
	}
	stored := *ticket
	r.items[ticket.ID] = &stored
	return nil
}

func (r *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *ticket
	return &copied, nil
}

func (r *fakeTicketRepo) GetByNumber(_ context.Context, number int64) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ticket := range r.items {
		if ticket.TicketNumber == number {
			copied := *ticket
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeTicketRepo) ListByClinics(_ context.Context, clinicIDs []string) ([]domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	allowed := map[string]struct{}{}
	for _, id := range clinicIDs {
		allowed[id] = struct{}{}
	}
	var result []domain.Ticket
	for _, ticket := range r.items {
		if _, ok := allowed[ticket.ClinicID]; ok {
			result = append(result, *ticket)
		}
	}
	return result, nil
}

func (r *fakeTicketRepo) seed(ticket domain.Ticket) *domain.Ticket {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ticket.ID == "" {
		r.nextID++
		ticket.ID = fmt.Sprintf("ticket-%d", r.nextID)
	}
	stored := ticket
	r.items[ticket.ID] = &stored
	return &stored
}

type fakeSequenceRepo struct {
	mu       sync.Mutex
	counters map[string]int64
}

func newFakeSequenceRepo() *fakeSequenceRepo {
	return &fakeSequenceRepo{counters: map[string]int64{}}
}

func (r *fakeSequenceRepo) Next(_ context.Context, name string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counters[name]++
	return r.counters[name], nil
}

type fakeTriggerRepo struct {
	mu       sync.Mutex
	triggers []domain.Trigger
	listErr  error
}

func (r *fakeTriggerRepo) Create(_ context.Context, trigger *domain.Trigger) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	trigger.ID = fmt.Sprintf("trigger-%d", len(r.triggers)+1)
	trigger.CreatedAt = time.Now()
	r.triggers = append(r.triggers, *trigger)
	return nil
}

func (r *fakeTriggerRepo) ListActiveByClinic(_ context.Context, clinicID string) ([]domain.Trigger, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	var result []domain.Trigger
	for _, trigger := range r.triggers {
		if trigger.ClinicID == clinicID && trigger.IsActive {
			result = append(result, trigger)
		}
	}
	return result, nil
}

type fakeMacroRepo struct {
	items map[string]*domain.Macro
}

func newFakeMacroRepo() *fakeMacroRepo {
	return &fakeMacroRepo{items: map[string]*domain.Macro{}}
}

func (r *fakeMacroRepo) Create(_ context.Context, macro *domain.Macro) error {
	macro.ID = fmt.Sprintf("macro-%d", len(r.items)+1)
	stored := *macro
	r.items[macro.ID] = &stored
	return nil
}

func (r *fakeMacroRepo) GetByID(_ context.Context, id string) (*domain.Macro, error) {
	macro, ok := r.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *macro
	return &copied, nil
}

func (r *fakeMacroRepo) ListActiveByClinic(_ context.Context, clinicID string) ([]domain.Macro, error) {
	var result []domain.Macro
	for _, macro := range r.items {
		if macro.ClinicID == clinicID && macro.IsActive {
			result = append(result, *macro)
		}
	}
	return result, nil
}

type fakeStatusRepo struct {
	statuses []domain.TicketStatus
}

func (r *fakeStatusRepo) GetByID(_ context.Context, id string) (*domain.TicketStatus, error) {
	for _, status := range r.statuses {
		if status.ID == id {
			copied := status
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeStatusRepo) GetBySlug(_ context.Context, slug string) (*domain.TicketStatus, error) {
	for _, status := range r.statuses {
		if status.Slug == slug {
			copied := status
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeStatusRepo) ListActive(_ context.Context) ([]domain.TicketStatus, error) {
	return append([]domain.TicketStatus{}, r.statuses...), nil
}

type fakeCommentRepo struct {
	mu        sync.Mutex
	comments  []domain.TicketComment
	createErr error
}

func (r *fakeCommentRepo) Create(_ context.Context, comment *domain.TicketComment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	comment.ID = fmt.Sprintf("comment-%d", len(r.comments)+1)
	comment.CreatedAt = time.Now()
	r.comments = append(r.comments, *comment)
	return nil
}

func (r *fakeCommentRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.TicketComment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.TicketComment
	for _, comment := range r.comments {
		if comment.TicketID == ticketID {
			result = append(result, comment)
		}
	}
	return result, nil
}

type fakeAuditRepo struct {
	mu      sync.Mutex
	entries []domain.AuditEntry
}

func (r *fakeAuditRepo) Create(_ context.Context, entry *domain.AuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry.ID = fmt.Sprintf("audit-%d", len(r.entries)+1)
	entry.CreatedAt = time.Now()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeAuditRepo) ListByEntity(_ context.Context, entityType, entityID string) ([]domain.AuditEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.AuditEntry
	for _, entry := range r.entries {
		if entry.EntityType == entityType && entry.EntityID == entityID {
			result = append(result, entry)
		}
	}
	return result, nil
}

type fakeCompetencyRepo struct {
	byUser map[string][]string
}

func (r *fakeCompetencyRepo) Add(_ context.Context, competency *domain.AgentCompetency) error {
	if r.byUser == nil {
		r.byUser = map[string][]string{}
	}
	competency.ID = fmt.Sprintf("comp-%d", len(r.byUser)+1)
	r.byUser[competency.UserID] = append(r.byUser[competency.UserID], competency.CategoryID)
	return nil
}

func (r *fakeCompetencyRepo) ListCategoryIDsByUser(_ context.Context, userID string) ([]string, error) {
	return append([]string{}, r.byUser[userID]...), nil
}
