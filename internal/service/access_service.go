package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-platform/internal/domain"
	"github.com/spec-kit/helpdesk-platform/internal/repository"
)

// AccessService resolves category visibility under the society-membership
// rule. The same predicate backs ticket-creation authorization and category
// listing; it must never be duplicated per call site.
type AccessService struct {
	categories repository.CategoryRepository
	societies  repository.SocietyRepository
}

// NewAccessService constructs the resolver.
func NewAccessService(categories repository.CategoryRepository, societies repository.SocietyRepository) *AccessService {
	return &AccessService{categories: categories, societies: societies}
}

// ResolveAccess decides whether the user may use an already-loaded category.
// An unscoped category is visible to everyone; a scoped one requires a
// non-empty intersection with the user's active society memberships.
func (s *AccessService) ResolveAccess(ctx context.Context, userID string, category *domain.Category) (bool, error) {
	if category == nil || category.IsDeleted() {
		return false, nil
	}
	if category.IsUnscoped() {
		return true, nil
	}
	memberships, err := s.societies.ListActiveMembershipIDs(ctx, userID)
	if err != nil {
		return false, err
	}
	member := make(map[string]struct{}, len(memberships))
	for _, id := range memberships {
		member[id] = struct{}{}
	}
	for _, id := range category.SocietyIDs {
		if _, ok := member[id]; ok {
			return true, nil
		}
	}
	return false, nil
}

// CanAccessCategory loads the category and applies ResolveAccess. A missing
// category yields false without an error; callers that need "not found" as a
// hard failure load the category themselves first.
func (s *AccessService) CanAccessCategory(ctx context.Context, userID, categoryID string) (bool, error) {
	category, err := s.categories.GetByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return s.ResolveAccess(ctx, userID, category)
}

// ListVisibleCategories returns the active categories the user may select,
// filtered through the same predicate used at creation time.
func (s *AccessService) ListVisibleCategories(ctx context.Context, userID string) ([]domain.Category, error) {
	categories, err := s.categories.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	var memberships []string
	membershipsLoaded := false

	visible := make([]domain.Category, 0, len(categories))
	for i := range categories {
		category := &categories[i]
		if category.IsUnscoped() {
			visible = append(visible, *category)
			continue
		}
		if !membershipsLoaded {
			memberships, err = s.societies.ListActiveMembershipIDs(ctx, userID)
			if err != nil {
				return nil, err
			}
			membershipsLoaded = true
		}
		if intersects(category.SocietyIDs, memberships) {
			visible = append(visible, *category)
		}
	}
	return visible, nil
}

func intersects(a, b []string) bool {
	set := make(map[string]struct{}, len(a))
	for _, v := range a {
		set[v] = struct{}{}
	}
	for _, v := range b {
		if _, ok := set[v]; ok {
			return true
		}
	}
	return false
}
