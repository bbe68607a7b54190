package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-platform/internal/domain"
	"github.com/spec-kit/helpdesk-platform/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-platform/pkg/util"
)

// CategoryCreateInput describes an administrator's category payload.
type CategoryCreateInput struct {
	Name       string
	Slug       string
	ParentID   *string
	Order      int
	Visibility domain.TicketVisibility
	SocietyIDs []string
}

// CategoryService holds the administrator-facing tree mutations.
type CategoryService struct {
	categories repository.CategoryRepository
	audit      *AuditService
	logger     *zap.Logger
}

// NewCategoryService constructs the service.
func NewCategoryService(categories repository.CategoryRepository, audit *AuditService, logger *zap.Logger) *CategoryService {
	return &CategoryService{categories: categories, audit: audit, logger: logger}
}

// CreateCategory inserts a node under the optional parent, deriving path and
// depth from the parent's chain. Slugs are globally unique.
func (s *CategoryService) CreateCategory(ctx context.Context, actor *domain.User, input CategoryCreateInput) (*domain.Category, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	slug := strings.TrimSpace(strings.ToLower(input.Slug))
	if slug == "" || strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.NewValidationError("name and slug required", nil)
	}
	if err := s.ensureSlugFree(ctx, slug, ""); err != nil {
		return nil, err
	}

	path := []string{}
	if input.ParentID != nil {
		parent, err := s.categories.GetByID(ctx, *input.ParentID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("parent category", map[string]any{"category_id": *input.ParentID})
			}
			return nil, apperrors.MapError(err)
		}
		path = append(append(path, parent.Path...), parent.ID)
	}

	visibility := domain.CategoryVisibilityPublic
	if input.Visibility == domain.TicketVisibilityPrivate {
		visibility = domain.CategoryVisibilityPrivate
	}

	category := &domain.Category{
		Name:       strings.TrimSpace(input.Name),
		Slug:       slug,
		ParentID:   input.ParentID,
		Path:       path,
		Depth:      len(path),
		Order:      input.Order,
		Visibility: visibility,
		SocietyIDs: input.SocietyIDs,
		IsActive:   true,
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.audit.Record(ctx, "category", category.ID, "created", actor.ID, map[string]any{"slug": category.Slug})
	return category, nil
}

// MoveCategory re-parents a leaf node, recomputing its path and depth. Moving
// a category that still has children is rejected: the tree offers no
// descendant-path rewrite, so allowing it would leave stale chains behind.
func (s *CategoryService) MoveCategory(ctx context.Context, actor *domain.User, categoryID string, newParentID *string) (*domain.Category, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	category, err := s.categories.GetByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("category", map[string]any{"category_id": categoryID})
		}
		return nil, apperrors.MapError(err)
	}

	children, err := s.categories.CountChildren(ctx, category.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if children > 0 {
		return nil, apperrors.NewConflict("cannot move a category with children", map[string]any{"children": children})
	}

	path := []string{}
	if newParentID != nil {
		if *newParentID == category.ID {
			return nil, apperrors.NewValidationError("category cannot be its own parent", nil)
		}
		parent, err := s.categories.GetByID(ctx, *newParentID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("parent category", map[string]any{"category_id": *newParentID})
			}
			return nil, apperrors.MapError(err)
		}
		path = append(append(path, parent.Path...), parent.ID)
	}

	category.ParentID = newParentID
	category.Path = path
	category.Depth = len(path)
	if err := s.categories.Update(ctx, category); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.audit.Record(ctx, "category", category.ID, "moved", actor.ID, map[string]any{"parent_id": newParentID})
	return category, nil
}

// RenameCategory changes name and slug, re-checking slug uniqueness.
func (s *CategoryService) RenameCategory(ctx context.Context, actor *domain.User, categoryID, name, slug string) (*domain.Category, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	category, err := s.categories.GetByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("category", map[string]any{"category_id": categoryID})
		}
		return nil, apperrors.MapError(err)
	}
	slug = strings.TrimSpace(strings.ToLower(slug))
	if slug == "" || strings.TrimSpace(name) == "" {
		return nil, apperrors.NewValidationError("name and slug required", nil)
	}
	if slug != category.Slug {
		if err := s.ensureSlugFree(ctx, slug, category.ID); err != nil {
			return nil, err
		}
	}
	category.Name = strings.TrimSpace(name)
	category.Slug = slug
	if err := s.categories.Update(ctx, category); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.audit.Record(ctx, "category", category.ID, "renamed", actor.ID, map[string]any{"slug": slug})
	return category, nil
}

func (s *CategoryService) ensureSlugFree(ctx context.Context, slug, selfID string) error {
	existing, err := s.categories.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return apperrors.MapError(err)
	}
	if existing.ID == selfID {
		return nil
	}
	return apperrors.NewConflict("slug already in use", map[string]any{"slug": slug})
}

func requireAdmin(actor *domain.User) error {
	if actor == nil {
		return apperrors.NewUnauthorized("user required")
	}
	if !actor.Capabilities.Has(domain.CapabilityFullAccess) {
		return apperrors.NewAccessDenied("administrator capability required")
	}
	return nil
}
