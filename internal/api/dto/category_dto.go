package dto

import (
	"github.com/spec-kit/helpdesk-platform/internal/domain"
)

// CreateCategoryRequest payload.
type CreateCategoryRequest struct {
	Name       string   `json:"name"`
	Slug       string   `json:"slug"`
	ParentID   *string  `json:"parent_id"`
	Order      int      `json:"order"`
	SocietyIDs []string `json:"society_ids"`
}

// MoveCategoryRequest payload.
type MoveCategoryRequest struct {
	ParentID *string `json:"parent_id"`
}

// CategoryResponse response.
type CategoryResponse struct {
	ID         string                    `json:"id"`
	Name       string                    `json:"name"`
	Slug       string                    `json:"slug"`
	ParentID   *string                   `json:"parent_id"`
	Path       []string                  `json:"path"`
	Depth      int                       `json:"depth"`
	Order      int                       `json:"order"`
	Visibility domain.CategoryVisibility `json:"visibility"`
	SocietyIDs []string                  `json:"society_ids"`
}
