package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-platform/internal/api/dto"
	"github.com/spec-kit/helpdesk-platform/internal/auth"
	"github.com/spec-kit/helpdesk-platform/internal/domain"
	"github.com/spec-kit/helpdesk-platform/internal/service"
	apperrors "github.com/spec-kit/helpdesk-platform/pkg/util"
)

// CategoriesHandler serves visible-category listing and admin mutations.
type CategoriesHandler struct {
	access     *service.AccessService
	categories *service.CategoryService
}

// NewCategoriesHandler constructs handler.
func NewCategoriesHandler(access *service.AccessService, categories *service.CategoryService) *CategoriesHandler {
	return &CategoriesHandler{access: access, categories: categories}
}

// ListCategories GET /categories.
func (h *CategoriesHandler) ListCategories(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	visible, err := h.access.ListVisibleCategories(c.UserContext(), principal.User.ID)
	if err != nil {
		return apperrors.MapError(err)
	}
	items := make([]dto.CategoryResponse, 0, len(visible))
	for i := range visible {
		items = append(items, categoryResponse(&visible[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// CreateCategory POST /categories.
func (h *CategoriesHandler) CreateCategory(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.CreateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	category, err := h.categories.CreateCategory(c.UserContext(), principal.User, service.CategoryCreateInput{
		Name:       req.Name,
		Slug:       req.Slug,
		ParentID:   req.ParentID,
		Order:      req.Order,
		SocietyIDs: req.SocietyIDs,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": categoryResponse(category)})
}

// MoveCategory POST /categories/:id/move.
func (h *CategoriesHandler) MoveCategory(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.MoveCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	category, err := h.categories.MoveCategory(c.UserContext(), principal.User, c.Params("id"), req.ParentID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": categoryResponse(category)})
}

func categoryResponse(category *domain.Category) dto.CategoryResponse {
	return dto.CategoryResponse{
		ID:         category.ID,
		Name:       category.Name,
		Slug:       category.Slug,
		ParentID:   category.ParentID,
		Path:       category.Path,
		Depth:      category.Depth,
		Order:      category.Order,
		Visibility: category.Visibility,
		SocietyIDs: category.SocietyIDs,
	}
}
