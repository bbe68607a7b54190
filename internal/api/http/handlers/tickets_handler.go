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

// TicketsHandler manages ticket intake and read endpoints.
type TicketsHandler struct {
	tickets *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(tickets *service.TicketService) *TicketsHandler {
	return &TicketsHandler{tickets: tickets}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.CategoryID == "" || req.Title == "" {
		return apperrors.NewValidationError("category_id and title required", nil)
	}

	input := service.TicketCreateInput{
		Title:       req.Title,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		ClinicID:    req.ClinicID,
		Visibility:  req.Visibility,
		Priority:    req.Priority,
	}
	ticket, err := h.tickets.CreateTicket(c.UserContext(), principal.User, input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	ticket, comments, err := h.tickets.GetTicketForActor(c.UserContext(), principal.User, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetail(ticket, comments)})
}

// NudgeTicket POST /tickets/:id/nudge.
func (h *TicketsHandler) NudgeTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	ticket, err := h.tickets.NudgeTicket(c.UserContext(), principal.User, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket)})
}

func ticketSummary(ticket *domain.Ticket) dto.TicketSummary {
	return dto.TicketSummary{
		ID:           ticket.ID,
		TicketNumber: ticket.TicketNumber,
		Title:        ticket.Title,
		Status:       ticket.Status,
		CategoryID:   ticket.CategoryID,
		ClinicID:     ticket.ClinicID,
		AssigneeID:   ticket.AssigneeID,
		Visibility:   ticket.Visibility,
		Priority:     ticket.Priority,
		NudgeCount:   ticket.NudgeCount,
		CreatedAt:    ticket.CreatedAt,
		UpdatedAt:    ticket.UpdatedAt,
	}
}

func ticketDetail(ticket *domain.Ticket, comments []domain.TicketComment) dto.TicketDetailResponse {
	resp := dto.TicketDetailResponse{
		TicketSummary:  ticketSummary(ticket),
		Description:    ticket.Description,
		CreatorID:      ticket.CreatorID,
		LastActivityAt: ticket.LastActivityAt,
		LastNudgeAt:    ticket.LastNudgeAt,
		Comments:       make([]dto.CommentResponse, 0, len(comments)),
	}
	for _, comment := range comments {
		resp.Comments = append(resp.Comments, dto.CommentResponse{
			ID:        comment.ID,
			AuthorID:  comment.AuthorID,
			Body:      comment.Body,
			CreatedAt: comment.CreatedAt,
		})
	}
	return resp
}
