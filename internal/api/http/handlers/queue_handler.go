package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-platform/internal/api/dto"
	"github.com/spec-kit/helpdesk-platform/internal/auth"
	"github.com/spec-kit/helpdesk-platform/internal/service"
	apperrors "github.com/spec-kit/helpdesk-platform/pkg/util"
)

// QueueHandler serves the agent working-set projection.
type QueueHandler struct {
	queue *service.QueueService
}

// NewQueueHandler constructs handler.
func NewQueueHandler(queue *service.QueueService) *QueueHandler {
	return &QueueHandler{queue: queue}
}

// TicketsToManage GET /agent/queue.
func (h *QueueHandler) TicketsToManage(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	tickets, err := h.queue.TicketsToManage(c.UserContext(), principal.User)
	if err != nil {
		return err
	}
	items := make([]dto.TicketSummary, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketSummary(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}
