package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-platform/internal/api/dto"
	"github.com/spec-kit/helpdesk-platform/internal/auth"
	"github.com/spec-kit/helpdesk-platform/internal/service"
	apperrors "github.com/spec-kit/helpdesk-platform/pkg/util"
)

// MacrosHandler exposes macro execution to agents.
type MacrosHandler struct {
	macros *service.MacroService
}

// NewMacrosHandler constructs handler.
func NewMacrosHandler(macros *service.MacroService) *MacrosHandler {
	return &MacrosHandler{macros: macros}
}

// ExecuteMacro POST /macros/:id/execute.
func (h *MacrosHandler) ExecuteMacro(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.ExecuteMacroRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.TicketID == "" {
		return apperrors.NewValidationError("ticket_id required", nil)
	}

	result, err := h.macros.ExecuteMacro(c.UserContext(), principal.User, c.Params("id"), req.TicketID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": macroResult(result)})
}

func macroResult(result *service.MacroResult) dto.MacroResultResponse {
	resp := dto.MacroResultResponse{
		Success:   result.Success,
		MacroName: result.MacroName,
		Applied:   make([]dto.ActionOutcome, 0, len(result.Applied)),
		Skipped:   make([]dto.ActionOutcome, 0, len(result.Skipped)),
	}
	for _, applied := range result.Applied {
		resp.Applied = append(resp.Applied, dto.ActionOutcome{
			Source: applied.Source,
			Action: applied.Action,
			Value:  applied.Value,
		})
	}
	for _, skipped := range result.Skipped {
		resp.Skipped = append(resp.Skipped, dto.ActionOutcome{
			Source: skipped.Source,
			Action: skipped.Action,
			Reason: skipped.Reason,
		})
	}
	return resp
}
