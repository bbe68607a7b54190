package dto

// ExecuteMacroRequest payload.
type ExecuteMacroRequest struct {
	TicketID string `json:"ticket_id"`
}

// ActionOutcome is one applied or skipped automation action.
type ActionOutcome struct {
	Source string `json:"source"`
	Action string `json:"action"`
	Value  string `json:"value,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// MacroResultResponse reports a macro run including degradation detail.
type MacroResultResponse struct {
	Success   bool            `json:"success"`
	MacroName string          `json:"macro_name"`
	Applied   []ActionOutcome `json:"applied"`
	Skipped   []ActionOutcome `json:"skipped"`
}
