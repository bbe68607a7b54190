package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketTriggersFired EventType = "ticket_triggers_fired"
	EventMacroExecuted       EventType = "macro_executed"
	EventTicketNudged        EventType = "ticket_nudged"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	ActorID   string      `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	TicketNumber int64  `json:"ticket_number"`
	ClinicID     string `json:"clinic_id"`
	CategoryID   string `json:"category_id"`
	Priority     int    `json:"priority"`
	Title        string `json:"title"`
}

// TriggersFiredPayload payload.
type TriggersFiredPayload struct {
	Applied int `json:"applied"`
	Skipped int `json:"skipped"`
}

// MacroExecutedPayload payload.
type MacroExecutedPayload struct {
	MacroID   string `json:"macro_id"`
	MacroName string `json:"macro_name"`
	Applied   int    `json:"applied"`
	Skipped   int    `json:"skipped"`
}

// TicketNudgedPayload payload.
type TicketNudgedPayload struct {
	NudgeCount int `json:"nudge_count"`
}
