package domain

import "time"

// AuditEntry records a mutation for the audit trail. Writes are
// fire-and-forget; a failed append never fails the primary operation.
type AuditEntry struct {
	ID         string
	EntityType string
	EntityID   string
	Action     string
	UserID     string
	Changes    map[string]any
	CreatedAt  time.Time
}

// SequenceCounter is the single global record backing ticket-number
// allocation. CurrentValue is the last number issued across the whole system,
// not per clinic.
type SequenceCounter struct {
	Name         string
	CurrentValue int64
	UpdatedAt    time.Time
}

// SequenceTickets names the counter used for ticket numbers.
const SequenceTickets = "tickets"
