package domain

import "time"

// TicketVisibility controls whether a ticket is exposed outside its creator.
type TicketVisibility string

const (
	TicketVisibilityPublic  TicketVisibility = "PUBLIC"
	TicketVisibilityPrivate TicketVisibility = "PRIVATE"
)

// Priority bounds for tickets. Values outside the range are rejected at
// validation time, never clamped.
const (
	PriorityMin     = 1
	PriorityMax     = 5
	PriorityDefault = 1
)

// ValidPriority reports whether p is inside the accepted range.
func ValidPriority(p int) bool {
	return p >= PriorityMin && p <= PriorityMax
}

// Ticket is the aggregate for support requests. TicketNumber is a globally
// unique, monotonically increasing, human-facing identifier minted once at
// creation and never reused. Status holds a status-directory reference, either
// a record id or a legacy slug during the migration window.
type Ticket struct {
	ID             string
	TicketNumber   int64
	Title          string
	Description    string
	Status         string
	CategoryID     string
	ClinicID       string
	CreatorID      string
	AssigneeID     *string
	Visibility     TicketVisibility
	Priority       int
	LastActivityAt time.Time
	NudgeCount     int
	LastNudgeAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TicketComment is a thread entry appended by a user or by a macro action on
// the actor's behalf.
type TicketComment struct {
	ID        string
	TicketID  string
	AuthorID  string
	Body      string
	CreatedAt time.Time
}
