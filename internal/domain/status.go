package domain

import "time"

// Legacy status slugs still referenced by triggers and macros authored before
// the status directory became id-based.
const (
	StatusSlugOpen       = "open"
	StatusSlugInProgress = "in_progress"
	StatusSlugClosed     = "closed"
)

// TicketStatus is a row in the status directory. Engines must tolerate both
// Slug and ID references while the migration window is open.
type TicketStatus struct {
	ID        string
	Slug      string
	Name      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
