package domain

import "time"

// Capability strings consumed as an opaque set. The core never branches on
// role names, only on capabilities.
const (
	CapabilityAssignTickets = "assign_tickets"
	CapabilitySetPriority   = "set_priority"
	CapabilityManageMacros  = "manage_macros"
	CapabilityFullAccess    = "full_access"
)

// CapabilitySet is the opaque permission set supplied by the identity
// provider.
type CapabilitySet []string

// Has reports whether the set grants the capability. full_access implies
// every capability.
func (s CapabilitySet) Has(capability string) bool {
	for _, c := range s {
		if c == capability || c == CapabilityFullAccess {
			return true
		}
	}
	return false
}

// UserStatus represents lifecycle states for a platform user.
type UserStatus string

const (
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusSuspended UserStatus = "SUSPENDED"
)

// User models anyone who files or works tickets. ClinicIDs lists assigned
// tenants; a user without any clinic cannot create tickets.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Status       UserStatus
	ClinicIDs    []string
	Capabilities CapabilitySet
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Clinic is an isolated operational unit owning its own tickets, triggers and
// macros.
type Clinic struct {
	ID        string
	Name      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AgentCompetency declares a category an agent can handle. Competencies scope
// the agent's default working set.
type AgentCompetency struct {
	ID         string
	UserID     string
	CategoryID string
	CreatedAt  time.Time
}
