package domain

import "time"

// MacroActionType enumerates the closed set of macro actions.
type MacroActionType string

const (
	MacroActionAddComment   MacroActionType = "add_comment"
	MacroActionChangeStatus MacroActionType = "change_status"
	MacroActionAssignUser   MacroActionType = "assign_user"
)

// MacroAction is one step of a macro's ordered action list.
type MacroAction struct {
	Type  MacroActionType `json:"type"`
	Value string          `json:"value"`
	Order int             `json:"order"`
}

// Macro is a pre-authored ordered batch of actions an agent replays against a
// single ticket on demand. Execution is best-effort per action, not atomic.
type Macro struct {
	ID        string
	ClinicID  string
	Name      string
	Category  string
	Actions   []MacroAction
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
