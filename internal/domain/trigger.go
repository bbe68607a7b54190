package domain

import "time"

// TriggerConditionType enumerates the closed set of trigger conditions.
type TriggerConditionType string

const (
	ConditionCategoryMatch TriggerConditionType = "category_match"
	ConditionStatusChange  TriggerConditionType = "status_change"
	ConditionPriorityEq    TriggerConditionType = "priority_eq"
	ConditionPriorityGte   TriggerConditionType = "priority_gte"
	ConditionPriorityLte   TriggerConditionType = "priority_lte"
)

// TriggerActionType enumerates the closed set of trigger actions.
type TriggerActionType string

const (
	ActionAssignUser   TriggerActionType = "assign_user"
	ActionChangeStatus TriggerActionType = "change_status"
	ActionSetPriority  TriggerActionType = "set_priority"
)

// TriggerCondition pairs a condition type with its comparison value.
type TriggerCondition struct {
	Type  TriggerConditionType `json:"type"`
	Value string               `json:"value"`
}

// TriggerAction pairs an action type with its payload value.
type TriggerAction struct {
	Type  TriggerActionType `json:"type"`
	Value string            `json:"value"`
}

// Trigger is an automation rule evaluated exactly once per qualifying
// ticket-creation event for its clinic. SocietyIDs scoping follows the same
// unscoped/scoped rule as categories but is honored in read paths only, not
// enforced at fire time.
type Trigger struct {
	ID         string
	ClinicID   string
	Condition  TriggerCondition
	Action     TriggerAction
	SocietyIDs []string
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
