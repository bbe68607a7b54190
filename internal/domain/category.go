package domain

import "time"

// CategoryVisibility controls listing exposure for a category.
type CategoryVisibility string

const (
	CategoryVisibilityPublic  CategoryVisibility = "PUBLIC"
	CategoryVisibilityPrivate CategoryVisibility = "PRIVATE"
)

// Category is a node in the hierarchical category tree tickets are filed
// against. Path holds the full ancestor chain root→parent and Depth always
// equals len(Path). An empty SocietyIDs set means the category is visible to
// every society.
type Category struct {
	ID         string
	Name       string
	Slug       string
	ParentID   *string
	Path       []string
	Depth      int
	Order      int
	Visibility CategoryVisibility
	SocietyIDs []string
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  *time.Time
}

// IsDeleted reports whether the category is soft-deleted. Soft-deleted
// categories are excluded from every selection and creation flow.
func (c *Category) IsDeleted() bool {
	return c.DeletedAt != nil
}

// IsUnscoped reports whether the category is visible to every society.
func (c *Category) IsUnscoped() bool {
	return len(c.SocietyIDs) == 0
}

// Society is a business-unit grouping used to scope category and trigger
// visibility across clinics.
type Society struct {
	ID        string
	Code      string
	Name      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SocietyMembership joins users to societies.
type SocietyMembership struct {
	ID         string
	UserID     string
	SocietyID  string
	IsActive   bool
	AssignedAt time.Time
}
