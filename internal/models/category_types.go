package models

// Category is the model for the 'categories' table.
// ParentID is nil for top-level categories.
type Category struct {
	ID       int64  `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	Slug     string `json:"slug" db:"slug"`
	ParentID *int64 `json:"parentId,omitempty" db:"parent_id"`
}
