package domain

import "time"

// Category organizes tickets by topic. Categories form a tree; deleting a
// parent detaches its children (parent set to NULL) rather than cascading.
type Category struct {
	ID          int64
	Name        string
	Description string
	ParentID    *int64
	Icon        string
	Color       string
	CreatedAt   time.Time
}

// Path renders "Parent > Child" given the resolved parent, matching the
// display value stored in ticket history.
func (c *Category) Path(parent *Category) string {
	if parent == nil {
		return c.Name
	}
	return parent.Name + " > " + c.Name
}
