package model

import (
	"time"

	"github.com/nhle/todocard/internal/due"
)

// Todo status filter values.
const (
	TodoStatusOpen     = "open"
	TodoStatusComplete = "complete"
)

// Todo is a single to-do item owned by the store.
type Todo struct {
	ID    string `json:"id" db:"id"`
	Title string `json:"title" db:"title"`

	// DueDate is a calendar day in YYYY-MM-DD form, or empty when the
	// todo has no due date.
	DueDate string `json:"due_date,omitempty" db:"due_date"`

	Completed bool      `json:"completed" db:"completed"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// HasDueDate reports whether the todo carries a due date.
func (t Todo) HasDueDate() bool { return t.DueDate != "" }

// IsOverdueAt reports whether the todo is overdue relative to now.
func (t Todo) IsOverdueAt(now time.Time) bool {
	return due.IsOverdueAt(t.DueDate, t.Completed, now)
}

// Status returns TodoStatusComplete or TodoStatusOpen.
func (t Todo) Status() string {
	if t.Completed {
		return TodoStatusComplete
	}
	return TodoStatusOpen
}
