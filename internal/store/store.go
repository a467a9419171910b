package store

import (
	"context"
	"errors"

	"github.com/nhle/todocard/internal/model"
)

// ErrNotFound is returned when a todo id does not exist.
var ErrNotFound = errors.New("todo not found")

// Due date filter values for TodoFilter.DueDate.
const (
	DueToday   = "today"
	DueOverdue = "overdue"
)

// TodoFilter controls filtering, sorting, and pagination for todo queries.
type TodoFilter struct {
	Status   *string // "open", "complete", or nil (all)
	DueDate  *string // "today", "overdue", or nil
	SortBy   string  // "created_at", "due_date", "title"
	SortDesc bool
	Limit    int
	Offset   int
}

// Store defines the persistence interface for todos.
type Store interface {
	CreateTodo(ctx context.Context, todo model.Todo) (model.Todo, error)
	GetTodoByID(ctx context.Context, id string) (*model.Todo, error)
	GetTodos(ctx context.Context, filter TodoFilter) ([]model.Todo, error)
	ToggleTodo(ctx context.Context, id string) (*model.Todo, error)
	RenameTodo(ctx context.Context, id, title string) error
	DeleteTodo(ctx context.Context, id string) error
}
