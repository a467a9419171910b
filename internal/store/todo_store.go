package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/todocard/internal/due"
	"github.com/nhle/todocard/internal/model"
)

// todoRow mirrors the todos table; due_date is nullable.
type todoRow struct {
	ID        string         `db:"id"`
	Title     string         `db:"title"`
	DueDate   sql.NullString `db:"due_date"`
	Completed bool           `db:"completed"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

func (r todoRow) toModel() model.Todo {
	return model.Todo{
		ID:        r.ID,
		Title:     r.Title,
		DueDate:   r.DueDate.String,
		Completed: r.Completed,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func nullableDueDate(s string) sql.NullString {
	s = strings.TrimSpace(s)
	return sql.NullString{String: s, Valid: s != ""}
}

// CreateTodo inserts a new todo and returns it with its generated fields.
// Generates a UUID if ID is empty. A non-empty DueDate must be a valid
// YYYY-MM-DD calendar date.
func (s *SQLiteStore) CreateTodo(ctx context.Context, todo model.Todo) (model.Todo, error) {
	todo.Title = strings.TrimSpace(todo.Title)
	if todo.Title == "" {
		return model.Todo{}, fmt.Errorf("todo title must not be empty")
	}
	if todo.ID == "" {
		todo.ID = uuid.New().String()
	}
	now := s.now().UTC()
	todo.CreatedAt = now
	todo.UpdatedAt = now
	todo.DueDate = strings.TrimSpace(todo.DueDate)
	if todo.DueDate != "" {
		if _, err := due.Parse(todo.DueDate); err != nil {
			return model.Todo{}, fmt.Errorf("creating todo: %w", err)
		}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO todos (id, title, due_date, completed, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		todo.ID, todo.Title, nullableDueDate(todo.DueDate), todo.Completed,
		todo.CreatedAt, todo.UpdatedAt,
	)
	if err != nil {
		return model.Todo{}, fmt.Errorf("creating todo: %w", err)
	}
	return todo, nil
}

// GetTodoByID retrieves a single todo by ID.
func (s *SQLiteStore) GetTodoByID(ctx context.Context, id string) (*model.Todo, error) {
	var row todoRow
	err := s.db.GetContext(ctx, &row, "SELECT * FROM todos WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("getting todo %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting todo %s: %w", id, err)
	}
	todo := row.toModel()
	return &todo, nil
}

// GetTodos retrieves todos matching the filter.
func (s *SQLiteStore) GetTodos(ctx context.Context, filter TodoFilter) ([]model.Todo, error) {
	query, args := s.buildTodoQuery(filter)

	var rows []todoRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("querying todos: %w", err)
	}

	todos := make([]model.Todo, len(rows))
	for i, r := range rows {
		todos[i] = r.toModel()
	}
	return todos, nil
}

// ToggleTodo flips the completed flag and returns the updated todo.
func (s *SQLiteStore) ToggleTodo(ctx context.Context, id string) (*model.Todo, error) {
	result, err := s.db.ExecContext(ctx,
		"UPDATE todos SET completed = CASE WHEN completed = 0 THEN 1 ELSE 0 END, updated_at = ? WHERE id = ?",
		s.now().UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("toggling todo %s: %w", id, err)
	}
	if err := requireRow(result, id); err != nil {
		return nil, err
	}
	return s.GetTodoByID(ctx, id)
}

// RenameTodo replaces the title of a todo.
func (s *SQLiteStore) RenameTodo(ctx context.Context, id, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return fmt.Errorf("todo title must not be empty")
	}

	result, err := s.db.ExecContext(ctx,
		"UPDATE todos SET title = ?, updated_at = ? WHERE id = ?",
		title, s.now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("renaming todo %s: %w", id, err)
	}
	return requireRow(result, id)
}

// DeleteTodo removes a todo by ID.
func (s *SQLiteStore) DeleteTodo(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM todos WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting todo %s: %w", id, err)
	}
	return requireRow(result, id)
}

func requireRow(result sql.Result, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected for todo %s: %w", id, err)
	}
	if rows == 0 {
		return fmt.Errorf("todo %s: %w", id, ErrNotFound)
	}
	return nil
}

// dueDateGlob matches the YYYY-MM-DD shape of a stored due date.
const dueDateGlob = "'[0-9][0-9][0-9][0-9]-[0-9][0-9]-[0-9][0-9]'"

// buildTodoQuery constructs the SELECT query and args for a TodoFilter.
func (s *SQLiteStore) buildTodoQuery(filter TodoFilter) (string, []interface{}) {
	var (
		conditions []string
		args       []interface{}
	)

	if filter.Status != nil {
		switch *filter.Status {
		case model.TodoStatusOpen:
			conditions = append(conditions, "completed = 0")
		case model.TodoStatusComplete:
			conditions = append(conditions, "completed = 1")
		}
	}

	if filter.DueDate != nil {
		today := due.Today(s.now()).String()
		switch *filter.DueDate {
		case DueToday:
			conditions = append(conditions, "due_date = ?")
			args = append(args, today)
		case DueOverdue:
			// YYYY-MM-DD sorts lexically in calendar order. Rows written
			// elsewhere may hold malformed dates; date() normalizes or
			// rejects those, so they never count as overdue.
			conditions = append(conditions,
				"due_date GLOB "+dueDateGlob+" AND date(due_date) = due_date AND due_date < ? AND completed = 0")
			args = append(args, today)
		}
	}

	query := "SELECT * FROM todos"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	sortBy := "created_at"
	if filter.SortBy != "" {
		allowed := map[string]string{
			"created_at": "created_at",
			"due_date":   "due_date IS NULL, due_date",
			"title":      "title COLLATE NOCASE",
		}
		if col, ok := allowed[filter.SortBy]; ok {
			sortBy = col
		}
	}
	direction := "ASC"
	if filter.SortDesc {
		direction = "DESC"
	}
	query += fmt.Sprintf(" ORDER BY %s %s, id ASC", sortBy, direction)

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	} else if filter.Offset > 0 {
		// SQLite only accepts OFFSET after a LIMIT clause.
		query += " LIMIT -1"
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	return query, args
}
