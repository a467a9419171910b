package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/todocard/internal/model"
	"github.com/nhle/todocard/internal/store"
)

// todosLoadedMsg carries the result of a todo query.
type todosLoadedMsg struct {
	todos []model.Todo
	err   error
}

// todoWriteResultMsg is sent after a todo write finishes.
type todoWriteResultMsg struct {
	id  string
	op  string
	err error
}

// Write operation names, used in logs and the status bar.
const (
	opCreate = "create"
	opToggle = "toggle"
	opRename = "rename"
	opDelete = "delete"
)

// filterMode is one entry in the filter cycle.
type filterMode struct {
	name   string
	filter store.TodoFilter
}

func strPtr(s string) *string { return &s }

// filterModes is cycled by the Filter key.
var filterModes = []filterMode{
	{name: "all", filter: store.TodoFilter{SortBy: "due_date"}},
	{name: "open", filter: store.TodoFilter{Status: strPtr(model.TodoStatusOpen), SortBy: "due_date"}},
	{name: "overdue", filter: store.TodoFilter{DueDate: strPtr(store.DueOverdue), SortBy: "due_date"}},
	{name: "done", filter: store.TodoFilter{Status: strPtr(model.TodoStatusComplete), SortBy: "due_date"}},
}

// loadTodos queries the store with the active filter.
func (m Model) loadTodos() tea.Cmd {
	s := m.store
	filter := filterModes[m.filterIndex].filter
	return func() tea.Msg {
		todos, err := s.GetTodos(context.Background(), filter)
		return todosLoadedMsg{todos: todos, err: err}
	}
}

// createTodo persists a new todo from the form.
func (m Model) createTodo(todo model.Todo) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		created, err := s.CreateTodo(context.Background(), todo)
		return todoWriteResultMsg{id: created.ID, op: opCreate, err: err}
	}
}

// writer turns card callbacks into store commands. It marks the todo as
// in flight at call time so the owner can disable the card until the
// result arrives.
type writer struct {
	store    store.Store
	inflight map[string]bool
}

func (w writer) toggle(id string) tea.Cmd {
	w.inflight[id] = true
	s := w.store
	return func() tea.Msg {
		_, err := s.ToggleTodo(context.Background(), id)
		return todoWriteResultMsg{id: id, op: opToggle, err: err}
	}
}

func (w writer) rename(id, title string) tea.Cmd {
	w.inflight[id] = true
	s := w.store
	return func() tea.Msg {
		err := s.RenameTodo(context.Background(), id, title)
		return todoWriteResultMsg{id: id, op: opRename, err: err}
	}
}

func (w writer) remove(id string) tea.Cmd {
	w.inflight[id] = true
	s := w.store
	return func() tea.Msg {
		err := s.DeleteTodo(context.Background(), id)
		return todoWriteResultMsg{id: id, op: opDelete, err: err}
	}
}
