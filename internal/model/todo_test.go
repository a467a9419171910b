package model

import (
	"testing"
	"time"
)

func TestTodoIsOverdueAt(t *testing.T) {
	now := time.Date(2026, time.June, 10, 9, 0, 0, 0, time.Local)

	todo := Todo{ID: "a", Title: "pay rent", DueDate: "2026-06-09"}
	if !todo.IsOverdueAt(now) {
		t.Error("expected overdue")
	}

	todo.Completed = true
	if todo.IsOverdueAt(now) {
		t.Error("completed todo must not be overdue")
	}
	if todo.Status() != TodoStatusComplete {
		t.Errorf("Status() = %q, want %q", todo.Status(), TodoStatusComplete)
	}

	noDue := Todo{ID: "b", Title: "someday"}
	if noDue.HasDueDate() || noDue.IsOverdueAt(now) {
		t.Error("todo without due date must not be overdue")
	}
	if noDue.Status() != TodoStatusOpen {
		t.Errorf("Status() = %q, want %q", noDue.Status(), TodoStatusOpen)
	}
}
