package todocard_test

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/todocard/internal/model"
	"github.com/nhle/todocard/internal/ui/todocard"
)

// today is the fixed clock reading for every card in these tests.
var today = time.Date(2026, time.March, 15, 14, 0, 0, 0, time.Local)

func fixedNow() time.Time { return today }

func testTodo() model.Todo {
	return model.Todo{
		ID:        "1",
		Title:     "Test Todo",
		DueDate:   "2025-12-25",
		CreatedAt: time.Date(2025, time.November, 1, 0, 0, 0, 0, time.UTC),
	}
}

// recorder captures callback invocations.
type recorder struct {
	toggled []string
	edited  [][2]string
	deleted []string
	prompts []string
}

func (r *recorder) props(todo model.Todo, confirm bool) todocard.Props {
	return todocard.Props{
		Todo: todo,
		OnToggle: func(id string) tea.Cmd {
			r.toggled = append(r.toggled, id)
			return nil
		},
		OnEdit: func(id, title string) tea.Cmd {
			r.edited = append(r.edited, [2]string{id, title})
			return nil
		},
		OnDelete: func(id string) tea.Cmd {
			r.deleted = append(r.deleted, id)
			return nil
		},
		Confirm: todocard.ConfirmFunc(func(prompt string) bool {
			r.prompts = append(r.prompts, prompt)
			return confirm
		}),
		Now: fixedNow,
	}
}

func newCard(t *testing.T, todo model.Todo) (todocard.Model, *recorder) {
	t.Helper()
	r := &recorder{}
	return todocard.New(r.props(todo, true)), r
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m todocard.Model, msgs ...tea.Msg) todocard.Model {
	for _, msg := range msgs {
		m, _ = m.Update(msg)
	}
	return m
}

func checkbox(t *testing.T, m todocard.Model) todocard.Control {
	t.Helper()
	boxes := m.ByRole(todocard.RoleCheckbox)
	if len(boxes) != 1 {
		t.Fatalf("expected exactly one checkbox, got %d", len(boxes))
	}
	return boxes[0]
}

func TestRendersTitleAndDueDate(t *testing.T) {
	m, _ := newCard(t, testTodo())
	view := m.View()

	if !strings.Contains(view, "Test Todo") {
		t.Errorf("view missing title:\n%s", view)
	}
	if !strings.Contains(view, "December 25, 2025") {
		t.Errorf("view missing long due date:\n%s", view)
	}
}

func TestNoDueDateRendersNothingDateRelated(t *testing.T) {
	todo := testTodo()
	todo.DueDate = ""
	m, _ := newCard(t, todo)

	if strings.Contains(m.View(), "Due:") {
		t.Errorf("view should not mention a due date:\n%s", m.View())
	}
}

func TestCheckboxReflectsCompletion(t *testing.T) {
	m, _ := newCard(t, testTodo())
	if checkbox(t, m).Checked {
		t.Error("checkbox should be unchecked for open todo")
	}
	if m.Variant() != todocard.VariantDefault {
		t.Error("open todo should use the default variant")
	}

	done := testTodo()
	done.Completed = true
	m, _ = newCard(t, done)
	if !checkbox(t, m).Checked {
		t.Error("checkbox should be checked for completed todo")
	}
	if m.Variant() != todocard.VariantCompleted {
		t.Error("completed todo should use the completed variant")
	}
	if !strings.Contains(m.View(), "[x]") {
		t.Errorf("view should show a checked box:\n%s", m.View())
	}
}

func TestToggleCallsOnToggleWithID(t *testing.T) {
	for _, msg := range []tea.KeyMsg{{Type: tea.KeySpace, Runes: []rune{' '}}, runes("x")} {
		m, r := newCard(t, testTodo())
		m = press(m, msg)

		if len(r.toggled) != 1 || r.toggled[0] != "1" {
			t.Errorf("key %q: toggled = %v, want [1]", msg.String(), r.toggled)
		}
		if m.State() != todocard.StateViewing {
			t.Errorf("key %q: toggle changed state to %s", msg.String(), m.State())
		}
	}
}

func TestEditAndDeleteControlsAreLabelled(t *testing.T) {
	m, _ := newCard(t, testTodo())

	for _, label := range []string{"Edit", "Delete"} {
		c, ok := m.ByLabel(label)
		if !ok {
			t.Errorf("no control labelled %q", label)
			continue
		}
		if c.Role != todocard.RoleButton {
			t.Errorf("%q control role = %s, want button", label, c.Role)
		}
		if !strings.Contains(c.Label, label) {
			t.Errorf("label %q does not contain %q", c.Label, label)
		}
	}
}

func TestEnterEditModePrefillsTitle(t *testing.T) {
	m, _ := newCard(t, testTodo())
	m = press(m, runes("e"))

	if m.State() != todocard.StateEditing {
		t.Fatalf("state = %s, want editing", m.State())
	}
	if m.EditValue() != "Test Todo" {
		t.Errorf("edit buffer = %q, want %q", m.EditValue(), "Test Todo")
	}
	tb := m.ByRole(todocard.RoleTextbox)
	if len(tb) != 1 || tb[0].Value != "Test Todo" {
		t.Errorf("textbox controls = %+v", tb)
	}
	if !m.Capturing() {
		t.Error("editing card should capture keys")
	}
}

func TestSaveEditCallsOnEdit(t *testing.T) {
	m, r := newCard(t, testTodo())
	m = press(m, runes("e"), runes("!"), tea.KeyMsg{Type: tea.KeyEnter})

	if len(r.edited) != 1 {
		t.Fatalf("edited = %v, want one call", r.edited)
	}
	if r.edited[0] != [2]string{"1", "Test Todo!"} {
		t.Errorf("OnEdit args = %v", r.edited[0])
	}
	if m.State() != todocard.StateViewing {
		t.Errorf("state = %s, want viewing after save", m.State())
	}
}

func TestSaveUnchangedTitleStillCommits(t *testing.T) {
	m, r := newCard(t, testTodo())
	press(m, runes("e"), tea.KeyMsg{Type: tea.KeyEnter})

	if len(r.edited) != 1 || r.edited[0][1] != "Test Todo" {
		t.Errorf("edited = %v", r.edited)
	}
}

func TestCancelEditDiscardsBuffer(t *testing.T) {
	m, r := newCard(t, testTodo())
	m = press(m, runes("e"), runes("zzz"), tea.KeyMsg{Type: tea.KeyEsc})

	if len(r.edited) != 0 {
		t.Errorf("OnEdit fired on cancel: %v", r.edited)
	}
	if m.State() != todocard.StateViewing {
		t.Errorf("state = %s, want viewing", m.State())
	}
	if strings.Contains(m.View(), "zzz") {
		t.Errorf("cancelled edit leaked into view:\n%s", m.View())
	}

	// Re-entering edit mode starts from the stored title again.
	m = press(m, runes("e"))
	if m.EditValue() != "Test Todo" {
		t.Errorf("edit buffer = %q after cancel, want original title", m.EditValue())
	}
}

func TestBlankTitleStaysInEditMode(t *testing.T) {
	m, r := newCard(t, testTodo())
	m = press(m, runes("e"), tea.KeyMsg{Type: tea.KeyCtrlU}, tea.KeyMsg{Type: tea.KeyEnter})

	if len(r.edited) != 0 {
		t.Errorf("OnEdit fired for blank title: %v", r.edited)
	}
	if m.State() != todocard.StateEditing {
		t.Errorf("state = %s, want editing", m.State())
	}
	if !strings.Contains(m.View(), "Title is required") {
		t.Errorf("missing validation message:\n%s", m.View())
	}
}

func TestToggleWhileEditingKeepsEditState(t *testing.T) {
	m, r := newCard(t, testTodo())
	m = press(m, runes("e"), tea.KeyMsg{Type: tea.KeyCtrlT})

	if len(r.toggled) != 1 || r.toggled[0] != "1" {
		t.Errorf("toggled = %v", r.toggled)
	}
	if m.State() != todocard.StateEditing {
		t.Errorf("state = %s, want editing", m.State())
	}
}

func TestDeleteConfirmed(t *testing.T) {
	m, r := newCard(t, testTodo())
	press(m, runes("d"))

	if len(r.prompts) != 1 || !strings.Contains(r.prompts[0], "Test Todo") {
		t.Errorf("prompts = %v", r.prompts)
	}
	if len(r.deleted) != 1 || r.deleted[0] != "1" {
		t.Errorf("deleted = %v, want [1]", r.deleted)
	}
}

func TestDeleteDeclined(t *testing.T) {
	r := &recorder{}
	m := todocard.New(r.props(testTodo(), false))
	m = press(m, runes("d"))

	if len(r.prompts) != 1 {
		t.Errorf("confirm asked %d times, want 1", len(r.prompts))
	}
	if len(r.deleted) != 0 {
		t.Errorf("OnDelete fired after decline: %v", r.deleted)
	}
	if m.State() != todocard.StateViewing {
		t.Errorf("state = %s, want viewing", m.State())
	}
}

func TestDeleteWithoutConfirmerAsksInline(t *testing.T) {
	r := &recorder{}
	props := r.props(testTodo(), true)
	props.Confirm = nil
	m := todocard.New(props)

	m = press(m, runes("d"))
	if !m.Confirming() {
		t.Fatal("expected inline confirmation prompt")
	}
	if len(r.deleted) != 0 {
		t.Errorf("OnDelete fired before an answer: %v", r.deleted)
	}
	if !m.Capturing() {
		t.Error("card with an open prompt should capture keys")
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.Confirming() {
		t.Error("esc should dismiss the prompt")
	}
	if len(r.deleted) != 0 {
		t.Errorf("OnDelete fired after dismiss: %v", r.deleted)
	}
}

func TestFocusAndActivate(t *testing.T) {
	m, r := newCard(t, testTodo())
	m.SetSelected(true)

	if c := checkbox(t, m); !c.Focused {
		t.Error("checkbox should start focused")
	}

	// tab, tab -> Delete control
	m = press(m, tea.KeyMsg{Type: tea.KeyTab}, tea.KeyMsg{Type: tea.KeyTab})
	if c, _ := m.ByLabel("Delete"); !c.Focused {
		t.Errorf("delete not focused: %+v", m.Controls())
	}
	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if len(r.deleted) != 1 {
		t.Errorf("enter on Delete: deleted = %v", r.deleted)
	}

	// shift+tab -> Edit control
	m = press(m, tea.KeyMsg{Type: tea.KeyShiftTab}, tea.KeyMsg{Type: tea.KeyEnter})
	if m.State() != todocard.StateEditing {
		t.Errorf("enter on Edit: state = %s", m.State())
	}
}

func TestLoadingDisablesControls(t *testing.T) {
	r := &recorder{}
	props := r.props(testTodo(), true)
	props.IsLoading = true
	m := todocard.New(props)

	if m.Init() == nil {
		t.Error("loading card should start its spinner")
	}

	m = press(m, runes("x"), runes("d"), runes("e"), tea.KeyMsg{Type: tea.KeyEnter})
	if len(r.toggled)+len(r.deleted)+len(r.edited) != 0 {
		t.Errorf("callbacks fired while loading: %+v", r)
	}
	if m.State() != todocard.StateViewing {
		t.Errorf("state = %s, want viewing", m.State())
	}
	for _, c := range m.Controls() {
		if c.Role != todocard.RoleStatus && !c.Disabled {
			t.Errorf("control %q should be disabled while loading", c.Label)
		}
	}

	m.SetLoading(false)
	press(m, runes("x"))
	if len(r.toggled) != 1 {
		t.Errorf("toggle after loading cleared: toggled = %v", r.toggled)
	}
}

func TestOverdueBadge(t *testing.T) {
	tests := []struct {
		name      string
		dueDate   string
		completed bool
		want      bool
	}{
		{name: "past incomplete", dueDate: "2026-03-14", want: true},
		{name: "past completed", dueDate: "2026-03-14", completed: true, want: false},
		{name: "due today", dueDate: "2026-03-15", want: false},
		{name: "future", dueDate: "2026-03-16", want: false},
		{name: "no due date", dueDate: "", want: false},
		{name: "malformed", dueDate: "soon", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			todo := testTodo()
			todo.DueDate = tt.dueDate
			todo.Completed = tt.completed
			m, _ := newCard(t, todo)

			badge, ok := m.ByLabel("overdue")
			if ok != tt.want {
				t.Fatalf("overdue control present = %v, want %v", ok, tt.want)
			}
			if ok && badge.Role != todocard.RoleStatus {
				t.Errorf("badge role = %s, want status", badge.Role)
			}
			if got := strings.Contains(m.View(), "OVERDUE"); got != tt.want {
				t.Errorf("badge rendered = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSetTodoKeepsEditForSameID(t *testing.T) {
	m, _ := newCard(t, testTodo())
	m = press(m, runes("e"), runes("?"))

	updated := testTodo()
	updated.Completed = true
	m.SetTodo(updated)
	if m.State() != todocard.StateEditing || m.EditValue() != "Test Todo?" {
		t.Errorf("edit lost on same-id update: state=%s buffer=%q", m.State(), m.EditValue())
	}

	other := testTodo()
	other.ID = "2"
	m.SetTodo(other)
	if m.State() != todocard.StateViewing {
		t.Errorf("state = %s after switching todo, want viewing", m.State())
	}
}

func TestNilCallbacksAreSafe(t *testing.T) {
	m := todocard.New(todocard.Props{Todo: testTodo(), Now: fixedNow, Confirm: todocard.AlwaysConfirm})
	m = press(m, runes("x"), runes("d"), runes("e"), tea.KeyMsg{Type: tea.KeyEnter})
	if m.State() != todocard.StateViewing {
		t.Errorf("state = %s, want viewing", m.State())
	}
}
