// Package todocard renders a single todo as an interactive card.
//
// The card owns only transient UI state: whether the title is being
// edited, the edit buffer, which control has focus, and an optional
// in-card delete prompt. Every change to the todo itself is reported to
// the owner through the callbacks in Props; the owner persists it and
// hands back a fresh todo with SetTodo.
package todocard

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todocard/internal/due"
	"github.com/nhle/todocard/internal/keys"
	"github.com/nhle/todocard/internal/model"
	"github.com/nhle/todocard/internal/theme"
)

// State is the card's interaction mode.
type State int

const (
	StateViewing State = iota
	StateEditing
)

func (s State) String() string {
	switch s {
	case StateViewing:
		return "viewing"
	case StateEditing:
		return "editing"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Variant is the visual treatment of the card container.
type Variant int

const (
	VariantDefault Variant = iota
	VariantCompleted
)

// Focusable controls while viewing, in tab order.
const (
	focusCheckbox = iota
	focusEdit
	focusDelete
	focusCount
)

// Props is everything the owner passes into a card.
type Props struct {
	Todo model.Todo

	// OnToggle is called with the todo id when the checkbox is activated.
	OnToggle func(id string) tea.Cmd
	// OnEdit is called with the todo id and the new title on save.
	OnEdit func(id, title string) tea.Cmd
	// OnDelete is called with the todo id once deletion is confirmed.
	OnDelete func(id string) tea.Cmd

	// IsLoading disables every control while the owner is writing.
	IsLoading bool

	// Confirm gates deletion. When nil the card asks inline.
	Confirm Confirmer

	// Now is the clock used for the overdue badge. Defaults to time.Now.
	Now func() time.Time
}

// Model is the Bubble Tea model for a single todo card.
type Model struct {
	props    Props
	keys     *keys.CardKeyMap
	state    State
	input    textinput.Model
	inputErr string
	focus    int
	selected bool
	prompt   *huh.Form
	pb       *promptBindings
	spinner  spinner.Model
	width    int
}

// New creates a card for props using the default keybindings.
func New(props Props) Model {
	return NewWithKeys(props, keys.DefaultCardKeyMap())
}

// NewWithKeys creates a card with a custom keymap.
func NewWithKeys(props Props, k *keys.CardKeyMap) Model {
	if props.Now == nil {
		props.Now = time.Now
	}

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "What needs to be done?"
	ti.CharLimit = 200

	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(theme.SpinnerStyle),
	)

	return Model{
		props:   props,
		keys:    k,
		state:   StateViewing,
		input:   ti,
		pb:      &promptBindings{},
		spinner: sp,
	}
}

// Init starts the spinner if the card is created in the loading state.
func (m Model) Init() tea.Cmd {
	if m.props.IsLoading {
		return m.spinner.Tick
	}
	return nil
}

// Todo returns the todo the card currently displays.
func (m Model) Todo() model.Todo { return m.props.Todo }

// State returns the current interaction mode.
func (m Model) State() State { return m.state }

// IsLoading reports whether controls are disabled.
func (m Model) IsLoading() bool { return m.props.IsLoading }

// Confirming reports whether the inline delete prompt is showing.
func (m Model) Confirming() bool { return m.prompt != nil }

// Capturing reports whether the card wants raw key input, so the owner
// should not interpret keys as global shortcuts.
func (m Model) Capturing() bool {
	return m.state == StateEditing || m.prompt != nil
}

// Variant returns VariantCompleted for completed todos.
func (m Model) Variant() Variant {
	if m.props.Todo.Completed {
		return VariantCompleted
	}
	return VariantDefault
}

// IsOverdue reports whether the overdue badge is shown.
func (m Model) IsOverdue() bool {
	return due.IsOverdueAt(m.props.Todo.DueDate, m.props.Todo.Completed, m.props.Now())
}

// EditValue returns the contents of the edit buffer.
func (m Model) EditValue() string { return m.input.Value() }

// SetTodo replaces the displayed todo. An edit in progress survives unless
// the card is pointed at a different todo.
func (m *Model) SetTodo(todo model.Todo) {
	if todo.ID != m.props.Todo.ID {
		m.resetEdit()
		m.prompt = nil
	}
	m.props.Todo = todo
}

// SetLoading enables or disables the card's controls.
func (m *Model) SetLoading(loading bool) tea.Cmd {
	wasLoading := m.props.IsLoading
	m.props.IsLoading = loading
	if loading && !wasLoading {
		return m.spinner.Tick
	}
	return nil
}

// SetConfirmer replaces the delete confirmer. Nil uses the inline prompt.
func (m *Model) SetConfirmer(c Confirmer) {
	m.props.Confirm = c
}

// SetSelected marks the card as the one receiving input.
func (m *Model) SetSelected(selected bool) {
	m.selected = selected
}

// SetWidth sets the outer width of the card. Zero lets it size to content.
func (m *Model) SetWidth(width int) {
	m.width = width
	if width > 8 {
		m.input.Width = width - 8
	}
}

// Update handles messages for the card.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if _, ok := msg.(spinner.TickMsg); ok {
		if !m.props.IsLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.prompt != nil {
		return m.updatePrompt(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.state == StateEditing {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	if m.props.IsLoading {
		return m, nil
	}

	if m.state == StateEditing {
		return m.handleEditKeys(keyMsg)
	}
	return m.handleViewKeys(keyMsg)
}

func (m Model) handleViewKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Toggle):
		cmd := m.Toggle()
		return m, cmd
	case key.Matches(msg, m.keys.Edit):
		cmd := m.StartEdit()
		return m, cmd
	case key.Matches(msg, m.keys.Delete):
		cmd := m.RequestDelete()
		return m, cmd
	case key.Matches(msg, m.keys.NextControl):
		m.focus = (m.focus + 1) % focusCount
		return m, nil
	case key.Matches(msg, m.keys.PrevControl):
		m.focus = (m.focus + focusCount - 1) % focusCount
		return m, nil
	case key.Matches(msg, m.keys.Activate):
		cmd := m.activateFocused()
		return m, cmd
	}
	return m, nil
}

func (m Model) handleEditKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Save):
		cmd := m.Save()
		return m, cmd
	case key.Matches(msg, m.keys.Cancel):
		m.CancelEdit()
		return m, nil
	case key.Matches(msg, m.keys.EditToggle):
		cmd := m.Toggle()
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.inputErr = ""
	return m, cmd
}

func (m *Model) activateFocused() tea.Cmd {
	switch m.focus {
	case focusCheckbox:
		return m.Toggle()
	case focusEdit:
		return m.StartEdit()
	case focusDelete:
		return m.RequestDelete()
	}
	return nil
}

// Toggle reports a completion toggle to the owner. The edit state is left
// untouched.
func (m *Model) Toggle() tea.Cmd {
	if m.props.IsLoading || m.props.OnToggle == nil {
		return nil
	}
	return m.props.OnToggle(m.props.Todo.ID)
}

// StartEdit switches to edit mode with the buffer set to the current title.
func (m *Model) StartEdit() tea.Cmd {
	if m.props.IsLoading || m.state == StateEditing {
		return nil
	}
	m.state = StateEditing
	m.inputErr = ""
	m.input.SetValue(m.props.Todo.Title)
	m.input.CursorEnd()
	return m.input.Focus()
}

// Save commits the edit buffer through OnEdit and returns to viewing. A
// blank title keeps the card in edit mode.
func (m *Model) Save() tea.Cmd {
	if m.props.IsLoading || m.state != StateEditing {
		return nil
	}
	title := strings.TrimSpace(m.input.Value())
	if title == "" {
		m.inputErr = "Title is required"
		return nil
	}

	var cmd tea.Cmd
	if m.props.OnEdit != nil {
		cmd = m.props.OnEdit(m.props.Todo.ID, title)
	}
	m.resetEdit()
	return cmd
}

// CancelEdit discards the edit buffer and returns to viewing.
func (m *Model) CancelEdit() {
	m.resetEdit()
}

func (m *Model) resetEdit() {
	m.state = StateViewing
	m.inputErr = ""
	m.input.SetValue("")
	m.input.Blur()
}

// RequestDelete asks for confirmation and calls OnDelete only if the
// answer is yes.
func (m *Model) RequestDelete() tea.Cmd {
	if m.props.IsLoading {
		return nil
	}
	prompt := fmt.Sprintf("Delete %q?", m.props.Todo.Title)

	if m.props.Confirm != nil {
		if !m.props.Confirm.Confirm(prompt) {
			return nil
		}
		return m.deleteNow()
	}

	m.prompt = newDeletePrompt(prompt, m.pb)
	return m.prompt.Init()
}

func (m *Model) deleteNow() tea.Cmd {
	if m.props.OnDelete == nil {
		return nil
	}
	return m.props.OnDelete(m.props.Todo.ID)
}

func (m Model) updatePrompt(msg tea.Msg) (Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && key.Matches(keyMsg, m.keys.Cancel) {
		m.prompt = nil
		return m, nil
	}

	mdl, cmd := m.prompt.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.prompt = f
	}

	switch m.prompt.State {
	case huh.StateCompleted:
		m.prompt = nil
		if m.pb.confirmed && !m.props.IsLoading {
			return m, m.deleteNow()
		}
		return m, nil
	case huh.StateAborted:
		m.prompt = nil
		return m, nil
	}
	return m, cmd
}

// View renders the card.
func (m Model) View() string {
	todo := m.props.Todo
	var lines []string

	check := "[ ]"
	if todo.Completed {
		check = "[x]"
	}
	checkStyle := theme.CheckboxStyle
	if m.props.IsLoading {
		checkStyle = theme.DisabledStyle
	} else if m.selected && m.state == StateViewing && m.focus == focusCheckbox {
		checkStyle = theme.FocusedButtonStyle
	}

	head := checkStyle.Render(check) + " "
	if m.state == StateEditing {
		head += m.input.View()
	} else {
		titleStyle := theme.TitleStyle
		if todo.Completed {
			titleStyle = theme.CompletedTitleStyle
		}
		head += titleStyle.Render(todo.Title)
	}
	if m.IsOverdue() {
		head += " " + theme.OverdueBadgeStyle.Render("OVERDUE")
	}
	lines = append(lines, head)

	if m.inputErr != "" {
		lines = append(lines, theme.ErrorStyle.Render(m.inputErr))
	}

	if long := due.FormatLong(todo.DueDate); long != "" {
		lines = append(lines, theme.DueDateStyle.Render("Due: "+long))
	}

	switch {
	case m.prompt != nil:
		lines = append(lines, m.prompt.View())
	case m.state == StateEditing:
		lines = append(lines, m.renderButtons(
			button{"Save", false},
			button{"Cancel", false},
		))
	default:
		lines = append(lines, m.renderButtons(
			button{"Edit", m.focus == focusEdit},
			button{"Delete", m.focus == focusDelete},
		))
	}

	if m.props.IsLoading {
		lines = append(lines, m.spinner.View()+" Saving…")
	}

	style := theme.CardStyle
	if m.selected {
		style = theme.SelectedCardStyle
	}
	if m.width > 2 {
		style = style.Width(m.width - 2)
	}
	return style.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

type button struct {
	label   string
	focused bool
}

func (m Model) renderButtons(buttons ...button) string {
	parts := make([]string, len(buttons))
	for i, b := range buttons {
		style := theme.ButtonStyle
		switch {
		case m.props.IsLoading:
			style = theme.DisabledStyle
		case m.selected && b.focused:
			style = theme.FocusedButtonStyle
		}
		parts[i] = style.Render("[" + b.label + "]")
	}
	return strings.Join(parts, " ")
}
