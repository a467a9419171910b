package todocard

import "strings"

// Role describes what kind of control a card element is.
type Role string

const (
	RoleCheckbox Role = "checkbox"
	RoleButton   Role = "button"
	RoleStatus   Role = "status"
	RoleTextbox  Role = "textbox"
)

// Labels of the card's controls. Tests and owners look controls up by
// these names.
const (
	LabelToggle  = "Toggle completion"
	LabelEdit    = "Edit todo"
	LabelDelete  = "Delete todo"
	LabelOverdue = "Overdue"
	LabelTitle   = "Todo title"
	LabelSave    = "Save title"
	LabelCancel  = "Cancel edit"
)

// Control is a description of one element the card currently renders.
type Control struct {
	Role     Role
	Label    string
	Checked  bool
	Disabled bool
	Focused  bool
	Value    string
}

// Controls lists the elements the card renders in its current state, in
// display order.
func (m Model) Controls() []Control {
	disabled := m.props.IsLoading
	todo := m.props.Todo

	controls := []Control{{
		Role:     RoleCheckbox,
		Label:    LabelToggle,
		Checked:  todo.Completed,
		Disabled: disabled,
		Focused:  m.state == StateViewing && m.focus == focusCheckbox,
	}}

	if m.IsOverdue() {
		controls = append(controls, Control{Role: RoleStatus, Label: LabelOverdue})
	}

	if m.state == StateEditing {
		return append(controls,
			Control{Role: RoleTextbox, Label: LabelTitle, Value: m.input.Value(), Disabled: disabled, Focused: true},
			Control{Role: RoleButton, Label: LabelSave, Disabled: disabled},
			Control{Role: RoleButton, Label: LabelCancel, Disabled: disabled},
		)
	}

	return append(controls,
		Control{Role: RoleButton, Label: LabelEdit, Disabled: disabled, Focused: m.focus == focusEdit},
		Control{Role: RoleButton, Label: LabelDelete, Disabled: disabled, Focused: m.focus == focusDelete},
	)
}

// ByRole returns every rendered control with the given role.
func (m Model) ByRole(role Role) []Control {
	var out []Control
	for _, c := range m.Controls() {
		if c.Role == role {
			out = append(out, c)
		}
	}
	return out
}

// ByLabel returns the first rendered control whose label contains substr,
// ignoring case.
func (m Model) ByLabel(substr string) (Control, bool) {
	needle := strings.ToLower(substr)
	for _, c := range m.Controls() {
		if strings.Contains(strings.ToLower(c.Label), needle) {
			return c, true
		}
	}
	return Control{}, false
}
