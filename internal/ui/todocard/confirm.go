package todocard

import (
	"github.com/charmbracelet/huh"
)

// Confirmer answers a yes/no question before a destructive action.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a plain function to the Confirmer interface.
type ConfirmFunc func(prompt string) bool

// Confirm calls f(prompt).
func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// AlwaysConfirm approves every prompt. Used when delete confirmation is
// turned off in the config.
var AlwaysConfirm Confirmer = ConfirmFunc(func(string) bool { return true })

// promptBindings keeps the huh Value pointer stable across model copies.
type promptBindings struct {
	confirmed bool
}

// newDeletePrompt builds the in-card yes/no form used when no Confirmer
// was injected.
func newDeletePrompt(title string, pb *promptBindings) *huh.Form {
	pb.confirmed = false
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Delete").
				Negative("Keep").
				Value(&pb.confirmed),
		),
	).WithShowHelp(false)
}
