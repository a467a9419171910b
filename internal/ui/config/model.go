package config

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todocard/internal/model"
	"github.com/nhle/todocard/internal/theme"
)

// ConfigSavedMsg carries the configuration after it was written to disk.
type ConfigSavedMsg struct {
	Config model.AppConfig
}

// ConfigSaveErrMsg reports a failed write.
type ConfigSaveErrMsg struct {
	Err error
}

// ConfigDoneMsg signals the settings view closed without saving.
type ConfigDoneMsg struct{}

// formBindings holds field values on the heap so huh's Value() pointers
// stay valid across model copies.
type formBindings struct {
	confirmDelete  bool
	width          string
	refreshSeconds string
	logLevel       string
}

// Model is the Bubble Tea model for the settings form.
type Model struct {
	path          string
	base          model.AppConfig
	form          *huh.Form
	fb            *formBindings
	width, height int
}

// New creates a settings view that writes to path.
func New(path string, width, height int) Model {
	return Model{
		path:   path,
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// Start fills the form from cfg and returns its init command.
func (m *Model) Start(cfg model.AppConfig) tea.Cmd {
	m.base = cfg
	m.fb.confirmDelete = cfg.Card.ConfirmDelete
	m.fb.width = strconv.Itoa(cfg.Display.Width)
	m.fb.refreshSeconds = strconv.Itoa(cfg.Display.RefreshSeconds)
	m.fb.logLevel = cfg.Log.Level

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Confirm before deleting").
				Value(&m.fb.confirmDelete),
			huh.NewInput().
				Title("Card width").
				Description("Columns, 0 to fill the terminal").
				Value(&m.fb.width).
				Validate(validateNumber("Card width", 0)),
			huh.NewInput().
				Title("Refresh interval").
				Description("Seconds between store polls, applied on next start").
				Value(&m.fb.refreshSeconds).
				Validate(validateNumber("Refresh interval", 1)),
			huh.NewSelect[string]().
				Title("Log level").
				Options(huh.NewOptions("debug", "info", "warn", "error")...).
				Value(&m.fb.logLevel),
		),
	).WithWidth(m.formWidth())
	return m.form.Init()
}

// Active reports whether the form is open.
func (m Model) Active() bool { return m.form != nil }

// Update handles messages for the settings form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	if k, ok := msg.(tea.KeyMsg); ok && k.Type == tea.KeyEsc {
		m.form = nil
		return m, func() tea.Msg { return ConfigDoneMsg{} }
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.form = nil
		return m, m.save(m.collect())
	case huh.StateAborted:
		m.form = nil
		return m, func() tea.Msg { return ConfigDoneMsg{} }
	}

	return m, cmd
}

// collect merges the form values into the config the form started from.
func (m Model) collect() model.AppConfig {
	cfg := m.base
	cfg.Card.ConfirmDelete = m.fb.confirmDelete
	if n, err := strconv.Atoi(strings.TrimSpace(m.fb.width)); err == nil {
		cfg.Display.Width = n
	}
	if n, err := strconv.Atoi(strings.TrimSpace(m.fb.refreshSeconds)); err == nil {
		cfg.Display.RefreshSeconds = n
	}
	if m.fb.logLevel != "" {
		cfg.Log.Level = m.fb.logLevel
	}
	return cfg
}

func (m Model) save(cfg model.AppConfig) tea.Cmd {
	path := m.path
	return func() tea.Msg {
		if err := model.SaveConfig(path, &cfg); err != nil {
			return ConfigSaveErrMsg{Err: err}
		}
		return ConfigSavedMsg{Config: cfg}
	}
}

// View renders the settings form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	hint := theme.HelpStyle.Render(m.path)
	content := titleStyle.Render("Settings") + "\n" + m.form.View() + "\n" + hint

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func validateNumber(fieldName string, floor int) func(string) error {
	return func(s string) error {
		s = strings.TrimSpace(s)
		if s == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("%s must be a number", fieldName)
		}
		if n < floor {
			return fmt.Errorf("%s must be at least %d", fieldName, floor)
		}
		return nil
	}
}
