package app

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/nhle/todocard/internal/keys"
	"github.com/nhle/todocard/internal/logging"
	"github.com/nhle/todocard/internal/model"
	"github.com/nhle/todocard/internal/store"
	appsync "github.com/nhle/todocard/internal/sync"
	"github.com/nhle/todocard/internal/theme"
	"github.com/nhle/todocard/internal/ui"
	configview "github.com/nhle/todocard/internal/ui/config"
	helpview "github.com/nhle/todocard/internal/ui/help"
	"github.com/nhle/todocard/internal/ui/todocard"
	"github.com/nhle/todocard/internal/ui/todoform"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewList ViewState = iota
	ViewTodoCreate
	ViewHelp
	ViewConfig
)

// Options configures the root model.
type Options struct {
	Store  store.Store
	Logger *log.Logger

	// ConfirmDelete asks before deleting. When false cards delete at once.
	ConfirmDelete bool

	// CardWidth caps the card width. Zero uses the terminal width.
	CardWidth int

	// Now is the clock for overdue badges. Defaults to time.Now.
	Now func() time.Time

	// Poller, when set, drives periodic reloads and the header counts.
	Poller *appsync.Poller

	// Config and ConfigPath enable the settings view. Saved settings are
	// applied to the running app.
	Config     *model.AppConfig
	ConfigPath string
}

// Model is the root Bubble Tea model. It owns the todos, renders one card
// per todo, and turns card callbacks into store writes.
type Model struct {
	currentView  ViewState
	layout       ui.Layout
	store        store.Store
	logger       *log.Logger
	keys         *keys.KeyMap
	cards        []todocard.Model
	selected     int
	filterIndex  int
	todoFormView todoform.Model
	helpView     helpview.Model
	configView   configview.Model
	config       *model.AppConfig
	confirm      todocard.Confirmer
	cardWidth    int
	now          func() time.Time
	ready        bool
	loaded       bool
	status       string
	poller       *appsync.Poller
	openCount    int
	overdueCount int
	counted      bool

	// inflight marks todo ids with a write in progress. Shared by
	// reference with the card callbacks so they can flag a write as it
	// is issued.
	inflight map[string]bool
}

// New creates a new root application model.
func New(opts Options) Model {
	k := keys.DefaultKeyMap()

	var confirm todocard.Confirmer
	if !opts.ConfirmDelete {
		confirm = todocard.AlwaysConfirm
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	return Model{
		currentView:  ViewList,
		layout:       ui.NewLayout(80, 24),
		store:        opts.Store,
		logger:       logger,
		keys:         k,
		todoFormView: todoform.New(80, 24),
		helpView:     helpview.New(k, 80, 24),
		configView:   configview.New(opts.ConfigPath, 80, 24),
		config:       opts.Config,
		confirm:      confirm,
		cardWidth:    opts.CardWidth,
		now:          now,
		poller:       opts.Poller,
		inflight:     make(map[string]bool),
	}
}

// Init loads todos and starts the poller, if any.
func (m Model) Init() tea.Cmd {
	if m.poller == nil {
		return m.loadTodos()
	}
	return tea.Batch(m.loadTodos(), m.poller.Start())
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		m.todoFormView.SetSize(m.layout.ContentWidth(), m.layout.ContentHeight())
		m.helpView.SetSize(m.layout.ContentWidth(), m.layout.ContentHeight())
		m.configView.SetSize(m.layout.ContentWidth(), m.layout.ContentHeight())
		for i := range m.cards {
			m.cards[i].SetWidth(m.effectiveCardWidth())
		}
		return m, nil

	case todosLoadedMsg:
		if msg.err != nil {
			m.logger.Error("loading todos failed", "err", msg.err)
			m.status = fmt.Sprintf("load failed: %v", msg.err)
			return m, nil
		}
		m.loaded = true
		cmd := m.setTodos(msg.todos)
		return m, cmd

	case todoWriteResultMsg:
		delete(m.inflight, msg.id)
		if msg.err != nil {
			m.logger.Error("todo write failed", "op", msg.op, "todo_id", msg.id, "err", msg.err)
			m.status = fmt.Sprintf("%s failed: %v", msg.op, msg.err)
		} else {
			m.logger.Info("todo written", "op", msg.op, "todo_id", msg.id)
			m.status = ""
		}
		if m.poller != nil {
			m.poller.Refresh()
		}
		loading := m.syncLoading()
		return m, tea.Batch(loading, m.loadTodos())

	case appsync.SyncResultMsg:
		if msg.Error != nil {
			m.logger.Warn("polling todos failed", "err", msg.Error)
		} else {
			m.openCount, m.overdueCount = msg.Open, msg.Overdue
			m.counted = true
		}
		var wait tea.Cmd
		if m.poller != nil {
			wait = m.poller.WaitForNextResult()
		}
		return m, tea.Batch(m.loadTodos(), wait)

	case todoform.TodoCreatedMsg:
		m.currentView = ViewList
		return m, m.createTodo(msg.Todo)

	case todoform.TodoFormCancelMsg:
		m.currentView = ViewList
		return m, nil

	case configview.ConfigSavedMsg:
		m.currentView = ViewList
		m.applyConfig(msg.Config)
		m.logger.Info("settings saved", "confirm_delete", msg.Config.Card.ConfirmDelete,
			"width", msg.Config.Display.Width, "log_level", msg.Config.Log.Level)
		m.status = ""
		return m, nil

	case configview.ConfigSaveErrMsg:
		m.currentView = ViewList
		m.logger.Error("saving settings failed", "err", msg.Err)
		m.status = fmt.Sprintf("settings not saved: %v", msg.Err)
		return m, nil

	case configview.ConfigDoneMsg:
		m.currentView = ViewList
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.broadcast(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.currentView {
	case ViewTodoCreate:
		var cmd tea.Cmd
		m.todoFormView, cmd = m.todoFormView.Update(msg)
		return m, cmd

	case ViewConfig:
		var cmd tea.Cmd
		m.configView, cmd = m.configView.Update(msg)
		return m, cmd

	case ViewHelp:
		if key.Matches(msg, m.keys.Help) || msg.Type == tea.KeyEsc {
			m.currentView = ViewList
		} else if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		return m, nil
	}

	if card, ok := m.selectedCard(); ok && card.Capturing() {
		return m.updateSelected(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Down):
		m.moveSelection(1)
		return m, nil
	case key.Matches(msg, m.keys.Up):
		m.moveSelection(-1)
		return m, nil
	case key.Matches(msg, m.keys.New):
		m.currentView = ViewTodoCreate
		cmd := m.todoFormView.Start()
		return m, cmd
	case key.Matches(msg, m.keys.Filter):
		m.filterIndex = (m.filterIndex + 1) % len(filterModes)
		return m, m.loadTodos()
	case key.Matches(msg, m.keys.Reload):
		return m, m.loadTodos()
	case key.Matches(msg, m.keys.Config):
		if m.config == nil {
			return m, nil
		}
		m.currentView = ViewConfig
		cmd := m.configView.Start(*m.config)
		return m, cmd
	case key.Matches(msg, m.keys.Help):
		m.currentView = ViewHelp
		return m, nil
	}

	return m.updateSelected(msg)
}

// updateSelected forwards msg to the selected card, then picks up any
// write the card's callbacks started.
func (m Model) updateSelected(msg tea.Msg) (tea.Model, tea.Cmd) {
	if len(m.cards) == 0 {
		return m, nil
	}
	var cmd tea.Cmd
	m.cards[m.selected], cmd = m.cards[m.selected].Update(msg)
	loading := m.syncLoading()
	return m, tea.Batch(cmd, loading)
}

// broadcast forwards non-key messages (spinner ticks, cursor blinks,
// prompt internals) to every card and the form.
func (m Model) broadcast(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, 0, len(m.cards)+1)
	for i := range m.cards {
		var cmd tea.Cmd
		m.cards[i], cmd = m.cards[i].Update(msg)
		cmds = append(cmds, cmd)
	}
	switch m.currentView {
	case ViewTodoCreate:
		var cmd tea.Cmd
		m.todoFormView, cmd = m.todoFormView.Update(msg)
		cmds = append(cmds, cmd)
	case ViewConfig:
		var cmd tea.Cmd
		m.configView, cmd = m.configView.Update(msg)
		cmds = append(cmds, cmd)
	}
	cmds = append(cmds, m.syncLoading())
	return m, tea.Batch(cmds...)
}

// syncLoading sets each card's loading flag from the inflight set.
func (m *Model) syncLoading() tea.Cmd {
	var cmds []tea.Cmd
	for i := range m.cards {
		id := m.cards[i].Todo().ID
		cmds = append(cmds, m.cards[i].SetLoading(m.inflight[id]))
	}
	return tea.Batch(cmds...)
}

// setTodos rebuilds the card list, keeping the state of cards whose todo
// is still present and keeping the selection on the same todo.
func (m *Model) setTodos(todos []model.Todo) tea.Cmd {
	var selectedID string
	if card, ok := m.selectedCard(); ok {
		selectedID = card.Todo().ID
	}

	existing := make(map[string]todocard.Model, len(m.cards))
	for _, c := range m.cards {
		existing[c.Todo().ID] = c
	}

	cards := make([]todocard.Model, len(todos))
	var cmds []tea.Cmd
	for i, todo := range todos {
		card, ok := existing[todo.ID]
		if ok {
			card.SetTodo(todo)
		} else {
			card = todocard.New(m.cardProps(todo))
			cmds = append(cmds, card.Init())
		}
		card.SetWidth(m.effectiveCardWidth())
		cmds = append(cmds, card.SetLoading(m.inflight[todo.ID]))
		cards[i] = card
	}
	m.cards = cards

	m.selected = 0
	for i, c := range m.cards {
		if c.Todo().ID == selectedID {
			m.selected = i
			break
		}
	}
	m.applySelection()
	return tea.Batch(cmds...)
}

// applyConfig makes saved settings take effect without a restart. The
// refresh interval is read at startup only.
func (m *Model) applyConfig(cfg model.AppConfig) {
	m.config = &cfg
	m.confirm = nil
	if !cfg.Card.ConfirmDelete {
		m.confirm = todocard.AlwaysConfirm
	}
	m.cardWidth = cfg.Display.Width
	m.logger.SetLevel(logging.ParseLevel(cfg.Log.Level))
	for i := range m.cards {
		m.cards[i].SetConfirmer(m.confirm)
		m.cards[i].SetWidth(m.effectiveCardWidth())
	}
}

func (m *Model) cardProps(todo model.Todo) todocard.Props {
	w := writer{store: m.store, inflight: m.inflight}
	return todocard.Props{
		Todo:     todo,
		OnToggle: w.toggle,
		OnEdit:   w.rename,
		OnDelete: w.remove,
		Confirm:  m.confirm,
		Now:      m.now,
	}
}

func (m *Model) moveSelection(delta int) {
	if len(m.cards) == 0 {
		return
	}
	m.selected += delta
	if m.selected < 0 {
		m.selected = 0
	}
	if m.selected >= len(m.cards) {
		m.selected = len(m.cards) - 1
	}
	m.applySelection()
}

func (m *Model) applySelection() {
	for i := range m.cards {
		m.cards[i].SetSelected(i == m.selected)
	}
}

func (m Model) selectedCard() (todocard.Model, bool) {
	if m.selected < 0 || m.selected >= len(m.cards) {
		return todocard.Model{}, false
	}
	return m.cards[m.selected], true
}

func (m Model) effectiveCardWidth() int {
	w := m.layout.ContentWidth()
	if m.cardWidth > 0 && m.cardWidth < w {
		return m.cardWidth
	}
	return w
}

// View renders the active view inside the header/status frame.
func (m Model) View() string {
	if !m.ready {
		return "Loading…"
	}

	info := fmt.Sprintf("%s · %d", filterModes[m.filterIndex].name, len(m.cards))
	if m.counted {
		info += fmt.Sprintf(" · %d open · %d overdue", m.openCount, m.overdueCount)
	}
	header := m.layout.RenderHeader("Todos", info)

	var content string
	switch m.currentView {
	case ViewTodoCreate:
		content = m.todoFormView.View()
	case ViewHelp:
		content = m.helpView.View()
	case ViewConfig:
		content = m.configView.View()
	default:
		content = m.renderCards()
	}

	var statusBar string
	if m.status != "" {
		statusBar = m.layout.RenderStatusBar(theme.ErrorStyle.Render(m.status))
	} else {
		statusBar = m.layout.RenderStatusBar(m.helpView.ShortHelp())
	}

	return m.layout.RenderWithFrame(header, content, statusBar)
}

func (m Model) renderCards() string {
	if !m.loaded {
		return theme.HelpStyle.Render("Loading todos…")
	}
	if len(m.cards) == 0 {
		return theme.HelpStyle.Render("Nothing here. Press n to add a todo.")
	}

	blocks := make([]string, len(m.cards))
	for i, c := range m.cards {
		blocks[i] = c.View()
	}
	return m.layout.Fit(blocks, m.selected)
}
