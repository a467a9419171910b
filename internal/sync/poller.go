package sync

import (
	"context"
	"fmt"
	gosync "sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/todocard/internal/model"
	"github.com/nhle/todocard/internal/store"
)

// SyncState represents the current state of the poller.
type SyncState int

const (
	SyncIdle SyncState = iota
	SyncRunning
	SyncError
)

func (s SyncState) String() string {
	switch s {
	case SyncRunning:
		return "running"
	case SyncError:
		return "error"
	default:
		return "idle"
	}
}

// SyncStatus holds the outcome of the most recent poll.
type SyncStatus struct {
	State    SyncState
	LastSync time.Time
	Error    error
}

// SyncResultMsg is a tea.Msg sent after each poll of the store.
type SyncResultMsg struct {
	Open    int
	Overdue int
	At      time.Time
	Error   error
}

// DefaultInterval is used when the configured interval is not positive.
const DefaultInterval = time.Minute

// pollTimeout is the maximum time allowed for a single poll.
const pollTimeout = 10 * time.Second

// Poller periodically counts open and overdue todos so the list can
// refresh its badges when the date changes or another process writes.
type Poller struct {
	store     store.Store
	interval  time.Duration
	now       func() time.Time
	status    SyncStatus
	resultCh  chan SyncResultMsg
	triggerCh chan struct{}
	stopCh    chan struct{}
	mu        gosync.Mutex
	running   bool
}

// New creates a new Poller for s. A non-positive interval uses
// DefaultInterval.
func New(s store.Store, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{
		store:     s,
		interval:  interval,
		now:       time.Now,
		resultCh:  make(chan SyncResultMsg, 16),
		triggerCh: make(chan struct{}, 1),
	}
}

// Start returns a tea.Cmd that starts the polling goroutine and
// subscribes to results. A stopped poller can be started again.
func (p *Poller) Start() tea.Cmd {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return nil
	}
	p.running = true
	stop := make(chan struct{})
	p.stopCh = stop
	p.mu.Unlock()

	go p.loop(stop)

	return p.waitForResult()
}

// Stop halts the polling goroutine.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}

	close(p.stopCh)
	p.running = false
}

// Refresh triggers an immediate poll. Requests made while one is already
// pending are coalesced.
func (p *Poller) Refresh() {
	select {
	case p.triggerCh <- struct{}{}:
	default:
	}
}

// Status returns the outcome of the most recent poll.
func (p *Poller) Status() SyncStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

func (p *Poller) loop(stop <-chan struct{}) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.poll()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			p.poll()
		case <-p.triggerCh:
			p.poll()
		}
	}
}

// poll counts open and overdue todos and sends a SyncResultMsg.
func (p *Poller) poll() {
	p.setStatus(SyncRunning, nil)

	ctx, cancel := context.WithTimeout(context.Background(), pollTimeout)
	defer cancel()

	open, overdue, err := p.count(ctx)
	if err != nil {
		p.setStatus(SyncError, err)
		p.sendResult(SyncResultMsg{At: p.now(), Error: err})
		return
	}

	p.setStatus(SyncIdle, nil)
	p.sendResult(SyncResultMsg{Open: open, Overdue: overdue, At: p.now()})
}

func (p *Poller) count(ctx context.Context) (open, overdue int, err error) {
	status := model.TodoStatusOpen
	openTodos, err := p.store.GetTodos(ctx, store.TodoFilter{Status: &status})
	if err != nil {
		return 0, 0, fmt.Errorf("counting open todos: %w", err)
	}

	dueFilter := store.DueOverdue
	overdueTodos, err := p.store.GetTodos(ctx, store.TodoFilter{DueDate: &dueFilter})
	if err != nil {
		return 0, 0, fmt.Errorf("counting overdue todos: %w", err)
	}

	return len(openTodos), len(overdueTodos), nil
}

func (p *Poller) setStatus(state SyncState, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.status.State = state
	p.status.Error = err
	if state == SyncIdle {
		p.status.LastSync = p.now()
	}
}

// sendResult sends a SyncResultMsg on the result channel without blocking.
func (p *Poller) sendResult(msg SyncResultMsg) {
	select {
	case p.resultCh <- msg:
	default:
		// Drop if channel is full to avoid blocking the poller
	}
}

func (p *Poller) waitForResult() tea.Cmd {
	return func() tea.Msg {
		result, ok := <-p.resultCh
		if !ok {
			return nil
		}
		return result
	}
}

// WaitForNextResult returns a tea.Cmd that waits for the next poll result.
// Call it after handling a SyncResultMsg to keep listening.
func (p *Poller) WaitForNextResult() tea.Cmd {
	return p.waitForResult()
}
