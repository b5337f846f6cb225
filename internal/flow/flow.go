// Package flow implements the per-caller multi-step conversation state
// machines: postfact entry, record editing, the toilet sub-flow, recent
// listings, learned-command CRUD and settings changes.
//
// Each flow is an explicit typed struct with its own step cursor, so a
// flow can only hold the fields its steps actually use. The Manager owns
// one active flow per caller; a new message from that caller is input to
// the active flow until it completes or is cancelled.
package flow

import (
	"context"
	"sync"
	"time"

	"github.com/corso/puplog/internal/model"
	"github.com/corso/puplog/internal/store"
)

// CancelButton aborts any flow at any step.
const CancelButton = "❌ Cancel"

// IsCancel reports whether text is a cancel token.
func IsCancel(text string) bool {
	return text == CancelButton || text == "/cancel"
}

// Reply is what a flow step sends back to the caller.
type Reply struct {
	Text     string
	Keyboard [][]string // nil means the router's default menu
	Done     bool
}

// Handler is one active conversation flow.
type Handler interface {
	// Step consumes one message and returns the next reply. Done
	// terminates the flow. Records are only written at terminal steps,
	// so an aborted flow leaves no partial side effects.
	Step(ctx context.Context, text string) (Reply, error)
}

// Deps are the collaborators flows write through.
type Deps struct {
	Events   store.EventStore
	Settings store.SettingsStore
	Commands store.CommandStore
	Now      func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// Manager owns the per-caller flow registry.
type Manager struct {
	mu     sync.Mutex
	active map[int64]Handler
}

// NewManager returns an empty registry.
func NewManager() *Manager {
	return &Manager{active: make(map[int64]Handler)}
}

// Active reports whether the caller has a flow in progress.
func (m *Manager) Active(user int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.active[user]
	return ok
}

// Start registers a flow for the caller, replacing any previous one.
func (m *Manager) Start(user int64, h Handler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active[user] = h
}

// Cancel drops the caller's flow unconditionally.
func (m *Manager) Cancel(user int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.active, user)
}

// Handle routes one message into the caller's active flow. The second
// result is false when no flow is active. The flow entry is released on
// completion and on error.
func (m *Manager) Handle(ctx context.Context, user int64, text string) (Reply, bool, error) {
	m.mu.Lock()
	h, ok := m.active[user]
	m.mu.Unlock()
	if !ok {
		return Reply{}, false, nil
	}

	if IsCancel(text) {
		m.Cancel(user)
		return Reply{Text: "Cancelled.", Done: true}, true, nil
	}

	reply, err := h.Step(ctx, text)
	if err != nil || reply.Done {
		m.Cancel(user)
	}
	return reply, true, err
}

// actionKeyboard lists the tracked vocabulary plus the cancel row.
func actionKeyboard() [][]string {
	var rows [][]string
	for _, a := range model.Actions {
		rows = append(rows, []string{string(a)})
	}
	return append(rows, []string{CancelButton})
}

// cancelRow is the minimal keyboard for free-text steps.
func cancelRow() [][]string {
	return [][]string{{CancelButton}}
}
