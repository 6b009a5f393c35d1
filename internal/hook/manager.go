package hook

import (
	"context"
	"sort"
	"sync"
)

// Manager manages hook handlers and triggers.
// Handlers are registered at startup; Trigger is safe for concurrent use.
type Manager struct {
	handlers map[HookPoint][]Handler
	mu       sync.RWMutex
}

// NewManager creates a new hook manager
func NewManager() *Manager {
	return &Manager{
		handlers: make(map[HookPoint][]Handler),
	}
}

// Register adds a handler to the manager
func (m *Manager) Register(handler Handler) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, point := range handler.Points() {
		list := append(m.handlers[point], handler)
		// Higher priority first; equal priorities keep registration order
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Priority() > list[j].Priority()
		})
		m.handlers[point] = list
	}
}

// Trigger executes all handlers for a hook point.
// The first handler that denies stops the chain and its feedback is returned.
func (m *Manager) Trigger(ctx context.Context, data *HookData) (*Feedback, error) {
	m.mu.RLock()
	handlers := m.handlers[data.Point]
	m.mu.RUnlock()

	for _, handler := range handlers {
		feedback, err := handler.Handle(ctx, data)
		if err != nil {
			return nil, err
		}
		if feedback != nil && !feedback.Allow {
			return feedback, nil
		}
	}

	return AllowFeedback(), nil
}

// HasHandlers checks if there are handlers for a hook point
func (m *Manager) HasHandlers(point HookPoint) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.handlers[point]) > 0
}

// ListHandlers returns handler names for a hook point
func (m *Manager) ListHandlers(point HookPoint) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	handlers := m.handlers[point]
	names := make([]string, len(handlers))
	for i, h := range handlers {
		names[i] = h.Name()
	}
	return names
}
