package mode

import "sync"

// ChangeCallback is called when the mode changes.
type ChangeCallback func(from, to Mode)

// Manager tracks the current editor mode and notifies listeners of transitions.
type Manager struct {
	mu sync.RWMutex

	current  Mode
	previous Mode

	// callbacks are notified on mode changes.
	callbacks []ChangeCallback
}

// NewManager creates a mode manager starting in the given mode.
func NewManager(initial Mode) *Manager {
	return &Manager{
		current:  initial,
		previous: initial,
	}
}

// Current returns the current mode.
func (m *Manager) Current() Mode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Previous returns the mode before the current one.
func (m *Manager) Previous() Mode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.previous
}

// Switch changes to a different mode. Switching to the current mode
// is a no-op and does not notify callbacks.
func (m *Manager) Switch(to Mode) {
	m.mu.Lock()
	from := m.current
	if from == to {
		m.mu.Unlock()
		return
	}
	m.previous = from
	m.current = to

	// Copy callbacks to call outside of lock
	callbacks := make([]ChangeCallback, len(m.callbacks))
	copy(callbacks, m.callbacks)
	m.mu.Unlock()

	for _, cb := range callbacks {
		if cb != nil {
			cb(from, to)
		}
	}
}

// OnChange registers a callback for mode changes.
// Returns a function to unregister the callback.
func (m *Manager) OnChange(callback ChangeCallback) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.callbacks = append(m.callbacks, callback)
	index := len(m.callbacks) - 1

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		// Remove callback by setting to nil (preserves indices)
		if index < len(m.callbacks) {
			m.callbacks[index] = nil
		}
	}
}
