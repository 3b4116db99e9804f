package session

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// CommandFunc implements a host command. args is passed through from the
// binding unchanged and may be nil.
type CommandFunc func(ctx context.Context, s *Session, args any) error

// Registry maps command names to implementations.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]CommandFunc
}

// NewRegistry creates an empty command registry.
func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]CommandFunc)}
}

// Register adds or replaces the command under name.
func (r *Registry) Register(name string, fn CommandFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands[name] = fn
}

// Unregister removes the command under name.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.commands, name)
}

// Get returns the command under name.
func (r *Registry) Get(name string) (CommandFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.commands[name]
	return fn, ok
}

// Names returns the registered command names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Execute runs the command under name.
func (r *Registry) Execute(ctx context.Context, s *Session, name string, args any) error {
	fn, ok := r.Get(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	return fn(ctx, s, args)
}
