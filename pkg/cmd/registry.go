package cmd

import (
	"log"
	"strings"
	"sync"
)

// Registry stores commands by lower-cased name and alias. It does not perform
// dispatch; each adapter looks up commands and invokes them with its own
// context. Registration happens once at startup; the lock exists because
// Resolve runs from concurrent handler goroutines.
type Registry struct {
	mu    sync.RWMutex
	index map[string]Command
	order []Command
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{index: make(map[string]Command)}
}

// Register adds a command under its name and every alias. An already taken
// key is replaced — last write wins — with a warning; duplicate registration
// is a configuration mistake, never fatal.
func (r *Registry) Register(c Command) {
	r.mu.Lock()
	defer r.mu.Unlock()

	keys := append([]string{c.Name()}, c.Aliases()...)
	for _, k := range keys {
		k = strings.ToLower(k)
		if prev, taken := r.index[k]; taken && prev != c {
			log.Printf("[WARN] Command key %q already registered by %q, replacing with %q", k, prev.Name(), c.Name())
		}
		r.index[k] = c
	}
	r.order = append(r.order, c)
}

// RegisterAll registers commands in order, so later entries win key conflicts.
func (r *Registry) RegisterAll(cs ...Command) {
	for _, c := range cs {
		r.Register(c)
	}
}

// Resolve looks up a command by name or alias, case-insensitively.
func (r *Registry) Resolve(nameOrAlias string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.index[strings.ToLower(nameOrAlias)]
	return c, ok
}

// All returns the distinct registered commands in registration order,
// excluding definitions fully shadowed by a later registration.
func (r *Registry) All() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.visible()
}

// ByCategory returns distinct commands of one category in registration order,
// never per-alias duplicates.
func (r *Registry) ByCategory(category string) []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Command
	for _, c := range r.visible() {
		if c.Category() == category {
			out = append(out, c)
		}
	}
	return out
}

// Canonical returns one entry per definition: those whose lower-cased Name()
// still resolves to them. Used when exporting declarations to the transport
// layer so a command is not declared once per alias.
func (r *Registry) Canonical() []Command {
	return r.All()
}

func (r *Registry) visible() []Command {
	out := make([]Command, 0, len(r.order))
	for _, c := range r.order {
		if r.index[strings.ToLower(c.Name())] == c {
			out = append(out, c)
		}
	}
	return out
}
