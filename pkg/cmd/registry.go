package cmd

import (
	"sort"
	"sync"
)

// DefaultRegistry is the registry the Discord adapter syncs and dispatches from.
var DefaultRegistry = NewRegistry()

// Registry stores commands by name. Dispatch is left to adapters, which look
// commands up and invoke them with their own context.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]Command
}

func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]Command)}
}

// Register adds c, replacing any command with the same name.
func (r *Registry) Register(c Command) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands[c.Name()] = c
}

// Get returns the command with the given name, or nil.
func (r *Registry) Get(name string) Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.commands[name]
}

// GetAll returns all registered commands, sorted by name.
func (r *Registry) GetAll() []Command {
	r.mu.RLock()
	list := make([]Command, 0, len(r.commands))
	for _, c := range r.commands {
		list = append(list, c)
	}
	r.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool {
		return list[i].Name() < list[j].Name()
	})
	return list
}

// Find returns the registered commands whose root satisfies match.
func (r *Registry) Find(match func(root Command) bool) []Command {
	var out []Command
	for _, c := range r.GetAll() {
		if match(Root(c)) {
			out = append(out, c)
		}
	}
	return out
}
