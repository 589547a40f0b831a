package surface

import (
	"fmt"
	"sort"
	"sync"

	"github.com/Carmen-Shannon/oxy-render/common"
)

// Factory opens a new Context with the given options.
type Factory func(opts Options) (Context, error)

// Entry represents a registered surface provider.
type Entry struct {
	// Name is the unique identifier for this provider.
	Name string

	// Priority determines selection order (higher = preferred).
	//   - 100: GPU-backed windowing providers
	//   - 10: pure software providers
	Priority int

	// Factory creates contexts.
	Factory Factory

	// Supports reports whether the provider can serve a buffer target.
	Supports func(Mode) bool
}

// globalRegistry is the default registry.
var globalRegistry = NewRegistry()

// Registry manages registered surface providers. Providers register themselves from init,
// so importing a provider package is enough to make it selectable:
//
//	import _ "github.com/Carmen-Shannon/oxy-render/engine/window"
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

// NewRegistry creates a new empty registry.
// Most code should use the global registry via Register and DefaultRegistry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*Entry),
	}
}

// DefaultRegistry returns the process-wide registry providers register into.
func DefaultRegistry() *Registry {
	return globalRegistry
}

// Register adds a provider to the global registry.
//
// Parameters:
//   - name: unique identifier (e.g., "software", "glfw")
//   - priority: selection priority (higher = preferred)
//   - factory: function to create contexts
//   - supports: reports which modes the provider serves, nil means all
//
// Registering a name that already exists replaces the previous entry.
func Register(name string, priority int, factory Factory, supports func(Mode) bool) {
	globalRegistry.Register(name, priority, factory, supports)
}

// Unregister removes a provider from the global registry.
func Unregister(name string) {
	globalRegistry.Unregister(name)
}

// Providers returns all globally registered provider names sorted by priority.
func Providers() []string {
	return globalRegistry.Names()
}

// Register adds a provider to this registry.
func (r *Registry) Register(name string, priority int, factory Factory, supports func(Mode) bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if supports == nil {
		supports = func(Mode) bool { return true }
	}
	r.entries[name] = &Entry{
		Name:     name,
		Priority: priority,
		Factory:  factory,
		Supports: supports,
	}
}

// Unregister removes a provider from this registry.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, name)
}

// Names returns all registered provider names sorted by priority, highest first.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedNames(func(*Entry) bool { return true })
}

// Get returns a copy of a registered entry.
func (r *Registry) Get(name string) (*Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[name]
	if !ok {
		return nil, false
	}
	entryCopy := *entry
	return &entryCopy, true
}

// Select resolves the provider to use for mode. An explicit name is returned as is; its target
// is validated after the context opens. Without a name the highest-priority provider that
// supports mode wins.
//
// Parameters:
//   - name: explicit provider name, or empty for automatic selection
//   - mode: the requested buffer target
//
// Returns:
//   - *Entry: the selected provider
//   - error: common.ErrConfiguration if nothing qualifies
func (r *Registry) Select(name string, mode Mode) (*Entry, error) {
	if name != "" {
		entry, ok := r.Get(name)
		if !ok {
			return nil, fmt.Errorf("unknown surface provider %q (registered: %v): %w", name, r.Names(), common.ErrConfiguration)
		}
		return entry, nil
	}

	r.mu.RLock()
	candidates := r.sortedNames(func(e *Entry) bool { return e.Supports(mode) })
	r.mu.RUnlock()
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no surface provider supports %s rendering: %w", mode, common.ErrConfiguration)
	}
	entry, _ := r.Get(candidates[0])
	return entry, nil
}

// Open selects a provider and opens a context with it.
//
// Parameters:
//   - name: explicit provider name, or empty for automatic selection
//   - opts: options forwarded to the factory
//
// Returns:
//   - Context: the opened context
//   - error: common.ErrConfiguration if selection or the factory fails
func (r *Registry) Open(name string, opts Options) (Context, error) {
	entry, err := r.Select(name, opts.Mode)
	if err != nil {
		return nil, err
	}
	ctx, err := entry.Factory(opts)
	if err != nil {
		return nil, fmt.Errorf("open %q surface: %w: %w", entry.Name, common.ErrConfiguration, err)
	}
	return ctx, nil
}

// sortedNames returns names of entries passing keep, sorted by priority then name.
// Caller must hold at least a read lock.
func (r *Registry) sortedNames(keep func(*Entry) bool) []string {
	entries := make([]*Entry, 0, len(r.entries))
	for _, e := range r.entries {
		if keep(e) {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Priority != entries[j].Priority {
			return entries[i].Priority > entries[j].Priority
		}
		return entries[i].Name < entries[j].Name
	})
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}
