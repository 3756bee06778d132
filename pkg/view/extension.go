package view

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ExtensionFunc is a named helper invoked with the calling template instance
// as its implicit first context.
type ExtensionFunc func(t *Template, args ...any) (any, error)

// PipeFunc is a plain value transformer usable as a pipeline stage. It stands
// in for the ambient callables of dynamic hosts: anything registered here is
// addressable by name from Apply and Escape pipelines.
type PipeFunc func(value any) (any, error)

// ExtensionRegistry stores helper functions by name, providing discovery and
// duplication safeguards.
type ExtensionRegistry struct {
	mu         sync.RWMutex
	extensions map[string]ExtensionFunc
}

// NewExtensionRegistry creates an empty registry instance.
func NewExtensionRegistry() *ExtensionRegistry {
	return &ExtensionRegistry{
		extensions: make(map[string]ExtensionFunc),
	}
}

// Register adds an extension by name. Duplicate names return an error.
func (r *ExtensionRegistry) Register(name string, fn ExtensionFunc) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("view: extension name is required")
	}
	if fn == nil {
		return fmt.Errorf("view: extension %q is nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.extensions[name]; exists {
		return fmt.Errorf("view: extension %q already registered", name)
	}
	r.extensions[name] = fn
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *ExtensionRegistry) MustRegister(name string, fn ExtensionFunc) {
	if err := r.Register(name, fn); err != nil {
		panic(err)
	}
}

// Get retrieves an extension by name.
func (r *ExtensionRegistry) Get(name string) (ExtensionFunc, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fn, ok := r.extensions[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownExtension, name)
	}
	return fn, nil
}

// Has reports whether an extension is registered.
func (r *ExtensionRegistry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.extensions[name]
	return ok
}

// List returns a sorted list of extension names.
func (r *ExtensionRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.extensions))
	for name := range r.extensions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Call dispatches a named extension with the instance as implicit first
// context. Unregistered names fail with ErrUnknownExtension.
func (t *Template) Call(name string, args ...any) (any, error) {
	fn, err := t.engine.extensions.Get(name)
	if err != nil {
		return nil, err
	}
	return fn(t, args...)
}

// Apply runs value through a "|"-separated pipeline. Each stage resolves
// first to a registered extension (called bound to the instance), then to a
// registered pipe function; anything else fails with ErrUnknownPipeFunc. The
// result of each stage feeds the next.
func (t *Template) Apply(value any, pipeline string) (any, error) {
	for _, raw := range strings.Split(pipeline, "|") {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		if fn, err := t.engine.extensions.Get(name); err == nil {
			out, err := fn(t, value)
			if err != nil {
				return nil, err
			}
			value = out
			continue
		}
		if fn, ok := t.engine.pipe(name); ok {
			out, err := fn(value)
			if err != nil {
				return nil, err
			}
			value = out
			continue
		}
		return nil, fmt.Errorf("%w: %q", ErrUnknownPipeFunc, name)
	}
	return value, nil
}
