package view

import (
	"errors"
	"fmt"
	"maps"
)

// Body is the executable form of a template: ordinary Go code that reads the
// bound data through the instance and writes output through it. Bodies may
// open sections, configure layouts, and invoke nested renders.
type Body func(t *Template) error

// Template is a single render target bound to one name. Data merged in by a
// Render call is rolled back when the call returns, so one instance can be
// rendered repeatedly or recursively without data bleeding between calls.
// Sections are deliberately not rolled back: they accumulate for the lifetime
// of the instance and thread through the layout fold.
type Template struct {
	engine *Engine
	name   string
	path   string
	body   Body

	data     map[string]any
	sections map[string]string

	active     string
	activeMode SectionMode
	layouts    []Layout
}

// Name returns the template name the instance was constructed with.
func (t *Template) Name() string {
	return t.name
}

// Path returns the resolved source location, or "" before the first
// resolution.
func (t *Template) Path() string {
	return t.path
}

// Get returns the value bound under key, or nil.
func (t *Template) Get(key string) any {
	return t.data[key]
}

// Lookup returns the value bound under key and whether it is present.
func (t *Template) Lookup(key string) (any, bool) {
	value, ok := t.data[key]
	return value, ok
}

// Data returns a copy of the current data context. Bodies treat the context
// as read-only; changes go through Merge or a Render call.
func (t *Template) Data() map[string]any {
	out := make(map[string]any, len(t.data))
	maps.Copy(out, t.data)
	return out
}

// Merge folds extra into the data context, with extra winning on key
// conflicts.
func (t *Template) Merge(extra map[string]any) {
	if t.data == nil {
		t.data = make(map[string]any, len(extra))
	}
	maps.Copy(t.data, extra)
}

// Write implements io.Writer into the innermost capture frame.
func (t *Template) Write(p []byte) (int, error) {
	return t.engine.stack.Write(p)
}

// WriteString writes s into the innermost capture frame.
func (t *Template) WriteString(s string) (int, error) {
	return t.engine.stack.Write([]byte(s))
}

// Print writes the operands into the innermost capture frame using fmt
// formatting rules.
func (t *Template) Print(args ...any) error {
	_, err := fmt.Fprint(t, args...)
	return err
}

// Printf writes a formatted string into the innermost capture frame.
func (t *Template) Printf(format string, args ...any) error {
	_, err := fmt.Fprintf(t, format, args...)
	return err
}

// Render executes the template body and folds the layout chain over its
// output. extra is merged into the data context for the duration of the call
// and rolled back afterwards on every exit path. The capture stack is
// guaranteed to return to its pre-call depth whether the body succeeds,
// fails, or panics; body failures are propagated unchanged.
func (t *Template) Render(extra map[string]any) (string, error) {
	if t == nil || t.engine == nil {
		return "", errors.New("view: template is not bound to an engine")
	}

	snapshot := maps.Clone(t.data)
	defer func() { t.data = snapshot }()
	t.Merge(extra)

	if t.body == nil {
		src, err := t.engine.resolve(t.name)
		if err != nil {
			return "", err
		}
		t.body = src.Body
		t.path = src.Path
	}

	stack := t.engine.stack
	depth := stack.Depth()
	stack.Enter()
	defer stack.UnwindTo(depth)

	if err := t.body(t); err != nil {
		t.active = ""
		t.activeMode = SectionRewrite
		return "", err
	}
	if t.active != "" {
		name := t.active
		t.active = ""
		t.activeMode = SectionRewrite
		return "", fmt.Errorf("%w: section %q was never stopped", ErrImbalancedCapture, name)
	}
	content, err := stack.Exit()
	if err != nil {
		return "", err
	}

	if len(t.layouts) == 0 {
		return content, nil
	}
	return t.foldLayouts(content)
}
