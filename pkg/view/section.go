package view

import (
	"errors"
	"fmt"
)

// ContentSection is the reserved section name the layout fold uses to expose
// the previous layer's output. Bodies cannot open a capture under it.
const ContentSection = "content"

// SectionMode selects how a closed capture combines with an existing section
// value.
type SectionMode int

const (
	// SectionRewrite replaces the existing value entirely.
	SectionRewrite SectionMode = iota
	// SectionAppend keeps the existing value as a prefix.
	SectionAppend
	// SectionPrepend puts the new capture in front of the existing value.
	SectionPrepend
)

// Start opens a section capture in rewrite mode. Output written by the body
// is intercepted until the matching Stop.
func (t *Template) Start(name string) error {
	return t.startSection(name, SectionRewrite)
}

// StartAppend opens a section capture whose content will be appended to the
// section's current value on Stop.
func (t *Template) StartAppend(name string) error {
	return t.startSection(name, SectionAppend)
}

// StartPrepend opens a section capture whose content will be prepended to the
// section's current value on Stop.
func (t *Template) StartPrepend(name string) error {
	return t.startSection(name, SectionPrepend)
}

func (t *Template) startSection(name string, mode SectionMode) error {
	if name == "" {
		return errors.New("view: section name is required")
	}
	if name == ContentSection {
		return ErrReservedSection
	}
	if t.active != "" {
		return fmt.Errorf("%w: %q is still open", ErrNestedSection, t.active)
	}
	t.active = name
	t.activeMode = mode
	t.engine.stack.Enter()
	return nil
}

// Stop closes the open section capture and folds the intercepted output into
// the section map according to the mode the capture was opened with. A
// missing prior value counts as the empty string.
func (t *Template) Stop() error {
	if t.active == "" {
		return ErrNoOpenSection
	}
	captured, err := t.engine.stack.Exit()
	if err != nil {
		return err
	}

	name := t.active
	mode := t.activeMode
	t.active = ""
	t.activeMode = SectionRewrite

	if t.sections == nil {
		t.sections = make(map[string]string)
	}
	switch mode {
	case SectionAppend:
		t.sections[name] = t.sections[name] + captured
	case SectionPrepend:
		t.sections[name] = captured + t.sections[name]
	default:
		t.sections[name] = captured
	}
	return nil
}

// Section returns the accumulated content of a named section. The optional
// trailing argument supplies a fallback for absent sections; without it an
// absent section reads as "".
func (t *Template) Section(name string, fallback ...string) string {
	if value, ok := t.sections[name]; ok {
		return value
	}
	if len(fallback) > 0 {
		return fallback[0]
	}
	return ""
}

// HasSection reports whether a section has been set.
func (t *Template) HasSection(name string) bool {
	_, ok := t.sections[name]
	return ok
}

// Sections returns a copy of the section map, mostly useful for diagnostics
// and tests.
func (t *Template) Sections() map[string]string {
	out := make(map[string]string, len(t.sections))
	for name, value := range t.sections {
		out[name] = value
	}
	return out
}
