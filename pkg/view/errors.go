package view

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound signals that a template name could not be resolved to a
	// source by the registry or any configured loader.
	ErrNotFound = errors.New("view: template not found")
	// ErrReservedSection is returned when a body tries to open a section
	// named "content"; that slot is owned by the layout fold.
	ErrReservedSection = errors.New("view: section name \"content\" is reserved")
	// ErrNestedSection is returned when a section capture is opened while
	// another one is still open on the same template instance.
	ErrNestedSection = errors.New("view: section captures cannot nest")
	// ErrNoOpenSection is returned by Stop when no capture is open.
	ErrNoOpenSection = errors.New("view: no section is open")
	// ErrImbalancedCapture is returned when the capture stack is popped or
	// written to without a matching open frame.
	ErrImbalancedCapture = errors.New("view: capture stack is empty")
	// ErrUnknownExtension is returned when dynamic dispatch cannot resolve a
	// helper name in the extension registry.
	ErrUnknownExtension = errors.New("view: unknown extension")
	// ErrUnknownPipeFunc is returned when a pipeline stage resolves to
	// neither an extension nor a registered pipe function.
	ErrUnknownPipeFunc = errors.New("view: unknown pipeline function")
)

// NotFoundError reports a failed template resolution together with every
// candidate location that was attempted, so callers can see where the engine
// looked.
type NotFoundError struct {
	Name      string
	Attempted []string
}

func (e *NotFoundError) Error() string {
	if len(e.Attempted) == 0 {
		return fmt.Sprintf("view: template %q not found", e.Name)
	}
	return fmt.Sprintf("view: template %q not found (tried %s)", e.Name, strings.Join(e.Attempted, ", "))
}

// Is makes errors.Is(err, ErrNotFound) match resolution failures.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
