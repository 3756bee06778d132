package view

import "bytes"

// CaptureStack manages nested buffered-output regions. Every render and every
// section capture pushes one frame; output written through a Template lands
// in the innermost frame. The stack is strict: each Enter must be matched by
// exactly one Exit or be discarded by UnwindTo on a failure path, otherwise
// buffered text leaks into the wrong enclosing context.
//
// A stack belongs to a single render call tree and is not safe for
// concurrent use.
type CaptureStack struct {
	frames []*bytes.Buffer
}

// NewCaptureStack returns an empty stack.
func NewCaptureStack() *CaptureStack {
	return &CaptureStack{}
}

// Depth reports the number of open frames.
func (s *CaptureStack) Depth() int {
	return len(s.frames)
}

// Enter pushes a new capture frame. All subsequent writes are diverted into
// it until the matching Exit.
func (s *CaptureStack) Enter() {
	s.frames = append(s.frames, &bytes.Buffer{})
}

// Exit pops the innermost frame and returns everything written to it.
func (s *CaptureStack) Exit() (string, error) {
	if len(s.frames) == 0 {
		return "", ErrImbalancedCapture
	}
	top := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]
	return top.String(), nil
}

// UnwindTo pops frames down to a previously recorded depth, discarding their
// content. Failure paths call this unconditionally so an error raised inside
// a body never leaks partially captured output into the enclosing context.
func (s *CaptureStack) UnwindTo(depth int) {
	if depth < 0 {
		depth = 0
	}
	for len(s.frames) > depth {
		s.frames = s.frames[:len(s.frames)-1]
	}
}

// Write implements io.Writer against the innermost frame.
func (s *CaptureStack) Write(p []byte) (int, error) {
	if len(s.frames) == 0 {
		return 0, ErrImbalancedCapture
	}
	return s.frames[len(s.frames)-1].Write(p)
}
