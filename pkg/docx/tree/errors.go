package tree

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidHook is wrapped by every hook syntax error.
	ErrInvalidHook = errors.New("invalid hook path")
	// ErrKeyNotFound means a hook walked through a key the template does not have.
	ErrKeyNotFound = errors.New("key not found")
	// ErrNotMapping means a hook walked into a scalar or a list.
	ErrNotMapping = errors.New("value is not a mapping")
	// ErrTextAtHook means children were merged into an element whose
	// content key already holds text.
	ErrTextAtHook = errors.New("hook target already holds text content")
	// ErrAlreadyAttached means the child belongs to another node.
	ErrAlreadyAttached = errors.New("node already has a parent")
	// ErrCycle means attaching the child would make a node its own descendant.
	ErrCycle = errors.New("attaching node would create a cycle")
)

// HookSyntaxError reports a malformed hook path.
type HookSyntaxError struct {
	Path     string
	Position int
	Message  string
}

func (e *HookSyntaxError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%v: %s", ErrInvalidHook, e.Message)
	}
	return fmt.Sprintf("%v %q at position %d: %s", ErrInvalidHook, e.Path, e.Position, e.Message)
}

func (e *HookSyntaxError) Unwrap() error {
	return ErrInvalidHook
}

// ResolveError reports a hook that does not fit the template it is applied to.
type ResolveError struct {
	Path    Path
	Segment int
	Cause   error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("resolve hook %s at segment %d (%q): %v", e.Path, e.Segment, e.segmentKey(), e.Cause)
}

func (e *ResolveError) Unwrap() error {
	return e.Cause
}

func (e *ResolveError) segmentKey() string {
	if e.Segment < 0 || e.Segment >= len(e.Path) {
		return ""
	}
	return e.Path[e.Segment]
}
