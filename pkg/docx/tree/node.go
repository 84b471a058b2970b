package tree

import "fmt"

// FinalizeFunc adjusts the children of a node right before it is merged.
// It receives a fresh copy of the children on every call and returns the
// sequence to merge, so it may append or prepend synthesized nodes without
// changing the node itself.
type FinalizeFunc func(children []*Node) []*Node

func keepChildren(children []*Node) []*Node { return children }

// Node is a template with an optional hook at which child nodes are merged.
//
// A Node owns its children: each node has at most one parent and the
// structure is a tree. Nodes are not safe for concurrent mutation; a fully
// built tree may be merged and rendered from several goroutines.
type Node struct {
	template *Map
	hook     Path
	children []*Node
	finalize FinalizeFunc
	parent   *Node
}

// Option configures a Node at construction.
type Option func(*Node) error

// WithHook sets the hook from its textual form. An empty or malformed path
// fails construction.
func WithHook(hook string) Option {
	return func(n *Node) error {
		p, err := ParsePath(hook)
		if err != nil {
			return err
		}
		n.hook = p
		return nil
	}
}

// WithPath sets an already parsed hook.
func WithPath(p Path) Option {
	return func(n *Node) error {
		if len(p) == 0 {
			return &HookSyntaxError{Message: "empty path"}
		}
		n.hook = append(Path(nil), p...)
		return nil
	}
}

// WithChildren attaches initial children.
func WithChildren(children ...*Node) Option {
	return func(n *Node) error {
		return n.Append(children...)
	}
}

// WithFinalize installs a finalize step.
func WithFinalize(fn FinalizeFunc) Option {
	return func(n *Node) error {
		n.SetFinalize(fn)
		return nil
	}
}

// New creates a node around template. The template is stored by reference
// and belongs to the node from now on. A nil template is treated as empty.
func New(template *Map, opts ...Option) (*Node, error) {
	if template == nil {
		template = NewMap()
	}
	n := &Node{
		template: template,
		finalize: keepChildren,
	}
	for _, opt := range opts {
		if err := opt(n); err != nil {
			return nil, err
		}
	}
	return n, nil
}

// MustNew is like New but panics on error.
func MustNew(template *Map, opts ...Option) *Node {
	n, err := New(template, opts...)
	if err != nil {
		panic(err)
	}
	return n
}

// Template returns the live template. Changes are visible to later merges.
func (n *Node) Template() *Map {
	return n.template
}

// Hook returns the parsed hook, or nil if the node has none.
func (n *Node) Hook() Path {
	return n.hook
}

// Children returns a copy of the attached children.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// Len returns the number of attached children, nil entries included.
func (n *Node) Len() int {
	return len(n.children)
}

// Parent returns the node this node is attached to, if any.
func (n *Node) Parent() *Node {
	return n.parent
}

// SetFinalize replaces the finalize step. A nil fn restores the default,
// which merges the children unchanged.
func (n *Node) SetFinalize(fn FinalizeFunc) {
	if fn == nil {
		fn = keepChildren
	}
	n.finalize = fn
}

// Append attaches children in order. nil entries are kept and ignored when
// merging. Nothing is attached if any child is rejected.
func (n *Node) Append(children ...*Node) error {
	for i, c := range children {
		if c == nil {
			continue
		}
		if c.parent != nil {
			return fmt.Errorf("append child %d: %w", i, ErrAlreadyAttached)
		}
		for p := n; p != nil; p = p.parent {
			if p == c {
				return fmt.Errorf("append child %d: %w", i, ErrCycle)
			}
		}
		for _, prev := range children[:i] {
			if prev == c {
				return fmt.Errorf("append child %d: %w", i, ErrAlreadyAttached)
			}
		}
	}
	for _, c := range children {
		if c != nil {
			c.parent = n
		}
		n.children = append(n.children, c)
	}
	return nil
}

// MustAppend is like Append but panics on error.
func (n *Node) MustAppend(children ...*Node) {
	if err := n.Append(children...); err != nil {
		panic(err)
	}
}
