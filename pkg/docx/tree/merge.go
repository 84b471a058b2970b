package tree

// ToJSON merges the node with its children and returns the resulting tree.
//
// The template is copied first, so the node is left untouched and repeated
// calls return equal trees. Children are merged only when the hook points at
// a mapping; a missing hook, a hook that resolves to a list and a hook whose
// last key is absent all leave the children out.
func (n *Node) ToJSON() (*Map, error) {
	working := make([]*Node, len(n.children))
	copy(working, n.children)
	working = n.finalize(working)

	out := n.template.Clone()
	if n.hook == nil {
		return out, nil
	}

	target, found, err := n.hook.Resolve(out)
	if err != nil {
		return nil, err
	}
	if !found {
		return out, nil
	}

	var at *Map
	switch t := target.(type) {
	case List:
		return out, nil
	case *Map:
		at = t
	default:
		return nil, &ResolveError{Path: n.hook, Segment: len(n.hook) - 1, Cause: ErrNotMapping}
	}

	merged := make(List, 0, len(working))
	for _, child := range working {
		if child == nil {
			continue
		}
		m, err := child.ToJSON()
		if err != nil {
			return nil, err
		}
		merged = append(merged, m)
	}
	if len(merged) == 0 {
		return out, nil
	}

	existing, ok := at.Get(ContentKey)
	if !ok {
		at.Set(ContentKey, merged)
		return out, nil
	}
	switch e := existing.(type) {
	case List:
		at.Set(ContentKey, append(e, merged...))
	case Scalar:
		if !e.IsNull() {
			return nil, &ResolveError{Path: n.hook, Segment: len(n.hook) - 1, Cause: ErrTextAtHook}
		}
		at.Set(ContentKey, merged)
	default:
		at.Set(ContentKey, append(List{e}, merged...))
	}
	return out, nil
}

// MarshalJSON renders the merged tree as JSON with template key order kept.
func (n *Node) MarshalJSON() ([]byte, error) {
	m, err := n.ToJSON()
	if err != nil {
		return nil, err
	}
	return m.MarshalJSON()
}

// ToXML merges the node and renders the result as an XML fragment.
func (n *Node) ToXML() (string, error) {
	m, err := n.ToJSON()
	if err != nil {
		return "", err
	}
	return RenderXML(m), nil
}
