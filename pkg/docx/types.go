package docx

import (
	"sort"

	"github.com/benjaminschreck/go-docxtree/pkg/docx/tree"
)

// Part is a named, independently renderable entry of a document package.
// *tree.Node and every vocabulary type satisfy it.
type Part interface {
	ToXML() (string, error)
}

// newElement builds a node whose template is a single empty element and whose
// hook points inside it, so children become the element's content.
func newElement(name string) *tree.Node {
	return tree.MustNew(tree.Obj(name, tree.Obj()), tree.WithPath(tree.Path{name}))
}

// newLeaf builds a node for a single element with no hook.
func newLeaf(name string, kv ...any) *tree.Node {
	return tree.MustNew(tree.Obj(name, tree.Obj(kv...)))
}

// element returns the map of the element name at the top of n's template.
func element(n *tree.Node, name string) *tree.Map {
	v, ok := n.Template().Get(name)
	if !ok {
		m := tree.NewMap()
		n.Template().Set(name, m)
		return m
	}
	m, ok := v.(*tree.Map)
	if !ok {
		m = tree.NewMap()
		n.Template().Set(name, m)
	}
	return m
}

// attrValue escapes string attribute values; other values pass through.
func attrValue(value any) any {
	if s, ok := value.(string); ok {
		return tree.EscapeAttr(s)
	}
	return value
}

// attrPairs returns key/value pairs with every value passed through attrValue.
func attrPairs(kv []any) []any {
	out := make([]any, len(kv))
	for i, v := range kv {
		if i%2 == 1 {
			v = attrValue(v)
		}
		out[i] = v
	}
	return out
}

// attrText returns the unescaped text of an attribute scalar.
func attrText(v tree.Value) string {
	s, ok := v.(tree.Scalar)
	if !ok {
		return ""
	}
	if str, ok := s.Interface().(string); ok {
		return tree.UnescapeAttr(str)
	}
	return s.Text()
}

// setAttr sets attribute attr (without the "@" marker) on element name.
func setAttr(n *tree.Node, name, attr string, value any) {
	v, err := tree.From(attrValue(value))
	if err != nil {
		panic(err)
	}
	element(n, name).Set(tree.AttrPrefix+attr, v)
}

// attr returns the attribute value as a scalar, or the null scalar. String
// values are returned unescaped.
func attr(n *tree.Node, name, attr string) tree.Scalar {
	v, ok := element(n, name).Get(tree.AttrPrefix + attr)
	if !ok {
		return tree.Null()
	}
	s, _ := v.(tree.Scalar)
	if str, ok := s.Interface().(string); ok {
		return tree.String(tree.UnescapeAttr(str))
	}
	return s
}

// prepend returns nodes (nils skipped) followed by children.
func prepend(children []*tree.Node, nodes ...*tree.Node) []*tree.Node {
	out := make([]*tree.Node, 0, len(nodes)+len(children))
	for _, n := range nodes {
		if n != nil {
			out = append(out, n)
		}
	}
	return append(out, children...)
}

// hasNode reports whether nodes holds at least one non-nil node.
func hasNode(nodes []*tree.Node) bool {
	for _, n := range nodes {
		if n != nil {
			return true
		}
	}
	return false
}

// props is a property container element such as w:pPr or w:rPr. Entries
// are kept in the order listed in order; unlisted names go last.
type props struct {
	*tree.Node
	name  string
	order []string
}

func newProps(name string, order ...string) *props {
	return &props{Node: newLeaf(name), name: name, order: order}
}

// set stores child element key with the given attributes, replacing any
// previous value.
func (p *props) set(key string, kv ...any) {
	m := element(p.Node, p.name)
	m.Set(key, tree.Obj(attrPairs(kv)...))
	p.sort(m)
}

// unset removes child element key.
func (p *props) unset(key string) {
	element(p.Node, p.name).Delete(key)
}

// has reports whether child element key is set.
func (p *props) has(key string) bool {
	return element(p.Node, p.name).Has(key)
}

// get returns the attributes of child element key.
func (p *props) get(key string) (*tree.Map, bool) {
	v, ok := element(p.Node, p.name).Get(key)
	if !ok {
		return nil, false
	}
	m, ok := v.(*tree.Map)
	return m, ok
}

// toggle sets key as an empty element when on and removes it otherwise.
func (p *props) toggle(key string, on bool) {
	if on {
		p.set(key)
		return
	}
	p.unset(key)
}

func (p *props) rank(key string) int {
	for i, k := range p.order {
		if k == key {
			return i
		}
	}
	return len(p.order)
}

func (p *props) sort(m *tree.Map) {
	keys := m.Keys()
	sort.SliceStable(keys, func(i, j int) bool {
		return p.rank(keys[i]) < p.rank(keys[j])
	})
	for _, k := range keys {
		v, _ := m.Get(k)
		m.Delete(k)
		m.Set(k, v)
	}
}

// attrs is a single element configured only through its attributes, such
// as w:pgSz or w:cols.
type attrs struct {
	*tree.Node
	name string
}

func newAttrs(name string) attrs {
	return attrs{Node: newLeaf(name), name: name}
}

func (a attrs) set(attr string, value any) {
	setAttr(a.Node, a.name, attr, value)
}

func (a attrs) get(name string) tree.Scalar {
	return attr(a.Node, a.name, name)
}
