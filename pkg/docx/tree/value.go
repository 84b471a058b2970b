package tree

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

const (
	// AttrPrefix marks a template key as an attribute of the enclosing element.
	AttrPrefix = "@"
	// ContentKey holds the text content or the merged children of an element.
	ContentKey = "#"
)

// IsAttr reports whether key names an attribute.
func IsAttr(key string) bool {
	return strings.HasPrefix(key, AttrPrefix)
}

// Value is one node of a template: a Scalar, a *Map or a List.
type Value interface {
	isValue()
}

type scalarKind uint8

const (
	kindNull scalarKind = iota
	kindString
	kindInt
	kindFloat
	kindBool
)

// Scalar is a leaf value. The zero Scalar is null.
type Scalar struct {
	kind scalarKind
	s    string
	i    int64
	f    float64
	b    bool
}

func (Scalar) isValue() {}

func String(s string) Scalar { return Scalar{kind: kindString, s: s} }
func Int(i int64) Scalar     { return Scalar{kind: kindInt, i: i} }
func Float(f float64) Scalar { return Scalar{kind: kindFloat, f: f} }
func Bool(b bool) Scalar     { return Scalar{kind: kindBool, b: b} }
func Null() Scalar           { return Scalar{} }

// IsNull reports whether s is the null scalar.
func (s Scalar) IsNull() bool { return s.kind == kindNull }

// Interface returns the Go value held by s: string, int64, float64, bool or nil.
func (s Scalar) Interface() any {
	switch s.kind {
	case kindString:
		return s.s
	case kindInt:
		return s.i
	case kindFloat:
		return s.f
	case kindBool:
		return s.b
	default:
		return nil
	}
}

// Text returns the form used for XML text and attribute values.
func (s Scalar) Text() string {
	switch s.kind {
	case kindString:
		return s.s
	case kindInt:
		return strconv.FormatInt(s.i, 10)
	case kindFloat:
		return strconv.FormatFloat(s.f, 'f', -1, 64)
	case kindBool:
		return strconv.FormatBool(s.b)
	default:
		return ""
	}
}

func (s Scalar) String() string {
	if s.kind == kindNull {
		return "null"
	}
	return s.Text()
}

// List is an ordered sequence of values.
type List []Value

func (List) isValue() {}

// Clone returns a deep copy of l.
func (l List) Clone() List {
	if l == nil {
		return nil
	}
	out := make(List, len(l))
	for i, v := range l {
		out[i] = cloneValue(v)
	}
	return out
}

// Map is a mapping that keeps keys in insertion order.
type Map struct {
	keys   []string
	values map[string]Value
}

func (*Map) isValue() {}

// NewMap returns an empty map.
func NewMap() *Map {
	return &Map{values: make(map[string]Value)}
}

// Len returns the number of keys.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Get returns the value stored under key.
func (m *Map) Get(key string) (Value, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.values[key]
	return v, ok
}

// Has reports whether key is present.
func (m *Map) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Set stores v under key. An existing key keeps its position.
// A nil v is stored as Null.
func (m *Map) Set(key string, v Value) *Map {
	if v == nil {
		v = Null()
	}
	if m.values == nil {
		m.values = make(map[string]Value)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
	return m
}

// Delete removes key.
func (m *Map) Delete(key string) {
	if _, ok := m.values[key]; !ok {
		return
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Clone returns a deep copy of m.
func (m *Map) Clone() *Map {
	if m == nil {
		return nil
	}
	out := &Map{
		keys:   make([]string, len(m.keys)),
		values: make(map[string]Value, len(m.values)),
	}
	copy(out.keys, m.keys)
	for k, v := range m.values {
		out.values[k] = cloneValue(v)
	}
	return out
}

// Equal reports whether m and other hold the same keys, in the same order,
// with equal values.
func (m *Map) Equal(other *Map) bool {
	return Equal(m, other)
}

func cloneValue(v Value) Value {
	switch t := v.(type) {
	case *Map:
		return t.Clone()
	case List:
		return t.Clone()
	default:
		return v
	}
}

// Equal compares two values structurally. Map key order is significant.
func Equal(a, b Value) bool {
	switch x := a.(type) {
	case Scalar:
		y, ok := b.(Scalar)
		return ok && x == y
	case List:
		y, ok := b.(List)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	case *Map:
		y, ok := b.(*Map)
		if !ok {
			return false
		}
		if x == nil || y == nil {
			return x.Len() == y.Len()
		}
		if len(x.keys) != len(y.keys) {
			return false
		}
		for i, k := range x.keys {
			if y.keys[i] != k || !Equal(x.values[k], y.values[k]) {
				return false
			}
		}
		return true
	default:
		return a == nil && b == nil
	}
}

// Obj builds a map from alternating keys and values. Values are converted
// with From. It panics on malformed input, which is always a defect in a
// hand-written template.
//
//	tree.Obj("w:tblW", tree.Obj("@w:type", "dxa", "@w:w", 5000))
func Obj(kv ...any) *Map {
	if len(kv)%2 != 0 {
		panic(fmt.Sprintf("tree: Obj called with odd number of arguments (%d)", len(kv)))
	}
	m := NewMap()
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			panic(fmt.Sprintf("tree: Obj key at position %d is %T, not string", i, kv[i]))
		}
		v, err := From(kv[i+1])
		if err != nil {
			panic(fmt.Sprintf("tree: Obj value for %q: %v", key, err))
		}
		m.Set(key, v)
	}
	return m
}

// Seq builds a list, converting each element with From. It panics on
// unsupported element types.
func Seq(values ...any) List {
	out := make(List, 0, len(values))
	for i, raw := range values {
		v, err := From(raw)
		if err != nil {
			panic(fmt.Sprintf("tree: Seq element %d: %v", i, err))
		}
		out = append(out, v)
	}
	return out
}

// From converts a Go value into a template Value. Plain Go maps have no key
// order, so their keys are sorted; use Obj or Parse when order matters.
func From(raw any) (Value, error) {
	switch v := raw.(type) {
	case nil:
		return Null(), nil
	case Value:
		return v, nil
	case string:
		return String(v), nil
	case bool:
		return Bool(v), nil
	case int:
		return Int(int64(v)), nil
	case int8:
		return Int(int64(v)), nil
	case int16:
		return Int(int64(v)), nil
	case int32:
		return Int(int64(v)), nil
	case int64:
		return Int(v), nil
	case uint:
		return fromUint(uint64(v))
	case uint8:
		return Int(int64(v)), nil
	case uint16:
		return Int(int64(v)), nil
	case uint32:
		return Int(int64(v)), nil
	case uint64:
		return fromUint(v)
	case float32:
		return Float(float64(v)), nil
	case float64:
		return Float(v), nil
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		m := NewMap()
		for _, k := range keys {
			child, err := From(v[k])
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k, err)
			}
			m.Set(k, child)
		}
		return m, nil
	case []any:
		out := make(List, 0, len(v))
		for i, e := range v {
			child, err := From(e)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			out = append(out, child)
		}
		return out, nil
	case []map[string]any:
		out := make(List, 0, len(v))
		for i, e := range v {
			child, err := From(e)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			out = append(out, child)
		}
		return out, nil
	case []*Map:
		out := make(List, 0, len(v))
		for _, e := range v {
			out = append(out, e)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported template value of type %T", raw)
	}
}

func fromUint(u uint64) (Value, error) {
	if u > math.MaxInt64 {
		return nil, fmt.Errorf("integer %d overflows int64", u)
	}
	return Int(int64(u)), nil
}
