package tree

import (
	"strings"
)

// Path is a parsed hook: the keys to follow from the template root.
//
// The textual form is a chain of segments, each either `.name` for a bare
// identifier or `["any key"]` for keys containing dots, colons or other
// characters, e.g. `.c.d.e` or `["w:document"]["w:body"]`.
type Path []string

// ParsePath parses and validates a hook string.
func ParsePath(s string) (Path, error) {
	if s == "" {
		return nil, &HookSyntaxError{Message: "empty path"}
	}

	var segments Path
	for pos := 0; pos < len(s); {
		switch s[pos] {
		case '.':
			start := pos + 1
			end := start
			for end < len(s) && isIdentChar(s[end], end == start) {
				end++
			}
			if end == start {
				return nil, &HookSyntaxError{Path: s, Position: start, Message: "expected identifier after '.'"}
			}
			segments = append(segments, s[start:end])
			pos = end
		case '[':
			key, next, err := parseQuoted(s, pos)
			if err != nil {
				return nil, err
			}
			segments = append(segments, key)
			pos = next
		default:
			return nil, &HookSyntaxError{Path: s, Position: pos, Message: "expected '.' or '['"}
		}
	}
	return segments, nil
}

// MustParsePath is like ParsePath but panics on error. It is meant for hooks
// written as constants next to their template.
func MustParsePath(s string) Path {
	p, err := ParsePath(s)
	if err != nil {
		panic(err)
	}
	return p
}

// parseQuoted reads `["..."]` starting at the '[' at pos and returns the key
// and the position after the closing ']'.
func parseQuoted(s string, pos int) (string, int, error) {
	i := pos + 1
	if i >= len(s) || s[i] != '"' {
		return "", 0, &HookSyntaxError{Path: s, Position: i, Message: "expected '\"' after '['"}
	}
	i++

	var key strings.Builder
	for {
		if i >= len(s) {
			return "", 0, &HookSyntaxError{Path: s, Position: i, Message: "unterminated quoted key"}
		}
		c := s[i]
		if c == '\\' {
			if i+1 >= len(s) || (s[i+1] != '"' && s[i+1] != '\\') {
				return "", 0, &HookSyntaxError{Path: s, Position: i, Message: "invalid escape in quoted key"}
			}
			key.WriteByte(s[i+1])
			i += 2
			continue
		}
		if c == '"' {
			break
		}
		key.WriteByte(c)
		i++
	}
	i++ // closing quote

	if i >= len(s) || s[i] != ']' {
		return "", 0, &HookSyntaxError{Path: s, Position: i, Message: "expected ']' after quoted key"}
	}
	return key.String(), i + 1, nil
}

func isIdentChar(c byte, first bool) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_', c == '$':
		return true
	case c >= '0' && c <= '9':
		return !first
	default:
		return false
	}
}

func isIdent(key string) bool {
	if key == "" {
		return false
	}
	for i := 0; i < len(key); i++ {
		if !isIdentChar(key[i], i == 0) {
			return false
		}
	}
	return true
}

// String returns the canonical hook text; it parses back to the same Path.
func (p Path) String() string {
	var b strings.Builder
	for _, seg := range p {
		if isIdent(seg) {
			b.WriteByte('.')
			b.WriteString(seg)
			continue
		}
		b.WriteString(`["`)
		b.WriteString(strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(seg))
		b.WriteString(`"]`)
	}
	return b.String()
}

// Resolve follows p through m without creating anything. found is false when
// the last key is missing; a missing or non-mapping intermediate value is a
// template defect and returns a *ResolveError.
func (p Path) Resolve(m *Map) (v Value, found bool, err error) {
	if len(p) == 0 {
		return m, true, nil
	}
	cur := m
	for i, key := range p {
		next, ok := cur.Get(key)
		if i == len(p)-1 {
			return next, ok, nil
		}
		if !ok {
			return nil, false, &ResolveError{Path: p, Segment: i, Cause: ErrKeyNotFound}
		}
		child, isMap := next.(*Map)
		if !isMap || child == nil {
			return nil, false, &ResolveError{Path: p, Segment: i, Cause: ErrNotMapping}
		}
		cur = child
	}
	return nil, false, nil
}
