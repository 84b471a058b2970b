package tree

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"
)

// RenderXML renders a merged tree as an XML fragment.
//
// Each key of m becomes an element; the fragment has no wrapping root, so a
// map with several keys renders as sibling elements. Attribute keys at this
// top level have no element to attach to and are not written. Scalars are
// written as they are: escaping is left to the template author (see
// EscapeText and EscapeAttr).
func RenderXML(m *Map) string {
	var b strings.Builder
	renderContent(&b, m)
	return b.String()
}

// WriteXML renders m to w.
func WriteXML(w io.Writer, m *Map) error {
	_, err := io.WriteString(w, RenderXML(m))
	return err
}

// EscapeText escapes s for use as XML text content.
func EscapeText(s string) string {
	var buf bytes.Buffer
	// EscapeText only fails when the writer does.
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

var (
	attrEscaper   = strings.NewReplacer(`&`, "&amp;", `<`, "&lt;", `>`, "&gt;", `"`, "&quot;", `'`, "&apos;")
	attrUnescaper = strings.NewReplacer("&amp;", "&", "&lt;", "<", "&gt;", ">", "&quot;", `"`, "&apos;", "'")
)

// EscapeAttr escapes s for use inside a quoted attribute value.
func EscapeAttr(s string) string {
	return attrEscaper.Replace(s)
}

// UnescapeAttr reverses EscapeAttr.
func UnescapeAttr(s string) string {
	return attrUnescaper.Replace(s)
}

// renderContent writes the children and text of the element whose mapping is m.
func renderContent(b *strings.Builder, m *Map) {
	if m == nil {
		return
	}
	for _, key := range m.keys {
		v := m.values[key]
		switch {
		case IsAttr(key):
		case key == ContentKey:
			renderInner(b, v)
		default:
			renderElement(b, key, v)
		}
	}
}

// renderInner writes the value of a content key.
func renderInner(b *strings.Builder, v Value) {
	switch t := v.(type) {
	case Scalar:
		b.WriteString(t.Text())
	case *Map:
		renderContent(b, t)
	case List:
		for _, e := range t {
			renderInner(b, e)
		}
	}
}

func renderElement(b *strings.Builder, name string, v Value) {
	switch t := v.(type) {
	case List:
		for _, e := range t {
			renderElement(b, name, e)
		}
	case *Map:
		b.WriteByte('<')
		b.WriteString(name)
		renderAttrs(b, t)
		b.WriteByte('>')
		renderContent(b, t)
		closeElement(b, name)
	case Scalar:
		b.WriteByte('<')
		b.WriteString(name)
		b.WriteByte('>')
		b.WriteString(t.Text())
		closeElement(b, name)
	}
}

func renderAttrs(b *strings.Builder, m *Map) {
	if m == nil {
		return
	}
	for _, key := range m.keys {
		if !IsAttr(key) {
			continue
		}
		s, ok := m.values[key].(Scalar)
		if !ok {
			continue
		}
		b.WriteByte(' ')
		b.WriteString(strings.TrimPrefix(key, AttrPrefix))
		b.WriteString(`="`)
		b.WriteString(s.Text())
		b.WriteByte('"')
	}
}

func closeElement(b *strings.Builder, name string) {
	b.WriteString("</")
	b.WriteString(name)
	b.WriteByte('>')
}
