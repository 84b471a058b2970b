package docx

import (
	"github.com/benjaminschreck/go-docxtree/pkg/docx/tree"
)

// SpacePreserve is the default xml:space value of a Text.
const SpacePreserve = "preserve"

// Text is a w:t element. Its content is stored escaped in the template and
// is never merged with children.
type Text struct {
	*tree.Node
	value string
}

// NewText creates a text element holding s.
func NewText(s string) *Text {
	t := &Text{Node: tree.MustNew(
		tree.Obj("w:t", tree.Obj("#", nil, "@xml:space", SpacePreserve)),
		tree.WithPath(tree.Path{"w:t"}),
	)}
	t.SetString(s)
	return t
}

// String returns the unescaped text.
func (t *Text) String() string {
	return t.value
}

// SetString replaces the text. An empty string leaves the element empty.
func (t *Text) SetString(s string) {
	t.value = s
	var content tree.Value = tree.Null()
	if s != "" {
		content = tree.String(tree.EscapeText(s))
	}
	element(t.Node, "w:t").Set(tree.ContentKey, content)
}

// SpaceAttr returns the xml:space value, or "" when unset.
func (t *Text) SpaceAttr() string {
	return attr(t.Node, "w:t", "xml:space").Text()
}

// SetSpaceAttr sets xml:space. An empty value removes the attribute.
func (t *Text) SetSpaceAttr(value string) {
	if value == "" {
		element(t.Node, "w:t").Delete("@xml:space")
		return
	}
	setAttr(t.Node, "w:t", "xml:space", value)
}
