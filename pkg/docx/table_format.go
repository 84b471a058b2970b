package docx

import (
	"github.com/benjaminschreck/go-docxtree/pkg/docx/tree"
)

// TableFormat is a w:tblPr element. Borders, width and layout are held
// aside and written ahead of any attached children as borders, width,
// layout.
type TableFormat struct {
	*tree.Node
	borders *TableBorders
	width   *tree.Node
	layout  *tree.Node
}

// NewTableFormat creates a format with no borders, width or layout.
func NewTableFormat() *TableFormat {
	f := &TableFormat{Node: newElement("w:tblPr")}
	f.SetFinalize(f.finalize)
	return f
}

func (f *TableFormat) finalize(children []*tree.Node) []*tree.Node {
	if f.layout != nil {
		children = prepend(children, f.layout)
	}
	if f.width != nil {
		children = prepend(children, f.width)
	}
	if f.borders != nil {
		children = prepend(children, f.borders.Node)
	}
	return children
}

// AddBorders replaces the borders with an empty set and returns it.
func (f *TableFormat) AddBorders() *TableBorders {
	b := NewTableBorders()
	f.borders = b
	return b
}

// SetBorders replaces the borders. Nil removes them.
func (f *TableFormat) SetBorders(b *TableBorders) *TableFormat {
	f.borders = b
	return f
}

// Borders returns the current borders, or nil.
func (f *TableFormat) Borders() *TableBorders {
	return f.borders
}

// SetWidth sets the preferred table width. A zero width removes it and an
// empty unit means dxa.
func (f *TableFormat) SetWidth(width int, unit string) *TableFormat {
	if width == 0 {
		f.width = nil
		return f
	}
	if unit == "" {
		unit = "dxa"
	}
	f.width = tree.MustNew(
		tree.Obj("w:tblW", tree.Obj("@w:type", tree.EscapeAttr(unit), "@w:w", width)),
		tree.WithPath(tree.Path{"w:tblW"}),
	)
	return f
}

// SetLayout sets the layout algorithm, "fixed" or "autofit". Empty removes it.
func (f *TableFormat) SetLayout(layout string) *TableFormat {
	if layout == "" {
		f.layout = nil
		return f
	}
	f.layout = tree.MustNew(
		tree.Obj("w:tblLayout", tree.Obj("@w:type", tree.EscapeAttr(layout))),
		tree.WithPath(tree.Path{"w:tblLayout"}),
	)
	return f
}

// TableBorders is a w:tblBorders element.
type TableBorders struct {
	*props
}

// NewTableBorders creates an empty border set.
func NewTableBorders() *TableBorders {
	return &TableBorders{props: newProps("w:tblBorders",
		"w:top", "w:left", "w:bottom", "w:right", "w:insideH", "w:insideV")}
}

// Border describes one edge of a table.
type Border struct {
	// Style is the line style, e.g. "single", "double" or "nil".
	Style string
	// Size is the width in eighths of a point.
	Size int
	// Color is a hex RGB value or "auto".
	Color string
}

func (b *TableBorders) edge(name string, style string, size int, color string) *TableBorders {
	if style == "" {
		b.unset(name)
		return b
	}
	if color == "" {
		color = "auto"
	}
	b.set(name, "@w:val", style, "@w:sz", size, "@w:space", 0, "@w:color", color)
	return b
}

// SetTop sets the top border. An empty style removes it.
func (b *TableBorders) SetTop(style string, size int, color string) *TableBorders {
	return b.edge("w:top", style, size, color)
}

// SetLeft sets the left border. An empty style removes it.
func (b *TableBorders) SetLeft(style string, size int, color string) *TableBorders {
	return b.edge("w:left", style, size, color)
}

// SetBottom sets the bottom border. An empty style removes it.
func (b *TableBorders) SetBottom(style string, size int, color string) *TableBorders {
	return b.edge("w:bottom", style, size, color)
}

// SetRight sets the right border. An empty style removes it.
func (b *TableBorders) SetRight(style string, size int, color string) *TableBorders {
	return b.edge("w:right", style, size, color)
}

// SetInsideH sets the inner horizontal border. An empty style removes it.
func (b *TableBorders) SetInsideH(style string, size int, color string) *TableBorders {
	return b.edge("w:insideH", style, size, color)
}

// SetInsideV sets the inner vertical border. An empty style removes it.
func (b *TableBorders) SetInsideV(style string, size int, color string) *TableBorders {
	return b.edge("w:insideV", style, size, color)
}

// SetAll applies border to every edge, inner lines included.
func (b *TableBorders) SetAll(border Border) *TableBorders {
	for _, name := range b.order {
		b.edge(name, border.Style, border.Size, border.Color)
	}
	return b
}

// Edge returns the border of the named edge (top, left, bottom, right,
// insideH or insideV).
func (b *TableBorders) Edge(name string) (Border, bool) {
	m, ok := b.get("w:" + name)
	if !ok {
		return Border{}, false
	}
	var out Border
	if v, ok := m.Get("@w:val"); ok {
		out.Style = attrText(v)
	}
	if v, ok := m.Get("@w:sz"); ok {
		if i, ok := v.(tree.Scalar).Interface().(int64); ok {
			out.Size = int(i)
		}
	}
	if v, ok := m.Get("@w:color"); ok {
		out.Color = attrText(v)
	}
	return out, true
}
