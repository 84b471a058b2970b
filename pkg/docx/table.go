package docx

import (
	"github.com/benjaminschreck/go-docxtree/pkg/docx/tree"
)

// Table is a w:tbl element. Its format and grid are written ahead of the rows.
type Table struct {
	*tree.Node
	format *TableFormat
	grid   *TableGrid
}

// NewTable creates a table with no rows.
func NewTable() *Table {
	t := &Table{Node: newElement("w:tbl")}
	t.SetFinalize(t.finalize)
	return t
}

func (t *Table) finalize(children []*tree.Node) []*tree.Node {
	var format, grid *tree.Node
	if t.format != nil {
		format = t.format.Node
	}
	if t.grid != nil {
		grid = t.grid.Node
	}
	return prepend(children, format, grid)
}

// Format returns the table format, creating it on first use.
func (t *Table) Format() *TableFormat {
	if t.format == nil {
		t.format = NewTableFormat()
	}
	return t.format
}

// SetFormat replaces the table format. Nil removes it.
func (t *Table) SetFormat(f *TableFormat) {
	t.format = f
}

// Grid returns the column grid, creating it on first use.
func (t *Table) Grid() *TableGrid {
	if t.grid == nil {
		t.grid = NewTableGrid()
	}
	return t.grid
}

// AddRow appends an empty row.
func (t *Table) AddRow() *TableRow {
	r := NewTableRow()
	t.MustAppend(r.Node)
	return r
}

// TableGrid is a w:tblGrid element listing column widths.
type TableGrid struct {
	*tree.Node
}

func NewTableGrid() *TableGrid {
	return &TableGrid{Node: newLeaf("w:tblGrid")}
}

// SetColumns replaces the column widths, in twentieths of a point.
func (g *TableGrid) SetColumns(widths ...int) *TableGrid {
	m := element(g.Node, "w:tblGrid")
	if len(widths) == 0 {
		m.Delete("w:gridCol")
		return g
	}
	cols := make(tree.List, 0, len(widths))
	for _, w := range widths {
		cols = append(cols, tree.Obj("@w:w", w))
	}
	m.Set("w:gridCol", cols)
	return g
}

// Columns returns the column widths.
func (g *TableGrid) Columns() []int {
	v, ok := element(g.Node, "w:tblGrid").Get("w:gridCol")
	if !ok {
		return nil
	}
	list, _ := v.(tree.List)
	out := make([]int, 0, len(list))
	for _, e := range list {
		col, ok := e.(*tree.Map)
		if !ok {
			continue
		}
		w, _ := col.Get("@w:w")
		if s, ok := w.(tree.Scalar); ok {
			if i, ok := s.Interface().(int64); ok {
				out = append(out, int(i))
			}
		}
	}
	return out
}

// TableRow is a w:tr element.
type TableRow struct {
	*tree.Node
}

func NewTableRow() *TableRow {
	return &TableRow{Node: newElement("w:tr")}
}

// AddCell appends an empty cell.
func (r *TableRow) AddCell() *TableCell {
	c := NewTableCell()
	r.MustAppend(c.Node)
	return c
}

// TableCell is a w:tc element. A cell must hold at least one paragraph, so
// an empty cell is written with an empty one.
type TableCell struct {
	*tree.Node
	props *props
}

func NewTableCell() *TableCell {
	c := &TableCell{Node: newElement("w:tc")}
	c.SetFinalize(c.finalize)
	return c
}

func (c *TableCell) finalize(children []*tree.Node) []*tree.Node {
	if !hasNode(children) {
		children = append(children, NewParagraph().Node)
	}
	if c.props == nil {
		return children
	}
	return prepend(children, c.props.Node)
}

func (c *TableCell) cellProps() *props {
	if c.props == nil {
		c.props = newProps("w:tcPr", "w:tcW", "w:gridSpan", "w:vAlign")
	}
	return c.props
}

// SetWidth sets the preferred cell width. The unit defaults to dxa.
func (c *TableCell) SetWidth(width int, unit string) *TableCell {
	if unit == "" {
		unit = "dxa"
	}
	c.cellProps().set("w:tcW", "@w:w", width, "@w:type", unit)
	return c
}

// SetSpan makes the cell span n grid columns.
func (c *TableCell) SetSpan(n int) *TableCell {
	if n <= 1 {
		c.cellProps().unset("w:gridSpan")
		return c
	}
	c.cellProps().set("w:gridSpan", "@w:val", n)
	return c
}

// SetVerticalAlign sets vertical alignment: top, center or bottom.
func (c *TableCell) SetVerticalAlign(val string) *TableCell {
	if val == "" {
		c.cellProps().unset("w:vAlign")
		return c
	}
	c.cellProps().set("w:vAlign", "@w:val", val)
	return c
}

// AddParagraph appends an empty paragraph.
func (c *TableCell) AddParagraph() *Paragraph {
	p := NewParagraph()
	c.MustAppend(p.Node)
	return p
}
