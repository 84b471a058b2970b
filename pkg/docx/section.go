package docx

import (
	"github.com/benjaminschreck/go-docxtree/pkg/docx/tree"
)

// Section is a w:sectPr element. Page size, margins and columns are written
// ahead of any attached children in that order.
type Section struct {
	*tree.Node
	size    *PageSize
	margins *PageMargins
	cols    *Cols
}

// NewSection creates a section with no page settings.
func NewSection() *Section {
	s := &Section{Node: newElement("w:sectPr")}
	s.SetFinalize(s.finalize)
	return s
}

func (s *Section) finalize(children []*tree.Node) []*tree.Node {
	var size, margins, cols *tree.Node
	if s.size != nil {
		size = s.size.Node
	}
	if s.margins != nil {
		margins = s.margins.Node
	}
	if s.cols != nil {
		cols = s.cols.Node
	}
	return prepend(children, size, margins, cols)
}

// AddPageSize returns the page size, creating it on first use.
func (s *Section) AddPageSize() *PageSize {
	if s.size == nil {
		s.size = &PageSize{attrs: newAttrs("w:pgSz")}
	}
	return s.size
}

// AddPageMargins returns the page margins, creating them on first use.
func (s *Section) AddPageMargins() *PageMargins {
	if s.margins == nil {
		s.margins = &PageMargins{attrs: newAttrs("w:pgMar")}
	}
	return s.margins
}

// AddCols returns the column settings, creating them on first use.
func (s *Section) AddCols() *Cols {
	if s.cols == nil {
		s.cols = &Cols{attrs: newAttrs("w:cols")}
	}
	return s.cols
}

// PageSize is a w:pgSz element. Dimensions are in twentieths of a point.
type PageSize struct {
	attrs
}

func (p *PageSize) SetWidth(w int) *PageSize {
	p.set("w:w", w)
	return p
}

func (p *PageSize) SetHeight(h int) *PageSize {
	p.set("w:h", h)
	return p
}

// SetOrientation sets "portrait" or "landscape".
func (p *PageSize) SetOrientation(orient string) *PageSize {
	p.set("w:orient", orient)
	return p
}

// PageMargins is a w:pgMar element. Distances are in twentieths of a point.
type PageMargins struct {
	attrs
}

// Set sets the four page margins.
func (p *PageMargins) Set(top, right, bottom, left int) *PageMargins {
	p.set("w:top", top)
	p.set("w:right", right)
	p.set("w:bottom", bottom)
	p.set("w:left", left)
	return p
}

func (p *PageMargins) SetTop(v int) *PageMargins    { p.set("w:top", v); return p }
func (p *PageMargins) SetRight(v int) *PageMargins  { p.set("w:right", v); return p }
func (p *PageMargins) SetBottom(v int) *PageMargins { p.set("w:bottom", v); return p }
func (p *PageMargins) SetLeft(v int) *PageMargins   { p.set("w:left", v); return p }
func (p *PageMargins) SetHeader(v int) *PageMargins { p.set("w:header", v); return p }
func (p *PageMargins) SetFooter(v int) *PageMargins { p.set("w:footer", v); return p }
func (p *PageMargins) SetGutter(v int) *PageMargins { p.set("w:gutter", v); return p }

// Cols is a w:cols element.
type Cols struct {
	attrs
}

// SetNum sets the number of text columns.
func (c *Cols) SetNum(n int) *Cols {
	c.set("w:num", n)
	return c
}

// SetSpace sets the gap between columns in twentieths of a point.
func (c *Cols) SetSpace(space int) *Cols {
	c.set("w:space", space)
	return c
}

// Num returns the number of columns, or 0 when unset.
func (c *Cols) Num() int {
	if i, ok := c.get("w:num").Interface().(int64); ok {
		return int(i)
	}
	return 0
}
