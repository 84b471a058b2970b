package docx

import (
	"github.com/benjaminschreck/go-docxtree/pkg/docx/tree"
)

// Run is a w:r element: a stretch of text sharing one character format.
type Run struct {
	*tree.Node
	format *RunFormat
}

// NewRun creates an empty run.
func NewRun() *Run {
	r := &Run{Node: newElement("w:r")}
	r.SetFinalize(r.finalize)
	return r
}

func (r *Run) finalize(children []*tree.Node) []*tree.Node {
	if r.format == nil {
		return children
	}
	return prepend(children, r.format.Node)
}

// Format returns the character format of the run, creating it on first use.
func (r *Run) Format() *RunFormat {
	if r.format == nil {
		r.format = NewRunFormat()
	}
	return r.format
}

// AddText appends a text element.
func (r *Run) AddText(s string) *Text {
	t := NewText(s)
	r.MustAppend(t.Node)
	return t
}

// AddTab appends a tab character.
func (r *Run) AddTab() {
	r.MustAppend(newLeaf("w:tab"))
}

// AddLineBreak appends a text-wrapping break.
func (r *Run) AddLineBreak() {
	r.MustAppend(newLeaf("w:br"))
}

// AddPageBreak appends a page break.
func (r *Run) AddPageBreak() {
	r.MustAppend(newLeaf("w:br", "@w:type", "page"))
}

// RunFormat is a w:rPr element.
type RunFormat struct {
	*props
}

// NewRunFormat creates an empty character format.
func NewRunFormat() *RunFormat {
	return &RunFormat{props: newProps("w:rPr",
		"w:rStyle", "w:rFonts", "w:b", "w:bCs", "w:i", "w:iCs",
		"w:color", "w:sz", "w:szCs", "w:u")}
}

// Style sets the character style id.
func (f *RunFormat) Style(id string) *RunFormat {
	if id == "" {
		f.unset("w:rStyle")
		return f
	}
	f.set("w:rStyle", "@w:val", id)
	return f
}

// Bold sets bold for complex and non-complex scripts.
func (f *RunFormat) Bold(on bool) *RunFormat {
	f.toggle("w:b", on)
	f.toggle("w:bCs", on)
	return f
}

// Italic sets italics for complex and non-complex scripts.
func (f *RunFormat) Italic(on bool) *RunFormat {
	f.toggle("w:i", on)
	f.toggle("w:iCs", on)
	return f
}

// Underline sets the underline style, such as "single" or "double".
// An empty style removes underlining.
func (f *RunFormat) Underline(style string) *RunFormat {
	if style == "" {
		f.unset("w:u")
		return f
	}
	f.set("w:u", "@w:val", style)
	return f
}

// Size sets the font size in half-points. Zero removes it.
func (f *RunFormat) Size(halfPoints int) *RunFormat {
	if halfPoints <= 0 {
		f.unset("w:sz")
		f.unset("w:szCs")
		return f
	}
	f.set("w:sz", "@w:val", halfPoints)
	f.set("w:szCs", "@w:val", halfPoints)
	return f
}

// Color sets the text color as a hex RGB value such as "FF0000".
func (f *RunFormat) Color(hex string) *RunFormat {
	if hex == "" {
		f.unset("w:color")
		return f
	}
	f.set("w:color", "@w:val", hex)
	return f
}

// Font sets the typeface for all scripts.
func (f *RunFormat) Font(name string) *RunFormat {
	if name == "" {
		f.unset("w:rFonts")
		return f
	}
	f.set("w:rFonts", "@w:ascii", name, "@w:hAnsi", name, "@w:cs", name)
	return f
}
