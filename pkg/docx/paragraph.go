package docx

import (
	"github.com/benjaminschreck/go-docxtree/pkg/docx/tree"
)

// Paragraph is a w:p element.
type Paragraph struct {
	*tree.Node
	format *ParagraphFormat
}

// NewParagraph creates an empty paragraph.
func NewParagraph() *Paragraph {
	p := &Paragraph{Node: newElement("w:p")}
	p.SetFinalize(p.finalize)
	return p
}

func (p *Paragraph) finalize(children []*tree.Node) []*tree.Node {
	if p.format == nil {
		return children
	}
	return prepend(children, p.format.Node)
}

// Format returns the paragraph format, creating it on first use.
func (p *Paragraph) Format() *ParagraphFormat {
	if p.format == nil {
		p.format = NewParagraphFormat()
	}
	return p.format
}

// AddRun appends an empty run.
func (p *Paragraph) AddRun() *Run {
	r := NewRun()
	p.MustAppend(r.Node)
	return r
}

// AddText appends a run holding s and returns the run.
func (p *Paragraph) AddText(s string) *Run {
	r := p.AddRun()
	r.AddText(s)
	return r
}

// ParagraphFormat is a w:pPr element.
type ParagraphFormat struct {
	*props
}

// NewParagraphFormat creates an empty paragraph format.
func NewParagraphFormat() *ParagraphFormat {
	return &ParagraphFormat{props: newProps("w:pPr", "w:pStyle", "w:spacing", "w:jc")}
}

// Style sets the paragraph style id, e.g. "Heading1".
func (f *ParagraphFormat) Style(id string) *ParagraphFormat {
	if id == "" {
		f.unset("w:pStyle")
		return f
	}
	f.set("w:pStyle", "@w:val", id)
	return f
}

// Justification sets the alignment: left, center, right or both.
func (f *ParagraphFormat) Justification(val string) *ParagraphFormat {
	if val == "" {
		f.unset("w:jc")
		return f
	}
	f.set("w:jc", "@w:val", val)
	return f
}

// Spacing sets the space before and after the paragraph in twentieths of a point.
func (f *ParagraphFormat) Spacing(before, after int) *ParagraphFormat {
	f.set("w:spacing", "@w:before", before, "@w:after", after)
	return f
}
