package docx

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest is a YAML description of a document: optional core properties,
// page settings and a list of body blocks.
//
//	properties:
//	  title: Quarterly report
//	page:
//	  size: {width: 11906, height: 16838}
//	  margins: {top: 1440, right: 1440, bottom: 1440, left: 1440}
//	body:
//	  - paragraph: {text: Summary, style: Heading1}
//	  - table:
//	      borders: {style: single, size: 4}
//	      rows: [[Region, Revenue], [North, "1200"]]
type Manifest struct {
	Properties *Properties `yaml:"properties"`
	Page       PageSpec    `yaml:"page"`
	Body       []Block     `yaml:"body"`
}

type PageSpec struct {
	Size    *PageSizeSpec    `yaml:"size"`
	Margins *PageMarginsSpec `yaml:"margins"`
	Cols    *ColsSpec        `yaml:"cols"`
}

type PageSizeSpec struct {
	Width       int    `yaml:"width"`
	Height      int    `yaml:"height"`
	Orientation string `yaml:"orientation"`
}

type PageMarginsSpec struct {
	Top    int `yaml:"top"`
	Right  int `yaml:"right"`
	Bottom int `yaml:"bottom"`
	Left   int `yaml:"left"`
	Header int `yaml:"header"`
	Footer int `yaml:"footer"`
	Gutter int `yaml:"gutter"`
}

type ColsSpec struct {
	Num   int `yaml:"num"`
	Space int `yaml:"space"`
}

// Block is one body entry. Exactly one field must be set.
type Block struct {
	Paragraph *ParagraphSpec `yaml:"paragraph"`
	Table     *TableSpec     `yaml:"table"`
	PageBreak bool           `yaml:"pageBreak"`
}

// ParagraphSpec describes a paragraph. Text becomes a first run formatted
// by Format; Runs follow it.
type ParagraphSpec struct {
	Style   string       `yaml:"style"`
	Align   string       `yaml:"align"`
	Spacing *SpacingSpec `yaml:"spacing"`
	Text    string       `yaml:"text"`
	Format  *RunSpec     `yaml:"format"`
	Runs    []RunSpec    `yaml:"runs"`
}

type SpacingSpec struct {
	Before int `yaml:"before"`
	After  int `yaml:"after"`
}

// RunSpec describes a run. Break may be "line", "page" or "tab" and is
// written after the text.
type RunSpec struct {
	Text      string `yaml:"text"`
	Bold      bool   `yaml:"bold"`
	Italic    bool   `yaml:"italic"`
	Underline string `yaml:"underline"`
	Size      int    `yaml:"size"`
	Color     string `yaml:"color"`
	Font      string `yaml:"font"`
	Break     string `yaml:"break"`
}

// TableSpec describes a table of text cells. Grid gives column widths and
// also sets the width of the matching cells.
type TableSpec struct {
	Width   int        `yaml:"width"`
	Unit    string     `yaml:"unit"`
	Layout  string     `yaml:"layout"`
	Borders *Border    `yaml:"borders"`
	Grid    []int      `yaml:"grid"`
	Rows    [][]string `yaml:"rows"`
}

// ParseManifest decodes a manifest. Unknown keys are rejected.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// LoadManifest reads and decodes the manifest at path.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}
	m, err := ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Validate checks that every block has exactly one kind.
func (m *Manifest) Validate() error {
	for i, b := range m.Body {
		kinds := 0
		if b.Paragraph != nil {
			kinds++
		}
		if b.Table != nil {
			kinds++
		}
		if b.PageBreak {
			kinds++
		}
		if kinds != 1 {
			return fmt.Errorf("body[%d]: expected exactly one of paragraph, table or pageBreak, got %d", i, kinds)
		}
		if b.Table != nil {
			for r, row := range b.Table.Rows {
				if len(row) == 0 {
					return fmt.Errorf("body[%d].table.rows[%d]: row has no cells", i, r)
				}
			}
		}
		if b.Paragraph != nil {
			for r, run := range b.Paragraph.Runs {
				switch run.Break {
				case "", "line", "page", "tab":
				default:
					return fmt.Errorf("body[%d].paragraph.runs[%d]: unknown break %q", i, r, run.Break)
				}
			}
		}
	}
	return nil
}

// Build creates a document from the manifest.
func (m *Manifest) Build(opts ...Option) (*Document, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	doc := New(opts...)

	if m.Properties != nil {
		if err := doc.SetProperties(*m.Properties); err != nil {
			return nil, err
		}
	}
	if s := m.Page.Size; s != nil {
		ps := doc.AddPageSize().SetWidth(s.Width).SetHeight(s.Height)
		if s.Orientation != "" {
			ps.SetOrientation(s.Orientation)
		}
	}
	if mg := m.Page.Margins; mg != nil {
		pm := doc.AddPageMargins().Set(mg.Top, mg.Right, mg.Bottom, mg.Left)
		if mg.Header != 0 {
			pm.SetHeader(mg.Header)
		}
		if mg.Footer != 0 {
			pm.SetFooter(mg.Footer)
		}
		if mg.Gutter != 0 {
			pm.SetGutter(mg.Gutter)
		}
	}
	if c := m.Page.Cols; c != nil {
		cols := doc.AddCols().SetNum(c.Num)
		if c.Space != 0 {
			cols.SetSpace(c.Space)
		}
	}

	for _, b := range m.Body {
		switch {
		case b.Paragraph != nil:
			buildParagraph(doc.AddParagraph(), b.Paragraph)
		case b.Table != nil:
			buildTable(doc.AddTable(), b.Table)
		case b.PageBreak:
			doc.AddParagraph().AddRun().AddPageBreak()
		}
	}
	return doc, nil
}

func buildParagraph(p *Paragraph, spec *ParagraphSpec) {
	if spec.Style != "" || spec.Align != "" || spec.Spacing != nil {
		f := p.Format().Style(spec.Style).Justification(spec.Align)
		if spec.Spacing != nil {
			f.Spacing(spec.Spacing.Before, spec.Spacing.After)
		}
	}
	if spec.Text != "" {
		r := p.AddText(spec.Text)
		if spec.Format != nil {
			applyRunFormat(r, spec.Format)
		}
	}
	for i := range spec.Runs {
		buildRun(p.AddRun(), &spec.Runs[i])
	}
}

func buildRun(r *Run, spec *RunSpec) {
	applyRunFormat(r, spec)
	if spec.Text != "" {
		r.AddText(spec.Text)
	}
	switch spec.Break {
	case "line":
		r.AddLineBreak()
	case "page":
		r.AddPageBreak()
	case "tab":
		r.AddTab()
	}
}

func applyRunFormat(r *Run, spec *RunSpec) {
	if !spec.Bold && !spec.Italic && spec.Underline == "" && spec.Size == 0 && spec.Color == "" && spec.Font == "" {
		return
	}
	r.Format().
		Font(spec.Font).
		Bold(spec.Bold).
		Italic(spec.Italic).
		Color(spec.Color).
		Size(spec.Size).
		Underline(spec.Underline)
}

func buildTable(t *Table, spec *TableSpec) {
	if spec.Width != 0 || spec.Layout != "" || spec.Borders != nil {
		f := t.Format().SetWidth(spec.Width, spec.Unit).SetLayout(spec.Layout)
		if spec.Borders != nil {
			f.AddBorders().SetAll(*spec.Borders)
		}
	}
	if len(spec.Grid) > 0 {
		t.Grid().SetColumns(spec.Grid...)
	}
	for _, row := range spec.Rows {
		tr := t.AddRow()
		for i, text := range row {
			c := tr.AddCell()
			if i < len(spec.Grid) {
				c.SetWidth(spec.Grid[i], "dxa")
			}
			if text != "" {
				c.AddParagraph().AddText(text)
			}
		}
	}
}
