package docx

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/benjaminschreck/go-docxtree/pkg/docx/tree"
)

// MimeType is the media type of a WordprocessingML package.
const MimeType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// Well-known part names.
const (
	PartRels           = "_rels/.rels"
	PartDocumentRels   = "word/_rels/document.xml.rels"
	PartDocument       = "word/document.xml"
	PartContentTypes   = "[Content_Types].xml"
	PartCoreProperties = "docProps/core.xml"
)

const (
	nsRelationships = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsContentTypes  = "http://schemas.openxmlformats.org/package/2006/content-types"

	relOfficeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relCoreProperties = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"

	ctRelationships  = "application/vnd.openxmlformats-package.relationships+xml"
	ctMainDocument   = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"
	ctCoreProperties = "application/vnd.openxmlformats-package.core-properties+xml"
)

// Document is a set of named parts making up a .docx package. A new
// document holds the package relationships, the content types, an empty
// body and a page section that is always written last in the body.
type Document struct {
	files        map[string]Part
	rels         *File
	contentTypes *File
	root         *File
	section      *Section

	config  *Config
	logger  *Logger
	metrics MetricsRecorder
	spans   SpanManager
}

// Option configures a Document.
type Option func(*Document)

// WithConfig sets the packaging configuration. The global configuration is
// used otherwise.
func WithConfig(config *Config) Option {
	return func(d *Document) {
		if config != nil {
			c := *config
			d.config = &c
		}
	}
}

// WithLogger sets the logger used while packaging.
func WithLogger(logger *Logger) Option {
	return func(d *Document) {
		d.logger = logger
	}
}

// WithMetrics overrides the metrics recorder chosen from the configuration.
func WithMetrics(m MetricsRecorder) Option {
	return func(d *Document) {
		d.metrics = m
	}
}

// WithSpanManager overrides the span manager chosen from the configuration.
func WithSpanManager(s SpanManager) Option {
	return func(d *Document) {
		d.spans = s
	}
}

// New creates an empty document.
func New(opts ...Option) *Document {
	d := &Document{files: make(map[string]Part)}
	for _, opt := range opts {
		opt(d)
	}
	if d.config == nil {
		d.config = GetGlobalConfig()
	}
	if d.metrics == nil {
		if d.config.Metrics {
			d.metrics = NewMetricsRecorder()
		} else {
			d.metrics = NoopMetrics{}
		}
	}
	if d.spans == nil {
		if d.config.Tracing {
			d.spans = NewSpanManager()
		} else {
			d.spans = NoopSpanManager{}
		}
	}

	d.rels = mustFile(tree.Obj("Relationships", tree.Obj(
		"@xmlns", nsRelationships,
		"Relationship", tree.Seq(tree.Obj(
			"@Id", "rId1",
			"@Type", relOfficeDocument,
			"@Target", PartDocument,
		)),
	)))
	d.contentTypes = mustFile(tree.Obj("Types", tree.Obj(
		"@xmlns", nsContentTypes,
		"Default", tree.Seq(
			tree.Obj("@Extension", "rels", "@ContentType", ctRelationships),
			tree.Obj("@Extension", "xml", "@ContentType", "application/xml"),
		),
		"Override", tree.Seq(
			tree.Obj("@PartName", "/"+PartDocument, "@ContentType", ctMainDocument),
		),
	)))
	d.root = mustFile(documentTemplate(), tree.WithPath(tree.Path{"w:document", "w:body"}))
	d.section = NewSection()
	d.root.SetFinalize(func(children []*tree.Node) []*tree.Node {
		return append(children, d.section.Node)
	})

	d.files[PartRels] = d.rels
	d.files[PartDocumentRels] = mustFile(tree.Obj("Relationships", tree.Obj("@xmlns", nsRelationships)))
	d.files[PartDocument] = d.root
	d.files[PartContentTypes] = d.contentTypes
	return d
}

func documentTemplate() *tree.Map {
	return tree.Obj("w:document", tree.Obj(
		"@xmlns:wpc", "http://schemas.microsoft.com/office/word/2010/wordprocessingCanvas",
		"@xmlns:mc", "http://schemas.openxmlformats.org/markup-compatibility/2006",
		"@xmlns:o", "urn:schemas-microsoft-com:office:office",
		"@xmlns:r", "http://schemas.openxmlformats.org/officeDocument/2006/relationships",
		"@xmlns:m", "http://schemas.openxmlformats.org/officeDocument/2006/math",
		"@xmlns:v", "urn:schemas-microsoft-com:vml",
		"@xmlns:wp14", "http://schemas.microsoft.com/office/word/2010/wordprocessingDrawing",
		"@xmlns:wp", "http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing",
		"@xmlns:w10", "urn:schemas-microsoft-com:office:word",
		"@xmlns:w", "http://schemas.openxmlformats.org/wordprocessingml/2006/main",
		"@xmlns:w14", "http://schemas.microsoft.com/office/word/2010/wordml",
		"@xmlns:wpg", "http://schemas.microsoft.com/office/word/2010/wordprocessingGroup",
		"@xmlns:wpi", "http://schemas.microsoft.com/office/word/2010/wordprocessingInk",
		"@xmlns:wne", "http://schemas.microsoft.com/office/word/2006/wordml",
		"@xmlns:wps", "http://schemas.microsoft.com/office/word/2010/wordprocessingShape",
		"@mc:Ignorable", "w14 wp14",
		"w:body", tree.Obj(),
	))
}

// Config returns a copy of the packaging configuration.
func (d *Document) Config() *Config {
	c := *d.config
	return &c
}

// Root returns the word/document.xml part. Its children are body blocks.
func (d *Document) Root() *File {
	return d.root
}

// PageSection returns the section written at the end of the body.
func (d *Document) PageSection() *Section {
	return d.section
}

// Part returns the part stored under name.
func (d *Document) Part(name string) (Part, error) {
	p, ok := d.files[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPartNotFound, name)
	}
	return p, nil
}

// PartNames returns the names of all parts in sorted order.
func (d *Document) PartNames() []string {
	names := make([]string, 0, len(d.files))
	for name := range d.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AddPart stores p under name. Names already in use are rejected.
func (d *Document) AddPart(name string, p Part) error {
	if name == "" || p == nil {
		return NewDocumentError("add part", name, fmt.Errorf("part name and part are required"))
	}
	if _, ok := d.files[name]; ok {
		return NewDocumentError("add part", name, ErrPartExists)
	}
	d.files[name] = p
	return nil
}

// AddFile creates a File part from template and stores it under name.
func (d *Document) AddFile(name string, template *tree.Map, opts ...tree.Option) (*File, error) {
	f, err := NewFile(template, opts...)
	if err != nil {
		return nil, NewDocumentError("add file", name, err)
	}
	if err := d.AddPart(name, f); err != nil {
		return nil, err
	}
	return f, nil
}

// AddSection appends a section break to the body.
func (d *Document) AddSection() *Section {
	s := NewSection()
	d.root.MustAppend(s.Node)
	return s
}

// AddParagraph appends an empty paragraph to the body.
func (d *Document) AddParagraph() *Paragraph {
	p := NewParagraph()
	d.root.MustAppend(p.Node)
	return p
}

// AddTable appends an empty table to the body.
func (d *Document) AddTable() *Table {
	t := NewTable()
	d.root.MustAppend(t.Node)
	return t
}

func (d *Document) AddCols() *Cols {
	return d.section.AddCols()
}

func (d *Document) AddPageMargins() *PageMargins {
	return d.section.AddPageMargins()
}

func (d *Document) AddPageSize() *PageSize {
	return d.section.AddPageSize()
}

// Properties are the core document properties written to docProps/core.xml.
type Properties struct {
	Title          string `yaml:"title"`
	Subject        string `yaml:"subject"`
	Creator        string `yaml:"creator"`
	Keywords       string `yaml:"keywords"`
	Description    string `yaml:"description"`
	LastModifiedBy string `yaml:"last_modified_by"`
	// Identifier defaults to a random urn:uuid.
	Identifier string    `yaml:"identifier"`
	Created    time.Time `yaml:"created"`
	Modified   time.Time `yaml:"modified"`
}

// SetProperties writes the core properties part, registering it with the
// package relationships and content types the first time.
func (d *Document) SetProperties(p Properties) error {
	if p.Identifier == "" {
		p.Identifier = "urn:uuid:" + uuid.NewString()
	}

	core := tree.Obj(
		"@xmlns:cp", "http://schemas.openxmlformats.org/package/2006/metadata/core-properties",
		"@xmlns:dc", "http://purl.org/dc/elements/1.1/",
		"@xmlns:dcterms", "http://purl.org/dc/terms/",
		"@xmlns:dcmitype", "http://purl.org/dc/dcmitype/",
		"@xmlns:xsi", "http://www.w3.org/2001/XMLSchema-instance",
	)
	for _, e := range []struct{ key, value string }{
		{"dc:title", p.Title},
		{"dc:subject", p.Subject},
		{"dc:creator", p.Creator},
		{"cp:keywords", p.Keywords},
		{"dc:description", p.Description},
		{"cp:lastModifiedBy", p.LastModifiedBy},
		{"dc:identifier", p.Identifier},
	} {
		if e.value != "" {
			core.Set(e.key, tree.Obj("#", tree.EscapeText(e.value)))
		}
	}
	for _, e := range []struct {
		key string
		t   time.Time
	}{
		{"dcterms:created", p.Created},
		{"dcterms:modified", p.Modified},
	} {
		if !e.t.IsZero() {
			core.Set(e.key, tree.Obj("@xsi:type", "dcterms:W3CDTF", "#", e.t.UTC().Format(time.RFC3339)))
		}
	}

	_, existed := d.files[PartCoreProperties]
	d.files[PartCoreProperties] = mustFile(tree.Obj("cp:coreProperties", core))
	if existed {
		return nil
	}

	rels, err := appendEntry(d.rels, "Relationships", "Relationship", nil)
	if err != nil {
		return NewDocumentError("set properties", PartRels, err)
	}
	if _, err := appendEntry(d.rels, "Relationships", "Relationship", tree.Obj(
		"@Id", fmt.Sprintf("rId%d", rels+1),
		"@Type", relCoreProperties,
		"@Target", PartCoreProperties,
	)); err != nil {
		return NewDocumentError("set properties", PartRels, err)
	}
	if _, err := appendEntry(d.contentTypes, "Types", "Override", tree.Obj(
		"@PartName", "/"+PartCoreProperties,
		"@ContentType", ctCoreProperties,
	)); err != nil {
		return NewDocumentError("set properties", PartContentTypes, err)
	}
	return nil
}

// appendEntry appends entry to the list under root/key of f's template and
// returns the list length before the append. A nil entry only counts.
func appendEntry(f *File, root, key string, entry *tree.Map) (int, error) {
	v, found, err := tree.Path{root}.Resolve(f.Template())
	if err != nil {
		return 0, err
	}
	m, ok := v.(*tree.Map)
	if !found || !ok {
		return 0, fmt.Errorf("%w: %s", tree.ErrNotMapping, root)
	}
	var list tree.List
	if cur, ok := m.Get(key); ok {
		switch t := cur.(type) {
		case tree.List:
			list = t
		case *tree.Map:
			list = tree.List{t}
		}
	}
	n := len(list)
	if entry != nil {
		m.Set(key, append(list, entry))
	}
	return n, nil
}
