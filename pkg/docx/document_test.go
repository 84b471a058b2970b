package docx

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benjaminschreck/go-docxtree/pkg/docx/tree"
)

func quietConfig() *Config {
	return &Config{LogLevel: "off", Compression: CompressionDeflate}
}

func newTestDocument(opts ...Option) *Document {
	return New(append([]Option{WithConfig(quietConfig()), WithLogger(NewLogger(nil, LogOff))}, opts...)...)
}

func TestNewDocumentParts(t *testing.T) {
	doc := newTestDocument()

	assert.Equal(t, []string{
		PartContentTypes,
		PartRels,
		PartDocumentRels,
		PartDocument,
	}, doc.PartNames())

	root := mustXML(t, doc.Root())
	assert.True(t, strings.HasPrefix(root, XMLHeader), root)
	assert.Contains(t, root, `<w:document xmlns:wpc="http://schemas.microsoft.com/office/word/2010/wordprocessingCanvas"`)
	assert.Contains(t, root, `mc:Ignorable="w14 wp14"><w:body><w:sectPr></w:sectPr></w:body></w:document>`)

	rels, err := doc.Part(PartRels)
	require.NoError(t, err)
	assert.Equal(t, XMLHeader+
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`+
		`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"></Relationship>`+
		`</Relationships>`, mustXML(t, rels))

	docRels, err := doc.Part(PartDocumentRels)
	require.NoError(t, err)
	assert.Equal(t, XMLHeader+
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`,
		mustXML(t, docRels))

	types, err := doc.Part(PartContentTypes)
	require.NoError(t, err)
	assert.Equal(t, XMLHeader+
		`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`+
		`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"></Default>`+
		`<Default Extension="xml" ContentType="application/xml"></Default>`+
		`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"></Override>`+
		`</Types>`, mustXML(t, types))
}

func TestDocumentBody(t *testing.T) {
	doc := newTestDocument()
	doc.AddPageSize().SetWidth(11906).SetHeight(16838)
	doc.AddParagraph().AddText("Hello")
	doc.AddTable().AddRow().AddCell()
	doc.AddSection()
	doc.AddCols().SetNum(2)
	doc.AddPageMargins().Set(1, 2, 3, 4)

	root := mustXML(t, doc.Root())
	assert.Contains(t, root,
		`<w:body><w:p><w:r><w:t xml:space="preserve">Hello</w:t></w:r></w:p>`+
			`<w:tbl><w:tr><w:tc><w:p></w:p></w:tc></w:tr></w:tbl>`+
			`<w:sectPr></w:sectPr>`+
			`<w:sectPr><w:pgSz w:w="11906" w:h="16838"></w:pgSz>`+
			`<w:pgMar w:top="1" w:right="2" w:bottom="3" w:left="4"></w:pgMar>`+
			`<w:cols w:num="2"></w:cols></w:sectPr></w:body>`)

	assert.Equal(t, 3, doc.Root().Len(), "page section is added at merge time only")
	assert.Same(t, doc.PageSection().AddCols(), doc.AddCols())
	assert.Equal(t, root, mustXML(t, doc.Root()))
}

func TestDocumentAddFile(t *testing.T) {
	doc := newTestDocument()

	f, err := doc.AddFile("word/styles.xml",
		tree.Obj("w:styles", tree.Obj("@xmlns:w", "http://schemas.openxmlformats.org/wordprocessingml/2006/main")),
		tree.WithHook(`["w:styles"]`))
	require.NoError(t, err)
	f.MustAppend(tree.MustNew(tree.Obj("w:style", tree.Obj("@w:styleId", "Normal"))))

	part, err := doc.Part("word/styles.xml")
	require.NoError(t, err)
	assert.Equal(t, XMLHeader+
		`<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:style w:styleId="Normal"></w:style></w:styles>`,
		mustXML(t, part))
	assert.Contains(t, doc.PartNames(), "word/styles.xml")

	t.Run("duplicate name", func(t *testing.T) {
		_, err := doc.AddFile("word/styles.xml", tree.Obj())
		require.ErrorIs(t, err, ErrPartExists)
		assert.True(t, IsDocumentError(err))
	})

	t.Run("invalid hook", func(t *testing.T) {
		_, err := doc.AddFile("word/other.xml", tree.Obj(), tree.WithHook("not a path"))
		require.ErrorIs(t, err, tree.ErrInvalidHook)
		assert.NotContains(t, doc.PartNames(), "word/other.xml")
	})

	t.Run("missing part", func(t *testing.T) {
		_, err := doc.Part("word/missing.xml")
		require.ErrorIs(t, err, ErrPartNotFound)
	})

	t.Run("nil part", func(t *testing.T) {
		require.Error(t, doc.AddPart("word/nil.xml", nil))
	})
}

func TestSetProperties(t *testing.T) {
	doc := newTestDocument()
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	err := doc.SetProperties(Properties{
		Title:      "A & B",
		Creator:    "docxtree",
		Identifier: "urn:uuid:00000000-0000-0000-0000-000000000001",
		Created:    created,
	})
	require.NoError(t, err)

	core, err := doc.Part(PartCoreProperties)
	require.NoError(t, err)
	xml := mustXML(t, core)
	assert.Contains(t, xml, `<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties"`)
	assert.Contains(t, xml,
		`<dc:title>A &amp; B</dc:title><dc:creator>docxtree</dc:creator>`+
			`<dc:identifier>urn:uuid:00000000-0000-0000-0000-000000000001</dc:identifier>`+
			`<dcterms:created xsi:type="dcterms:W3CDTF">2024-01-02T03:04:05Z</dcterms:created></cp:coreProperties>`)
	assert.NotContains(t, xml, "dcterms:modified")
	assert.NotContains(t, xml, "dc:subject")

	rels, err := doc.Part(PartRels)
	require.NoError(t, err)
	relsXML := mustXML(t, rels)
	assert.Contains(t, relsXML,
		`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties" Target="docProps/core.xml"></Relationship>`)

	types, err := doc.Part(PartContentTypes)
	require.NoError(t, err)
	assert.Contains(t, mustXML(t, types),
		`<Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"></Override></Types>`)

	t.Run("second call replaces the part only", func(t *testing.T) {
		require.NoError(t, doc.SetProperties(Properties{Title: "Second"}))

		assert.Equal(t, 2, strings.Count(mustXML(t, rels), "<Relationship "))
		assert.Equal(t, 2, strings.Count(mustXML(t, types), "<Override "))

		core, err := doc.Part(PartCoreProperties)
		require.NoError(t, err)
		xml := mustXML(t, core)
		assert.Contains(t, xml, "<dc:title>Second</dc:title>")
		assert.NotContains(t, xml, "docxtree")
	})
}

func TestSetPropertiesGeneratesIdentifier(t *testing.T) {
	doc := newTestDocument()
	require.NoError(t, doc.SetProperties(Properties{}))

	core, err := doc.Part(PartCoreProperties)
	require.NoError(t, err)
	xml := mustXML(t, core)

	const open, end = "<dc:identifier>urn:uuid:", "</dc:identifier>"
	start := strings.Index(xml, open)
	require.GreaterOrEqual(t, start, 0, xml)
	rest := xml[start+len(open):]
	id := rest[:strings.Index(rest, end)]
	_, err = uuid.Parse(id)
	assert.NoError(t, err, id)
}

type failingPart struct{ err error }

func (p failingPart) ToXML() (string, error) { return "", p.err }

type panickingPart struct{}

func (panickingPart) ToXML() (string, error) { panic("broken part") }

func TestRender(t *testing.T) {
	ctx := context.Background()

	t.Run("all parts", func(t *testing.T) {
		doc := newTestDocument()
		doc.AddParagraph().AddText("x")

		out, err := doc.Render(ctx)
		require.NoError(t, err)
		require.Len(t, out, len(doc.PartNames()))
		for _, name := range doc.PartNames() {
			part, err := doc.Part(name)
			require.NoError(t, err)
			assert.Equal(t, mustXML(t, part), out[name], name)
		}
	})

	t.Run("part error", func(t *testing.T) {
		doc := newTestDocument()
		cause := errors.New("cannot render")
		require.NoError(t, doc.AddPart("word/bad.xml", failingPart{err: cause}))

		_, err := doc.Render(ctx)
		require.ErrorIs(t, err, cause)

		var de *DocumentError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "render", de.Operation)
		assert.Equal(t, "word/bad.xml", de.Path)
	})

	t.Run("panic is recovered", func(t *testing.T) {
		doc := newTestDocument()
		require.NoError(t, doc.AddPart("word/panic.xml", panickingPart{}))

		_, err := doc.Render(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "panic recovered: broken part")
	})

	t.Run("merge error", func(t *testing.T) {
		doc := newTestDocument()
		bad := tree.MustNew(tree.Obj("x", "text"), tree.WithHook(".x"))
		bad.MustAppend(tree.MustNew(tree.Obj("y", tree.Obj())))
		doc.Root().MustAppend(bad)

		_, err := doc.Render(ctx)
		require.ErrorIs(t, err, tree.ErrNotMapping)
	})

	t.Run("cancelled", func(t *testing.T) {
		doc := newTestDocument()
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := doc.Render(cctx)
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestDocumentConfig(t *testing.T) {
	cfg := &Config{LogLevel: "off", Compression: CompressionStore}
	doc := New(WithConfig(cfg))
	cfg.Compression = CompressionDeflate

	assert.Equal(t, CompressionStore, doc.Config().Compression, "config is copied")
	assert.IsType(t, NoopMetrics{}, doc.metrics)
	assert.IsType(t, NoopSpanManager{}, doc.spans)
}
