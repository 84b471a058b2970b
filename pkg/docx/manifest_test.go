package docx

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleManifest = `
properties:
  title: Quarterly report
  creator: finance
  identifier: urn:uuid:00000000-0000-0000-0000-000000000002
  created: 2024-03-01T09:00:00Z
page:
  size: {width: 16838, height: 11906, orientation: landscape}
  margins: {top: 720, right: 720, bottom: 720, left: 720, header: 360}
  cols: {num: 2, space: 360}
body:
  - paragraph:
      text: Summary
      style: Heading1
      align: center
      format: {bold: true}
  - paragraph:
      spacing: {before: 0, after: 120}
      runs:
        - {text: "Revenue ", italic: true}
        - {text: up, color: "00AA00", break: line}
  - pageBreak: true
  - table:
      width: 5000
      unit: pct
      layout: fixed
      borders: {style: single, size: 4}
      grid: [3000, 2000]
      rows:
        - [Region, Revenue]
        - [North, ""]
`

func TestParseManifest(t *testing.T) {
	m, err := ParseManifest([]byte(sampleManifest))
	require.NoError(t, err)

	require.NotNil(t, m.Properties)
	assert.Equal(t, "Quarterly report", m.Properties.Title)
	assert.Equal(t, time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC), m.Properties.Created.UTC())
	require.NotNil(t, m.Page.Size)
	assert.Equal(t, "landscape", m.Page.Size.Orientation)
	require.Len(t, m.Body, 4)
	assert.True(t, m.Body[2].PageBreak)
	require.NotNil(t, m.Body[3].Table)
	assert.Equal(t, [][]string{{"Region", "Revenue"}, {"North", ""}}, m.Body[3].Table.Rows)
}

func TestParseManifestErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown key", "body:\n  - paragraf: {text: x}\n"},
		{"two kinds in one block", "body:\n  - paragraph: {text: x}\n    pageBreak: true\n"},
		{"empty block", "body:\n  - {}\n"},
		{"empty row", "body:\n  - table: {rows: [[]]}\n"},
		{"unknown break", "body:\n  - paragraph: {runs: [{break: column}]}\n"},
		{"malformed", "body: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseManifest([]byte(tt.yaml))
			require.Error(t, err)
		})
	}
}

func TestParseManifestEmpty(t *testing.T) {
	m, err := ParseManifest(nil)
	require.NoError(t, err)
	assert.Empty(t, m.Body)

	doc, err := m.Build(WithConfig(quietConfig()))
	require.NoError(t, err)
	assert.Equal(t, 0, doc.Root().Len())
}

func TestManifestBuild(t *testing.T) {
	m, err := ParseManifest([]byte(sampleManifest))
	require.NoError(t, err)

	doc, err := m.Build(WithConfig(quietConfig()), WithLogger(NewLogger(nil, LogOff)))
	require.NoError(t, err)
	assert.Contains(t, doc.PartNames(), PartCoreProperties)
	assert.Equal(t, 4, doc.Root().Len())

	root := mustXML(t, doc.Root())
	for _, want := range []string{
		`<w:p><w:pPr><w:pStyle w:val="Heading1"></w:pStyle><w:jc w:val="center"></w:jc></w:pPr>` +
			`<w:r><w:rPr><w:b></w:b><w:bCs></w:bCs></w:rPr><w:t xml:space="preserve">Summary</w:t></w:r></w:p>`,
		`<w:p><w:pPr><w:spacing w:before="0" w:after="120"></w:spacing></w:pPr>` +
			`<w:r><w:rPr><w:i></w:i><w:iCs></w:iCs></w:rPr><w:t xml:space="preserve">Revenue </w:t></w:r>` +
			`<w:r><w:rPr><w:color w:val="00AA00"></w:color></w:rPr><w:t xml:space="preserve">up</w:t><w:br></w:br></w:r></w:p>`,
		`<w:p><w:r><w:br w:type="page"></w:br></w:r></w:p>`,
		`<w:tblPr><w:tblBorders><w:top w:val="single" w:sz="4" w:space="0" w:color="auto"></w:top>`,
		`<w:tblW w:type="pct" w:w="5000"></w:tblW><w:tblLayout w:type="fixed"></w:tblLayout></w:tblPr>`,
		`<w:tblGrid><w:gridCol w:w="3000"></w:gridCol><w:gridCol w:w="2000"></w:gridCol></w:tblGrid>`,
		`<w:tc><w:tcPr><w:tcW w:w="2000" w:type="dxa"></w:tcW></w:tcPr><w:p></w:p></w:tc>`,
		`<w:sectPr><w:pgSz w:w="16838" w:h="11906" w:orient="landscape"></w:pgSz>` +
			`<w:pgMar w:top="720" w:right="720" w:bottom="720" w:left="720" w:header="360"></w:pgMar>` +
			`<w:cols w:num="2" w:space="360"></w:cols></w:sectPr></w:body>`,
	} {
		assert.Contains(t, root, want)
	}

	core, err := doc.Part(PartCoreProperties)
	require.NoError(t, err)
	assert.Contains(t, mustXML(t, core), "<dc:title>Quarterly report</dc:title>")

	_, err = doc.Generate(context.Background())
	require.NoError(t, err)
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleManifest), 0o644))

	m, err := LoadManifest(path)
	require.NoError(t, err)
	assert.Len(t, m.Body, 4)

	_, err = LoadManifest(filepath.Join(dir, "absent.yaml"))
	require.Error(t, err)
}

func TestManifestBuildEscapesMarkup(t *testing.T) {
	m, err := ParseManifest([]byte(`
body:
  - paragraph:
      style: "A&B"
      runs:
        - {text: "x < y & z", font: "Tom & Jerry", color: "<red>"}
  - table:
      layout: "a&b"
      borders: {style: single, color: "\"auto\""}
      rows: [["R&D"]]
`))
	require.NoError(t, err)
	doc, err := m.Build(WithConfig(quietConfig()))
	require.NoError(t, err)

	parts, err := doc.Render(context.Background())
	require.NoError(t, err)
	body := parts[PartDocument]
	assert.Contains(t, body, `<w:pStyle w:val="A&amp;B">`)
	assert.Contains(t, body, `w:ascii="Tom &amp; Jerry"`)
	assert.Contains(t, body, `<w:tblLayout w:type="a&amp;b">`)
	assert.Contains(t, body, `R&amp;D`)
	requireWellFormed(t, body)
}
