package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocument(opts ...Option) *Document {
	doc := newTestDocument(opts...)
	doc.AddPageSize().SetWidth(11906).SetHeight(16838)
	p := doc.AddParagraph()
	p.Format().Style("Heading1")
	p.AddText("Report")
	tbl := doc.AddTable()
	tbl.Format().SetWidth(5000, "pct").AddBorders().SetAll(Border{Style: "single", Size: 4})
	row := tbl.AddRow()
	row.AddCell().AddParagraph().AddText("a")
	row.AddCell().AddParagraph().AddText("b")
	return doc
}

func TestGenerateRoundTrip(t *testing.T) {
	ctx := context.Background()
	doc := sampleDocument()

	data, err := doc.Generate(ctx)
	require.NoError(t, err)

	r, err := NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	assert.Equal(t, doc.PartNames(), r.ListParts())

	rendered, err := doc.Render(ctx)
	require.NoError(t, err)
	for name, want := range rendered {
		got, err := r.GetPart(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, string(got), name)
	}

	body, err := r.GetPart(PartDocument)
	require.NoError(t, err)
	assert.Contains(t, string(body), `<w:t xml:space="preserve">Report</w:t>`)
}

func TestGenerateIsDeterministic(t *testing.T) {
	ctx := context.Background()

	first, err := sampleDocument().Generate(ctx)
	require.NoError(t, err)
	second, err := sampleDocument().Generate(ctx)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(first, second), "equal documents must produce equal archives")

	doc := sampleDocument()
	a, err := doc.Generate(ctx)
	require.NoError(t, err)
	b, err := doc.Generate(ctx)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(a, b), "generating twice must not change the archive")
}

func TestArchiveLayout(t *testing.T) {
	tests := []struct {
		name        string
		compression string
		method      uint16
	}{
		{"deflate", CompressionDeflate, zip.Deflate},
		{"store", CompressionStore, zip.Store},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := New(WithConfig(&Config{LogLevel: "off", Compression: tt.compression}), WithLogger(NewLogger(nil, LogOff)))
			data, err := doc.Generate(context.Background())
			require.NoError(t, err)

			zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
			require.NoError(t, err)

			names := make([]string, 0, len(zr.File))
			for _, f := range zr.File {
				names = append(names, f.Name)
				assert.Equal(t, tt.method, f.Method, f.Name)
			}
			assert.Equal(t, doc.PartNames(), names, "parts are written in name order")
		})
	}
}

func TestSave(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "out.docx")

	require.NoError(t, sampleDocument().Save(ctx, path))

	r, err := OpenFile(path)
	require.NoError(t, err)
	assert.Contains(t, r.ListParts(), PartDocument)

	t.Run("render failure writes nothing", func(t *testing.T) {
		doc := newTestDocument()
		require.NoError(t, doc.AddPart("word/bad.xml", failingPart{err: errors.New("bad")}))

		failed := filepath.Join(dir, "failed.docx")
		require.Error(t, doc.Save(ctx, failed))
		_, err := os.Stat(failed)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("unwritable path", func(t *testing.T) {
		err := sampleDocument().Save(ctx, filepath.Join(dir, "missing", "out.docx"))
		require.Error(t, err)
		var de *DocumentError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "save", de.Operation)
	})
}

func TestWriteArchiveLogs(t *testing.T) {
	var buf bytes.Buffer
	doc := New(WithConfig(&Config{LogLevel: "debug", Compression: CompressionDeflate}), WithLogger(NewLogger(&buf, LogDebug)))

	require.NoError(t, doc.WriteArchive(context.Background(), &bytes.Buffer{}))
	out := buf.String()
	assert.Contains(t, out, `msg="package written"`)
	assert.Contains(t, out, "parts=4")
	assert.Contains(t, out, "part=word/document.xml")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("write failed") }

func TestWriteArchiveWriterError(t *testing.T) {
	err := sampleDocument().WriteArchive(context.Background(), failingWriter{})
	require.Error(t, err)
	assert.True(t, IsDocumentError(err))
}
