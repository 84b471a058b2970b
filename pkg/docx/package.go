package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

// Render renders every part to XML. Parts are rendered concurrently; the
// document must not be modified until Render returns.
func (d *Document) Render(ctx context.Context) (map[string]string, error) {
	out := make(map[string]string, len(d.files))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, name := range d.PartNames() {
		name := name
		part := d.files[name]
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = NewDocumentError("render", name, RecoverError(r))
				}
			}()
			if err := ctx.Err(); err != nil {
				return NewDocumentError("render", name, err)
			}
			text, err := part.ToXML()
			if err != nil {
				return NewDocumentError("render", name, err)
			}
			mu.Lock()
			out[name] = text
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// WriteArchive renders the document and writes it to w as a zip archive.
// Parts are stored in name order without timestamps, so equal documents
// produce equal bytes.
func (d *Document) WriteArchive(ctx context.Context, w io.Writer) (err error) {
	start := time.Now()
	names := d.PartNames()
	logger := d.log()

	ctx, span := d.spans.StartWriteSpan(ctx, len(names))
	var size int64
	defer func() {
		d.spans.EndSpanWithError(span, err)
		d.metrics.RecordPackage(ctx, len(names), size, time.Since(start), err)
		if err != nil {
			logger.Error("package write failed", "error", err)
		}
	}()

	rendered, err := d.Render(ctx)
	if err != nil {
		return err
	}

	method := zip.Deflate
	if d.config.Compression == CompressionStore {
		method = zip.Store
	}

	zw := zip.NewWriter(w)
	for _, name := range names {
		content := rendered[name]
		fw, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: method})
		if err != nil {
			return NewDocumentError("write", name, err)
		}
		if _, err := io.WriteString(fw, content); err != nil {
			return NewDocumentError("write", name, err)
		}
		size += int64(len(content))
		d.metrics.RecordPart(ctx, name, int64(len(content)))
		d.spans.AddSpanEvent(ctx, "part.written",
			attribute.String("part", name),
			attribute.Int("bytes", len(content)),
		)
		logger.Debug("part written", "part", name, "bytes", len(content))
	}
	if err := zw.Close(); err != nil {
		return NewDocumentError("write", "", err)
	}

	logger.Info("package written",
		"parts", len(names),
		"bytes", size,
		"compression", d.config.Compression,
		"duration", time.Since(start),
	)
	return nil
}

// Generate returns the packaged document.
func (d *Document) Generate(ctx context.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := d.WriteArchive(ctx, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes the packaged document to path. Nothing is written if
// rendering fails.
func (d *Document) Save(ctx context.Context, path string) error {
	data, err := d.Generate(ctx)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return NewDocumentError("save", path, fmt.Errorf("write file: %w", err))
	}
	return nil
}

func (d *Document) log() *Logger {
	if d.logger != nil {
		return d.logger
	}
	return GetLogger()
}
