// Package docx builds Word documents (DOCX) from composable nodes.
//
// Every element type in this package wraps a tree.Node: a fixed template plus
// a hook where children are merged. Documents are assembled from paragraphs,
// runs, tables and sections, then packaged as a zip archive.
//
// # Quick Start
//
//	doc := docx.New()
//	doc.AddPageSize().SetWidth(11906).SetHeight(16838)
//
//	p := doc.AddParagraph()
//	p.Format().Style("Heading1")
//	p.AddText("Quarterly report").Format().Bold(true)
//
//	t := doc.AddTable()
//	t.Format().SetWidth(5000, "pct").AddBorders().SetAll(docx.Border{Style: "single", Size: 4})
//	row := t.AddRow()
//	row.AddCell().AddParagraph().AddText("Region")
//	row.AddCell().AddParagraph().AddText("Revenue")
//
//	if err := doc.Save(context.Background(), "report.docx"); err != nil {
//	    log.Fatal(err)
//	}
//
// # Parts
//
// A Document is a set of named parts. New documents carry the package
// relationships, the content types, word/document.xml and an empty
// document relationships part. Further parts can be added with AddFile or
// AddPart; SetProperties adds docProps/core.xml and registers it.
//
// Parts are rendered concurrently by Render and written in name order by
// WriteArchive, Generate and Save. Rendering only reads the tree, so a
// document must not be changed while it is being written.
//
// # Manifests
//
// A document can also be described in YAML and built with LoadManifest and
// Manifest.Build; see Manifest for the format.
//
// # Configuration
//
// Packaging reads Config: log level, archive compression (deflate or store)
// and whether OpenTelemetry tracing and metrics are recorded. The global
// configuration comes from DOCX_LOG_LEVEL, DOCX_COMPRESSION, DOCX_TRACING
// and DOCX_METRICS, or from a YAML file through LoadConfig.
package docx
