package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/benjaminschreck/go-docxtree/pkg/docx"
	"github.com/benjaminschreck/go-docxtree/pkg/docx/tree"
)

const version = "0.1.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: docxtree [-config file.yaml] <command> [arguments]")
	fmt.Fprintln(w, "\nCommands:")
	fmt.Fprintln(w, "  xml <node.yaml>                     Print the XML of a node description")
	fmt.Fprintln(w, "  json <node.yaml>                    Print the merged JSON of a node description")
	fmt.Fprintln(w, "  build <document.yaml> <out.docx>    Build a document from a manifest")
	fmt.Fprintln(w, "  inspect <file.docx> [part]          List the parts of a document or print one")
	fmt.Fprintln(w, "  version                             Show version information")
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("docxtree", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "YAML configuration file")
	fs.Usage = func() { usage(stderr) }
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *configPath != "" {
		config, err := docx.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		docx.SetGlobalConfig(config)
	}

	rest := fs.Args()
	if len(rest) < 1 {
		usage(stderr)
		return 1
	}

	var err error
	switch command := rest[0]; command {
	case "version":
		fmt.Fprintf(stdout, "docxtree version %s\n", version)
	case "xml":
		err = withArgs(rest, 1, 1, func(a []string) error { return printXML(stdout, a[0]) })
	case "json":
		err = withArgs(rest, 1, 1, func(a []string) error { return printJSON(stdout, a[0]) })
	case "build":
		err = withArgs(rest, 2, 2, func(a []string) error { return build(ctx, stdout, a[0], a[1]) })
	case "inspect":
		err = withArgs(rest, 1, 2, func(a []string) error { return inspect(stdout, a) })
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", command)
		usage(stderr)
		return 1
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func withArgs(rest []string, lo, hi int, fn func([]string) error) error {
	a := rest[1:]
	if len(a) < lo || len(a) > hi {
		return fmt.Errorf("%s: expected %d to %d arguments, got %d", rest[0], lo, hi, len(a))
	}
	return fn(a)
}

func loadNode(path string) (*tree.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	n, err := tree.ParseNode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return n, nil
}

func printXML(w io.Writer, path string) error {
	n, err := loadNode(path)
	if err != nil {
		return err
	}
	out, err := n.ToXML()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, out)
	return err
}

func printJSON(w io.Writer, path string) error {
	n, err := loadNode(path)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(n, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func build(ctx context.Context, w io.Writer, manifestPath, outPath string) error {
	m, err := docx.LoadManifest(manifestPath)
	if err != nil {
		return err
	}
	doc, err := m.Build()
	if err != nil {
		return err
	}
	if err := doc.Save(ctx, outPath); err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "wrote %s (%d parts)\n", outPath, len(doc.PartNames()))
	return err
}

func inspect(w io.Writer, args []string) error {
	r, err := docx.OpenFile(args[0])
	if err != nil {
		return err
	}
	if len(args) == 2 {
		content, err := r.GetPart(args[1])
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(content))
		return err
	}
	for _, name := range r.ListParts() {
		if _, err := fmt.Fprintln(w, name); err != nil {
			return err
		}
	}
	return nil
}
