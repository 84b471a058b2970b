package docx

import (
	"github.com/benjaminschreck/go-docxtree/pkg/docx/tree"
)

// XMLHeader is written at the top of every File part.
const XMLHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

// File is a package part backed by a node. Its XML carries the declaration
// Word requires.
type File struct {
	*tree.Node
}

// NewFile creates a part around template.
func NewFile(template *tree.Map, opts ...tree.Option) (*File, error) {
	n, err := tree.New(template, opts...)
	if err != nil {
		return nil, err
	}
	return &File{Node: n}, nil
}

func mustFile(template *tree.Map, opts ...tree.Option) *File {
	f, err := NewFile(template, opts...)
	if err != nil {
		panic(err)
	}
	return f
}

// ToXML renders the part, declaration included.
func (f *File) ToXML() (string, error) {
	body, err := f.Node.ToXML()
	if err != nil {
		return "", err
	}
	return XMLHeader + body, nil
}
