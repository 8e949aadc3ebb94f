// Package outline models the book table of contents consumed by the book
// builder and the notebook runner.
package outline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alnah/go-coursebook/internal/fileutil"
	"github.com/alnah/go-coursebook/internal/notebook"
	"github.com/alnah/go-coursebook/internal/yamlutil"
)

// filePermissions for the written outline.
const filePermissions = 0o644

// Sentinel errors for outline operations.
var (
	ErrEmptyPath    = errors.New("outline path cannot be empty")
	ErrInvalidNode  = errors.New("invalid outline node")
	ErrEmptyOutline = errors.New("outline has no entries")
)

// Node is one entry of the outline: a leaf referencing a file, or a branch
// holding chapters or sections. Keys are written in field order.
type Node struct {
	Part     string `yaml:"part,omitempty"`
	File     string `yaml:"file,omitempty"`
	Title    string `yaml:"title,omitempty"`
	Chapters []Node `yaml:"chapters,omitempty"`
	Sections []Node `yaml:"sections,omitempty"`
}

// Leaf returns a node referencing a single file.
func Leaf(file string) Node {
	return Node{File: file}
}

// Document is the top-level ordered list of outline nodes.
type Document []Node

// ParseNode decodes a single node, rejecting unknown keys.
func ParseNode(data []byte) (Node, error) {
	var n Node
	if err := yamlutil.UnmarshalStrict(data, &n); err != nil {
		return Node{}, fmt.Errorf("%w: %v", ErrInvalidNode, err)
	}
	return n, nil
}

// Marshal encodes the document as YAML.
func Marshal(doc Document) ([]byte, error) {
	if len(doc) == 0 {
		return nil, ErrEmptyOutline
	}
	return yamlutil.Marshal(doc)
}

// Write encodes doc and atomically replaces the file at path, creating
// parent directories as needed.
func Write(path string, doc Document) error {
	if path == "" {
		return ErrEmptyPath
	}
	data, err := Marshal(doc)
	if err != nil {
		return err
	}
	return fileutil.WriteFileAtomic(path, data, filePermissions)
}

// Notebooks returns every notebook path referenced by an outline document,
// in document order. Any string scalar ending in the notebook extension
// counts, including mapping keys, whatever the nesting.
func Notebooks(data []byte) ([]string, error) {
	scalars, err := yamlutil.Scalars(data)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, s := range scalars {
		if strings.HasSuffix(s, notebook.Extension) {
			paths = append(paths, s)
		}
	}
	return paths, nil
}
