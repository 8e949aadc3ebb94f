// Package notebook reads and writes Jupyter notebook documents.
//
// Only the fields the book pipeline rewrites are modeled: the cell list and,
// per cell, its type, source lines and metadata. Every other key (outputs,
// execution_count, nbformat, kernel metadata, ...) is carried through
// verbatim so a decode/encode cycle does not lose information.
package notebook

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/alnah/go-coursebook/internal/fileutil"
)

// Cell types recognized by the pipeline.
const (
	TypeMarkdown = "markdown"
	TypeCode     = "code"
)

// Extension is the notebook file extension.
const Extension = ".ipynb"

// filePermissions matches what Jupyter writes: rw-r--r--.
const filePermissions = 0o644

// Sentinel errors for notebook decoding.
var (
	ErrInvalidNotebook = errors.New("invalid notebook")
	ErrInvalidSource   = errors.New("cell source must be a string or a list of strings")
)

// Notebook is a decoded notebook document.
type Notebook struct {
	Cells []Cell
	extra map[string]json.RawMessage
}

// Cell is a single notebook cell.
type Cell struct {
	Type     string
	Source   Source
	Metadata Metadata
	extra    map[string]json.RawMessage
}

// NewMarkdownCell builds a markdown cell with empty metadata.
func NewMarkdownCell(lines ...string) Cell {
	return Cell{
		Type:     TypeMarkdown,
		Source:   Source(slices.Clone(lines)),
		Metadata: Metadata{},
	}
}

// Clone returns a deep copy of the cell.
func (c Cell) Clone() Cell {
	out := Cell{
		Type:   c.Type,
		Source: slices.Clone(c.Source),
	}
	if c.Metadata != nil {
		out.Metadata = make(Metadata, len(c.Metadata))
		for k, v := range c.Metadata {
			out.Metadata[k] = slices.Clone(v)
		}
	}
	out.extra = cloneRaw(c.extra)
	return out
}

// EnsureMetadata allocates an empty metadata mapping if the cell has none.
func (c *Cell) EnsureMetadata() {
	if c.Metadata == nil {
		c.Metadata = Metadata{}
	}
}

// IsMarkdown reports whether the cell is a markdown cell.
func (c Cell) IsMarkdown() bool {
	return c.Type == TypeMarkdown
}

// Clone returns a deep copy of the notebook.
func (nb *Notebook) Clone() *Notebook {
	out := &Notebook{
		Cells: make([]Cell, len(nb.Cells)),
		extra: cloneRaw(nb.extra),
	}
	for i, c := range nb.Cells {
		out.Cells[i] = c.Clone()
	}
	return out
}

func cloneRaw(m map[string]json.RawMessage) map[string]json.RawMessage {
	if m == nil {
		return nil
	}
	out := make(map[string]json.RawMessage, len(m))
	for k, v := range m {
		out[k] = slices.Clone(v)
	}
	return out
}

// Source is the ordered list of source lines of a cell. Each line keeps its
// trailing newline, except usually the last one.
type Source []string

// Text joins the source lines.
func (s Source) Text() string {
	return strings.Join(s, "")
}

// Contains reports whether the joined source contains substr.
func (s Source) Contains(substr string) bool {
	return strings.Contains(s.Text(), substr)
}

// UnmarshalJSON accepts both the list form and the single-string form
// allowed by nbformat.
func (s *Source) UnmarshalJSON(data []byte) error {
	var lines []string
	if err := json.Unmarshal(data, &lines); err == nil {
		*s = lines
		return nil
	}
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return ErrInvalidSource
	}
	*s = SplitLines(text)
	return nil
}

// MarshalJSON always writes the list form.
func (s Source) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return marshalNoEscape([]string(s))
}

// SplitLines splits text into lines, keeping the newline on each line.
func SplitLines(text string) Source {
	if text == "" {
		return Source{}
	}
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return Source(lines)
}

// Metadata holds a cell's metadata keys as raw JSON.
type Metadata map[string]json.RawMessage

const tagsKey = "tags"

// Tags returns the cell tags. A missing or malformed tags entry yields nil.
func (m Metadata) Tags() []string {
	raw, ok := m[tagsKey]
	if !ok {
		return nil
	}
	var tags []string
	if err := json.Unmarshal(raw, &tags); err != nil {
		return nil
	}
	return tags
}

// HasTag reports whether tag is present.
func (m Metadata) HasTag(tag string) bool {
	return slices.Contains(m.Tags(), tag)
}

// EnsureTags creates an empty tags list if none exists.
func (m Metadata) EnsureTags() {
	if _, ok := m[tagsKey]; !ok {
		m[tagsKey] = json.RawMessage("[]")
	}
}

// AddTag appends tag unless already present, creating the list if needed.
func (m Metadata) AddTag(tag string) {
	tags := m.Tags()
	if slices.Contains(tags, tag) {
		return
	}
	tags = append(tags, tag)
	raw, err := marshalNoEscape(tags)
	if err != nil {
		return
	}
	m[tagsKey] = raw
}

// Known JSON keys.
const (
	keyCells    = "cells"
	keyCellType = "cell_type"
	keySource   = "source"
	keyMetadata = "metadata"
)

// UnmarshalJSON decodes a notebook, keeping unknown keys.
func (nb *Notebook) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	cellsRaw, ok := raw[keyCells]
	if !ok {
		return fmt.Errorf("missing %q", keyCells)
	}
	var cells []Cell
	if err := json.Unmarshal(cellsRaw, &cells); err != nil {
		return err
	}
	delete(raw, keyCells)
	nb.Cells = cells
	nb.extra = raw
	return nil
}

// MarshalJSON encodes the notebook with its preserved keys.
func (nb *Notebook) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(nb.extra)+1)
	for k, v := range nb.extra {
		out[k] = v
	}
	cells := nb.Cells
	if cells == nil {
		cells = []Cell{}
	}
	out[keyCells] = cells
	return marshalNoEscape(out)
}

// UnmarshalJSON decodes a cell, keeping unknown keys.
func (c *Cell) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if v, ok := raw[keyCellType]; ok {
		if err := json.Unmarshal(v, &c.Type); err != nil {
			return fmt.Errorf("%s: %w", keyCellType, err)
		}
		delete(raw, keyCellType)
	}
	if v, ok := raw[keySource]; ok {
		if err := json.Unmarshal(v, &c.Source); err != nil {
			return err
		}
		delete(raw, keySource)
	}
	if v, ok := raw[keyMetadata]; ok {
		if err := json.Unmarshal(v, &c.Metadata); err != nil {
			return fmt.Errorf("%s: %w", keyMetadata, err)
		}
		delete(raw, keyMetadata)
	}
	c.extra = raw
	return nil
}

// MarshalJSON encodes a cell. Metadata is always written, as nbformat
// requires it.
func (c Cell) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(c.extra)+3)
	for k, v := range c.extra {
		out[k] = v
	}
	out[keyCellType] = c.Type
	out[keySource] = c.Source
	if c.Metadata == nil {
		out[keyMetadata] = map[string]any{}
	} else {
		out[keyMetadata] = c.Metadata
	}
	return marshalNoEscape(out)
}

// marshalNoEscape encodes v without escaping <, > and &, which are common in
// markdown and HTML cell sources.
func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Parse decodes a notebook document.
func Parse(data []byte) (*Notebook, error) {
	var nb Notebook
	if err := json.Unmarshal(data, &nb); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidNotebook, err)
	}
	return &nb, nil
}

// Encode renders the notebook with one-space indentation and a trailing
// newline.
func Encode(nb *Notebook) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", " ")
	if err := enc.Encode(nb); err != nil {
		return nil, fmt.Errorf("encoding notebook: %w", err)
	}
	return buf.Bytes(), nil
}

// ReadFile reads and decodes the notebook at path.
func ReadFile(path string) (*Notebook, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- paths come from the course layout
	if err != nil {
		return nil, err
	}
	nb, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return nb, nil
}

// WriteFile encodes nb and atomically replaces the file at path.
func WriteFile(path string, nb *Notebook) error {
	data, err := Encode(nb)
	if err != nil {
		return err
	}
	return fileutil.WriteFileAtomic(path, data, filePermissions)
}
