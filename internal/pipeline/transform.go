package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/alnah/go-coursebook/internal/notebook"
)

// Sentinel errors for transformer setup and execution.
var (
	ErrNilNotebook     = errors.New("nil notebook")
	ErrEmptyTemplate   = errors.New("frame embed template is empty")
	ErrInvalidTemplate = errors.New("invalid frame embed template")
	ErrTemplateRender  = errors.New("frame embed template rendering failed")
)

// NotebookTransformer defines the contract for notebook rewriting.
type NotebookTransformer interface {
	Transform(ctx context.Context, nb *notebook.Notebook) (*notebook.Notebook, error)
}

// Transformer applies the book presentation rewrites to a notebook.
type Transformer struct {
	frame *template.Template
}

// Compile-time interface check.
var _ NotebookTransformer = (*Transformer)(nil)

// NewTransformer creates a Transformer. frameTemplate is the text/template
// source of the code cell that replaces a slide frame embed; it receives a
// FrameData value.
func NewTransformer(frameTemplate string) (*Transformer, error) {
	if strings.TrimSpace(frameTemplate) == "" {
		return nil, ErrEmptyTemplate
	}
	tmpl, err := template.New("frame_embed").Parse(frameTemplate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTemplate, err)
	}
	return &Transformer{frame: tmpl}, nil
}

// Transform returns a rewritten copy of nb. The stages run in order: link
// targets, video resizing, hidden-cell linking. All keys other than the cell
// list are carried over unchanged.
func (t *Transformer) Transform(ctx context.Context, nb *notebook.Notebook) (*notebook.Notebook, error) {
	if nb == nil {
		return nil, ErrNilNotebook
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := nb.Clone()
	out.Cells = OpenLinksInNewTab(out.Cells)

	cells, err := t.ResizeVideos(out.Cells)
	if err != nil {
		return nil, err
	}
	out.Cells = LinkHiddenCells(cells)
	return out, nil
}

// FrameData is the data passed to the frame embed template.
type FrameData struct {
	URL    string
	Width  int
	Height int
}

// renderFrame renders the frame embed template into source lines. The final
// line carries no trailing newline, as Jupyter writes it.
func (t *Transformer) renderFrame(embed FrameEmbed) (notebook.Source, error) {
	var buf bytes.Buffer
	data := FrameData{URL: embed.URL, Width: VideoWidth, Height: VideoHeight}
	if err := t.frame.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplateRender, err)
	}
	return notebook.SplitLines(strings.TrimSuffix(buf.String(), "\n")), nil
}

// cloneCells deep-copies a cell slice so stages never share state with their input.
func cloneCells(cells []notebook.Cell) []notebook.Cell {
	out := make([]notebook.Cell, len(cells))
	for i, c := range cells {
		out[i] = c.Clone()
	}
	return out
}
