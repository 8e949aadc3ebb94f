package notebook

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleNotebook = `{
 "cells": [
  {
   "cell_type": "markdown",
   "id": "a1",
   "metadata": {"colab_type": "text"},
   "source": ["<a href=\"https://colab.research.google.com\">Open</a> &nbsp;\n", "# Tutorial 1"]
  },
  {
   "cell_type": "code",
   "execution_count": 3,
   "metadata": {"tags": ["hide-input"]},
   "outputs": [{"output_type": "stream", "name": "stdout", "text": ["ok\n"]}],
   "source": "# @title Setup\nimport numpy as np\n"
  }
 ],
 "metadata": {"kernelspec": {"name": "python3"}},
 "nbformat": 4,
 "nbformat_minor": 0
}`

// ---------------------------------------------------------------------------
// TestParse - Decoding and preserved fields
// ---------------------------------------------------------------------------

func TestParse(t *testing.T) {
	t.Parallel()

	nb, err := Parse([]byte(sampleNotebook))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if len(nb.Cells) != 2 {
		t.Fatalf("len(Cells) = %d, want 2", len(nb.Cells))
	}

	md := nb.Cells[0]
	if !md.IsMarkdown() {
		t.Errorf("Cells[0].Type = %q, want markdown", md.Type)
	}
	if len(md.Source) != 2 || md.Source[1] != "# Tutorial 1" {
		t.Errorf("Cells[0].Source = %q", md.Source)
	}

	code := nb.Cells[1]
	want := Source{"# @title Setup\n", "import numpy as np\n"}
	if strings.Join(code.Source, "|") != strings.Join(want, "|") {
		t.Errorf("string source split = %q, want %q", code.Source, want)
	}
	if !code.Metadata.HasTag("hide-input") {
		t.Error("expected hide-input tag")
	}
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
	}{
		{name: "not JSON", data: "not json"},
		{name: "missing cells", data: `{"nbformat": 4}`},
		{name: "bad source", data: `{"cells": [{"cell_type": "code", "source": 42}]}`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse([]byte(tt.data))
			if !errors.Is(err, ErrInvalidNotebook) {
				t.Errorf("Parse() error = %v, want ErrInvalidNotebook", err)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestEncode - Re-encoding keeps unknown keys and avoids HTML escaping
// ---------------------------------------------------------------------------

func TestEncode(t *testing.T) {
	t.Parallel()

	nb, err := Parse([]byte(sampleNotebook))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	data, err := Encode(nb)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	out := string(data)

	wantContains := []string{
		`"nbformat": 4`,
		`"kernelspec"`,
		`"execution_count": 3`,
		`"output_type": "stream"`,
		`"id": "a1"`,
		`"colab_type": "text"`,
		`<a href=\"https://colab.research.google.com\">Open</a> &nbsp;\n`,
		"\n \"cells\": [",
	}
	for _, want := range wantContains {
		if !strings.Contains(out, want) {
			t.Errorf("encoded notebook missing %q\n%s", want, out)
		}
	}
	if strings.Contains(out, `\u003c`) {
		t.Error("encoded notebook escapes HTML characters")
	}
	if !strings.HasSuffix(out, "}\n") {
		t.Error("encoded notebook should end with a newline")
	}

	again, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse(Encode()) error = %v", err)
	}
	if len(again.Cells) != 2 || again.Cells[1].Source.Text() != nb.Cells[1].Source.Text() {
		t.Error("re-parsed notebook differs from original")
	}
}

func TestEncode_MissingMetadataWritesEmptyObject(t *testing.T) {
	t.Parallel()

	nb, err := Parse([]byte(`{"cells": [{"cell_type": "code", "source": []}]}`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	data, err := Encode(nb)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if !strings.Contains(string(data), `"metadata": {}`) {
		t.Errorf("expected empty metadata object, got:\n%s", data)
	}
}

// ---------------------------------------------------------------------------
// TestMetadata - Tag helpers
// ---------------------------------------------------------------------------

func TestMetadata_AddTag(t *testing.T) {
	t.Parallel()

	m := Metadata{}
	m.EnsureTags()
	if tags := m.Tags(); len(tags) != 0 {
		t.Fatalf("Tags() after EnsureTags = %v, want empty", tags)
	}

	m.AddTag("hide-input")
	m.AddTag("hide-input")
	m.AddTag("remove-input")

	got := m.Tags()
	if strings.Join(got, ",") != "hide-input,remove-input" {
		t.Errorf("Tags() = %v, want [hide-input remove-input]", got)
	}
}

func TestMetadata_MalformedTags(t *testing.T) {
	t.Parallel()

	m := Metadata{"tags": []byte(`"not-a-list"`)}
	if m.Tags() != nil {
		t.Errorf("Tags() = %v, want nil", m.Tags())
	}
	m.AddTag("hide-input")
	if !m.HasTag("hide-input") {
		t.Error("AddTag should replace a malformed tags entry")
	}
}

// ---------------------------------------------------------------------------
// TestClone - Deep copies
// ---------------------------------------------------------------------------

func TestCell_Clone(t *testing.T) {
	t.Parallel()

	orig := NewMarkdownCell("# Title\n", "text")
	orig.Metadata.AddTag("keep")

	clone := orig.Clone()
	clone.Source[0] = "changed"
	clone.Metadata.AddTag("extra")

	if orig.Source[0] != "# Title\n" {
		t.Error("Clone shares source with original")
	}
	if orig.Metadata.HasTag("extra") {
		t.Error("Clone shares metadata with original")
	}
}

// ---------------------------------------------------------------------------
// TestSplitLines
// ---------------------------------------------------------------------------

func TestSplitLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{name: "empty", text: "", want: []string{}},
		{name: "single line", text: "abc", want: []string{"abc"}},
		{name: "trailing newline", text: "a\nb\n", want: []string{"a\n", "b\n"}},
		{name: "no trailing newline", text: "a\nb", want: []string{"a\n", "b"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := SplitLines(tt.text)
			if strings.Join(got, "|") != strings.Join(tt.want, "|") || len(got) != len(tt.want) {
				t.Errorf("SplitLines(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestReadWriteFile
// ---------------------------------------------------------------------------

func TestReadWriteFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "W1D1_Tutorial1.ipynb")
	if err := os.WriteFile(path, []byte(sampleNotebook), 0644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	nb, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	nb.Cells = append(nb.Cells, NewMarkdownCell("## Added"))

	if err := WriteFile(path, nb); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	again, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() after write error = %v", err)
	}
	if len(again.Cells) != 3 || again.Cells[2].Source.Text() != "## Added" {
		t.Errorf("written notebook cells = %d, want 3 with appended header", len(again.Cells))
	}
}

func TestReadFile_Missing(t *testing.T) {
	t.Parallel()

	_, err := ReadFile(filepath.Join(t.TempDir(), "missing.ipynb"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("ReadFile() error = %v, want os.ErrNotExist", err)
	}
}
