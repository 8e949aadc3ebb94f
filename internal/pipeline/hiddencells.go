package pipeline

import (
	"regexp"
	"strings"

	"github.com/alnah/go-coursebook/internal/notebook"
)

// Form markers. A cell whose first line carries one of them has its input
// collapsed by the book theme.
const (
	TitleMarker    = "@title"
	MarkdownMarker = "@markdown"
)

// Visibility tags understood by the book theme.
const (
	TagHideInput   = "hide-input"
	TagRemoveInput = "remove-input"
)

// TagInserted marks the heading and note cells LinkHiddenCells adds.
const TagInserted = "coursebook-inserted"

// ruleMarker starts a horizontal rule that may precede a heading line.
const ruleMarker = "---"

// formParams matches a trailing Colab form parameter block such as
// { display-mode: "form" }. Only keys Colab understands are recognized.
var formParams = regexp.MustCompile(`\s*\{\s*(?:display-mode|run|vertical-output|form-width)\s*:[^{}]*\}\s*$`)

// LinkHiddenCells tags form cells and restores the titles and notes their
// collapsed input would hide.
//
// Header depth is tracked from markdown headings (initially 0), counted as
// the leading '#' characters of the first line, or of the second line when
// the first is a rule. For every
// cell whose first line carries TitleMarker or MarkdownMarker:
//   - TagRemoveInput is added when the cell embeds a video or frame,
//     TagHideInput otherwise
//   - non-empty text after TitleMarker becomes a markdown heading one level
//     below the current depth, inserted before the cell
//   - non-empty text after MarkdownMarker, when exactly one line carries it,
//     becomes a plain markdown cell inserted before the cell
//
// Inserted cells carry TagInserted. They do not change the header depth, and
// an insertion is skipped when a tagged cell right before the form cell
// already holds the same text, so running this over its own output changes
// nothing.
func LinkHiddenCells(cells []notebook.Cell) []notebook.Cell {
	out := make([]notebook.Cell, 0, len(cells))
	depth := 0

	for _, c := range cells {
		cell := c.Clone()
		if len(cell.Source) == 0 {
			out = append(out, cell)
			continue
		}

		if level, ok := headerLevel(cell); ok {
			depth = level
		}

		first := cell.Source[0]
		if !strings.Contains(first, TitleMarker) && !strings.Contains(first, MarkdownMarker) {
			out = append(out, cell)
			continue
		}

		tagFormCell(&cell)

		if title, ok := titleText(first); ok {
			heading := strings.Repeat("#", depth+1) + " " + title
			out = insertUnlessPresent(out, heading)
		}
		if note, ok := noteText(cell.Source); ok {
			out = insertUnlessPresent(out, note)
		}
		out = append(out, cell)
	}
	return out
}

// headerLevel returns the heading level of a markdown cell. A leading rule
// line defers the check to the second line.
func headerLevel(cell notebook.Cell) (int, bool) {
	if !cell.IsMarkdown() || cell.Metadata.HasTag(TagInserted) {
		return 0, false
	}
	first := cell.Source[0]
	if level, ok := HeadingLevel(first); ok {
		return level, true
	}
	if strings.HasPrefix(first, ruleMarker) && len(cell.Source) > 1 {
		return HeadingLevel(cell.Source[1])
	}
	return 0, false
}

func tagFormCell(cell *notebook.Cell) {
	cell.EnsureMetadata()
	cell.Metadata.EnsureTags()

	if cell.Source.Contains(VideoMarker) || cell.Source.Contains(FrameMarker) {
		cell.Metadata.AddTag(TagRemoveInput)
		return
	}
	cell.Metadata.AddTag(TagHideInput)
}

// titleText returns the trimmed text after TitleMarker without form parameters.
func titleText(line string) (string, bool) {
	_, rest, ok := strings.Cut(line, TitleMarker)
	if !ok {
		return "", false
	}
	title := strings.TrimSpace(formParams.ReplaceAllString(strings.TrimSpace(rest), ""))
	return title, title != ""
}

// noteText returns the text after MarkdownMarker when exactly one line has it.
func noteText(src notebook.Source) (string, bool) {
	var note string
	found := 0
	for _, line := range src {
		_, rest, ok := strings.Cut(line, MarkdownMarker)
		if !ok {
			continue
		}
		found++
		note = strings.TrimSpace(rest)
	}
	if found != 1 {
		return "", false
	}
	return note, note != ""
}

// insertUnlessPresent appends a tagged markdown cell holding text unless a
// tagged cell at the end of out already holds it.
func insertUnlessPresent(out []notebook.Cell, text string) []notebook.Cell {
	for i := len(out) - 1; i >= 0 && out[i].Metadata.HasTag(TagInserted); i-- {
		if out[i].Source.Text() == text {
			return out
		}
	}

	cell := notebook.NewMarkdownCell(text)
	cell.Metadata.AddTag(TagInserted)
	return append(out, cell)
}
