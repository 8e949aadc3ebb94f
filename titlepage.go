package coursebook

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
)

// TitlePage is the data rendered into a module's chapter title page.
type TitlePage struct {
	Name string
	Art  *Artwork // nil when no single artwork matches the module
}

// Artwork is a chapter illustration and its credit.
type Artwork struct {
	Path   string // Relative to the module directory, forward slashes
	Artist string // Empty when the filename carries no artist segment
}

// titlePageRenderer renders TitlePage values through the chapter title template.
type titlePageRenderer struct {
	tmpl *template.Template
}

func newTitlePageRenderer(source string) (*titlePageRenderer, error) {
	if strings.TrimSpace(source) == "" {
		return nil, fmt.Errorf("%w: empty template", ErrTitlePageRender)
	}
	tmpl, err := template.New("chapter_title").Parse(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTitlePageRender, err)
	}
	return &titlePageRenderer{tmpl: tmpl}, nil
}

// Render executes the template. The template file's trailing newline is
// not part of the page.
func (r *titlePageRenderer) Render(page TitlePage) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, page); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTitlePageRender, err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// findArt returns the single file in artDir whose name contains day.
// Zero or several matches, or a missing directory, yield ok == false.
func findArt(artDir, day string) (name string, ok bool, err error) {
	entries, err := os.ReadDir(artDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("%w: %v", ErrReadArt, err)
	}

	var matches []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.Contains(e.Name(), day) {
			matches = append(matches, e.Name())
		}
	}
	sort.Strings(matches)

	if len(matches) != 1 {
		return "", false, nil
	}
	return matches[0], true, nil
}

// artistFromFilename extracts the artist credit from an art filename: the
// second hyphen-delimited segment up to its first dot, with underscores
// read as spaces.
//
// Examples:
//   - "W1D1-Daniela_Buchwald.png" -> "Daniela Buchwald"
//   - "W2D3-Someone.final.jpg" -> "Someone"
//   - "W1D1.png" -> ""
func artistFromFilename(name string) string {
	segments := strings.Split(name, "-")
	if len(segments) < 2 {
		return ""
	}
	artist, _, _ := strings.Cut(segments[1], ".")
	return strings.TrimSpace(strings.ReplaceAll(artist, "_", " "))
}

// artworkFor locates the module's artwork and expresses its path relative
// to the module directory.
func artworkFor(moduleDir, artDir, day string) (*Artwork, error) {
	name, ok, err := findArt(artDir, day)
	if err != nil || !ok {
		return nil, err
	}

	rel, err := relativePath(moduleDir, artDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadArt, err)
	}

	return &Artwork{
		Path:   filepath.ToSlash(filepath.Join(rel, name)),
		Artist: artistFromFilename(name),
	}, nil
}

// relativePath is filepath.Rel, tolerating one absolute and one relative
// argument.
func relativePath(base, target string) (string, error) {
	if filepath.IsAbs(base) != filepath.IsAbs(target) {
		var err error
		if base, err = filepath.Abs(base); err != nil {
			return "", err
		}
		if target, err = filepath.Abs(target); err != nil {
			return "", err
		}
	}
	return filepath.Rel(base, target)
}
