package coursebook

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/alnah/go-coursebook/internal/config"
)

// Layout describes where course content lives. Root is a filesystem path;
// every other field is relative to Root and written into the outline with
// forward slashes.
type Layout struct {
	Root      string
	Materials string
	Tutorials string
	Art       string
	WrapUps   string
	Outline   string
}

// DefaultLayout returns the standard course repository layout under root.
func DefaultLayout(root string) Layout {
	return Layout{
		Root:      root,
		Materials: config.DefaultMaterials,
		Tutorials: config.DefaultTutorials,
		Art:       config.DefaultArt,
		WrapUps:   config.DefaultWrapUps,
		Outline:   config.DefaultOutline,
	}
}

// LayoutFromConfig builds a Layout from the resolved configuration.
func LayoutFromConfig(cfg *config.Config) Layout {
	return Layout{
		Root:      cfg.Root,
		Materials: cfg.Paths.Materials,
		Tutorials: cfg.Paths.Tutorials,
		Art:       cfg.Paths.Art,
		WrapUps:   cfg.Paths.WrapUps,
		Outline:   cfg.Paths.Outline,
	}
}

// Validate checks that every location is set.
func (l Layout) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"root", l.Root},
		{"materials", l.Materials},
		{"tutorials", l.Tutorials},
		{"art", l.Art},
		{"wrapUps", l.WrapUps},
		{"outline", l.Outline},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidLayout, f.name)
		}
	}
	return nil
}

// Path resolves a layout-relative path onto the filesystem.
func (l Layout) Path(rel string) string {
	native := filepath.FromSlash(rel)
	if filepath.IsAbs(native) {
		return native
	}
	return filepath.Join(l.Root, native)
}
