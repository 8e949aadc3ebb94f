package coursebook

import (
	"fmt"
	"os"
	"strings"

	"github.com/alnah/go-coursebook/internal/fileutil"
	"github.com/alnah/go-coursebook/internal/yamlutil"
)

// Module is one day of course content as listed in the materials manifest.
// Keys other than the four below are ignored, since manifests also carry
// slide and video metadata for other tools.
type Module struct {
	Category  string `yaml:"category"`
	Day       string `yaml:"day"`
	Name      string `yaml:"name"`
	Tutorials int    `yaml:"tutorials"`
}

// Directory returns the module directory name: the day, an underscore, and
// the name with all whitespace removed.
//
// Examples:
//   - {Day: "W1D1", Name: "Model Types"} -> "W1D1_ModelTypes"
//   - {Day: "W0D5", Name: "Statistics"} -> "W0D5_Statistics"
func (m Module) Directory() string {
	return m.Day + "_" + fileutil.StripWhitespace(m.Name)
}

// Validate checks that the module can be laid out on disk.
func (m Module) Validate() error {
	if strings.TrimSpace(m.Category) == "" {
		return fmt.Errorf("%w: category is required", ErrInvalidModule)
	}
	if strings.TrimSpace(m.Day) == "" {
		return fmt.Errorf("%w: day is required", ErrInvalidModule)
	}
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("%w: %s: name is required", ErrInvalidModule, m.Day)
	}
	if strings.ContainsAny(m.Day, `/\`) {
		return fmt.Errorf("%w: %s: day cannot contain path separators", ErrInvalidModule, m.Day)
	}
	if m.Tutorials < 0 {
		return fmt.Errorf("%w: %s: negative tutorial count %d", ErrInvalidModule, m.Day, m.Tutorials)
	}
	return nil
}

// ParseMaterials decodes a manifest: a YAML sequence of modules.
func ParseMaterials(data []byte) ([]Module, error) {
	var modules []Module
	if err := yamlutil.Unmarshal(data, &modules); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMaterials, err)
	}
	for i, m := range modules {
		if err := m.Validate(); err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", ErrInvalidMaterials, i+1, err)
		}
	}
	return modules, nil
}

// LoadMaterials reads and decodes the manifest at path.
func LoadMaterials(path string) ([]Module, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from config or flags
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadMaterials, err)
	}
	return ParseMaterials(data)
}
