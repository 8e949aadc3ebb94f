// Package config loads the course book configuration: repository layout,
// notebook execution settings and asset overrides.
//
// Precedence, highest first: command-line flags, environment variables,
// config file, defaults. Flags are merged by the commands themselves.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-coursebook/internal/fileutil"
	"github.com/alnah/go-coursebook/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrFieldRequired   = errors.New("field is required")
	ErrInvalidTimeout  = errors.New("invalid execution timeout")
)

// Field length limits.
const (
	MaxPathLength    = 4096
	MaxCommandLength = 4096
	MaxKernelLength  = 100
)

// Defaults matching the course repository layout.
const (
	DefaultMaterials = "tutorials/materials.yml"
	DefaultTutorials = "tutorials"
	DefaultArt       = "tutorials/Art"
	DefaultWrapUps   = "tutorials/Module_WrapUps"
	DefaultOutline   = "book/_toc.yml"
	DefaultBook      = "book"
	DefaultCommand   = "jupyter"
	DefaultTimeout   = 4 * time.Hour
)

// configDirName is the directory under the user config dir searched for named configs.
const configDirName = "go-coursebook"

// Config holds all configuration for building and running the book.
type Config struct {
	Root      string          `yaml:"root"`
	Paths     PathsConfig     `yaml:"paths"`
	Execution ExecutionConfig `yaml:"execution"`
	Assets    AssetsConfig    `yaml:"assets"`
}

// PathsConfig defines the repository layout, relative to Root.
type PathsConfig struct {
	Materials string `yaml:"materials"` // Manifest of modules
	Tutorials string `yaml:"tutorials"` // Module directories and the book intro
	Art       string `yaml:"art"`       // Chapter artwork
	WrapUps   string `yaml:"wrapUps"`   // Per-category wrap-up notebooks
	Outline   string `yaml:"outline"`   // Generated table of contents
	Book      string `yaml:"book"`      // Directory outline paths are resolved against at run time
}

// ExecutionConfig defines notebook execution options.
type ExecutionConfig struct {
	Command string `yaml:"command"` // Jupyter executable
	Timeout string `yaml:"timeout"` // Per-cell timeout, Go duration syntax ("4h", "90m")
	Kernel  string `yaml:"kernel"`  // Kernel override (empty = notebook's own kernel)
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
}

// DefaultConfig returns the configuration for a standard course repository
// rooted at the current directory.
func DefaultConfig() *Config {
	return &Config{
		Root: ".",
		Paths: PathsConfig{
			Materials: DefaultMaterials,
			Tutorials: DefaultTutorials,
			Art:       DefaultArt,
			WrapUps:   DefaultWrapUps,
			Outline:   DefaultOutline,
			Book:      DefaultBook,
		},
		Execution: ExecutionConfig{
			Command: DefaultCommand,
			Timeout: DefaultTimeout.String(),
		},
	}
}

// TimeoutDuration returns the parsed execution timeout, or DefaultTimeout
// when unset. Call Validate first to surface parse errors.
func (e ExecutionConfig) TimeoutDuration() time.Duration {
	if e.Timeout == "" {
		return DefaultTimeout
	}
	d, err := time.ParseDuration(e.Timeout)
	if err != nil || d <= 0 {
		return DefaultTimeout
	}
	return d
}

// Resolve joins a layout path onto Root. Absolute paths are returned as is.
func (c *Config) Resolve(path string) string {
	if filepath.IsAbs(path) || c.Root == "" {
		return path
	}
	return filepath.Join(c.Root, path)
}

// Validate checks required fields, lengths and the timeout syntax.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	paths := []struct {
		name  string
		value string
	}{
		{"paths.materials", c.Paths.Materials},
		{"paths.tutorials", c.Paths.Tutorials},
		{"paths.art", c.Paths.Art},
		{"paths.wrapUps", c.Paths.WrapUps},
		{"paths.outline", c.Paths.Outline},
		{"paths.book", c.Paths.Book},
	}
	for _, p := range paths {
		if strings.TrimSpace(p.value) == "" {
			return fmt.Errorf("%w: %s", ErrFieldRequired, p.name)
		}
		if err := validateFieldLength(p.name, p.value, MaxPathLength); err != nil {
			return err
		}
	}

	if err := validateFieldLength("root", c.Root, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("assets.basePath", c.Assets.BasePath, MaxPathLength); err != nil {
		return err
	}

	if strings.TrimSpace(c.Execution.Command) == "" {
		return fmt.Errorf("%w: execution.command", ErrFieldRequired)
	}
	if err := validateFieldLength("execution.command", c.Execution.Command, MaxCommandLength); err != nil {
		return err
	}
	if err := validateFieldLength("execution.kernel", c.Execution.Kernel, MaxKernelLength); err != nil {
		return err
	}
	if c.Execution.Timeout != "" {
		d, err := time.ParseDuration(c.Execution.Timeout)
		if err != nil {
			return fmt.Errorf("%w: %q: %v", ErrInvalidTimeout, c.Execution.Timeout, err)
		}
		if d <= 0 {
			return fmt.Errorf("%w: %q must be positive", ErrInvalidTimeout, c.Execution.Timeout)
		}
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Keys absent from the file keep their DefaultConfig values.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-coursebook/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, configDirName, name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
