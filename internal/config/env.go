package config

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Environment variable names.
const (
	EnvPrefix  = "COURSEBOOK_"
	EnvConfig  = "COURSEBOOK_CONFIG"
	EnvRoot    = "COURSEBOOK_ROOT"
	EnvTimeout = "COURSEBOOK_TIMEOUT"
	EnvBookDir = "COURSEBOOK_BOOK_DIR"
	EnvJupyter = "COURSEBOOK_JUPYTER"

	// EnvKernel keeps the name Jupyter tooling already uses for kernel overrides.
	EnvKernel = "NB_KERNEL"
)

// knownEnvVars lists valid COURSEBOOK_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	EnvConfig:  true,
	EnvRoot:    true,
	EnvTimeout: true,
	EnvBookDir: true,
	EnvJupyter: true,
}

// Env holds configuration read from environment variables.
// Provides CI-friendly overrides without requiring YAML files.
type Env struct {
	ConfigPath string        // COURSEBOOK_CONFIG: config file path or name
	Root       string        // COURSEBOOK_ROOT: course repository root
	Timeout    time.Duration // COURSEBOOK_TIMEOUT: execution timeout
	BookDir    string        // COURSEBOOK_BOOK_DIR: directory outline paths resolve against
	Jupyter    string        // COURSEBOOK_JUPYTER: Jupyter executable
	Kernel     string        // NB_KERNEL: kernel override
}

// ReadEnv reads the recognized variables through lookup (os.LookupEnv in
// production). An unparseable or non-positive timeout is an error rather
// than silently ignored, since it would otherwise run notebooks for hours.
func ReadEnv(lookup func(string) (string, bool)) (*Env, error) {
	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}

	env := &Env{
		ConfigPath: get(EnvConfig),
		Root:       get(EnvRoot),
		BookDir:    get(EnvBookDir),
		Jupyter:    get(EnvJupyter),
		Kernel:     get(EnvKernel),
	}

	if raw := get(EnvTimeout); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("%w: %s=%q", ErrInvalidTimeout, EnvTimeout, raw)
		}
		env.Timeout = d
	}

	return env, nil
}

// Apply overlays the set variables onto cfg. Environment values win over
// the config file; flags are applied after this by the caller.
func (e *Env) Apply(cfg *Config) {
	if e.Root != "" {
		cfg.Root = e.Root
	}
	if e.BookDir != "" {
		cfg.Paths.Book = e.BookDir
	}
	if e.Jupyter != "" {
		cfg.Execution.Command = e.Jupyter
	}
	if e.Timeout > 0 {
		cfg.Execution.Timeout = e.Timeout.String()
	}
	if e.Kernel != "" {
		cfg.Execution.Kernel = e.Kernel
	}
}

// UnknownEnvVars returns the sorted names of COURSEBOOK_* variables in
// environ (os.Environ format) that are not recognized.
// Helps catch typos like COURSEBOOK_TIMOUT.
func UnknownEnvVars(environ []string) []string {
	var unknown []string
	for _, kv := range environ {
		if !strings.HasPrefix(kv, EnvPrefix) {
			continue
		}
		name, _, _ := strings.Cut(kv, "=")
		if !knownEnvVars[name] {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	return unknown
}
