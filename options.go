package coursebook

import (
	"io"
	"time"
)

// BuildOption configures a Builder.
type BuildOption func(*Builder)

// WithAssetPath loads templates and outline fragments from dir, falling
// back to the embedded assets for anything dir does not provide.
func WithAssetPath(dir string) BuildOption {
	return func(b *Builder) {
		b.assetPath = dir
	}
}

// WithProgress sets where per-module progress notices are written.
// Defaults to io.Discard.
func WithProgress(w io.Writer) BuildOption {
	return func(b *Builder) {
		if w != nil {
			b.progress = w
		}
	}
}

// RunOption configures a Runner.
type RunOption func(*Runner)

// DefaultRunTimeout is the per-cell execution timeout handed to the engine.
const DefaultRunTimeout = 4 * time.Hour

// defaultBookDir is the directory outline paths are resolved against.
const defaultBookDir = "book"

// WithBookDir sets the directory outline paths are resolved against.
func WithBookDir(dir string) RunOption {
	return func(r *Runner) {
		r.bookDir = dir
	}
}

// WithTimeout sets the per-cell execution timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) RunOption {
	if d <= 0 {
		panic("coursebook: WithTimeout duration must be positive")
	}
	return func(r *Runner) {
		r.timeout = d
	}
}

// WithKernel overrides the kernel recorded in each notebook.
// An empty name keeps the notebook's own kernel.
func WithKernel(name string) RunOption {
	return func(r *Runner) {
		r.kernel = name
	}
}

// WithExecutor replaces the default nbconvert executor.
func WithExecutor(e Executor) RunOption {
	return func(r *Runner) {
		if e != nil {
			r.executor = e
		}
	}
}

// WithNotices sets where Running/Skipping notices are written.
// Defaults to io.Discard.
func WithNotices(w io.Writer) RunOption {
	return func(r *Runner) {
		if w != nil {
			r.notices = w
		}
	}
}

// WithDryRun lists the notebooks that would run without executing them.
func WithDryRun(enabled bool) RunOption {
	return func(r *Runner) {
		r.dryRun = enabled
	}
}
