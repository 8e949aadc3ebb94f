package coursebook

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/alnah/go-coursebook/internal/fileutil"
	"github.com/alnah/go-coursebook/internal/notebook"
	"github.com/alnah/go-coursebook/internal/outline"
)

// Runner executes every notebook an outline references, one at a time,
// replacing each file with its executed version.
type Runner struct {
	bookDir  string
	timeout  time.Duration
	kernel   string
	executor Executor
	notices  io.Writer
	dryRun   bool
}

// RunReport lists what happened to each referenced notebook, by resolved path.
type RunReport struct {
	Executed []string
	Skipped  []string // Not found on disk
	Pending  []string // Found but not executed (dry run)
	Failed   []NotebookFailure
}

// NotebookFailure records a notebook the engine could not execute.
type NotebookFailure struct {
	Path string
	Err  error
}

// NewRunner creates a Runner with the default book directory, timeout and
// nbconvert executor.
func NewRunner(opts ...RunOption) *Runner {
	r := &Runner{
		bookDir: defaultBookDir,
		timeout: DefaultRunTimeout,
		notices: io.Discard,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.executor == nil {
		r.executor = NewNbconvertExecutor("")
	}
	return r
}

// Run executes the notebooks listed in the outline at tocPath, in outline
// order. A notebook that fails to execute is reported and the batch goes on;
// the returned error then wraps ErrExecution. A missing engine, a
// filesystem error or cancellation stops the batch.
func (r *Runner) Run(ctx context.Context, tocPath string) (*RunReport, error) {
	data, err := os.ReadFile(tocPath) // #nosec G304 -- outline path is user-provided
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadOutline, err)
	}

	paths, err := outline.Notebooks(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidOutline, tocPath, err)
	}

	report := &RunReport{}
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		file := filepath.Join(r.bookDir, filepath.FromSlash(p))
		presence, err := fileutil.Lookup(file)
		if err != nil {
			return report, err
		}
		if presence == fileutil.NotFound {
			fmt.Fprintf(r.notices, "Skipping %s (not found)\n", file)
			report.Skipped = append(report.Skipped, file)
			continue
		}

		if r.dryRun {
			fmt.Fprintf(r.notices, "Would run %s\n", file)
			report.Pending = append(report.Pending, file)
			continue
		}

		fmt.Fprintf(r.notices, "Running %s\n", file)
		if err := r.runOne(ctx, file); err != nil {
			if ctx.Err() != nil || !errors.Is(err, ErrExecution) {
				return report, err
			}
			fmt.Fprintf(r.notices, "FAILED %s: %v\n", file, err)
			report.Failed = append(report.Failed, NotebookFailure{Path: file, Err: err})
			continue
		}
		report.Executed = append(report.Executed, file)
	}

	if n := len(report.Failed); n > 0 {
		return report, fmt.Errorf("%w: %d of %d notebooks failed", ErrExecution, n, n+len(report.Executed))
	}
	return report, nil
}

// runOne executes a single notebook and overwrites it with the result.
func (r *Runner) runOne(ctx context.Context, file string) error {
	input, err := os.ReadFile(file) // #nosec G304 -- path comes from the outline
	if err != nil {
		return fmt.Errorf("%w: %w", ErrReadNotebook, err)
	}

	output, err := r.executor.Execute(ctx, ExecuteRequest{
		Notebook: input,
		Dir:      filepath.Dir(file),
		Timeout:  r.timeout,
		Kernel:   r.kernel,
	})
	if err != nil {
		return err
	}

	nb, err := notebook.Parse(output)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrExecution, err)
	}

	if err := notebook.WriteFile(file, nb); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteNotebook, err)
	}
	return nil
}
