package coursebook

// Notes:
// - The engine is replaced by fakeExecutor; real subprocess handling is
//   covered by the ExecRunner tests.

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

const executedNotebookJSON = `{"cells": [{"cell_type": "code", "execution_count": 1, "metadata": {}, "outputs": [], "source": ["x = 1"]}], "metadata": {}, "nbformat": 4, "nbformat_minor": 5}`

// fakeExecutor returns executedNotebookJSON unless a per-directory error or
// output is configured.
type fakeExecutor struct {
	mu       sync.Mutex
	requests []ExecuteRequest
	errs     map[string]error  // keyed by notebook base name
	outputs  map[string]string // keyed by notebook base name
}

func (f *fakeExecutor) Execute(_ context.Context, req ExecuteRequest) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)

	name := notebookName(req.Notebook)
	if err, ok := f.errs[name]; ok {
		return nil, err
	}
	if out, ok := f.outputs[name]; ok {
		return []byte(out), nil
	}
	return []byte(executedNotebookJSON), nil
}

// notebookName reads the marker the test fixtures put in each notebook.
func notebookName(data []byte) string {
	_, after, _ := strings.Cut(string(data), `"name": "`)
	name, _, _ := strings.Cut(after, `"`)
	return name
}

func fixtureNotebook(name string) string {
	return `{"cells": [], "metadata": {"name": "` + name + `"}, "nbformat": 4, "nbformat_minor": 5}`
}

// newTestBook writes a book directory and an outline referencing a.ipynb,
// missing.ipynb and b.ipynb (in that order). It returns the outline path and
// book directory.
func newTestBook(t *testing.T) (tocPath, bookDir string) {
	t.Helper()
	root := t.TempDir()
	bookDir = filepath.Join(root, "book")

	writeFile(t, bookDir, "tutorials/W1D1/a.ipynb", fixtureNotebook("a"))
	writeFile(t, bookDir, "tutorials/W1D2/b.ipynb", fixtureNotebook("b"))
	writeFile(t, bookDir, "_toc.yml", `- file: tutorials/W1D1/a.ipynb
- part: Neuro
  chapters:
    - file: tutorials/W1D1/chapter_title.md
      sections:
        - file: tutorials/W1D1/missing.ipynb
        - file: tutorials/W1D2/b.ipynb
`)
	return filepath.Join(bookDir, "_toc.yml"), bookDir
}

// ---------------------------------------------------------------------------
// TestRunner_Run - Sequential execution
// ---------------------------------------------------------------------------

func TestRunner_Run(t *testing.T) {
	t.Parallel()

	tocPath, bookDir := newTestBook(t)
	exec := &fakeExecutor{}
	var notices bytes.Buffer

	r := NewRunner(
		WithBookDir(bookDir),
		WithExecutor(exec),
		WithKernel("python3"),
		WithNotices(&notices),
	)

	report, err := r.Run(context.Background(), tocPath)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	a := filepath.Join(bookDir, "tutorials", "W1D1", "a.ipynb")
	b := filepath.Join(bookDir, "tutorials", "W1D2", "b.ipynb")
	missing := filepath.Join(bookDir, "tutorials", "W1D1", "missing.ipynb")

	if strings.Join(report.Executed, ",") != a+","+b {
		t.Errorf("Executed = %q, want [a b]", report.Executed)
	}
	if len(report.Skipped) != 1 || report.Skipped[0] != missing {
		t.Errorf("Skipped = %q, want [missing]", report.Skipped)
	}

	wantNotices := "Running " + a + "\nSkipping " + missing + " (not found)\nRunning " + b + "\n"
	if notices.String() != wantNotices {
		t.Errorf("notices =\n%s\nwant\n%s", notices.String(), wantNotices)
	}

	if len(exec.requests) != 2 {
		t.Fatalf("executor called %d times, want 2", len(exec.requests))
	}
	req := exec.requests[0]
	if req.Dir != filepath.Dir(a) {
		t.Errorf("Dir = %q, want %q", req.Dir, filepath.Dir(a))
	}
	if req.Timeout != DefaultRunTimeout {
		t.Errorf("Timeout = %v, want %v", req.Timeout, DefaultRunTimeout)
	}
	if req.Kernel != "python3" {
		t.Errorf("Kernel = %q, want python3", req.Kernel)
	}

	data, err := os.ReadFile(a)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(data), `"execution_count": 1`) {
		t.Errorf("notebook not overwritten with executed result:\n%s", data)
	}
}

// ---------------------------------------------------------------------------
// TestRunner_Run - Failure policy
// ---------------------------------------------------------------------------

func TestRunner_Run_FailureContinues(t *testing.T) {
	t.Parallel()

	tocPath, bookDir := newTestBook(t)
	exec := &fakeExecutor{errs: map[string]error{
		"a": fmt.Errorf("%w: kernel died", ErrExecution),
	}}
	var notices bytes.Buffer

	r := NewRunner(WithBookDir(bookDir), WithExecutor(exec), WithNotices(&notices))
	report, err := r.Run(context.Background(), tocPath)

	if !errors.Is(err, ErrExecution) {
		t.Fatalf("Run() error = %v, want ErrExecution", err)
	}
	if !strings.Contains(err.Error(), "1 of 2") {
		t.Errorf("error = %q, want failure count", err)
	}
	if len(report.Failed) != 1 || filepath.Base(report.Failed[0].Path) != "a.ipynb" {
		t.Errorf("Failed = %+v", report.Failed)
	}
	if len(report.Executed) != 1 || filepath.Base(report.Executed[0]) != "b.ipynb" {
		t.Errorf("Executed = %q, want [b]", report.Executed)
	}
	if !strings.Contains(notices.String(), "FAILED ") {
		t.Errorf("notices = %q, want FAILED line", notices.String())
	}

	// The failed notebook is left as it was.
	data, _ := os.ReadFile(report.Failed[0].Path)
	if string(data) != fixtureNotebook("a") {
		t.Errorf("failed notebook was modified: %s", data)
	}
}

func TestRunner_Run_InvalidEngineOutput(t *testing.T) {
	t.Parallel()

	tocPath, bookDir := newTestBook(t)
	exec := &fakeExecutor{outputs: map[string]string{"b": "not a notebook"}}

	r := NewRunner(WithBookDir(bookDir), WithExecutor(exec))
	report, err := r.Run(context.Background(), tocPath)

	if !errors.Is(err, ErrExecution) {
		t.Fatalf("Run() error = %v, want ErrExecution", err)
	}
	if len(report.Failed) != 1 || filepath.Base(report.Failed[0].Path) != "b.ipynb" {
		t.Errorf("Failed = %+v, want [b]", report.Failed)
	}
}

func TestRunner_Run_ExecutorNotFoundAborts(t *testing.T) {
	t.Parallel()

	tocPath, bookDir := newTestBook(t)
	exec := &fakeExecutor{errs: map[string]error{"a": ErrExecutorNotFound}}

	r := NewRunner(WithBookDir(bookDir), WithExecutor(exec))
	report, err := r.Run(context.Background(), tocPath)

	if !errors.Is(err, ErrExecutorNotFound) {
		t.Fatalf("Run() error = %v, want ErrExecutorNotFound", err)
	}
	if len(exec.requests) != 1 {
		t.Errorf("executor called %d times, want 1", len(exec.requests))
	}
	if len(report.Executed) != 0 || len(report.Failed) != 0 {
		t.Errorf("report = %+v, want nothing executed", report)
	}
}

func TestRunner_Run_Cancelled(t *testing.T) {
	t.Parallel()

	tocPath, bookDir := newTestBook(t)
	exec := &fakeExecutor{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewRunner(WithBookDir(bookDir), WithExecutor(exec))
	_, err := r.Run(ctx, tocPath)

	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
	if len(exec.requests) != 0 {
		t.Errorf("executor called %d times after cancellation", len(exec.requests))
	}
}

// ---------------------------------------------------------------------------
// TestRunner_Run - Dry run and outline errors
// ---------------------------------------------------------------------------

func TestRunner_Run_DryRun(t *testing.T) {
	t.Parallel()

	tocPath, bookDir := newTestBook(t)
	exec := &fakeExecutor{}
	var notices bytes.Buffer

	r := NewRunner(WithBookDir(bookDir), WithExecutor(exec), WithDryRun(true), WithNotices(&notices))
	report, err := r.Run(context.Background(), tocPath)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(exec.requests) != 0 {
		t.Errorf("executor called %d times in dry run", len(exec.requests))
	}
	if len(report.Pending) != 2 || len(report.Skipped) != 1 || len(report.Executed) != 0 {
		t.Errorf("report = %+v", report)
	}
	if strings.Count(notices.String(), "Would run ") != 2 {
		t.Errorf("notices = %q", notices.String())
	}
}

func TestRunner_Run_OutlineErrors(t *testing.T) {
	t.Parallel()

	t.Run("missing outline", func(t *testing.T) {
		t.Parallel()

		r := NewRunner(WithExecutor(&fakeExecutor{}))
		_, err := r.Run(context.Background(), filepath.Join(t.TempDir(), "_toc.yml"))
		if !errors.Is(err, ErrReadOutline) || !errors.Is(err, os.ErrNotExist) {
			t.Errorf("error = %v, want ErrReadOutline wrapping os.ErrNotExist", err)
		}
	})

	t.Run("invalid outline", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "_toc.yml")
		if err := os.WriteFile(path, []byte("- file: [unclosed"), 0o600); err != nil {
			t.Fatalf("setup: %v", err)
		}

		r := NewRunner(WithExecutor(&fakeExecutor{}))
		_, err := r.Run(context.Background(), path)
		if !errors.Is(err, ErrInvalidOutline) {
			t.Errorf("error = %v, want ErrInvalidOutline", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestNewRunner - Options
// ---------------------------------------------------------------------------

func TestNewRunner_Defaults(t *testing.T) {
	t.Parallel()

	r := NewRunner()
	if r.bookDir != "book" {
		t.Errorf("bookDir = %q, want book", r.bookDir)
	}
	if r.timeout != 4*time.Hour {
		t.Errorf("timeout = %v, want 4h", r.timeout)
	}
	if _, ok := r.executor.(*NbconvertExecutor); !ok {
		t.Errorf("executor = %T, want *NbconvertExecutor", r.executor)
	}
}

func TestWithTimeout(t *testing.T) {
	t.Parallel()

	r := NewRunner(WithTimeout(90 * time.Minute))
	if r.timeout != 90*time.Minute {
		t.Errorf("timeout = %v, want 90m", r.timeout)
	}

	defer func() {
		if recover() == nil {
			t.Error("WithTimeout(0) should panic")
		}
	}()
	WithTimeout(0)
}
