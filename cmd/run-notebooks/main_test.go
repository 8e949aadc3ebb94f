package main

// Notes:
// - Real execution needs Jupyter, which tests cannot assume. Runs are
//   exercised through --dry-run and through an engine path that does not
//   exist; the runner itself is tested with a fake executor in the root
//   package.

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alnah/go-coursebook/internal/cli"
	"github.com/alnah/go-coursebook/internal/config"
)

const testOutline = `- file: a.ipynb
- part: Day one
  chapters:
  - file: missing.ipynb
  - file: notes.md
`

const testNotebook = `{"cells": [], "metadata": {}, "nbformat": 4, "nbformat_minor": 5}
`

// testEnv returns an Environment backed by vars, with captured output.
func testEnv(vars map[string]string) (env *cli.Environment, stdout, stderr *bytes.Buffer) {
	stdout, stderr = &bytes.Buffer{}, &bytes.Buffer{}
	return &cli.Environment{
		Now:    func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) },
		Stdout: stdout,
		Stderr: stderr,
		LookupEnv: func(key string) (string, bool) {
			v, ok := vars[key]
			return v, ok
		},
		Environ: func() []string {
			out := make([]string, 0, len(vars))
			for k, v := range vars {
				out = append(out, k+"="+v)
			}
			return out
		},
	}, stdout, stderr
}

// newTestBook writes an outline and a book directory holding only a.ipynb.
func newTestBook(t *testing.T) (tocPath, bookDir string) {
	t.Helper()
	bookDir = t.TempDir()
	tocPath = filepath.Join(bookDir, "_toc.yml")
	if err := os.WriteFile(tocPath, []byte(testOutline), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := os.WriteFile(filepath.Join(bookDir, "a.ipynb"), []byte(testNotebook), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return tocPath, bookDir
}

// ---------------------------------------------------------------------------
// TestRunMain - Exit codes
// ---------------------------------------------------------------------------

func TestRunMain_ExitCodes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		args     func(toc, book string) []string
		vars     func(book string) map[string]string
		wantCode int
		wantErr  string
	}{
		{
			name:     "version",
			args:     func(string, string) []string { return []string{"--version"} },
			wantCode: cli.ExitSuccess,
		},
		{
			name:     "help",
			args:     func(string, string) []string { return []string{"-h"} },
			wantCode: cli.ExitSuccess,
		},
		{
			name:     "too many arguments",
			args:     func(toc, _ string) []string { return []string{toc, toc} },
			wantCode: cli.ExitUsage,
			wantErr:  "at most one outline file",
		},
		{
			name:     "invalid timeout flag",
			args:     func(toc, book string) []string { return []string{toc, "--book-dir", book, "--timeout", "soon"} },
			wantCode: cli.ExitUsage,
			wantErr:  "invalid execution timeout",
		},
		{
			name:     "invalid timeout env",
			args:     func(toc, book string) []string { return []string{toc, "--book-dir", book} },
			vars:     func(string) map[string]string { return map[string]string{"COURSEBOOK_TIMEOUT": "-1h"} },
			wantCode: cli.ExitUsage,
			wantErr:  "invalid execution timeout",
		},
		{
			name:     "missing outline",
			args:     func(_, book string) []string { return []string{filepath.Join(book, "none.yml")} },
			wantCode: cli.ExitIO,
			wantErr:  "generate-book",
		},
		{
			name: "engine not found",
			args: func(toc, book string) []string { return []string{toc, "--book-dir", book} },
			vars: func(book string) map[string]string {
				return map[string]string{"COURSEBOOK_JUPYTER": filepath.Join(book, "no-such-jupyter")}
			},
			wantCode: cli.ExitEngine,
			wantErr:  "hint:",
		},
		{
			name:     "dry run",
			args:     func(toc, book string) []string { return []string{toc, "--book-dir", book, "-n"} },
			wantCode: cli.ExitSuccess,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			toc, book := newTestBook(t)
			var vars map[string]string
			if tt.vars != nil {
				vars = tt.vars(book)
			}
			env, _, stderr := testEnv(vars)

			code := runMain(context.Background(), tt.args(toc, book), env)
			if code != tt.wantCode {
				t.Fatalf("runMain() = %d, want %d (stderr: %s)", code, tt.wantCode, stderr)
			}
			if tt.wantErr != "" && !strings.Contains(stderr.String(), tt.wantErr) {
				t.Errorf("stderr = %q, want it to contain %q", stderr, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRunMain - Output
// ---------------------------------------------------------------------------

func TestRunMain_DryRunOutput(t *testing.T) {
	t.Parallel()

	toc, book := newTestBook(t)
	env, stdout, _ := testEnv(nil)

	if code := runMain(context.Background(), []string{toc, "--book-dir", book, "--dry-run"}, env); code != cli.ExitSuccess {
		t.Fatalf("runMain() = %d, want 0", code)
	}

	want := "Would run " + filepath.Join(book, "a.ipynb") + "\n" +
		"Skipping " + filepath.Join(book, "missing.ipynb") + " (not found)\n" +
		"\n1 to run, 1 skipped\n"
	if stdout.String() != want {
		t.Errorf("stdout = %q, want %q", stdout, want)
	}

	data, err := os.ReadFile(filepath.Join(book, "a.ipynb"))
	if err != nil {
		t.Fatalf("reading notebook: %v", err)
	}
	if string(data) != testNotebook {
		t.Error("dry run modified the notebook")
	}
}

func TestRunMain_BookDirFromEnv(t *testing.T) {
	t.Parallel()

	toc, book := newTestBook(t)
	env, stdout, _ := testEnv(map[string]string{"COURSEBOOK_BOOK_DIR": book})

	if code := runMain(context.Background(), []string{toc, "-n"}, env); code != cli.ExitSuccess {
		t.Fatalf("runMain() = %d, want 0", code)
	}
	if !strings.Contains(stdout.String(), "Would run "+filepath.Join(book, "a.ipynb")) {
		t.Errorf("stdout = %q, want a.ipynb resolved against COURSEBOOK_BOOK_DIR", stdout)
	}
}

func TestRunMain_VerboseQuiet(t *testing.T) {
	t.Parallel()

	toc, book := newTestBook(t)
	env, stdout, stderr := testEnv(map[string]string{"NB_KERNEL": "python3"})

	args := []string{toc, "--book-dir", book, "-n", "-q", "-v", "--timeout", "30m"}
	if code := runMain(context.Background(), args, env); code != cli.ExitSuccess {
		t.Fatalf("runMain() = %d, want 0", code)
	}
	if stdout.Len() != 0 {
		t.Errorf("stdout = %q, want empty in quiet mode", stdout)
	}
	for _, want := range []string{"Outline:", "timeout 30m0s", "Kernel:  python3", "Done in"} {
		if !strings.Contains(stderr.String(), want) {
			t.Errorf("stderr missing %q:\n%s", want, stderr)
		}
	}
}

func TestMergeFlags(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Execution.Kernel = "from-env"

	mergeFlags(&runFlags{bookDir: "site", timeout: "1h"}, cfg)

	if cfg.Paths.Book != "site" {
		t.Errorf("Paths.Book = %q, want site", cfg.Paths.Book)
	}
	if cfg.Execution.TimeoutDuration() != time.Hour {
		t.Errorf("TimeoutDuration() = %v, want 1h", cfg.Execution.TimeoutDuration())
	}
	if cfg.Execution.Kernel != "from-env" {
		t.Errorf("Execution.Kernel = %q, want unset flag to keep from-env", cfg.Execution.Kernel)
	}
}

func TestKernelFor(t *testing.T) {
	t.Parallel()

	env, _, _ := testEnv(map[string]string{"NB_KERNEL": "from-env"})

	if got := kernelFor(&runFlags{kernel: "from-flag"}, env); got != "from-flag" {
		t.Errorf("kernelFor() = %q, want from-flag", got)
	}
	if got := kernelFor(&runFlags{}, env); got != "from-env" {
		t.Errorf("kernelFor() = %q, want from-env", got)
	}
}
