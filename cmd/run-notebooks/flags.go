package main

import (
	"fmt"
	"io"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-coursebook/internal/cli"
)

// runFlags holds all flags for run-notebooks.
type runFlags struct {
	common  cli.CommonFlags
	bookDir string
	timeout string
	kernel  string
	dryRun  bool
}

// parseFlags parses run-notebooks flags and returns positional args.
func parseFlags(args []string, stderr io.Writer) (*runFlags, []string, error) {
	fs := flag.NewFlagSet("run-notebooks", flag.ContinueOnError)
	fs.SetOutput(stderr)
	f := &runFlags{}

	cli.AddCommonFlags(fs, &f.common)
	fs.StringVar(&f.bookDir, "book-dir", "", "directory outline paths resolve against")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "per-cell execution timeout (e.g. 30m, 4h)")
	fs.StringVarP(&f.kernel, "kernel", "k", "", "kernel to execute with (default: notebook's own)")
	fs.BoolVarP(&f.dryRun, "dry-run", "n", false, "list notebooks without executing them")

	fs.Usage = func() { printUsage(stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// printUsage prints the command usage.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: run-notebooks [outline] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Execute every notebook listed in the book outline, in place.")
	fmt.Fprintln(w, "Notebooks missing on disk are skipped. A failing notebook is reported")
	fmt.Fprintln(w, "and the remaining ones still run.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  outline   Outline file (default: book/_toc.yml)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "      --book-dir <dir>      Directory outline paths resolve against (default: book)")
	fmt.Fprintln(w, "  -t, --timeout <dur>       Per-cell timeout (default: 4h)")
	fmt.Fprintln(w, "  -k, --kernel <name>       Kernel override")
	fmt.Fprintln(w, "  -n, --dry-run             List notebooks without executing")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show resolved settings and timing")
	fmt.Fprintln(w, "      --version             Show version and exit")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  COURSEBOOK_CONFIG         Config file name or path")
	fmt.Fprintln(w, "  COURSEBOOK_ROOT           Course repository root")
	fmt.Fprintln(w, "  COURSEBOOK_BOOK_DIR       Directory outline paths resolve against")
	fmt.Fprintln(w, "  COURSEBOOK_TIMEOUT        Per-cell timeout")
	fmt.Fprintln(w, "  COURSEBOOK_JUPYTER        Jupyter executable")
	fmt.Fprintln(w, "  NB_KERNEL                 Kernel override")
}
