package main

import (
	"fmt"
	"io"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-coursebook/internal/cli"
)

// generateFlags holds all flags for generate-book.
type generateFlags struct {
	common    cli.CommonFlags
	materials string
	output    string
	assetPath string
}

// parseFlags parses generate-book flags and returns positional args.
func parseFlags(args []string, stderr io.Writer) (*generateFlags, []string, error) {
	fs := flag.NewFlagSet("generate-book", flag.ContinueOnError)
	fs.SetOutput(stderr)
	f := &generateFlags{}

	cli.AddCommonFlags(fs, &f.common)
	fs.StringVar(&f.materials, "materials", "", "materials manifest, relative to the course root")
	fs.StringVar(&f.output, "output", "", "outline file to write, relative to the course root")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory (templates/, outlines/)")

	fs.Usage = func() { printUsage(stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// printUsage prints the command usage.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: generate-book [root] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Write the book outline and prepare every listed notebook.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  root    Course repository root (default: current directory)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "      --materials <path>    Materials manifest (default: tutorials/materials.yml)")
	fmt.Fprintln(w, "      --output <path>       Outline file (default: book/_toc.yml)")
	fmt.Fprintln(w, "      --asset-path <dir>    Custom templates and outline fragments")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show resolved paths and timing")
	fmt.Fprintln(w, "      --version             Show version and exit")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  COURSEBOOK_CONFIG         Config file name or path")
	fmt.Fprintln(w, "  COURSEBOOK_ROOT           Course repository root")
}
