// Command run-notebooks executes every notebook listed in a book outline in
// place, in outline order.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	flag "github.com/spf13/pflag"

	coursebook "github.com/alnah/go-coursebook"
	"github.com/alnah/go-coursebook/internal/cli"
	"github.com/alnah/go-coursebook/internal/config"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	ctx, stop := cli.NotifyContext(context.Background())
	code := runMain(ctx, os.Args[1:], cli.DefaultEnv())
	stop()
	os.Exit(code)
}

// runMain parses args, runs the outline and returns the process exit code.
func runMain(ctx context.Context, args []string, env *cli.Environment) int {
	flags, positional, err := parseFlags(args, env.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return cli.ExitSuccess
		}
		fmt.Fprintln(env.Stderr, cli.FormatError(err, ""))
		return cli.ExitUsage
	}

	if flags.common.Version {
		fmt.Fprintf(env.Stdout, "run-notebooks %s\n", Version)
		return cli.ExitSuccess
	}

	cli.SetMaxProcs(flags.common.Verbose, env.Stderr)

	if err := run(ctx, positional, flags, env); err != nil {
		fmt.Fprintln(env.Stderr, cli.FormatError(err, kernelFor(flags, env)))
		return cli.ExitCodeFor(err)
	}
	return cli.ExitSuccess
}

// run resolves the configuration and executes the outline's notebooks.
func run(ctx context.Context, args []string, flags *runFlags, env *cli.Environment) error {
	if len(args) > 1 {
		return fmt.Errorf("%w: expected at most one outline file, got %d arguments", cli.ErrUsage, len(args))
	}

	cfg, err := cli.LoadConfig(env, flags.common.Config)
	if err != nil {
		return err
	}
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	tocPath := cfg.Resolve(cfg.Paths.Outline)
	if len(args) == 1 {
		tocPath = args[0]
	}
	bookDir := cfg.Resolve(cfg.Paths.Book)

	if flags.common.Verbose {
		fmt.Fprintf(env.Stderr, "Outline: %s\n", tocPath)
		fmt.Fprintf(env.Stderr, "Book:    %s\n", bookDir)
		fmt.Fprintf(env.Stderr, "Engine:  %s (timeout %v)\n", cfg.Execution.Command, cfg.Execution.TimeoutDuration())
		if cfg.Execution.Kernel != "" {
			fmt.Fprintf(env.Stderr, "Kernel:  %s\n", cfg.Execution.Kernel)
		}
	}

	notices := env.Notices(flags.common.Quiet)
	r := coursebook.NewRunner(
		coursebook.WithBookDir(bookDir),
		coursebook.WithTimeout(cfg.Execution.TimeoutDuration()),
		coursebook.WithKernel(cfg.Execution.Kernel),
		coursebook.WithExecutor(coursebook.NewNbconvertExecutor(cfg.Execution.Command)),
		coursebook.WithNotices(notices),
		coursebook.WithDryRun(flags.dryRun),
	)

	start := env.Now()
	report, err := r.Run(ctx, tocPath)
	if report != nil {
		printSummary(notices, report, flags.dryRun)
		if flags.common.Verbose {
			fmt.Fprintf(env.Stderr, "Done in %v\n", env.Now().Sub(start).Round(time.Millisecond))
		}
	}
	if err != nil && report != nil && len(report.Failed) > 0 && errors.Is(err, coursebook.ErrExecution) {
		return fmt.Errorf("%w (first: %v)", err, report.Failed[0].Err)
	}
	return err
}

// mergeFlags applies CLI flags over the resolved config (CLI wins).
func mergeFlags(flags *runFlags, cfg *config.Config) {
	if flags.bookDir != "" {
		cfg.Paths.Book = flags.bookDir
	}
	if flags.timeout != "" {
		cfg.Execution.Timeout = flags.timeout
	}
	if flags.kernel != "" {
		cfg.Execution.Kernel = flags.kernel
	}
}

// kernelFor returns the kernel override named in error hints.
func kernelFor(flags *runFlags, env *cli.Environment) string {
	if flags.kernel != "" {
		return flags.kernel
	}
	kernel, _ := env.LookupEnv(config.EnvKernel)
	return kernel
}

func printSummary(w io.Writer, report *coursebook.RunReport, dryRun bool) {
	if dryRun {
		fmt.Fprintf(w, "\n%d to run, %d skipped\n", len(report.Pending), len(report.Skipped))
		return
	}
	fmt.Fprintf(w, "\n%d executed, %d skipped, %d failed\n",
		len(report.Executed), len(report.Skipped), len(report.Failed))
}
