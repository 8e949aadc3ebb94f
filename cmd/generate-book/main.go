// Command generate-book writes the book outline for a course repository and
// prepares its notebooks for publishing.
package main

import (
	"context"
	"errors"
	"fmt"
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

// runMain parses args, runs the build and returns the process exit code.
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
		fmt.Fprintf(env.Stdout, "generate-book %s\n", Version)
		return cli.ExitSuccess
	}

	cli.SetMaxProcs(flags.common.Verbose, env.Stderr)

	if err := run(ctx, positional, flags, env); err != nil {
		fmt.Fprintln(env.Stderr, cli.FormatError(err, ""))
		return cli.ExitCodeFor(err)
	}
	return cli.ExitSuccess
}

// run resolves the configuration, builds the outline and writes it.
func run(ctx context.Context, args []string, flags *generateFlags, env *cli.Environment) error {
	if len(args) > 1 {
		return fmt.Errorf("%w: expected at most one course root, got %d arguments", cli.ErrUsage, len(args))
	}

	cfg, err := cli.LoadConfig(env, flags.common.Config)
	if err != nil {
		return err
	}
	mergeFlags(flags, args, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	layout := coursebook.LayoutFromConfig(cfg)
	notices := env.Notices(flags.common.Quiet)
	if flags.common.Verbose {
		printLayout(env, layout, cfg)
	}

	start := env.Now()

	modules, err := coursebook.LoadMaterials(layout.Path(layout.Materials))
	if err != nil {
		return err
	}

	b, err := coursebook.NewBuilder(layout,
		coursebook.WithAssetPath(cfg.Assets.BasePath),
		coursebook.WithProgress(notices),
	)
	if err != nil {
		return err
	}

	result, err := b.Build(ctx, modules)
	if err != nil {
		return err
	}
	if err := b.WriteOutline(result.Outline); err != nil {
		return err
	}

	if flags.common.Verbose {
		for _, missing := range result.Missing {
			fmt.Fprintf(env.Stderr, "warning: %s is listed but not on disk\n", missing)
		}
	}
	fmt.Fprintf(notices, "Wrote %s (%d modules, %d notebooks rewritten)\n",
		layout.Path(layout.Outline), len(modules), len(result.Transformed))
	if flags.common.Verbose {
		fmt.Fprintf(env.Stderr, "Done in %v\n", env.Now().Sub(start).Round(time.Millisecond))
	}
	return nil
}

// mergeFlags applies CLI flags over the resolved config (CLI wins).
func mergeFlags(flags *generateFlags, args []string, cfg *config.Config) {
	if len(args) == 1 {
		cfg.Root = args[0]
	}
	if flags.materials != "" {
		cfg.Paths.Materials = flags.materials
	}
	if flags.output != "" {
		cfg.Paths.Outline = flags.output
	}
	if flags.assetPath != "" {
		cfg.Assets.BasePath = flags.assetPath
	}
}

// printLayout shows the resolved locations in verbose mode.
func printLayout(env *cli.Environment, layout coursebook.Layout, cfg *config.Config) {
	fmt.Fprintf(env.Stderr, "Root:      %s\n", layout.Root)
	fmt.Fprintf(env.Stderr, "Materials: %s\n", layout.Path(layout.Materials))
	fmt.Fprintf(env.Stderr, "Tutorials: %s\n", layout.Path(layout.Tutorials))
	fmt.Fprintf(env.Stderr, "Art:       %s\n", layout.Path(layout.Art))
	fmt.Fprintf(env.Stderr, "Outline:   %s\n", layout.Path(layout.Outline))
	if cfg.Assets.BasePath != "" {
		fmt.Fprintf(env.Stderr, "Assets:    %s\n", cfg.Assets.BasePath)
	}
}
