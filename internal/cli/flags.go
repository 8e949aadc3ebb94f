package cli

import (
	flag "github.com/spf13/pflag"
)

// CommonFlags holds flags shared across commands.
type CommonFlags struct {
	Config  string
	Quiet   bool
	Verbose bool
	Version bool
}

// AddCommonFlags adds common flags to a FlagSet.
func AddCommonFlags(fs *flag.FlagSet, f *CommonFlags) {
	fs.StringVarP(&f.Config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.Quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.Verbose, "verbose", "v", false, "show resolved settings and timing")
	fs.BoolVar(&f.Version, "version", false, "show version and exit")
}
