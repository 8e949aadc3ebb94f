package cli

import (
	"fmt"

	"github.com/alnah/go-coursebook/internal/config"
)

// LoadConfig resolves configuration from defaults, the config file and the
// environment, in increasing priority. The file is taken from flagPath, or
// COURSEBOOK_CONFIG when the flag is empty; with neither, defaults apply.
// Flags are merged by the caller afterwards.
// Unknown COURSEBOOK_* variables are reported on env.Stderr.
func LoadConfig(env *Environment, flagPath string) (*config.Config, error) {
	vars, err := config.ReadEnv(env.LookupEnv)
	if err != nil {
		return nil, err
	}
	WarnUnknownEnvVars(env)

	path := flagPath
	if path == "" {
		path = vars.ConfigPath
	}

	cfg := config.DefaultConfig()
	if path != "" {
		if cfg, err = config.LoadConfig(path); err != nil {
			return nil, err
		}
	}

	vars.Apply(cfg)
	return cfg, nil
}

// WarnUnknownEnvVars logs warnings for unrecognized COURSEBOOK_* variables.
func WarnUnknownEnvVars(env *Environment) {
	for _, name := range config.UnknownEnvVars(env.Environ()) {
		fmt.Fprintf(env.Stderr, "warning: unknown environment variable %s (typo?)\n", name)
	}
}
