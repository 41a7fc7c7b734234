package cli

import (
	"github.com/spf13/cobra"

	"github.com/stackpng/stackpng/internal/config"
)

// loadSettings merges defaults, the configuration file and explicitly set
// flags, then validates the result. overlay applies command-specific flags.
func loadSettings(cmd *cobra.Command, opts *RootOptions, overlay func(*config.Config)) (config.Config, error) {
	path, err := config.Discover(opts.ConfigPath, ".")
	if err != nil {
		return config.Config{}, configError(err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, configError(err)
	}

	flags := cmd.Flags()
	if flags.Changed("history") {
		cfg.History = opts.History
	}
	if flags.Changed("color") {
		cfg.Color = opts.Color
	}
	if opts.Verbose {
		cfg.LogLevel = "debug"
	}
	if overlay != nil {
		overlay(&cfg)
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, configError(err)
	}
	opts.color = cfg.Color
	return cfg, nil
}

func configError(err error) *ExitError {
	e := WrapExitError(ExitCommandError, "could not load configuration", err)
	e.ErrCode = ErrCodeConfig
	return e
}
