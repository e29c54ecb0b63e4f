package main

import (
	"fmt"
	"os"

	"github.com/Carmen-Shannon/oxy-galaxy/app"
	"github.com/Carmen-Shannon/oxy-galaxy/config"
	"github.com/Carmen-Shannon/oxy-galaxy/logger"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	envFiles  []string
	panelFile string
	variant   string
	logLevel  string
	seed      uint64
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "oxy-galaxy",
		Short: "Render an animated spiral galaxy of instanced star sprites",
		Long: `oxy-galaxy generates a spiral galaxy point cloud and renders it with WebGPU.

Keys: arrows select and nudge panel controls, Enter runs an action, H hides the panel,
F or a double click toggles fullscreen, Esc quits. Drag with the left button to orbit,
the right button to pan and scroll to zoom.

Settings come from the environment and an optional .env file. Flags override both.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			log := logger.New(cfg.Log)

			a, err := app.New(cfg, log)
			if err != nil {
				log.Error("startup failed", "error", err)
				return err
			}
			runErr := a.Run()
			if err := a.Close(); err != nil {
				log.Warn("shutdown", "error", err)
			}
			return runErr
		},
	}

	flags := cmd.Flags()
	flags.StringSliceVar(&opts.envFiles, "env-file", nil, "`.env` file to load, repeatable (default ./.env)")
	flags.StringVar(&opts.panelFile, "panel", "", "TOML or YAML params file to watch (overrides GALAXY_PANEL_FILE)")
	flags.StringVar(&opts.variant, "variant", "", "galaxy variant, structured or flat (overrides GALAXY_VARIANT)")
	flags.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error (overrides LOG_LEVEL)")
	flags.Uint64Var(&opts.seed, "seed", 0, "generator seed, 0 for a new galaxy every run (overrides GALAXY_SEED)")
	return cmd
}

// loadConfig reads the environment and applies the flags the user set on top.
func loadConfig(cmd *cobra.Command, opts *rootOptions) (*config.Config, error) {
	flags := cmd.Flags()
	for name, env := range map[string]string{
		"panel":     "GALAXY_PANEL_FILE",
		"variant":   "GALAXY_VARIANT",
		"log-level": "LOG_LEVEL",
		"seed":      "GALAXY_SEED",
	} {
		if !flags.Changed(name) {
			continue
		}
		value := flags.Lookup(name).Value.String()
		if err := os.Setenv(env, value); err != nil {
			return nil, fmt.Errorf("--%s: %w", name, err)
		}
	}
	return config.Load(opts.envFiles...)
}
