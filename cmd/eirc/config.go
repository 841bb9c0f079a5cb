package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"eir/internal/project"
)

// loadConfig reads --config, or the eir.toml found above the working
// directory, and applies the persistent flags the user set explicitly.
func loadConfig(cmd *cobra.Command) (project.Config, error) {
	flags := cmd.Root().PersistentFlags()
	path, err := flags.GetString("config")
	if err != nil {
		return project.Config{}, fmt.Errorf("failed to get config flag: %w", err)
	}

	var cfg project.Config
	if path != "" {
		cfg, err = project.Load(path)
	} else {
		cfg, err = project.Discover(".")
	}
	if err != nil {
		return project.Config{}, err
	}

	if flags.Changed("max-diagnostics") {
		if cfg.Compile.MaxDiagnostics, err = flags.GetInt("max-diagnostics"); err != nil {
			return project.Config{}, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
		}
	}
	return cfg, nil
}
