package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/griddle/internal/paths"
	"github.com/mesh-intelligence/griddle/pkg/types"
)

const configHeader = "# griddle configuration\n# Flags override these values; see `griddle --help`.\n\n"

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the config directory and a default config.yaml",
		Long:  "Create the configuration and data directories and write config.yaml with the default settings. An existing config.yaml is left untouched.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInit(cmd)
		},
	}
}

func (a *app) runInit(cmd *cobra.Command) error {
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	dataDir, err := a.dataDir()
	if err != nil {
		return err
	}

	path := paths.ConfigFile(configDir)
	written, err := writeConfigIfMissing(path, types.DefaultConfig())
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	out := cmd.OutOrStdout()
	if written {
		fmt.Fprintf(out, "wrote %s\n", path)
	} else {
		fmt.Fprintf(out, "kept existing %s\n", path)
	}
	fmt.Fprintf(out, "data directory %s\n", dataDir)
	return nil
}

// writeConfigIfMissing writes cfg to path unless the file exists. It
// reports whether it wrote the file.
func writeConfigIfMissing(path string, cfg types.Config) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, append([]byte(configHeader), data...), 0o644); err != nil {
		return false, err
	}
	return true, nil
}
