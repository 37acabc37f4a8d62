// Package cli implements the griddle command-line interface: a cobra root
// command whose subcommands build the sample employee grid from the
// configured settings and drive it interactively, paint it, dump it, query
// it or aggregate it.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/griddle/internal/paths"
	"github.com/mesh-intelligence/griddle/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	jsonMode  bool
}

// app is the state shared by the subcommands of one root command.
type app struct {
	flags  rootFlags
	v      *viper.Viper
	cfg    types.Config
	logger *slog.Logger
	stderr io.Writer
}

// NewRootCmd creates the top-level "griddle" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New(), stderr: os.Stderr}
	root := &cobra.Command{
		Use:   "griddle",
		Short: "A grid data, rendering and interaction engine",
		Long:  "griddle drives a sortable, editable grid of sample employee records\nfrom the terminal, and paints it, dumps it, queries it and aggregates it.",
		// Do not print usage on errors returned by subcommands.
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	pf.StringVar(&a.flags.dataDir, "data-dir", "", "data directory for logs and images (default: platform data dir)")
	pf.BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")
	pf.Int(cfgKeyRows, types.DefaultRows, "number of sample rows")
	pf.Int(cfgKeySeed, 0, "seed of the sample data")
	pf.String(cfgKeyTheme, types.ThemeLight, "theme variant (light|dark)")
	pf.Int("freeze", types.DefaultFreezeColumns, "number of leading columns that never scroll")
	pf.String("log-level", types.DefaultLogLevel, "log level (debug|info|warn|error)")
	bindFlags(a.v, pf)

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newViewCmd(a))
	root.AddCommand(newRenderCmd(a))
	root.AddCommand(newDumpCmd(a))
	root.AddCommand(newQueryCmd(a))
	root.AddCommand(newAggregateCmd(a))

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		os.Exit(exitUserError)
	}
	os.Exit(exitSuccess)
}

// load reads the config file and flags into a.cfg and sets up logging.
func (a *app) load(cmd *cobra.Command) error {
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	if err := readConfig(a.v, configDir); err != nil {
		return err
	}
	cfg, err := decodeConfig(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = newLogger(a.stderr, cfg.LogLevel)
	a.logger.Debug("config loaded", "dir", configDir, "file", a.v.ConfigFileUsed())
	return nil
}

// dataDir resolves the data directory and creates it.
func (a *app) dataDir() (string, error) {
	dir, err := paths.ResolveDataDir(a.flags.dataDir, a.cfg.DataDir)
	if err != nil {
		return "", fmt.Errorf("resolve data dir: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create data dir: %w", err)
	}
	return dir, nil
}
