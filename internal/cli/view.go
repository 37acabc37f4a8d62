package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/griddle/internal/employee"
	"github.com/mesh-intelligence/griddle/internal/paths"
	"github.com/mesh-intelligence/griddle/internal/tui"
	"github.com/mesh-intelligence/griddle/internal/view"
)

// ErrNoTerminal is returned when the interactive grid is started without a
// terminal on stdin and stdout.
var ErrNoTerminal = errors.New("view needs an interactive terminal")

func newViewCmd(a *app) *cobra.Command {
	var sort, logFile string
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Browse and edit the grid in the terminal",
		Long: `Open the interactive grid.

Keys: arrows/hjkl move, enter edits, space toggles, s/S sort, c clears the
sort, v selects, d deletes, a appends, +/- resize, f cycles the footer,
t toggles the theme, r regenerates the rows, q quits.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isTerminal(os.Stdin) || !isTerminal(os.Stdout) {
				return ErrNoTerminal
			}
			if logFile == "" && a.cfg.LogLevel == "debug" {
				dir, err := a.dataDir()
				if err != nil {
					return err
				}
				logFile = paths.LogFile(dir)
			}
			logger, closeLog, err := fileLogger(logFile, a.cfg.LogLevel)
			if err != nil {
				return err
			}
			defer closeLog()
			// Log lines on stderr would tear the terminal surface.
			a.logger = logger

			s, err := a.newSession(sort)
			if err != nil {
				return err
			}
			unsubscribe := s.grid.Subscribe(func(e view.Event) {
				logger.Debug("grid changed", "event", e.Kind.String(), "row", e.RowID)
			})
			defer unsubscribe()

			m := tui.New[employee.Employee](s.grid, tui.Config[employee.Employee]{
				Theme:     s.theme,
				Overrides: a.cfg.ThemeOverrides,
				Registry:  s.registry,
				Footer:    s.footer,
				Freeze:    a.cfg.FreezeColumns,
				Seed:      a.cfg.Seed,
				Refresh:   func(seed int) []employee.Employee { return employee.Generate(a.cfg.Rows, seed) },
				Logger:    logger,
			})
			if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
				return fmt.Errorf("run terminal grid: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&sort, "sort", "", "initial sort as column[:asc|desc]")
	cmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file (default: discard, or griddle.log in the data dir at debug level)")
	return cmd
}

// fileLogger opens path for appending and logs to it. An empty path
// discards logs.
func fileLogger(path, level string) (*slog.Logger, func(), error) {
	if path == "" {
		return newLogger(io.Discard, level), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return newLogger(f, level), func() { f.Close() }, nil
}

// isTerminal reports whether f is a terminal, including Cygwin ptys.
func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
