package cli

import (
	"fmt"
	"strings"

	"github.com/mesh-intelligence/griddle/internal/aggregate"
	"github.com/mesh-intelligence/griddle/internal/cells"
	"github.com/mesh-intelligence/griddle/internal/employee"
	"github.com/mesh-intelligence/griddle/internal/theme"
	"github.com/mesh-intelligence/griddle/internal/view"
	"github.com/mesh-intelligence/griddle/pkg/types"
)

// session is the grid a command works on, built from the loaded config.
type session struct {
	grid     *view.Controller[employee.Employee]
	footer   *aggregate.Footer
	registry *cells.Registry
	theme    theme.Theme
}

// newSession generates the sample rows and wires the grid, its footer, the
// cell registry and the theme. A non-empty sort ("column[:asc|desc]") is
// applied before returning.
func (a *app) newSession(sort string) (*session, error) {
	cfg := a.cfg
	grid, err := view.New[employee.Employee](
		employee.Generate(cfg.Rows, cfg.Seed),
		employee.Columns(),
		employee.NewResolver(),
		view.WithBlankRow[employee.Employee](employee.Blank),
		view.WithLogger[employee.Employee](a.logger),
	)
	if err != nil {
		return nil, fmt.Errorf("build grid: %w", err)
	}
	if sort != "" {
		col, dir, err := parseSort(sort)
		if err != nil {
			return nil, err
		}
		if err := grid.SetSort(col, dir); err != nil {
			return nil, fmt.Errorf("sort %q: %w", sort, err)
		}
	}

	th, err := theme.Build(cfg.Theme, cfg.ThemeOverrides)
	if err != nil {
		return nil, err
	}

	cols := grid.Columns()
	sel := make(map[string]aggregate.Kind, len(cfg.Footer))
	for key, name := range cfg.Footer {
		kind, err := aggregate.ParseKind(name)
		if err != nil {
			return nil, fmt.Errorf("footer %s: %w", key, err)
		}
		sel[columnID(cols, key)] = kind
	}
	exclude := make([]string, len(cfg.FooterExclude))
	for i, key := range cfg.FooterExclude {
		exclude[i] = columnID(cols, key)
	}
	footer := aggregate.NewFooter(grid, cols,
		aggregate.WithExcluded(exclude...),
		aggregate.WithSelections(sel),
		aggregate.WithLogger(a.logger),
	)

	return &session{
		grid:     grid,
		footer:   footer,
		registry: cells.Default(employee.Dropdowns(), cells.WithLogger(a.logger)),
		theme:    th,
	}, nil
}

// parseSort reads "column" or "column:direction".
func parseSort(s string) (string, types.Direction, error) {
	col, dirName, found := strings.Cut(s, ":")
	if !found {
		dirName = string(types.Ascending)
	}
	dir, err := types.ParseDirection(dirName)
	if err != nil {
		return "", types.DirectionNone, fmt.Errorf("sort %q: %w", s, err)
	}
	return col, dir, nil
}

// columnID maps a config key back to the column ID it names. Config keys
// arrive lower-cased, column IDs are camel case.
func columnID(cols []types.Column, key string) string {
	for _, c := range cols {
		if strings.EqualFold(c.ID, key) {
			return c.ID
		}
	}
	return key
}
