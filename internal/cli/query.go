package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/griddle/internal/employee"
	"github.com/mesh-intelligence/griddle/internal/query"
)

func newQueryCmd(a *app) *cobra.Command {
	var sort string
	cmd := &cobra.Command{
		Use:   "query <sql>",
		Short: "Run SQL over the visible rows",
		Long: `Load the visible rows into an in-memory SQLite table named "grid" and run
a read-only query. Every column ID is a table column; _row holds the row ID
and _pos the visible position. Dates are stored as YYYY-MM-DD text.`,
		Example: `  griddle query "SELECT stage, count(*) FROM grid GROUP BY stage"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.newSession(sort)
			if err != nil {
				return err
			}
			res, err := query.Run[employee.Employee](cmd.Context(), s.grid, args[0], query.WithLogger(a.logger))
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), res)
			}
			return table{header: res.Columns, rows: res.Strings()}.write(cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&sort, "sort", "", "sort as column[:asc|desc] before loading")
	return cmd
}
