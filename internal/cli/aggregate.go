package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/griddle/internal/aggregate"
)

// aggregateResult is the JSON form of one footer aggregation.
type aggregateResult struct {
	Column  string         `json:"column"`
	Kind    aggregate.Kind `json:"kind"`
	Label   string         `json:"label"`
	Value   string         `json:"value"`
	Present bool           `json:"present"`
}

func newAggregateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "aggregate <column> <kind>",
		Short: "Print one footer aggregation",
		Long: `Compute a footer aggregation over a column's visible values.

Kinds: countEmpty, countFilled, percentEmpty, percentFilled for every column;
sum, average, min, max for numeric columns.`,
		Example: "  griddle aggregate salary average",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.newSession("")
			if err != nil {
				return err
			}
			col := columnID(s.grid.Columns(), args[0])
			kind, err := aggregate.ParseKind(args[1])
			if err != nil {
				return err
			}
			if err := s.footer.Set(col, kind); err != nil {
				return err
			}

			c := s.footer.Cell(col)
			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), aggregateResult{
					Column: col, Kind: c.Kind, Label: c.Label, Value: c.Value, Present: c.Present,
				})
			}
			if c.Excluded {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is excluded from the footer\n", col)
				return nil
			}
			if !c.Present {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: no value\n", c.Label)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", c.Label, c.Value)
			return nil
		},
	}
}
