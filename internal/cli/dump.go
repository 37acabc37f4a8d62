package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/griddle/pkg/types"
)

// dumpedCell is the JSON form of one resolved cell.
type dumpedCell struct {
	Kind  string          `json:"kind"`
	Text  string          `json:"text"`
	Value types.CellValue `json:"value"`
}

// dumpedRow is the JSON form of one visible row.
type dumpedRow struct {
	Row   int                   `json:"row"`
	Cells map[string]dumpedCell `json:"cells"`
}

func newDumpCmd(a *app) *cobra.Command {
	var sort string
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the resolved cells of every visible row",
		Long:  "Print the grid's visible rows as text columns, or with --json as resolved cells carrying their kind, copy text and value.",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.newSession(sort)
			if err != nil {
				return err
			}
			cols := s.grid.Columns()
			rows := s.grid.VisibleRows()

			if a.flags.jsonMode {
				out := make([]dumpedRow, len(rows))
				for pos, r := range rows {
					d := dumpedRow{Row: r.ID, Cells: make(map[string]dumpedCell, len(cols))}
					for i, c := range cols {
						cell := s.grid.CellAt(types.Item{Col: i, Row: pos})
						d.Cells[c.ID] = dumpedCell{Kind: cell.Kind().String(), Text: types.CopyText(cell), Value: cell}
					}
					out[pos] = d
				}
				return writeJSON(cmd.OutOrStdout(), out)
			}

			t := table{header: make([]string, len(cols))}
			for i, c := range cols {
				t.header[i] = c.Title
			}
			for pos := range rows {
				line := make([]string, len(cols))
				for i := range cols {
					line[i] = s.registry.CellText(s.grid.CellAt(types.Item{Col: i, Row: pos}), maxCellWidth)
				}
				t.rows = append(t.rows, line)
			}
			return t.write(cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&sort, "sort", "", "sort as column[:asc|desc]")
	return cmd
}
