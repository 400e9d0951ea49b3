package main

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/paveg/tabula/internal/dataframe"
	tio "github.com/paveg/tabula/internal/io"
	"github.com/paveg/tabula/internal/series"
)

var describeOps = []series.AggOp{series.OpSum, series.OpMean, series.OpMin, series.OpMax}

func newDescribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe <file>",
		Short: "Show columns, types and summary statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			df, err := tio.ReadFile(args[0])
			if err != nil {
				return err
			}
			return describe(cmd.OutOrStdout(), df)
		},
	}
}

// describe renders one line per column. Text columns leave the statistics
// blank; an empty numeric column reports "-".
func describe(w io.Writer, df *dataframe.DataFrame) error {
	fmt.Fprintf(w, "%d rows x %d columns\n", df.Len(), df.NColumns())

	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"column", "dtype", "sum", "mean", "min", "max"})

	for _, name := range df.Columns() {
		col, err := df.Column(name)
		if err != nil {
			return err
		}
		row := []string{name, col.DType().String()}
		for _, op := range describeOps {
			row = append(row, statCell(col, op))
		}
		table.Append(row)
	}

	table.Render()
	return nil
}

func statCell(col series.ISeries, op series.AggOp) string {
	if !col.DType().IsNumeric() {
		return ""
	}
	d, err := col.Aggregate(series.Aggregation{Op: op})
	if err != nil {
		return "-"
	}
	return d.String()
}
