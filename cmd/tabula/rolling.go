package main

import (
	"fmt"

	"github.com/spf13/cobra"

	tio "github.com/paveg/tabula/internal/io"
)

func newRollingCmd() *cobra.Command {
	flags := &aggFlags{}
	var (
		column string
		window int
	)

	cmd := &cobra.Command{
		Use:   "rolling <file>",
		Short: "Append a rolling-window aggregate of one column",
		Long: `Computes the aggregation over each trailing window of the column and
appends it as <column>_<agg>_<window>. The first window-1 rows are NaN.

JSON output writes NaN as null, and null reads back as text, so a rolled
column saved with -o out.json or out.jsonl loads as a text column.
Use csv, parquet or a snapshot to keep it numeric.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			agg, err := flags.aggregation()
			if err != nil {
				return err
			}
			df, err := tio.ReadFile(args[0])
			if err != nil {
				return err
			}
			col, err := df.Column(column)
			if err != nil {
				return err
			}
			rolled, err := col.RollingAggregate(window, agg)
			if err != nil {
				return err
			}
			rolled.SetName(fmt.Sprintf("%s_%s_%d", column, agg.Op, window))

			result := df.Clone()
			if err := result.AddColumn(rolled); err != nil {
				return err
			}
			return emit(cmd, result, flags.output)
		},
	}
	cmd.Flags().StringVar(&column, "column", "", "column to aggregate")
	cmd.Flags().IntVar(&window, "window", 0, "window length in rows")
	_ = cmd.MarkFlagRequired("column")
	_ = cmd.MarkFlagRequired("window")
	flags.register(cmd, "mean")
	return cmd
}
