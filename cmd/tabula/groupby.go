package main

import (
	"github.com/spf13/cobra"

	"github.com/paveg/tabula/internal/dataframe"
	tio "github.com/paveg/tabula/internal/io"
	"github.com/paveg/tabula/internal/series"
)

type aggFlags struct {
	agg    string
	ddof   int
	q      float64
	output string
}

func (f *aggFlags) register(cmd *cobra.Command, defaultAgg string) {
	cmd.Flags().StringVar(&f.agg, "agg", defaultAgg, "aggregation: sum, mean, min, max, var, std, median, quantile, count")
	cmd.Flags().IntVar(&f.ddof, "ddof", 1, "delta degrees of freedom for var and std")
	cmd.Flags().Float64Var(&f.q, "q", 0.5, "quantile level in [0, 1]")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "write the result to this file instead of CSV on stdout")
}

func (f *aggFlags) aggregation() (series.Aggregation, error) {
	op, err := series.ParseAggOp(f.agg)
	if err != nil {
		return series.Aggregation{}, err
	}
	return series.Aggregation{Op: op, DDoF: f.ddof, Q: f.q}, nil
}

func newGroupByCmd() *cobra.Command {
	flags := &aggFlags{}
	var key string

	cmd := &cobra.Command{
		Use:   "groupby <file>",
		Short: "Reduce every column per distinct key",
		Long: `Groups rows by the values of the key column, in order of first
appearance, and reduces every other column with the chosen aggregation.`,
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
			gb, err := df.GroupByColumn(key)
			if err != nil {
				return err
			}
			result, err := gb.Aggregate(agg)
			if err != nil {
				return err
			}
			return emit(cmd, result, flags.output)
		},
	}
	cmd.Flags().StringVar(&key, "key", "", "column to group by")
	_ = cmd.MarkFlagRequired("key")
	flags.register(cmd, "sum")
	return cmd
}

func emit(cmd *cobra.Command, df *dataframe.DataFrame, output string) error {
	if output != "" {
		return tio.WriteFile(output, df)
	}
	return tio.NewCSVWriter(cmd.OutOrStdout(), tio.DefaultCSVOptions()).Write(df)
}
