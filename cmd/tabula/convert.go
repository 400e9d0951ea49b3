package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	tio "github.com/paveg/tabula/internal/io"
	"github.com/paveg/tabula/internal/logging"
)

func newConvertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert <in> <out>",
		Short: "Convert between csv, parquet, json, jsonl and snapshot files",
		Long: `Reads <in> and writes it to <out>, choosing both formats by extension.
A trailing .gz compresses or decompresses CSV and JSON.

JSON has no NaN: float NaN values are written as null, and a column with a
null reads back as text. Convert to csv, parquet or a snapshot to keep such
columns numeric.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, out := args[0], args[1]
			if tio.FormatOf(out) == tio.FormatUnknown {
				return fmt.Errorf("cannot tell the output format of %s", out)
			}
			df, err := tio.ReadFile(in)
			if err != nil {
				return err
			}
			if err := tio.WriteFile(out, df); err != nil {
				return err
			}
			logging.Component("cli").Info("converted",
				zap.String("from", tio.FormatOf(in).String()),
				zap.String("to", tio.FormatOf(out).String()),
				zap.Int("rows", df.Len()),
				zap.Int("columns", df.NColumns()))
			return nil
		},
	}
}
