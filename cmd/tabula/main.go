// Command tabula inspects and transforms tabular files from the shell.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/paveg/tabula/internal/config"
	"github.com/paveg/tabula/internal/logging"
	"github.com/paveg/tabula/internal/monitoring"
)

type globalFlags struct {
	configFile string
	logLevel   string
	stats      bool
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "tabula",
		Short: "Tabula - in-memory columnar tables from the command line",
		Long: `Tabula loads CSV, Parquet, JSON and snapshot files into typed columns
and runs summaries, group-by reductions and rolling windows over them.
The format of every file is chosen by its extension; a trailing .gz
compresses or decompresses CSV and JSON.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return setup(flags)
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if flags.stats {
				reportStats(cmd.ErrOrStderr())
			}
			_ = logging.Sync()
		},
	}
	root.SetOut(out)

	root.PersistentFlags().StringVar(&flags.configFile, "config", "", "configuration file (.json, .yaml or .yml)")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	root.PersistentFlags().BoolVar(&flags.stats, "stats", false, "print per-operation timings to stderr on exit")

	root.AddCommand(
		newDescribeCmd(),
		newGroupByCmd(),
		newRollingCmd(),
		newConvertCmd(),
		newVersionCmd(),
	)
	return root
}

// setup resolves the configuration (file, then TABULA_* environment, then
// flags) and installs it with its logger and metrics collector.
func setup(flags *globalFlags) error {
	var (
		cfg config.Config
		err error
	)
	if flags.configFile != "" {
		cfg, err = config.LoadFromFile(flags.configFile)
		if err != nil {
			return err
		}
	} else {
		cfg = config.LoadFromEnv()
	}
	if flags.logLevel != "" {
		cfg.LogLevel = flags.logLevel
	}
	if flags.stats {
		cfg.MetricsCollection = true
	}

	validated, warnings, err := config.NewConfigValidator().Validate(cfg)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := logging.Init(logging.FromConfig(validated)); err != nil {
		return err
	}
	logger := logging.Component("cli")
	for _, w := range warnings {
		logger.Debug(w)
	}

	config.SetGlobalConfig(validated)
	monitoring.ConfigureFromConfig(validated)
	logger.Debug("configuration loaded",
		zap.String("source", configSource(flags)),
		zap.Int("workers", validated.Workers()),
		zap.Int("parallel_threshold", validated.ParallelThreshold))
	return nil
}

func configSource(flags *globalFlags) string {
	if flags.configFile != "" {
		return flags.configFile
	}
	return "environment"
}

func reportStats(w io.Writer) {
	summary := monitoring.GetGlobalSummary()
	fmt.Fprintf(w, "operations: %d (failed %d), rows: %d, time: %s\n",
		summary.TotalOperations, summary.FailedOps, summary.TotalRows, summary.TotalDuration)
	for _, m := range monitoring.GetGlobalMetrics() {
		fmt.Fprintf(w, "  %-16s %10s %8d rows\n", m.Operation, m.Duration, m.RowsProcessed)
	}
}
