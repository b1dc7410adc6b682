package main

import (
	"fmt"
	"log/slog"

	"github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/fleetops/scorecard-etl/internal/config"
	"github.com/fleetops/scorecard-etl/internal/pipeline"
)

var (
	configPath  string
	sourceDir   string
	sourceFile  string
	dryRun      bool
	withAnalyze bool
)

var rootCmd = &cobra.Command{
	Use:   "scorecard-etl",
	Short: "Fleet safety scorecard ETL pipelines",
	Long: `scorecard-etl imports fleet safety data into the reporting warehouse.

Each subcommand runs one pipeline: driver scores, HOS violations, DOT
inspections or programmed maintenance. Pipelines normalize the source files
dropped into their directory, skip records already present, and load the rest
in batches. Every run records its outcome in the job status table.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the configuration file")
	rootCmd.PersistentFlags().StringVar(&sourceDir, "dir", "", "Override the source drop directory")
	rootCmd.PersistentFlags().StringVar(&sourceFile, "file", "", "Process a single source file")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Parse and validate without writing to the warehouse")
	rootCmd.PersistentFlags().BoolVar(&withAnalyze, "analyze", false, "Print batch statistics for the processed records")

	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(hosCmd)
	rootCmd.AddCommand(inspectionsCmd)
	rootCmd.AddCommand(maintenanceCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(watchCmd)
}

// loadConfig reads the configuration or dies; a process without valid
// configuration has nothing useful to do.
func loadConfig() *config.Config {
	cfg, err := config.Load(configPath)
	if err != nil {
		glog.Fatalf("load configuration: %v", err)
	}
	return cfg
}

func baseOptions() pipeline.Options {
	return pipeline.Options{
		Dir:     sourceDir,
		File:    sourceFile,
		DryRun:  dryRun,
		Analyze: withAnalyze,
	}
}

type runFunc func(r *pipeline.Runner, opts pipeline.Options) (*pipeline.Summary, error)

// runPipeline is the shared command body: build the runner, execute, and turn
// an unsuccessful summary into a non-zero exit.
func runPipeline(opts pipeline.Options, run runFunc) error {
	r := pipeline.NewRunner(loadConfig(), slog.Default())

	res, err := run(r, opts)
	if err != nil {
		return err
	}
	if !res.Success() {
		return fmt.Errorf("%s import failed: %s", res.Pipeline, res.FailureMessage())
	}
	return nil
}
