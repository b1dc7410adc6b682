package main

import (
	"github.com/spf13/cobra"

	"github.com/fleetops/scorecard-etl/internal/pipeline"
)

var inspectionsCmd = &cobra.Command{
	Use:   "inspections",
	Short: "Import FMCSA DOT inspection reports",
	Long: `Imports DOT inspection XML exports from the inspection drop directory.
Each inspection's driver license number is resolved against the dispatch
roster; inspections without a matching driver are counted and withheld.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipeline(baseOptions(), func(r *pipeline.Runner, opts pipeline.Options) (*pipeline.Summary, error) {
			return r.RunInspections(cmd.Context(), opts)
		})
	},
}
