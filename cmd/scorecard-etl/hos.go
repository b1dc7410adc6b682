package main

import (
	"github.com/spf13/cobra"

	"github.com/fleetops/scorecard-etl/internal/pipeline"
)

var hosCmd = &cobra.Command{
	Use:   "hos",
	Short: "Import hours-of-service violations",
	Long: `Imports HOS violation exports (Excel or JSON) from the violation drop
directory. Records carrying their own ID keep it; spreadsheet rows without
one get a synthesized ID so re-imports dedup cleanly.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipeline(baseOptions(), func(r *pipeline.Runner, opts pipeline.Options) (*pipeline.Summary, error) {
			return r.RunHOS(cmd.Context(), opts)
		})
	},
}
