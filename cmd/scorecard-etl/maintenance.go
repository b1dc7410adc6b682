package main

import (
	"github.com/spf13/cobra"

	"github.com/fleetops/scorecard-etl/internal/pipeline"
)

var maintenanceCmd = &cobra.Command{
	Use:   "maintenance",
	Short: "Import programmed maintenance schedules",
	Long: `Imports programmed-maintenance Excel exports from the maintenance drop
directory. Every record is stamped with the run date as its process date; the
target table is created on first use.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipeline(baseOptions(), func(r *pipeline.Runner, opts pipeline.Options) (*pipeline.Summary, error) {
			return r.RunMaintenance(cmd.Context(), opts)
		})
	},
}
