package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fleetops/scorecard-etl/internal/pipeline"
)

var scoresFrom string

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Import monthly Netradyne driver scores",
	Long: `Imports one month of driver scores, either from files dropped into the
score directory (CSV or Excel) or directly from the vendor API. Every record
in a run is stamped with the previous month as its report month.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if scoresFrom != "files" && scoresFrom != "api" {
			return fmt.Errorf("invalid --from value %q (want files or api)", scoresFrom)
		}
		opts := baseOptions()
		opts.FromAPI = scoresFrom == "api"
		return runPipeline(opts, func(r *pipeline.Runner, opts pipeline.Options) (*pipeline.Summary, error) {
			return r.RunScores(cmd.Context(), opts)
		})
	},
}

func init() {
	scoresCmd.Flags().StringVar(&scoresFrom, "from", "files", "Score source: files or api")
}
