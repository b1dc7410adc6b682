package main

import (
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fleetops/scorecard-etl/internal/domain"
	"github.com/fleetops/scorecard-etl/internal/ledger"
	"github.com/fleetops/scorecard-etl/internal/warehouse"
)

var jobNames = map[int]string{
	domain.JobDriverScores:   "scores",
	domain.JobHOSViolations:  "hos",
	domain.JobMaintenance:    "maintenance",
	domain.JobDOTInspections: "inspections",
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the last recorded outcome of each pipeline",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()

		db, release, err := warehouse.Open(cfg.Warehouse)
		if err != nil {
			return err
		}
		defer release()

		rows, err := ledger.NewLedger(db, nil, slog.Default()).List()
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			fmt.Println("no pipeline runs recorded")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "JOB\tPIPELINE\tRESULT\tLAST EXECUTION\tCOMMENT")
		for _, row := range rows {
			name := jobNames[row.JobID]
			result := "ok"
			if !row.Result {
				result = "FAILED"
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
				row.JobID, name, result,
				row.LastExecution.Format("2006-01-02 15:04:05"), row.Comment)
		}
		return w.Flush()
	},
}
