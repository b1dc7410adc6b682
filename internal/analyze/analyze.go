// Package analyze computes the optional post-build statistics printed by
// --analyze. Everything here works on the in-memory canonical records, so it
// runs in dry-run mode too.
package analyze

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fleetops/scorecard-etl/internal/domain"
)

const topN = 10

// Scores summarizes a score batch.
func Scores(records []domain.DriverScore) string {
	if len(records) == 0 {
		return "no score records\n"
	}
	var sum, min, max int
	min = records[0].Score
	max = records[0].Score
	for _, r := range records {
		sum += r.Score
		if r.Score < min {
			min = r.Score
		}
		if r.Score > max {
			max = r.Score
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "drivers scored: %d\n", len(records))
	fmt.Fprintf(&b, "mean score: %.1f (min %d, max %d)\n",
		float64(sum)/float64(len(records)), min, max)
	return b.String()
}

// HOS summarizes a violation batch: per-driver, per-type and per-terminal
// counts plus the covered date range.
func HOS(records []domain.HOSViolation) string {
	if len(records) == 0 {
		return "no violation records\n"
	}

	drivers := map[string]int{}
	types := map[string]int{}
	terminals := map[string]int{}
	earliest := records[0].ViolationStartTime
	latest := records[0].ViolationStartTime

	for _, r := range records {
		label := r.DriverName
		if label == "" {
			label = r.DriverID
		} else {
			label = fmt.Sprintf("%s (%s)", r.DriverName, r.DriverID)
		}
		drivers[label]++
		types[r.ViolationType]++
		terminals[r.Terminal]++
		if r.ViolationStartTime.Before(earliest) {
			earliest = r.ViolationStartTime
		}
		if r.ViolationStartTime.After(latest) {
			latest = r.ViolationStartTime
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "total violations: %d across %d drivers\n", len(records), len(drivers))
	fmt.Fprintf(&b, "date range: %s to %s\n",
		earliest.Format(time.DateOnly), latest.Format(time.DateOnly))
	writeRanked(&b, "top drivers", drivers)
	writeRanked(&b, "violation types", types)
	writeRanked(&b, "top terminals", terminals)
	return b.String()
}

// Maintenance summarizes a maintenance batch: overdue counts and breakdowns
// by status, priority and type.
func Maintenance(records []domain.MaintenanceRecord, today time.Time) string {
	if len(records) == 0 {
		return "no maintenance records\n"
	}

	statuses := map[string]int{}
	priorities := map[string]int{}
	types := map[string]int{}
	overdue := 0

	for _, r := range records {
		statuses[r.Status]++
		priorities[r.Priority]++
		types[r.MaintenanceType]++
		if due, err := time.Parse(time.DateOnly, r.DueDate); err == nil && due.Before(today) {
			overdue++
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "total maintenance items: %d, overdue: %d\n", len(records), overdue)
	writeRanked(&b, "by status", statuses)
	writeRanked(&b, "by priority", priorities)
	writeRanked(&b, "by type", types)
	return b.String()
}

// Inspections summarizes an inspection batch by violation presence.
func Inspections(records []domain.DOTInspection) string {
	if len(records) == 0 {
		return "no inspection records\n"
	}
	clean := 0
	for _, r := range records {
		if r.Violations == "" {
			clean++
		}
	}
	var b strings.Builder
	fmt.Fprintf(&b, "total inspections: %d\n", len(records))
	fmt.Fprintf(&b, "with violations: %d, clean: %d\n", len(records)-clean, clean)
	return b.String()
}

func writeRanked(b *strings.Builder, title string, counts map[string]int) {
	type entry struct {
		name  string
		count int
	}
	entries := make([]entry, 0, len(counts))
	for name, count := range counts {
		if name == "" {
			name = "(unspecified)"
		}
		entries = append(entries, entry{name, count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].name < entries[j].name
	})
	if len(entries) > topN {
		entries = entries[:topN]
	}

	fmt.Fprintf(b, "%s:\n", title)
	for _, e := range entries {
		fmt.Fprintf(b, "  %-40s %d\n", e.name, e.count)
	}
}
