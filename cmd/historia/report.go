package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/fatih/color"

	"github.com/ersonp/historia/internal/domain/entities"
	"github.com/ersonp/historia/internal/ingest"
)

// runIngestor runs one ingestion and prints its report. The report is
// printed even when the run fails partway so partial progress is visible.
func runIngestor(ctx context.Context, ing ingest.Ingestor) error {
	report, err := ing.Ingest(ctx, ingest.Options{Limit: globalLimit})
	printReport(report)
	if err != nil {
		return fmt.Errorf("ingesting %s: %w", ing.SourceName(), err)
	}
	return nil
}

// printReport renders a run report: source header, then non-zero counters
// in stable order. Errors print red so they stand out in a long run.
func printReport(r *entities.RunReport) {
	if r == nil {
		return
	}

	color.New(color.FgCyan, color.Bold).Printf("\n%s\n", r.Source)

	names := make([]string, 0, len(r.Counts))
	for name := range r.Counts {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		count := r.Counts[name]
		if count == 0 {
			continue
		}
		switch name {
		case entities.CounterErrors:
			color.Red("  %-30s %d\n", name, count)
		case entities.CounterConnectionsSkippedError:
			color.Yellow("  %-30s %d\n", name, count)
		default:
			fmt.Printf("  %-30s %d\n", name, count)
		}
	}
	if allZero(r.Counts) {
		fmt.Println("  nothing to do")
	}
}

func allZero(counts map[string]int) bool {
	for _, count := range counts {
		if count != 0 {
			return false
		}
	}
	return true
}
