package main

import (
	"github.com/spf13/cobra"

	"github.com/ersonp/historia/internal/ingest"
)

func newArchiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "archive",
		Short: "Catalog digitized books from the Internet Archive",
		Long:  "Runs a curated set of catalog searches for classical texts and reference series, recording each digitized volume as a source.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				catalog, err := d.catalogClient()
				if err != nil {
					return err
				}
				b := ingest.NewBooks(d.Store, catalog, d.Logger)
				return runIngestor(cmd.Context(), b)
			})
		},
	}
}
