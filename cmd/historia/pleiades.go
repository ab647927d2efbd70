package main

import (
	"github.com/spf13/cobra"

	"github.com/ersonp/historia/internal/ingest"
)

func newPleiadesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pleiades",
		Short: "Ingest the Pleiades gazetteer of ancient places",
		Long:  "Reads the Pleiades places dump and catalogs locations with coordinates, historical names, and place-type taxonomy.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				g := ingest.NewGazetteer(d.Store, d.Logger, d.Config.SourceDataDir("pleiades"))
				return runIngestor(cmd.Context(), g)
			})
		},
	}
}
