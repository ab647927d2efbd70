package main

import (
	"github.com/spf13/cobra"

	"github.com/ersonp/historia/internal/ingest"
)

func newEclipsesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "eclipses",
		Short: "Ingest astronomically dated solar eclipses",
		Long:  "Records historically attested eclipses as verified factoids with exact placements, from a local NASA GSFC catalog export or the built-in curated list.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				e := ingest.NewEclipse(d.Store, d.Logger, d.Config.SourceDataDir("eclipses"))
				return runIngestor(cmd.Context(), e)
			})
		},
	}
}
