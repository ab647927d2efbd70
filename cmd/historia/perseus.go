package main

import (
	"github.com/spf13/cobra"

	"github.com/ersonp/historia/internal/ingest"
)

func newPerseusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "perseus",
		Short: "Ingest classical authors and works from Perseus",
		Long:  "Walks a local clone of the canonical-greekLit repository and catalogs ancient authors as actors and their works as primary sources.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				tx := ingest.NewTexts(d.Store, d.Logger, d.Config.SourceDataDir("perseus"))
				return runIngestor(cmd.Context(), tx)
			})
		},
	}
}
