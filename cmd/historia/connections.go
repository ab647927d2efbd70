package main

import (
	"github.com/spf13/cobra"

	"github.com/ersonp/historia/internal/ingest"
)

func newConnectionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "connections",
		Short: "Link gazetteer places by their attested connections",
		Long:  "Second pass over the Pleiades dump: resolves place-to-place edges against already-ingested locations. Run after 'pleiades'.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				c := ingest.NewConnections(d.Store, d.Logger, d.Config.SourceDataDir("pleiades"))
				return runIngestor(cmd.Context(), c)
			})
		},
	}
}
