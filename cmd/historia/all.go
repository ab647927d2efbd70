package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/ersonp/historia/internal/ingest"
)

func newAllCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "Run every ingestion source in order",
		Long:  "Runs pleiades, eclipses, perseus, and archive, then resolves connections last so both edge endpoints exist. A failing source does not stop the others.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				catalog, err := d.catalogClient()
				if err != nil {
					return err
				}

				// Connections run last: they resolve against locations the
				// gazetteer pass creates.
				ingestors := []ingest.Ingestor{
					ingest.NewGazetteer(d.Store, d.Logger, d.Config.SourceDataDir("pleiades")),
					ingest.NewEclipse(d.Store, d.Logger, d.Config.SourceDataDir("eclipses")),
					ingest.NewTexts(d.Store, d.Logger, d.Config.SourceDataDir("perseus")),
					ingest.NewBooks(d.Store, catalog, d.Logger),
					ingest.NewConnections(d.Store, d.Logger, d.Config.SourceDataDir("pleiades")),
				}

				var errs []error
				for _, ing := range ingestors {
					if err := cmd.Context().Err(); err != nil {
						return err
					}
					if err := runIngestor(cmd.Context(), ing); err != nil {
						d.Logger.Error("source failed", "source", ing.SourceName(), "error", err)
						errs = append(errs, err)
					}
				}
				return errors.Join(errs...)
			})
		},
	}
}
