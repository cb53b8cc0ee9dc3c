package main

import (
	"github.com/spf13/cobra"

	"github.com/slhn-import/internal/conflation"
	"github.com/slhn-import/internal/host"
	"github.com/slhn-import/internal/prefs"
	"github.com/slhn-import/internal/render"
	"github.com/slhn-import/internal/reproject"
	"github.com/slhn-import/internal/session"
)

type conflateReport struct {
	Status            string                    `json:"status" yaml:"status"`
	CurrentStreet     string                    `json:"currentStreet,omitempty" yaml:"currentStreet,omitempty"`
	CurrentStreetName string                    `json:"currentStreetName,omitempty" yaml:"currentStreetName,omitempty"`
	Summary           conflation.Summary        `json:"summary" yaml:"summary"`
	Streets           conflation.MismatchReport `json:"streets" yaml:"streets"`
}

func createConflateCmd() *cobra.Command {
	var hostFile string
	var radius float64
	var legacy bool

	cmd := &cobra.Command{
		Use:   "conflate",
		Short: "Load registry addresses for a host snapshot and classify them",
		Long:  `Run a full load against a host snapshot file and print the per-street breakdown, the current street and any street name suggestion`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			snap, err := host.LoadSnapshot(hostFile)
			if err != nil {
				return err
			}

			// read the stored buffer, but keep this run's layer toggles out of
			// the user's preferences
			stored, closePrefs, err := openPrefs(ctx)
			if err != nil {
				return err
			}
			buffer := stored.Buffer(ctx)
			closePrefs()

			runPrefs := prefs.New(prefs.NewMemoryStore())
			if err := runPrefs.SetBuffer(ctx, buffer); err != nil {
				return err
			}

			cfg := session.Config{
				ConflictRadius: settings.Engine.ConflictRadius,
				ClickRadiusPx:  settings.Engine.ClickRadiusPx,
				MinVisibleZoom: settings.Engine.MinVisibleZoom,
				Palette:        render.DefaultPalette,
			}
			if legacy {
				cfg.ConflictRadius = conflation.LegacyConflictRadius
				cfg.Palette = render.LegacyPalette
			}
			if cmd.Flags().Changed("radius") {
				cfg.ConflictRadius = radius
			}

			tool := session.NewTool(snap, newRegistryClient(), reproject.NewSlovenia(), runPrefs, nil, cfg, logger)
			if err := tool.Load(ctx); err != nil {
				return err
			}

			view := tool.View()
			return printOutput(cmd.OutOrStdout(), conflateReport{
				Status:            view.Status,
				CurrentStreet:     view.CurrentStreet,
				CurrentStreetName: view.CurrentStreetName,
				Summary:           view.Summary,
				Streets:           tool.Streets(),
			})
		},
	}

	cmd.Flags().StringVar(&hostFile, "host", "", "host snapshot file (.yaml or .json)")
	cmd.Flags().Float64Var(&radius, "radius", conflation.DefaultConflictRadius, "conflict radius in working projection units")
	cmd.Flags().BoolVar(&legacy, "legacy", false, "use the display-only tool's radius and palette")
	cmd.MarkFlagRequired("host")

	return cmd
}
