package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/slhn-import/internal/reproject"
	"github.com/slhn-import/internal/web"
)

func createServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the companion API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			p, closePrefs, err := openPrefs(ctx)
			if err != nil {
				return err
			}
			defer closePrefs()

			cfg := web.ConfigFromSettings(settings)
			server := web.NewServer(cfg, newRegistryClient(), reproject.NewSlovenia(), p, logger.Named("web"))

			logger.Info("companion API configured",
				zap.String("registry", settings.Registry.URL),
				zap.String("prefs", settings.Prefs.Backend),
				zap.Bool("auth", cfg.Auth.APIKey != ""))

			return server.Start(ctx)
		},
	}
}
