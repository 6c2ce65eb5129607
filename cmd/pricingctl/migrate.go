package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/Cotizador-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Cotizador-api/pkg/config"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones embebidas sobre DATABASE_URL / DB_*",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if !cfg.DB.Enabled() {
				return fmt.Errorf("base de datos no configurada")
			}
			version, err := postgres.RunMigrations(cfg.DB)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migraciones aplicadas, versión %d\n", version)
			return nil
		},
	}
}
