package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/Cotizador-api/internal/domain/catalog"
	"github.com/jhoicas/Cotizador-api/internal/infrastructure/catalogfile"
)

// loadCatalog catálogo por defecto o desde archivo YAML/JSON.
func loadCatalog(ctx context.Context, path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	return catalogfile.NewLoader(path).LoadCatalog(ctx)
}

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Comandos sobre catálogos de precios",
	}
	check := &cobra.Command{
		Use:   "check <archivo>",
		Short: "Valida un catálogo YAML/JSON y muestra su resumen",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := loadCatalog(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			modules := 0
			for _, d := range cat.Departments() {
				ms := cat.ModulesByDepartment(d.ID)
				modules += len(ms)
				fmt.Fprintf(out, "%-12s %-28s %d módulos\n", d.ID, d.Name, len(ms))
			}
			fmt.Fprintf(out, "catálogo válido: %d departamentos, %d módulos, %d planes\n",
				len(cat.Departments()), modules, len(cat.GetTiers()))
			return nil
		},
	}
	cmd.AddCommand(check)
	return cmd
}
