// Command pricingctl herramientas de línea de comandos del cotizador:
// cotizar un snapshot, validar catálogos, emitir tokens de desarrollo y aplicar migraciones.
package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "pricingctl",
		Short:         "Herramientas del cotizador",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newQuoteCmd(), newCatalogCmd(), newTokenCmd(), newMigrateCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// cliLogger logs a stderr solo en modo verbose.
func cliLogger(cmd *cobra.Command, verbose bool) zerolog.Logger {
	if !verbose {
		return zerolog.Nop()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), NoColor: true}).With().Timestamp().Logger()
}
