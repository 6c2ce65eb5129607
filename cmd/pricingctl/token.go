package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/Cotizador-api/pkg/config"
	"github.com/jhoicas/Cotizador-api/pkg/jwt"
)

func newTokenCmd() *cobra.Command {
	var userID, companyID, role string
	var expMinutes int
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Emite un JWT de desarrollo firmado con JWT_SECRET",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			switch role {
			case jwt.RoleAdmin, jwt.RoleSales, jwt.RoleViewer:
			default:
				return fmt.Errorf("rol desconocido %q", role)
			}
			if expMinutes <= 0 {
				expMinutes = cfg.JWT.Expiration
			}
			tok, err := jwt.Generate(cfg.JWT.Secret, userID, companyID, role, cfg.JWT.Issuer, expMinutes)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&userID, "user", "", "user_id del token")
	f.StringVar(&companyID, "company", "", "company_id del token")
	f.StringVar(&role, "role", jwt.RoleSales, "admin | ventas | lector")
	f.IntVar(&expMinutes, "exp", 0, "minutos de validez (por defecto JWT_EXPIRATION)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("company")
	return cmd
}
