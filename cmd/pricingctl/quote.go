package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/jhoicas/Cotizador-api/internal/application/dto"
	"github.com/jhoicas/Cotizador-api/internal/application/pricing"
	"github.com/jhoicas/Cotizador-api/internal/application/quote"
	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
	"github.com/jhoicas/Cotizador-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/Cotizador-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Cotizador-api/internal/infrastructure/xmlquote"
	"github.com/jhoicas/Cotizador-api/pkg/money"
)

type quoteOptions struct {
	catalogPath string
	tier        string
	format      string
	output      string
	issuer      string
	taxRate     string
	verbose     bool
}

func newQuoteCmd() *cobra.Command {
	opts := quoteOptions{}
	cmd := &cobra.Command{
		Use:   "quote <snapshot.json|->",
		Short: "Calcula el desglose de un snapshot guardado",
		Example: `  pricingctl quote propuesta.json
  pricingctl quote propuesta.json --format xml -o propuesta.xml
  cat propuesta.json | pricingctl quote - --catalog catalogo.yaml --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuote(cmd, args[0], opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.catalogPath, "catalog", "", "catálogo YAML/JSON (por defecto el integrado)")
	f.StringVar(&opts.tier, "tier", "starter", "plan inicial si el snapshot no trae uno válido")
	f.StringVar(&opts.format, "format", "text", "text | json | xml | pdf")
	f.StringVarP(&opts.output, "output", "o", "", "archivo de salida (por defecto stdout)")
	f.StringVar(&opts.issuer, "issuer", "Cotizador", "emisor impreso en XML/PDF")
	f.StringVar(&opts.taxRate, "tax-rate", "15", "impuesto para XML/PDF (fracción o porcentaje)")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "muestra correcciones al restaurar")
	return cmd
}

func runQuote(cmd *cobra.Command, src string, opts quoteOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	snap, err := readSnapshot(cmd.InOrStdin(), src)
	if err != nil {
		return err
	}
	cat, err := loadCatalog(ctx, opts.catalogPath)
	if err != nil {
		return err
	}
	defaults, err := pricing.ResolveDefaults(cat, "", "", opts.tier, false)
	if err != nil {
		return err
	}
	tax, err := decimal.NewFromString(opts.taxRate)
	if err != nil {
		return fmt.Errorf("--tax-rate inválido: %w", err)
	}

	sessions, err := pricing.NewSessionService(pricing.SessionServiceDeps{
		Catalog:  cat,
		Store:    memory.NewSessionStore(time.Hour),
		Defaults: defaults,
		Logger:   cliLogger(cmd, opts.verbose),
	})
	if err != nil {
		return err
	}
	view, err := sessions.CreateFromSnapshot(ctx, snap)
	if err != nil {
		return err
	}
	if view.Restore != nil && !view.Restore.Clean() {
		fmt.Fprintf(cmd.ErrOrStderr(), "aviso: snapshot corregido (descartados: %s)\n",
			strings.Join(append(view.Restore.DroppedModules, view.Restore.DroppedIntegrations...), ", "))
	}

	out := cmd.OutOrStdout()
	if opts.output != "" {
		file, err := os.Create(opts.output)
		if err != nil {
			return err
		}
		defer file.Close()
		out = file
	}

	uc := quote.NewUseCase(sessions, infrapdf.NewMarotoPDFGenerator(), xmlquote.NewRenderer(), opts.issuer, tax)
	switch opts.format {
	case "text":
		return printBreakdown(out, view.Breakdown)
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(dto.NewBreakdownResponse(view.Breakdown))
	case "xml":
		raw, fingerprint, err := uc.SessionXML(ctx, view.ID)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "huella sha3-384: %s\n", fingerprint)
		_, err = out.Write(raw)
		return err
	case "pdf":
		raw, _, err := uc.SessionPDF(ctx, view.ID)
		if err != nil {
			return err
		}
		_, err = out.Write(raw)
		return err
	default:
		return fmt.Errorf("formato desconocido %q (text, json, xml, pdf)", opts.format)
	}
}

func readSnapshot(stdin io.Reader, src string) (entity.Snapshot, error) {
	var r io.Reader = stdin
	if src != "-" {
		f, err := os.Open(src)
		if err != nil {
			return entity.Snapshot{}, err
		}
		defer f.Close()
		r = f
	}
	var snap entity.Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return entity.Snapshot{}, fmt.Errorf("snapshot inválido: %w", err)
	}
	return snap, nil
}

// contactUsText reemplaza montos que no deben mostrarse.
const contactUsText = "Contáctenos"

func printBreakdown(w io.Writer, b entity.PriceBreakdown) error {
	cur := string(b.Currency)
	hideAll := b.ShowContactUs
	// los totales incluyen el precio de módulos en "contáctenos"
	hideTotals := hideAll || b.HasContactUsModule()
	show := func(s string, hide bool) string {
		if hide {
			return contactUsText
		}
		return s
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Plan %s\tciclo %s\tmoneda %s\n", b.TierName, b.Cycle, money.Code(cur))
	for _, d := range b.Departments {
		gated := false
		for _, m := range d.Modules {
			gated = gated || m.ContactUs
		}
		fmt.Fprintf(tw, "%s\t\t%s\n", d.Name, show(money.Line(d.Subtotal, cur), hideAll || gated))
		for _, m := range d.Modules {
			hide := hideAll || m.ContactUs
			fmt.Fprintf(tw, "  %s\t%d %s\t%s\n", m.Name, m.Quantity, m.Unit, show(money.Line(m.Total, cur), hide))
			for _, in := range m.Integrations {
				fmt.Fprintf(tw, "    + %s\t%s\t%s\n", in.Name, in.PricingType, show(money.Line(in.Amount, cur), hide))
			}
		}
	}
	fmt.Fprintf(tw, "Base del plan\t\t%s\n", show(money.Line(b.TierBasePrice, cur), hideAll))
	fmt.Fprintf(tw, "Descuento\t%s\t%s\n", b.DiscountRate.Mul(decimal.NewFromInt(100)).String()+"%",
		show("-"+money.Line(b.DiscountAmount, cur), hideTotals))
	fmt.Fprintf(tw, "Total\t\t%s\n", show(money.Total(b.Total, cur), hideTotals))
	return tw.Flush()
}
