package pricing

import (
	"context"

	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
)

// SessionStore persiste el estado de las sesiones de cotización entre peticiones.
// Get devuelve domain.ErrSessionNotFound si la sesión no existe o expiró.
type SessionStore interface {
	Get(ctx context.Context, id string) (*entity.PricingSession, error)
	Save(ctx context.Context, session *entity.PricingSession) error
	Delete(ctx context.Context, id string) error
}

// Metrics observa los cálculos y operaciones ignoradas. Lo implementa infrastructure/metrics.
type Metrics interface {
	ObserveBreakdown(b entity.PriceBreakdown)
	IgnoredOperation(operation string)
}

type noopMetrics struct{}

func (noopMetrics) ObserveBreakdown(entity.PriceBreakdown) {}
func (noopMetrics) IgnoredOperation(string)                {}
