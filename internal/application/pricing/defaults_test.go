package pricing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cotizador-api/internal/application/pricing"
	"github.com/jhoicas/Cotizador-api/internal/domain"
	"github.com/jhoicas/Cotizador-api/internal/domain/catalog"
	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
)

func TestResolveDefaults(t *testing.T) {
	cat := catalog.Default()

	d, err := pricing.ResolveDefaults(cat, "", "", "growth", true)
	require.NoError(t, err)
	assert.Equal(t, entity.CycleMonthly, d.Cycle)
	assert.Equal(t, entity.CurrencySAR, d.Currency)
	assert.Equal(t, "growth", d.Tier.Name)
	assert.True(t, d.ShowContactUs)

	_, err = pricing.ResolveDefaults(cat, "weekly", "sar", "growth", false)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = pricing.ResolveDefaults(cat, "annual", "eur", "growth", false)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = pricing.ResolveDefaults(cat, "annual", "usd", "platinum", false)
	assert.ErrorIs(t, err, domain.ErrUnknownTier)
}
