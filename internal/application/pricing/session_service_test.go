package pricing_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cotizador-api/internal/application/pricing"
	"github.com/jhoicas/Cotizador-api/internal/domain"
	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
	"github.com/jhoicas/Cotizador-api/internal/infrastructure/memory"
)

type recordingMetrics struct {
	mu       sync.Mutex
	observed int
	ignored  []string
}

func (m *recordingMetrics) ObserveBreakdown(entity.PriceBreakdown) {
	m.mu.Lock()
	m.observed++
	m.mu.Unlock()
}

func (m *recordingMetrics) IgnoredOperation(op string) {
	m.mu.Lock()
	m.ignored = append(m.ignored, op)
	m.mu.Unlock()
}

func newService(t *testing.T) (*pricing.SessionService, *recordingMetrics) {
	t.Helper()
	cat := infraCatalog(t)
	free, _ := cat.GetTier("free")
	metrics := &recordingMetrics{}
	svc, err := pricing.NewSessionService(pricing.SessionServiceDeps{
		Catalog:  cat,
		Store:    memory.NewSessionStore(time.Hour),
		Defaults: pricing.Defaults{Cycle: entity.CycleMonthly, Currency: entity.CurrencySAR, Tier: free},
		Metrics:  metrics,
		Logger:   zerolog.Nop(),
		Now:      func() time.Time { return time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC) },
	})
	require.NoError(t, err)
	return svc, metrics
}

func TestNewSessionService_RequiereCatalogoYStore(t *testing.T) {
	_, err := pricing.NewSessionService(pricing.SessionServiceDeps{})
	assert.Error(t, err)
}

func TestSessionService_EscenarioPersistido(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	view, err := svc.Create(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, view.ID)
	assert.True(t, view.Breakdown.Total.IsZero())

	view, err = svc.ToggleModule(ctx, view.ID, "M1", "infra")
	require.NoError(t, err)
	assert.True(t, view.Changed)
	assert.True(t, d("10").Equal(view.Breakdown.Total))

	_, err = svc.ToggleIntegration(ctx, view.ID, "infra", "M1", "I1")
	require.NoError(t, err)
	view, err = svc.SetQuantity(ctx, view.ID, "M1", 5)
	require.NoError(t, err)
	assert.True(t, d("55").Equal(view.Breakdown.Total))

	got, err := svc.Get(ctx, view.ID)
	require.NoError(t, err)
	assert.True(t, d("55").Equal(got.Breakdown.Total))
	assert.False(t, got.Changed)

	view, err = svc.Reset(ctx, view.ID)
	require.NoError(t, err)
	assert.True(t, view.Breakdown.Total.IsZero())
}

func TestSessionService_OperacionIgnoradaNoPersiste(t *testing.T) {
	ctx := context.Background()
	svc, metrics := newService(t)
	view, err := svc.Create(ctx)
	require.NoError(t, err)

	view, err = svc.ToggleModule(ctx, view.ID, "M1", "people")
	require.NoError(t, err)
	assert.False(t, view.Changed)

	_, err = svc.SetCycle(ctx, view.ID, "weekly")
	require.NoError(t, err)

	assert.Equal(t, []string{"toggle_module", "set_cycle"}, metrics.ignored)
}

func TestSessionService_SesionInexistente(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	_, err := svc.Get(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	_, err = svc.ToggleModule(ctx, "no-existe", "M1", "infra")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	_, err = svc.Get(ctx, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSessionService_BanderaGlobalPersiste(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	view, _ := svc.Create(ctx)

	view, err := svc.SetShowContactUs(ctx, view.ID, true)
	require.NoError(t, err)
	assert.True(t, view.Changed)

	got, err := svc.Get(ctx, view.ID)
	require.NoError(t, err)
	assert.True(t, got.ShowContactUs)
	assert.True(t, got.Breakdown.ShowContactUs)
}

func TestSessionService_CreateFromSnapshotYDelete(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	view, err := svc.CreateFromSnapshot(ctx, entity.Snapshot{
		Cycle:    entity.CycleAnnual,
		TierName: "pro",
		Selections: []entity.SnapshotSelection{
			{DepartmentID: "infra", ModuleID: "M1", Quantity: 2},
			{DepartmentID: "infra", ModuleID: "borrado", Quantity: 1},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, view.Restore)
	assert.Equal(t, []string{"borrado"}, view.Restore.DroppedModules)
	// (100 + 99*2) - 10% = 268.2 -> 268
	assert.True(t, d("268").Equal(view.Breakdown.Total))

	require.NoError(t, svc.Delete(ctx, view.ID))
	_, err = svc.Get(ctx, view.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSessionService_PeticionesConcurrentesSeSerializan(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	view, _ := svc.Create(ctx)
	_, err := svc.ToggleModule(ctx, view.ID, "seats", "people")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.ToggleIntegration(ctx, view.ID, "people", "seats", "sso")
		}()
	}
	wg.Wait()

	got, err := svc.Get(ctx, view.ID)
	require.NoError(t, err)
	require.Len(t, got.Snapshot.Selections, 1)
	// número par de toggles: la integración queda desactivada
	assert.Empty(t, got.Snapshot.Selections[0].IntegrationIDs)
}

func TestSessionService_LocksSeLiberanTrasCadaPeticion(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	for i := 0; i < 500; i++ {
		_, err := svc.Reset(ctx, fmt.Sprintf("desconocida-%d", i))
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	}
	assert.Equal(t, 0, svc.LockCount())

	view, err := svc.Create(ctx)
	require.NoError(t, err)
	_, err = svc.ToggleModule(ctx, view.ID, "M1", "infra")
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, view.ID))
	assert.Equal(t, 0, svc.LockCount())
}

func TestSessionService_LocksConcurrentesSeLiberan(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	view, err := svc.Create(ctx)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.ToggleModule(ctx, view.ID, "M1", "infra")
		}()
	}
	wg.Wait()
	assert.Equal(t, 0, svc.LockCount())
}
