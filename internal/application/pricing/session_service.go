package pricing

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Cotizador-api/internal/domain"
	"github.com/jhoicas/Cotizador-api/internal/domain/catalog"
	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
)

// SessionView resultado de una operación sobre una sesión.
type SessionView struct {
	ID            string
	Snapshot      entity.Snapshot
	Breakdown     entity.PriceBreakdown
	ShowContactUs bool
	Changed       bool
	Restore       *RestoreReport
}

// SessionService materializa un Controller por petición a partir del SessionStore.
// Cada sesión es independiente; las peticiones a la misma sesión se serializan en el proceso.
type SessionService struct {
	catalog  *catalog.Catalog
	store    SessionStore
	defaults Defaults
	metrics  Metrics
	log      zerolog.Logger
	now      func() time.Time

	locksMu sync.Mutex
	locks   map[string]*sessionLock
}

// sessionLock mutex por sesión; refs cuenta las peticiones que lo usan o esperan.
type sessionLock struct {
	mu   sync.Mutex
	refs int
}

// SessionServiceDeps dependencias del servicio.
type SessionServiceDeps struct {
	Catalog  *catalog.Catalog
	Store    SessionStore
	Defaults Defaults
	Metrics  Metrics
	Logger   zerolog.Logger
	Now      func() time.Time
}

// NewSessionService construye el servicio.
func NewSessionService(deps SessionServiceDeps) (*SessionService, error) {
	if deps.Catalog == nil || deps.Store == nil {
		return nil, fmt.Errorf("pricing: catálogo y store son obligatorios")
	}
	metrics := deps.Metrics
	if metrics == nil {
		metrics = noopMetrics{}
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &SessionService{
		catalog:  deps.Catalog,
		store:    deps.Store,
		defaults: deps.Defaults,
		metrics:  metrics,
		log:      deps.Logger,
		now:      func() time.Time { return now().UTC() },
		locks:    make(map[string]*sessionLock),
	}, nil
}

// Catalog catálogo vigente.
func (s *SessionService) Catalog() *catalog.Catalog { return s.catalog }

// Create abre una sesión vacía con los valores por defecto.
func (s *SessionService) Create(ctx context.Context) (*SessionView, error) {
	ctrl := s.newController()
	sess := &entity.PricingSession{ID: uuid.New().String()}
	return s.persist(ctx, sess, ctrl, true, nil)
}

// CreateFromSnapshot abre una sesión nueva restaurando un snapshot.
func (s *SessionService) CreateFromSnapshot(ctx context.Context, snap entity.Snapshot) (*SessionView, error) {
	ctrl := s.newController()
	report := ctrl.Restore(snap)
	sess := &entity.PricingSession{ID: uuid.New().String()}
	return s.persist(ctx, sess, ctrl, true, &report)
}

// Get devuelve el desglose actual de la sesión.
func (s *SessionService) Get(ctx context.Context, id string) (*SessionView, error) {
	sess, ctrl, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(sess, ctrl, false, nil), nil
}

// Delete elimina la sesión.
func (s *SessionService) Delete(ctx context.Context, id string) error {
	unlock := s.lock(id)
	defer unlock()
	return s.store.Delete(ctx, id)
}

// ToggleModule ver Controller.ToggleModule.
func (s *SessionService) ToggleModule(ctx context.Context, id, moduleID, departmentID string) (*SessionView, error) {
	return s.apply(ctx, id, "toggle_module", func(c *Controller) bool {
		return c.ToggleModule(moduleID, departmentID)
	})
}

// SetQuantity ver Controller.SetQuantity.
func (s *SessionService) SetQuantity(ctx context.Context, id, moduleID string, quantity int) (*SessionView, error) {
	return s.apply(ctx, id, "set_quantity", func(c *Controller) bool {
		return c.SetQuantity(moduleID, quantity)
	})
}

// ToggleIntegration ver Controller.ToggleIntegration.
func (s *SessionService) ToggleIntegration(ctx context.Context, id, departmentID, moduleID, integrationID string) (*SessionView, error) {
	return s.apply(ctx, id, "toggle_integration", func(c *Controller) bool {
		return c.ToggleIntegration(departmentID, moduleID, integrationID)
	})
}

// SetCycle ver Controller.SetCycle.
func (s *SessionService) SetCycle(ctx context.Context, id string, cycle entity.Cycle) (*SessionView, error) {
	return s.apply(ctx, id, "set_cycle", func(c *Controller) bool {
		return c.SetCycle(cycle)
	})
}

// SetCurrency ver Controller.SetCurrency.
func (s *SessionService) SetCurrency(ctx context.Context, id string, currency entity.Currency) (*SessionView, error) {
	return s.apply(ctx, id, "set_currency", func(c *Controller) bool {
		return c.SetCurrency(currency)
	})
}

// SetTier asigna el plan por nombre.
func (s *SessionService) SetTier(ctx context.Context, id, tierName string) (*SessionView, error) {
	return s.apply(ctx, id, "set_tier", func(c *Controller) bool {
		return c.SetTierByName(tierName)
	})
}

// SetShowContactUs fija la bandera global de la sesión.
func (s *SessionService) SetShowContactUs(ctx context.Context, id string, show bool) (*SessionView, error) {
	return s.apply(ctx, id, "set_show_contact_us", func(c *Controller) bool {
		changed := c.ShowContactUs() != show
		c.SetShowContactUs(show)
		return changed
	})
}

// Reset vacía las selecciones de la sesión.
func (s *SessionService) Reset(ctx context.Context, id string) (*SessionView, error) {
	return s.apply(ctx, id, "reset", func(c *Controller) bool {
		changed := !c.state.IsEmpty()
		c.Reset()
		return changed
	})
}

// Restore reemplaza el estado de la sesión con un snapshot revalidado.
func (s *SessionService) Restore(ctx context.Context, id string, snap entity.Snapshot) (*SessionView, error) {
	unlock := s.lock(id)
	defer unlock()

	sess, ctrl, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	report := ctrl.Restore(snap)
	return s.persist(ctx, sess, ctrl, true, &report)
}

func (s *SessionService) apply(ctx context.Context, id, op string, fn func(*Controller) bool) (*SessionView, error) {
	unlock := s.lock(id)
	defer unlock()

	sess, ctrl, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	changed := fn(ctrl)
	if !changed {
		s.metrics.IgnoredOperation(op)
		return s.view(sess, ctrl, false, nil), nil
	}
	return s.persist(ctx, sess, ctrl, true, nil)
}

func (s *SessionService) newController() *Controller {
	return NewController(s.catalog, s.defaults, s.log)
}

func (s *SessionService) load(ctx context.Context, id string) (*entity.PricingSession, *Controller, error) {
	if id == "" {
		return nil, nil, domain.ErrInvalidInput
	}
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	ctrl := s.newController()
	ctrl.Restore(sess.Snapshot)
	ctrl.SetShowContactUs(sess.ShowContactUs)
	return sess, ctrl, nil
}

func (s *SessionService) persist(ctx context.Context, sess *entity.PricingSession, ctrl *Controller, changed bool, report *RestoreReport) (*SessionView, error) {
	sess.Snapshot = ctrl.Snapshot()
	sess.ShowContactUs = ctrl.ShowContactUs()
	sess.UpdatedAt = s.now()
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("guardar sesión %s: %w", sess.ID, err)
	}
	return s.view(sess, ctrl, changed, report), nil
}

func (s *SessionService) view(sess *entity.PricingSession, ctrl *Controller, changed bool, report *RestoreReport) *SessionView {
	b := ctrl.Breakdown()
	s.metrics.ObserveBreakdown(b)
	return &SessionView{
		ID:            sess.ID,
		Snapshot:      ctrl.Snapshot(),
		Breakdown:     b,
		ShowContactUs: ctrl.ShowContactUs(),
		Changed:       changed,
		Restore:       report,
	}
}

// lock serializa las peticiones a una sesión. La entrada se libera con la última
// petición, así ids desconocidos o expirados no quedan en la tabla.
func (s *SessionService) lock(id string) func() {
	// el id puede apuntar al buffer de la petición HTTP, que se reutiliza
	id = strings.Clone(id)

	s.locksMu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &sessionLock{}
		s.locks[id] = l
	}
	l.refs++
	s.locksMu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.locksMu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, id)
		}
		s.locksMu.Unlock()
	}
}

func (s *SessionService) lockCount() int {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	return len(s.locks)
}

// Breakdown desglose actual de la sesión (lo consume el caso de uso de cotizaciones).
func (s *SessionService) Breakdown(ctx context.Context, id string) (entity.PriceBreakdown, error) {
	v, err := s.Get(ctx, id)
	if err != nil {
		return entity.PriceBreakdown{}, err
	}
	return v.Breakdown, nil
}
