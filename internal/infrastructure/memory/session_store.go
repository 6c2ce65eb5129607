// Package memory implementa el SessionStore en memoria para desarrollo y tests.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/Cotizador-api/internal/domain"
	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
)

type entry struct {
	raw       []byte
	expiresAt time.Time
}

// SessionStore guarda las sesiones serializadas, así cada Get devuelve una copia independiente.
type SessionStore struct {
	mu   sync.RWMutex
	data map[string]entry
	ttl  time.Duration
	now  func() time.Time
}

// NewSessionStore crea el store; ttl <= 0 desactiva la expiración.
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{data: make(map[string]entry), ttl: ttl, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (s *SessionStore) WithClock(now func() time.Time) *SessionStore {
	s.now = now
	return s
}

// Get devuelve domain.ErrSessionNotFound si la sesión no existe o expiró.
func (s *SessionStore) Get(_ context.Context, id string) (*entity.PricingSession, error) {
	s.mu.RLock()
	e, ok := s.data[id]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	if !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt) {
		s.mu.Lock()
		delete(s.data, id)
		s.mu.Unlock()
		return nil, domain.ErrSessionNotFound
	}
	var sess entity.PricingSession
	if err := json.Unmarshal(e.raw, &sess); err != nil {
		return nil, fmt.Errorf("decodificar sesión %s: %w", id, err)
	}
	return &sess, nil
}

// Save guarda la sesión y renueva su expiración.
func (s *SessionStore) Save(_ context.Context, session *entity.PricingSession) error {
	if session == nil || session.ID == "" {
		return domain.ErrInvalidInput
	}
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("codificar sesión: %w", err)
	}
	e := entry{raw: raw}
	if s.ttl > 0 {
		e.expiresAt = s.now().Add(s.ttl)
	}
	s.mu.Lock()
	s.data[session.ID] = e
	s.mu.Unlock()
	return nil
}

// Delete elimina la sesión.
func (s *SessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[id]; !ok {
		return domain.ErrSessionNotFound
	}
	delete(s.data, id)
	return nil
}

// Len número de sesiones guardadas, incluidas las expiradas aún no purgadas.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
