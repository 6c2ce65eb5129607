package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/Cotizador-api/internal/domain"
	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
)

const defaultKeyPrefix = "cotizador:session:"

// SessionStore implementa pricing.SessionStore sobre Redis. Cada Save renueva el TTL.
// Entre instancias la última escritura gana.
type SessionStore struct {
	client *goredis.Client
	prefix string
	ttl    time.Duration
}

// NewSessionStore construye el store. Prefijo vacío usa "cotizador:session:"; ttl <= 0 no expira.
func NewSessionStore(client *goredis.Client, prefix string, ttl time.Duration) *SessionStore {
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	if ttl < 0 {
		ttl = 0
	}
	return &SessionStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *SessionStore) key(id string) string { return s.prefix + id }

// Get lee la sesión; domain.ErrSessionNotFound si no existe o expiró.
func (s *SessionStore) Get(ctx context.Context, id string) (*entity.PricingSession, error) {
	raw, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get sesión: %w", err)
	}
	var sess entity.PricingSession
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("decodificar sesión %s: %w", id, err)
	}
	return &sess, nil
}

// Save escribe la sesión completa.
func (s *SessionStore) Save(ctx context.Context, session *entity.PricingSession) error {
	if session == nil || session.ID == "" {
		return domain.ErrInvalidInput
	}
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("codificar sesión: %w", err)
	}
	if err := s.client.Set(ctx, s.key(session.ID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set sesión: %w", err)
	}
	return nil
}

// Delete elimina la sesión; domain.ErrSessionNotFound si no existía.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	n, err := s.client.Del(ctx, s.key(id)).Result()
	if err != nil {
		return fmt.Errorf("redis del sesión: %w", err)
	}
	if n == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}
