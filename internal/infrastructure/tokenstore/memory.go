package tokenstore

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/logicielhub-api/internal/application/ports"
)

var _ ports.TokenStore = (*MemoryStore)(nil)

// MemoryStore lista de revocación en memoria con TTL. Solo válida con una instancia.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]time.Time
	now   func() time.Time
}

// NewMemoryStore crea el almacén vacío.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: map[string]time.Time{}, now: time.Now}
}

// Revoke registra el jti hasta now+ttl y purga las entradas vencidas.
func (s *MemoryStore) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for k, exp := range s.items {
		if now.After(exp) {
			delete(s.items, k)
		}
	}
	s.items[tokenID] = now.Add(ttl)
	return nil
}

// IsRevoked true mientras la entrada no haya expirado.
func (s *MemoryStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	exp, ok := s.items[tokenID]
	if !ok {
		return false, nil
	}
	return !s.now().After(exp), nil
}

// Len número de entradas (incluidas las vencidas aún no purgadas).
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
