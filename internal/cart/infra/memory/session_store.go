package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/dwikikusuma/pos/internal/cart/domain"
)

// SessionStore keeps carts in process memory; they are never persisted.
type SessionStore struct {
	mu    sync.Mutex
	carts map[string]*domain.Cart
}

func NewSessionStore() *SessionStore {
	return &SessionStore{carts: make(map[string]*domain.Cart)}
}

func (s *SessionStore) Create(ctx context.Context, cart *domain.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.carts[cart.SessionID]; ok {
		return fmt.Errorf("session %s already exists", cart.SessionID)
	}
	s.carts[cart.SessionID] = cart.Clone()
	return nil
}

func (s *SessionStore) Get(ctx context.Context, sessionID string) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, sessionID)
	}
	return c.Clone(), nil
}

func (s *SessionStore) Update(ctx context.Context, sessionID string, fn func(*domain.Cart) error) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, sessionID)
	}
	// work on a copy so a failed fn leaves the cart untouched
	next := c.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	s.carts[sessionID] = next
	return next.Clone(), nil
}

func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.carts[sessionID]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrSessionNotFound, sessionID)
	}
	delete(s.carts, sessionID)
	return nil
}

func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.carts)
}
