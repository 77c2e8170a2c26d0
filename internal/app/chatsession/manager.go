package chatsession

import (
	"context"
	"sync"

	"github.com/mindwell/supportchat/internal/domain"
)

// Manager keeps one controller per live session for the HTTP surface.
// Controllers are registered only after a successful start, so every entry
// holds a server-issued session id.
type Manager struct {
	mu            sync.RWMutex
	controllers   map[domain.SessionID]*Controller
	newController func() *Controller
}

func NewManager(factory func() *Controller) *Manager {
	return &Manager{
		controllers:   make(map[domain.SessionID]*Controller),
		newController: factory,
	}
}

// StartSession creates a fresh controller, starts it against the backend and
// registers it under the returned session id. A failed start registers
// nothing; the caller just tries again.
func (m *Manager) StartSession(ctx context.Context, pref domain.EmailPreference) (*Controller, *domain.Message, error) {
	c := m.newController()

	greeting, err := c.Start(ctx, pref)
	if err != nil {
		return nil, nil, err
	}

	m.mu.Lock()
	m.controllers[c.SessionID()] = c
	m.mu.Unlock()

	return c, greeting, nil
}

func (m *Manager) Get(id domain.SessionID) (*Controller, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.controllers[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return c, nil
}

// Remove drops a controller from the registry, typically after a reset.
func (m *Manager) Remove(id domain.SessionID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.controllers, id)
}
