package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/biomatch-omni-server/internal/domain"
	"github.com/biomatch-omni-server/internal/scoring"
)

// Manager owns the live session registry. Sessions are created with uuid
// identifiers; input tuples are mirrored to the configured Store so a
// session evicted from memory (or created by another instance) can be
// rehydrated on access.
type Manager struct {
	mu       sync.RWMutex
	logger   *logrus.Logger
	engine   *scoring.Engine
	store    Store
	delay    time.Duration
	sessions map[string]*Session
}

// NewManager creates a session manager.
func NewManager(logger *logrus.Logger, engine *scoring.Engine, store Store, reportDelay time.Duration) *Manager {
	return &Manager{
		logger:   logger,
		engine:   engine,
		store:    store,
		delay:    reportDelay,
		sessions: make(map[string]*Session),
	}
}

// Create starts a new session with default inputs.
func (m *Manager) Create(ctx context.Context) (*Session, error) {
	id := uuid.NewString()
	s := m.attach(id, DefaultInputs())

	if err := m.store.SaveInputs(ctx, id, s.Inputs()); err != nil {
		m.logger.WithError(err).WithField("session_id", id).Error("Failed to persist new session")
		return nil, err
	}

	m.logger.WithField("session_id", id).Info("Created session")
	return s, nil
}

// Get returns the live session for an id, rehydrating it from the store
// if this instance has not seen it yet. Returns a LookupError-style
// SESSION_NOT_FOUND precondition when the id is unknown everywhere.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if ok {
		return s, nil
	}

	inputs, found, err := m.store.LoadInputs(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.NewPreconditionError("get_session", domain.ErrSessionNotFound)
	}

	m.logger.WithField("session_id", id).Debug("Rehydrating session from store")
	return m.attach(id, inputs), nil
}

// Delete removes a session from the registry and the store.
func (m *Manager) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	return m.store.DeleteInputs(ctx, id)
}

// attach builds the live session and registers it. Another goroutine may
// have attached the same id concurrently; the first one wins.
func (m *Manager) attach(id string, inputs Inputs) *Session {
	s := New(id, m.logger, m.engine, inputs, m.delay)
	s.persist = func(in Inputs) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := m.store.SaveInputs(ctx, id, in); err != nil {
			m.logger.WithError(err).WithField("session_id", id).Warn("Failed to persist session inputs")
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.sessions[id]; ok {
		return existing
	}
	m.sessions[id] = s
	return s
}
