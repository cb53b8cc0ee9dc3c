package handlers

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/slhn-import/internal/apperr"
	"github.com/slhn-import/internal/host"
	"github.com/slhn-import/internal/prefs"
	"github.com/slhn-import/internal/reproject"
	"github.com/slhn-import/internal/session"
)

// Session is one tool instance driven by a host-side bridge
type Session struct {
	ID      string
	Created time.Time
	Tool    *session.Tool
	Host    *host.Snapshot
	Queue   *session.Queue
}

// Store keeps the live sessions. Every session shares the address source,
// projection and preferences; each has its own host snapshot.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	source session.AddressSource
	proj   reproject.Transformer
	prefs  *prefs.Prefs
	cfg    session.Config
	logger *zap.Logger
}

// NewStore creates an empty session store
func NewStore(source session.AddressSource, proj reproject.Transformer, p *prefs.Prefs, cfg session.Config, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		sessions: make(map[string]*Session),
		source:   source,
		proj:     proj,
		prefs:    p,
		cfg:      cfg,
		logger:   logger,
	}
}

// Create starts a session on snap, or on an empty host when snap is nil
func (s *Store) Create(snap *host.Snapshot) *Session {
	if snap == nil {
		snap = &host.Snapshot{}
	}

	id := uuid.NewString()
	queue := session.NewQueue(0)
	logger := s.logger.With(zap.String("session", id))

	sess := &Session{
		ID:      id,
		Created: time.Now(),
		Tool:    session.NewTool(snap, s.source, s.proj, s.prefs, queue, s.cfg, logger),
		Host:    snap,
		Queue:   queue,
	}

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	logger.Info("session created")
	return sess
}

// Get returns a session or a KindNotFound error
func (s *Store) Get(id string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok {
		return nil, apperr.New(apperr.KindNotFound, "Session not found").WithOp("session")
	}
	return sess, nil
}

// Delete drops a session. ok is false when it did not exist.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return false
	}
	delete(s.sessions, id)
	s.logger.Info("session deleted", zap.String("session", id))
	return true
}

// Len returns the number of live sessions
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
