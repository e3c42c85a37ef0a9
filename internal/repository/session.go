package repo

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"nggo/internal/domain/session"
	"nggo/internal/engine"
	errs "nggo/internal/errors"
)

// SessionMapStorage keeps open sessions in memory. Sessions live until they
// are deleted or the process stops.
type SessionMapStorage struct {
	mu          sync.RWMutex
	sessions    map[string]*session.Session
	maxSessions int
	log         *zap.SugaredLogger
}

func NewSessionMapStorage(maxSessions int, log *zap.SugaredLogger) *SessionMapStorage {
	return &SessionMapStorage{
		sessions:    make(map[string]*session.Session),
		maxSessions: maxSessions,
		log:         log,
	}
}

func (s *SessionMapStorage) StoreSession(_ context.Context, g *engine.Game) (*session.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.maxSessions > 0 && len(s.sessions) >= s.maxSessions {
		return nil, errors.Wrapf(errs.ErrTooManySessions, "limit %d", s.maxSessions)
	}

	sess := &session.Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		Game:      g,
	}
	s.sessions[sess.ID] = sess
	s.log.Infow("session stored", "session_id", sess.ID, "open", len(s.sessions))
	return sess, nil
}

func (s *SessionMapStorage) GetSession(_ context.Context, sessionID string) (*session.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, errors.Wrap(errs.ErrSessionNotFound, sessionID)
	}
	return sess, nil
}

func (s *SessionMapStorage) DeleteSession(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sessionID]; !ok {
		return errors.Wrap(errs.ErrSessionNotFound, sessionID)
	}
	delete(s.sessions, sessionID)
	s.log.Infow("session deleted", "session_id", sessionID, "open", len(s.sessions))
	return nil
}

func (s *SessionMapStorage) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
