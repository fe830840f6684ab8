package store

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nkarpova/tutor-ai/internal/domain"
)

type sessionEntry struct {
	mu      sync.Mutex
	session domain.Session
}

// SessionStore owns the append-only message history of each chat session.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*sessionEntry
}

// NewSessionStore creates an empty session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*sessionEntry)}
}

// NewSessionID returns a server-generated opaque session identifier. The
// "session_" prefix is kept so existing front-end code keeps recognizing it.
func NewSessionID() string {
	return "session_" + uuid.NewString()
}

// AppendMessage appends msg to the session's history, stamping it with the
// current time. An unseen sessionID lazily creates the session owned by
// userID and bound to (subject, topic). Returns a snapshot of the updated
// session.
func (s *SessionStore) AppendMessage(sessionID, userID, subject, topic string, msg domain.Message) *domain.Session {
	entry := s.getOrCreate(sessionID, userID, subject, topic)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	msg.Timestamp = time.Now()
	entry.session.Messages = append(entry.session.Messages, msg)
	return cloneSession(&entry.session)
}

// GetHistory returns a snapshot of the session, or ErrNotFound.
func (s *SessionStore) GetHistory(sessionID string) (*domain.Session, error) {
	s.mu.RLock()
	entry := s.sessions[sessionID]
	s.mu.RUnlock()
	if entry == nil {
		return nil, ErrNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return cloneSession(&entry.session), nil
}

func (s *SessionStore) getOrCreate(sessionID, userID, subject, topic string) *sessionEntry {
	s.mu.RLock()
	entry := s.sessions[sessionID]
	s.mu.RUnlock()
	if entry != nil {
		return entry
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if entry = s.sessions[sessionID]; entry != nil {
		return entry
	}
	entry = &sessionEntry{session: domain.Session{
		SessionID: sessionID,
		UserID:    userID,
		Subject:   subject,
		Topic:     topic,
		StartTime: time.Now(),
	}}
	s.sessions[sessionID] = entry
	return entry
}

func cloneSession(sess *domain.Session) *domain.Session {
	clone := *sess
	clone.Messages = make([]domain.Message, len(sess.Messages))
	copy(clone.Messages, sess.Messages)
	return &clone
}
