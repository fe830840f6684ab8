package store

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nkarpova/tutor-ai/internal/domain"
)

type userEntry struct {
	mu   sync.Mutex
	user domain.User
}

// UserStore owns learner profiles and their progress counters.
type UserStore struct {
	mu    sync.RWMutex
	users map[string]*userEntry
}

// NewUserStore creates an empty user store.
func NewUserStore() *UserStore {
	return &UserStore{users: make(map[string]*userEntry)}
}

// CreateUser registers a learner profile and returns a snapshot of it.
// userID may be pre-arranged by the caller; empty means generate one.
// Missing name and education level degrade to defaults rather than failing.
func (s *UserStore) CreateUser(userID, name, educationLevel string) *domain.User {
	if userID == "" {
		userID = uuid.NewString()
	}
	if name == "" {
		name = "Student"
	}
	if educationLevel == "" {
		educationLevel = domain.DefaultEducationLevel
	}

	entry := &userEntry{user: domain.User{
		UserID:         userID,
		Name:           name,
		EducationLevel: educationLevel,
		CreatedAt:      time.Now(),
		Progress:       make(map[string]map[string]*domain.ProgressCounter),
	}}

	s.mu.Lock()
	s.users[userID] = entry
	s.mu.Unlock()

	return cloneUser(&entry.user)
}

// GetUser returns a snapshot of the user, or ErrNotFound.
func (s *UserStore) GetUser(userID string) (*domain.User, error) {
	entry := s.lookup(userID)
	if entry == nil {
		return nil, ErrNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return cloneUser(&entry.user), nil
}

// RecordInteraction increments the (subject, topic) counter for the user and
// stamps the interaction time. Unknown users are ignored silently: anonymous
// sessions never accrue progress.
func (s *UserStore) RecordInteraction(userID, subject, topic string) {
	entry := s.lookup(userID)
	if entry == nil {
		return
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	topics, ok := entry.user.Progress[subject]
	if !ok {
		topics = make(map[string]*domain.ProgressCounter)
		entry.user.Progress[subject] = topics
	}
	counter, ok := topics[topic]
	if !ok {
		counter = &domain.ProgressCounter{}
		topics[topic] = counter
	}

	counter.Interactions++
	now := time.Now()
	counter.LastInteraction = &now
}

// GetProgress computes the derived progress view for the user, or ErrNotFound.
func (s *UserStore) GetProgress(userID string) (*domain.ProgressReport, error) {
	entry := s.lookup(userID)
	if entry == nil {
		return nil, ErrNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	report := &domain.ProgressReport{
		UserID:          userID,
		SubjectProgress: make(map[string]int),
	}
	for subject, topics := range entry.user.Progress {
		subjectInteractions := 0
		report.TopicsTouched += len(topics)
		for _, counter := range topics {
			subjectInteractions += counter.Interactions
			report.TotalInteractions += counter.Interactions
		}
		report.SubjectProgress[subject] = saturate(subjectInteractions * 5)
	}
	report.OverallProgress = saturate(report.TotalInteractions * 2)

	return report, nil
}

func (s *UserStore) lookup(userID string) *userEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.users[userID]
}

func saturate(pct int) int {
	if pct > 100 {
		return 100
	}
	return pct
}

func cloneUser(u *domain.User) *domain.User {
	clone := *u
	clone.Progress = make(map[string]map[string]*domain.ProgressCounter, len(u.Progress))
	for subject, topics := range u.Progress {
		cloned := make(map[string]*domain.ProgressCounter, len(topics))
		for topic, counter := range topics {
			c := *counter
			if counter.LastInteraction != nil {
				ts := *counter.LastInteraction
				c.LastInteraction = &ts
			}
			cloned[topic] = &c
		}
		clone.Progress[subject] = cloned
	}
	return &clone
}
