package domain

import (
	"time"
)

// Message roles. The assistant role is serialized as "ai" because that is
// what the front end renders.
const (
	RoleUser      = "user"
	RoleAssistant = "ai"
)

// AnonymousUserID is the sentinel for requests that carry no user identity.
// Interactions from it never accrue progress.
const AnonymousUserID = "anonymous"

// Message is a single chat history entry. Immutable once appended; the only
// ordering guarantee is insertion order.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	// QuestionType is set only on assistant messages and records the intent
	// label that produced the response.
	QuestionType IntentLabel `json:"question_type,omitempty"`
}

// Session is an append-only conversation thread tied to one subject/topic
// and (optionally) one user.
type Session struct {
	SessionID string    `json:"session_id"`
	UserID    string    `json:"user_id"`
	Subject   string    `json:"subject"`
	Topic     string    `json:"topic"`
	Messages  []Message `json:"messages"`
	StartTime time.Time `json:"start_time"`
}
