// Package tutor implements the message pipeline that turns a learner's chat
// message into a tutored response: classify, build context, generate,
// persist, update progress.
package tutor

import (
	"context"

	"github.com/nkarpova/tutor-ai/internal/domain"
)

// Classifier resolves a free-text message to an intent label.
type Classifier interface {
	Classify(ctx context.Context, message string) (domain.IntentLabel, error)
}

// Generator produces tutoring text for a structured prompt.
type Generator interface {
	Generate(ctx context.Context, prompt Prompt) (string, error)
}

// Prompt carries everything the generation capability needs to answer.
type Prompt struct {
	Subject string
	Topic   string
	Context string
	Intent  domain.IntentLabel
}

// ChatRequest is one inbound learner message.
type ChatRequest struct {
	UserID    string
	Message   string
	Subject   string
	Topic     string
	SessionID string
}

// ChatResult is the pipeline's answer, shaped for the front-end contract.
type ChatResult struct {
	Response     string             `json:"response"`
	SessionID    string             `json:"session_id"`
	QuestionType domain.IntentLabel `json:"question_type"`
}
