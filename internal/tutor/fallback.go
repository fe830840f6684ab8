package tutor

import (
	"context"
	"fmt"
	"strings"

	"github.com/nkarpova/tutor-ai/internal/domain"
)

// FallbackClassifier resolves intent with ordered keyword rules against the
// lowercased message. Rule order matters: a message can match several
// substrings, and "explain"/"what is" must win over "example".
type FallbackClassifier struct{}

var _ Classifier = FallbackClassifier{}

// Classify never fails; unmatched messages default to an explanation.
func (FallbackClassifier) Classify(_ context.Context, message string) (domain.IntentLabel, error) {
	m := strings.ToLower(message)
	switch {
	case strings.Contains(m, "explain") || strings.Contains(m, "what is"):
		return domain.IntentExplanation, nil
	case strings.Contains(m, "example"):
		return domain.IntentExample, nil
	case strings.Contains(m, "practice") || strings.Contains(m, "problem"):
		return domain.IntentPractice, nil
	default:
		return domain.IntentExplanation, nil
	}
}

// genericFallbackResponse answers intents the templates don't cover.
const genericFallbackResponse = "I understand your question. Let me help you with that."

// FallbackGenerator produces a templated response keyed by intent label,
// interpolating subject and topic.
type FallbackGenerator struct{}

var _ Generator = FallbackGenerator{}

// Generate never fails.
func (FallbackGenerator) Generate(_ context.Context, p Prompt) (string, error) {
	switch p.Intent {
	case domain.IntentExplanation:
		return fmt.Sprintf("I'd be happy to explain about %s in %s. This is a fundamental concept where...", p.Topic, p.Subject), nil
	case domain.IntentExample:
		return fmt.Sprintf("Here's an example related to %s: Consider a scenario where...", p.Topic), nil
	case domain.IntentPractice:
		return fmt.Sprintf("Try solving this %s problem: [Sample problem related to the topic]", p.Topic), nil
	case domain.IntentDefinition:
		return fmt.Sprintf("The definition of %s is: [Brief definition]", p.Topic), nil
	case domain.IntentHowTo:
		return fmt.Sprintf("To solve problems related to %s, follow these steps: 1. First... 2. Then...", p.Topic), nil
	default:
		return genericFallbackResponse, nil
	}
}
