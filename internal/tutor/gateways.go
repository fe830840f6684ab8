package tutor

import (
	"context"
	"fmt"
	"strings"

	"github.com/nkarpova/tutor-ai/internal/cohere"
	"github.com/nkarpova/tutor-ai/internal/domain"
)

// Generation parameters tuned against the front end; do not change casually.
const (
	generateMaxTokens   = 300
	generateTemperature = 0.7
)

// classifyExamples are the labeled exemplars sent with every classify call
// as in-context guidance, one per intent label.
var classifyExamples = []cohere.Example{
	{Text: "Can you explain how to solve quadratic equations?", Label: string(domain.IntentExplanation)},
	{Text: "Give me an example of Newton's second law", Label: string(domain.IntentExample)},
	{Text: "I need a practice problem on linked lists", Label: string(domain.IntentPractice)},
	{Text: "What is the definition of a derivative?", Label: string(domain.IntentDefinition)},
	{Text: "How do I calculate the area of a circle?", Label: string(domain.IntentHowTo)},
}

// CohereClassifier resolves intent labels via the Cohere classify endpoint.
type CohereClassifier struct {
	client *cohere.Client
}

// NewCohereClassifier creates a classifier gateway over client.
func NewCohereClassifier(client *cohere.Client) *CohereClassifier {
	return &CohereClassifier{client: client}
}

var _ Classifier = (*CohereClassifier)(nil)

// Classify returns the predicted intent label for message.
func (c *CohereClassifier) Classify(ctx context.Context, message string) (domain.IntentLabel, error) {
	prediction, err := c.client.Classify(ctx, message, classifyExamples)
	if err != nil {
		return "", fmt.Errorf("classify message: %w", err)
	}
	label := domain.IntentLabel(prediction)
	if !label.Valid() {
		return "", fmt.Errorf("classify message: unknown label %q", prediction)
	}
	return label, nil
}

// CohereGenerator produces responses via the Cohere generate endpoint.
type CohereGenerator struct {
	client *cohere.Client
}

// NewCohereGenerator creates a generator gateway over client.
func NewCohereGenerator(client *cohere.Client) *CohereGenerator {
	return &CohereGenerator{client: client}
}

var _ Generator = (*CohereGenerator)(nil)

// Generate returns tutoring text for the prompt.
func (g *CohereGenerator) Generate(ctx context.Context, prompt Prompt) (string, error) {
	text, err := g.client.Generate(ctx, buildPrompt(prompt), generateMaxTokens, generateTemperature)
	if err != nil {
		return "", fmt.Errorf("generate response: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// buildPrompt embeds the subject, the tutor instruction, the learner context
// sentence and the resolved intent into the generation prompt.
func buildPrompt(p Prompt) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a helpful AI tutor specialized in %s.\n", p.Subject)
	b.WriteString(p.Context)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "The student is asking for a %s.\n\n", p.Intent)
	b.WriteString("Please provide a clear, concise, and educational response that is appropriate for their level.")
	return b.String()
}
