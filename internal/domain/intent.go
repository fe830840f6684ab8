package domain

// IntentLabel is the five-way classification of a learner's message that
// selects a response strategy.
type IntentLabel string

const (
	IntentExplanation IntentLabel = "explanation"
	IntentExample     IntentLabel = "example"
	IntentPractice    IntentLabel = "practice"
	IntentDefinition  IntentLabel = "definition"
	IntentHowTo       IntentLabel = "how-to"
)

// Valid reports whether l is one of the known intent labels.
func (l IntentLabel) Valid() bool {
	switch l {
	case IntentExplanation, IntentExample, IntentPractice, IntentDefinition, IntentHowTo:
		return true
	}
	return false
}
