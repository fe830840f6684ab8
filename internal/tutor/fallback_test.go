package tutor

import (
	"context"
	"strings"
	"testing"

	"github.com/nkarpova/tutor-ai/internal/domain"
)

func TestFallbackClassifierRuleOrder(t *testing.T) {
	tests := []struct {
		message string
		want    domain.IntentLabel
	}{
		// "explain" must win even when "example" and "problem" also match.
		{"Can you explain the example problem?", domain.IntentExplanation},
		{"What is a derivative?", domain.IntentExplanation},
		{"Give me an example of recursion", domain.IntentExample},
		{"An example problem please", domain.IntentExample},
		{"I want to practice", domain.IntentPractice},
		{"Give me a hard problem", domain.IntentPractice},
		{"EXPLAIN THIS", domain.IntentExplanation},
		{"help me out", domain.IntentExplanation}, // default
		{"", domain.IntentExplanation},
	}

	var c FallbackClassifier
	for _, tt := range tests {
		got, err := c.Classify(context.Background(), tt.message)
		if err != nil {
			t.Fatalf("Classify(%q) failed: %v", tt.message, err)
		}
		if got != tt.want {
			t.Errorf("Classify(%q) = %q, want %q", tt.message, got, tt.want)
		}
	}
}

func TestFallbackGeneratorTemplates(t *testing.T) {
	var g FallbackGenerator
	prompt := Prompt{Subject: "Mathematics", Topic: "Algebra"}

	tests := []struct {
		intent   domain.IntentLabel
		contains string
	}{
		{domain.IntentExplanation, "explain about Algebra in Mathematics"},
		{domain.IntentExample, "example related to Algebra"},
		{domain.IntentPractice, "Algebra problem"},
		{domain.IntentDefinition, "definition of Algebra"},
		{domain.IntentHowTo, "follow these steps"},
	}

	for _, tt := range tests {
		prompt.Intent = tt.intent
		got, err := g.Generate(context.Background(), prompt)
		if err != nil {
			t.Fatalf("Generate(%q) failed: %v", tt.intent, err)
		}
		if !strings.Contains(got, tt.contains) {
			t.Errorf("Generate(%q) = %q, want it to contain %q", tt.intent, got, tt.contains)
		}
	}
}

func TestFallbackGeneratorUnknownIntent(t *testing.T) {
	var g FallbackGenerator

	got, err := g.Generate(context.Background(), Prompt{Intent: "riddle"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if got != genericFallbackResponse {
		t.Errorf("expected generic acknowledgment, got %q", got)
	}
}
