package catalog

import (
	"testing"
)

func TestSubjects(t *testing.T) {
	c := New()

	subjects := c.Subjects()
	if len(subjects) != 3 {
		t.Fatalf("expected 3 subjects, got %d: %v", len(subjects), subjects)
	}
	// Sorted order.
	want := []string{"Computer Science", "Mathematics", "Physics"}
	for i, s := range want {
		if subjects[i] != s {
			t.Errorf("subjects[%d] = %q, want %q", i, subjects[i], s)
		}
	}
}

func TestTopics(t *testing.T) {
	c := New()

	topics, err := c.Topics("Mathematics")
	if err != nil {
		t.Fatalf("Topics failed: %v", err)
	}
	if len(topics) != 2 || topics[0] != "Algebra" || topics[1] != "Calculus" {
		t.Errorf("unexpected topics: %v", topics)
	}
}

func TestTopicsUnknownSubject(t *testing.T) {
	c := New()

	if _, err := c.Topics("Alchemy"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestContentDefaultLevel(t *testing.T) {
	c := New()

	content, err := c.Content("Mathematics", "Algebra", "")
	if err != nil {
		t.Fatalf("Content failed: %v", err)
	}
	if content.Subject != "Mathematics" || content.Topic != "Algebra" {
		t.Errorf("unexpected content keys: %+v", content)
	}
	if content.Content == "" {
		t.Error("expected beginner text to be populated")
	}
	if len(content.Examples) == 0 || len(content.Practice) == 0 {
		t.Error("expected examples and practice items")
	}
}

func TestContentUnsupportedLevelFallsBack(t *testing.T) {
	c := New()

	// The entry exists, so an unsupported level returns the beginner text
	// rather than a not-found error.
	expert, err := c.Content("Mathematics", "Algebra", "expert")
	if err != nil {
		t.Fatalf("Content failed: %v", err)
	}
	beginner, err := c.Content("Mathematics", "Algebra", DefaultLevel)
	if err != nil {
		t.Fatalf("Content failed: %v", err)
	}
	if expert.Content != beginner.Content {
		t.Errorf("expected fallback to beginner text, got %q", expert.Content)
	}
}

func TestContentNotFound(t *testing.T) {
	c := New()

	if _, err := c.Content("Mathematics", "Topology", ""); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for unknown topic, got %v", err)
	}
	if _, err := c.Content("Alchemy", "Transmutation", ""); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for unknown subject, got %v", err)
	}
}
