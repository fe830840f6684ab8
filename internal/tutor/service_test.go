package tutor

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/nkarpova/tutor-ai/internal/domain"
	"github.com/nkarpova/tutor-ai/internal/store"
)

type failingClassifier struct{}

func (failingClassifier) Classify(context.Context, string) (domain.IntentLabel, error) {
	return "", errors.New("service unavailable")
}

type failingGenerator struct{}

func (failingGenerator) Generate(context.Context, Prompt) (string, error) {
	return "", errors.New("service unavailable")
}

type fixedClassifier struct {
	label domain.IntentLabel
}

func (c fixedClassifier) Classify(context.Context, string) (domain.IntentLabel, error) {
	return c.label, nil
}

type fixedGenerator struct {
	text string
	// last remembers the most recent prompt for assertions.
	last *Prompt
}

func (g *fixedGenerator) Generate(_ context.Context, p Prompt) (string, error) {
	if g.last != nil {
		*g.last = p
	}
	return g.text, nil
}

type recordingArchive struct {
	mu    sync.Mutex
	turns []Turn
}

func (a *recordingArchive) Record(turn Turn) {
	a.mu.Lock()
	a.turns = append(a.turns, turn)
	a.mu.Unlock()
}

func newTestService(classifier Classifier, generator Generator, archive Archiver) (*Service, *store.UserStore, *store.SessionStore) {
	users := store.NewUserStore()
	sessions := store.NewSessionStore()
	svc := NewService(ServiceConfig{
		Users:      users,
		Sessions:   sessions,
		Classifier: classifier,
		Generator:  generator,
		Archive:    archive,
	})
	return svc, users, sessions
}

func TestRespondHappyPath(t *testing.T) {
	var prompt Prompt
	svc, users, sessions := newTestService(
		fixedClassifier{label: domain.IntentDefinition},
		&fixedGenerator{text: "A derivative measures instantaneous change.", last: &prompt},
		nil,
	)
	users.CreateUser("user-1", "Alex", "Graduate")

	result := svc.Respond(context.Background(), ChatRequest{
		UserID:    "user-1",
		Message:   "What is the definition of a derivative?",
		Subject:   "Mathematics",
		Topic:     "Calculus",
		SessionID: "sess-1",
	})

	if result.Response != "A derivative measures instantaneous change." {
		t.Errorf("unexpected response: %q", result.Response)
	}
	if result.QuestionType != domain.IntentDefinition {
		t.Errorf("unexpected intent: %q", result.QuestionType)
	}
	if result.SessionID != "sess-1" {
		t.Errorf("unexpected session id: %q", result.SessionID)
	}

	// Context carries the learner's level and verbatim question.
	if !strings.Contains(prompt.Context, "Their education level is Graduate") {
		t.Errorf("prompt context missing education level: %q", prompt.Context)
	}
	if !strings.Contains(prompt.Context, "'What is the definition of a derivative?'") {
		t.Errorf("prompt context missing verbatim question: %q", prompt.Context)
	}

	// Both turns persisted, intent only on the assistant message.
	session, err := sessions.GetHistory("sess-1")
	if err != nil {
		t.Fatalf("GetHistory failed: %v", err)
	}
	if len(session.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(session.Messages))
	}
	if session.Messages[0].Role != domain.RoleUser || session.Messages[0].QuestionType != "" {
		t.Errorf("unexpected user message: %+v", session.Messages[0])
	}
	if session.Messages[1].Role != domain.RoleAssistant || session.Messages[1].QuestionType != domain.IntentDefinition {
		t.Errorf("unexpected assistant message: %+v", session.Messages[1])
	}

	// Progress recorded against (subject, topic).
	user, err := users.GetUser("user-1")
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if got := user.Progress["Mathematics"]["Calculus"].Interactions; got != 1 {
		t.Errorf("expected 1 interaction recorded, got %d", got)
	}
}

func TestRespondSurvivesGatewayFailures(t *testing.T) {
	svc, _, sessions := newTestService(failingClassifier{}, failingGenerator{}, nil)

	result := svc.Respond(context.Background(), ChatRequest{
		Message:   "Give me an example of Newton's second law",
		Subject:   "Physics",
		Topic:     "Mechanics",
		SessionID: "sess-1",
	})

	// Keyword fallback resolves "example"; templated text follows the intent.
	if result.QuestionType != domain.IntentExample {
		t.Errorf("expected fallback intent example, got %q", result.QuestionType)
	}
	if result.Response == "" {
		t.Fatal("expected non-empty fallback response")
	}
	if !strings.Contains(result.Response, "example related to Mechanics") {
		t.Errorf("expected templated fallback text, got %q", result.Response)
	}

	// The failed stages must not have aborted persistence.
	session, err := sessions.GetHistory("sess-1")
	if err != nil {
		t.Fatalf("GetHistory failed: %v", err)
	}
	if len(session.Messages) != 2 {
		t.Errorf("expected both turns persisted, got %d", len(session.Messages))
	}
}

func TestRespondFallbackOnlyWhenGatewaysAbsent(t *testing.T) {
	svc, _, _ := newTestService(nil, nil, nil)

	result := svc.Respond(context.Background(), ChatRequest{
		Message: "Can you explain the example problem?",
		Subject: "Mathematics",
		Topic:   "Algebra",
	})

	// Rule order: "explain" wins over "example" and "problem".
	if result.QuestionType != domain.IntentExplanation {
		t.Errorf("expected explanation, got %q", result.QuestionType)
	}
	if !strings.HasPrefix(result.SessionID, "session_") {
		t.Errorf("expected generated session id, got %q", result.SessionID)
	}
}

func TestRespondAppliesRequestDefaults(t *testing.T) {
	svc, _, sessions := newTestService(nil, nil, nil)

	result := svc.Respond(context.Background(), ChatRequest{Message: "hello"})

	session, err := sessions.GetHistory(result.SessionID)
	if err != nil {
		t.Fatalf("GetHistory failed: %v", err)
	}
	if session.UserID != domain.AnonymousUserID {
		t.Errorf("expected anonymous owner, got %q", session.UserID)
	}
	if session.Subject != "General" {
		t.Errorf("expected default subject General, got %q", session.Subject)
	}
}

func TestRespondAnonymousUserAccruesNoProgress(t *testing.T) {
	svc, users, _ := newTestService(nil, nil, nil)

	svc.Respond(context.Background(), ChatRequest{
		Message: "practice please",
		Subject: "Physics",
		Topic:   "Mechanics",
	})

	if _, err := users.GetProgress(domain.AnonymousUserID); err != store.ErrNotFound {
		t.Fatalf("expected ErrNotFound for anonymous progress, got %v", err)
	}
}

func TestRespondArchivesBothTurns(t *testing.T) {
	archive := &recordingArchive{}
	svc, _, _ := newTestService(nil, nil, archive)

	svc.Respond(context.Background(), ChatRequest{
		UserID:    "user-1",
		Message:   "What is algebra?",
		Subject:   "Mathematics",
		Topic:     "Algebra",
		SessionID: "sess-1",
	})

	archive.mu.Lock()
	defer archive.mu.Unlock()
	if len(archive.turns) != 2 {
		t.Fatalf("expected 2 archived turns, got %d", len(archive.turns))
	}
	if archive.turns[0].Role != domain.RoleUser || archive.turns[1].Role != domain.RoleAssistant {
		t.Errorf("unexpected turn roles: %+v", archive.turns)
	}
	if archive.turns[1].Intent != domain.IntentExplanation {
		t.Errorf("expected assistant turn to carry intent, got %q", archive.turns[1].Intent)
	}
}

func TestRespondConcurrent(t *testing.T) {
	svc, users, sessions := newTestService(nil, nil, nil)
	users.CreateUser("user-1", "Alex", "Graduate")

	const n = 50
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			svc.Respond(context.Background(), ChatRequest{
				UserID:    "user-1",
				Message:   "practice please",
				Subject:   "Mathematics",
				Topic:     "Algebra",
				SessionID: "sess-1",
			})
		}()
	}
	wg.Wait()

	session, err := sessions.GetHistory("sess-1")
	if err != nil {
		t.Fatalf("GetHistory failed: %v", err)
	}
	if len(session.Messages) != 2*n {
		t.Errorf("expected %d messages, got %d", 2*n, len(session.Messages))
	}

	user, err := users.GetUser("user-1")
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if got := user.Progress["Mathematics"]["Algebra"].Interactions; got != n {
		t.Errorf("expected %d interactions, got %d", n, got)
	}
}
