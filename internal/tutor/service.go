package tutor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/nkarpova/tutor-ai/internal/domain"
	"github.com/nkarpova/tutor-ai/internal/store"
	"github.com/nkarpova/tutor-ai/internal/telemetry"
)

// defaultSubject is used when a chat request does not name a subject.
const defaultSubject = "General"

// ServiceConfig wires the pipeline's collaborators.
type ServiceConfig struct {
	Users    *store.UserStore
	Sessions *store.SessionStore
	// Classifier and Generator may be nil, which disables the external
	// capability and routes every call through the fallback policy.
	Classifier Classifier
	Generator  Generator
	// Archive may be nil, which disables transcript archiving.
	Archive Archiver
	Tracer  trace.Tracer
	Metrics *telemetry.Metrics
}

// Service orchestrates one inbound chat message end to end. It holds no
// per-request state and is safe for concurrent use.
type Service struct {
	users              *store.UserStore
	sessions           *store.SessionStore
	classifier         Classifier
	generator          Generator
	fallbackClassifier FallbackClassifier
	fallbackGenerator  FallbackGenerator
	archive            Archiver
	tracer             trace.Tracer
	metrics            *telemetry.Metrics
}

// NewService creates the message pipeline.
func NewService(cfg ServiceConfig) *Service {
	if cfg.Tracer == nil {
		cfg.Tracer = telemetry.NoopTracer()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = telemetry.NoopMetrics()
	}
	return &Service{
		users:      cfg.Users,
		sessions:   cfg.Sessions,
		classifier: cfg.Classifier,
		generator:  cfg.Generator,
		archive:    cfg.Archive,
		tracer:     cfg.Tracer,
		metrics:    cfg.Metrics,
	}
}

// Respond runs the full pipeline for one inbound message. It always returns
// a usable result: gateway failures are absorbed by the fallback policy and
// never surface to the caller. It is not idempotent — re-invoking with the
// same message appends a new history entry and increments progress again.
func (s *Service) Respond(ctx context.Context, req ChatRequest) *ChatResult {
	req = withDefaults(req)

	ctx, span := s.tracer.Start(ctx, "tutor.respond", trace.WithAttributes(
		attribute.String("session_id", req.SessionID),
		attribute.String("subject", req.Subject),
	))
	defer span.End()
	s.metrics.ChatMessages.Add(ctx, 1)

	s.sessions.AppendMessage(req.SessionID, req.UserID, req.Subject, req.Topic, domain.Message{
		Role:    domain.RoleUser,
		Content: req.Message,
	})

	intent := s.classify(ctx, req.Message)
	span.SetAttributes(attribute.String("intent", string(intent)))

	prompt := Prompt{
		Subject: req.Subject,
		Topic:   req.Topic,
		Context: s.learnerContext(req),
		Intent:  intent,
	}
	text := s.generate(ctx, prompt)

	s.sessions.AppendMessage(req.SessionID, req.UserID, req.Subject, req.Topic, domain.Message{
		Role:         domain.RoleAssistant,
		Content:      text,
		QuestionType: intent,
	})
	s.users.RecordInteraction(req.UserID, req.Subject, req.Topic)
	s.archiveTurns(req, intent, text)

	return &ChatResult{
		Response:     text,
		SessionID:    req.SessionID,
		QuestionType: intent,
	}
}

// classify asks the external capability for an intent label and falls back
// to the local keyword rules on any failure.
func (s *Service) classify(ctx context.Context, message string) domain.IntentLabel {
	if s.classifier != nil {
		classifyCtx, span := s.tracer.Start(ctx, "tutor.classify")
		label, err := s.classifier.Classify(classifyCtx, message)
		if err != nil {
			span.RecordError(err)
			span.End()
			slog.Warn("classification failed, using fallback", "error", err)
		} else {
			span.End()
			return label
		}
	}

	s.metrics.ClassifyFallbacks.Add(ctx, 1)
	label, _ := s.fallbackClassifier.Classify(ctx, message)
	return label
}

// generate asks the external capability for a response and falls back to
// the templated text on any failure.
func (s *Service) generate(ctx context.Context, prompt Prompt) string {
	if s.generator != nil {
		generateCtx, span := s.tracer.Start(ctx, "tutor.generate")
		text, err := s.generator.Generate(generateCtx, prompt)
		if err != nil {
			span.RecordError(err)
			span.End()
			slog.Warn("generation failed, using fallback", "error", err, "intent", prompt.Intent)
		} else {
			span.End()
			return text
		}
	}

	s.metrics.GenerateFallbacks.Add(ctx, 1)
	text, _ := s.fallbackGenerator.Generate(ctx, prompt)
	return text
}

// learnerContext composes the context sentence embedded in the generation
// prompt. Unknown users read as Beginner.
func (s *Service) learnerContext(req ChatRequest) string {
	level := domain.DefaultEducationLevel
	if user, err := s.users.GetUser(req.UserID); err == nil {
		level = user.EducationLevel
	}
	return fmt.Sprintf("The student is learning about %s, specifically %s. Their education level is %s. They asked: '%s'",
		req.Subject, req.Topic, level, req.Message)
}

func (s *Service) archiveTurns(req ChatRequest, intent domain.IntentLabel, response string) {
	if s.archive == nil {
		return
	}
	now := time.Now()
	s.archive.Record(Turn{
		SessionID: req.SessionID,
		UserID:    req.UserID,
		Role:      domain.RoleUser,
		Content:   req.Message,
		Timestamp: now,
	})
	s.archive.Record(Turn{
		SessionID: req.SessionID,
		UserID:    req.UserID,
		Role:      domain.RoleAssistant,
		Intent:    intent,
		Content:   response,
		Timestamp: now,
	})
}

// withDefaults applies the permissive request defaults the front end relies
// on instead of rejecting partial requests.
func withDefaults(req ChatRequest) ChatRequest {
	if req.UserID == "" {
		req.UserID = domain.AnonymousUserID
	}
	if req.Subject == "" {
		req.Subject = defaultSubject
	}
	if req.SessionID == "" {
		req.SessionID = store.NewSessionID()
	}
	return req
}
