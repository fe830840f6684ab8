// Package api provides HTTP handlers for the tutor backend API.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/nkarpova/tutor-ai/internal/catalog"
	"github.com/nkarpova/tutor-ai/internal/store"
	"github.com/nkarpova/tutor-ai/internal/tutor"
)

// maxRequestBodySize caps request bodies at 1MB.
const maxRequestBodySize = 1 << 20

// Handler serves the JSON API consumed by the tutor front end.
type Handler struct {
	users    *store.UserStore
	sessions *store.SessionStore
	catalog  *catalog.Catalog
	pipeline *tutor.Service
}

// NewHandler creates a new Handler with its dependencies.
func NewHandler(users *store.UserStore, sessions *store.SessionStore, cat *catalog.Catalog, pipeline *tutor.Service) *Handler {
	return &Handler{
		users:    users,
		sessions: sessions,
		catalog:  cat,
		pipeline: pipeline,
	}
}

// RegisterRoutes registers all API routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/user", h.CreateUser)
		r.Get("/user/{userID}", h.GetUser)
		r.Get("/subjects", h.ListSubjects)
		r.Get("/subjects/{subject}/topics", h.ListTopics)
		r.Get("/content/{subject}/{topic}", h.GetContent)
		r.Post("/chat/message", h.SendMessage)
		r.Get("/chat/{sessionID}/history", h.GetHistory)
		r.Get("/progress/{userID}", h.GetProgress)
	})
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

type createUserRequest struct {
	UserID         string `json:"user_id"`
	Name           string `json:"name"`
	EducationLevel string `json:"education_level"`
}

// CreateUser registers a learner profile. Missing fields degrade to
// defaults; the call never fails for a well-formed body.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user := h.users.CreateUser(req.UserID, req.Name, req.EducationLevel)
	JSON(w, http.StatusOK, map[string]string{
		"user_id": user.UserID,
		"status":  "created",
	})
}

// GetUser returns the full user record.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetUser(pathParam(r, "userID"))
	if err != nil {
		Error(w, http.StatusNotFound, "User not found")
		return
	}
	JSON(w, http.StatusOK, user)
}

// ListSubjects returns all subject names in the content catalog.
func (h *Handler) ListSubjects(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, h.catalog.Subjects())
}

// ListTopics returns the topic names of one subject.
func (h *Handler) ListTopics(w http.ResponseWriter, r *http.Request) {
	topics, err := h.catalog.Topics(pathParam(r, "subject"))
	if err != nil {
		Error(w, http.StatusNotFound, "Subject not found")
		return
	}
	JSON(w, http.StatusOK, topics)
}

// GetContent returns the catalog entry for (subject, topic) at the level
// given by the ?level= query parameter, defaulting to beginner.
func (h *Handler) GetContent(w http.ResponseWriter, r *http.Request) {
	subject := pathParam(r, "subject")
	topic := pathParam(r, "topic")
	level := r.URL.Query().Get("level")

	content, err := h.catalog.Content(subject, topic, level)
	if err != nil {
		Error(w, http.StatusNotFound, "Content not found")
		return
	}
	JSON(w, http.StatusOK, content)
}

type chatMessageRequest struct {
	UserID    string `json:"user_id"`
	Message   string `json:"message"`
	Subject   string `json:"subject"`
	Topic     string `json:"topic"`
	SessionID string `json:"session_id"`
}

// SendMessage runs the message pipeline for one inbound chat message. It
// always answers 200: gateway failures are absorbed by the fallback policy.
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req chatMessageRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result := h.pipeline.Respond(r.Context(), tutor.ChatRequest{
		UserID:    req.UserID,
		Message:   req.Message,
		Subject:   req.Subject,
		Topic:     req.Topic,
		SessionID: req.SessionID,
	})
	JSON(w, http.StatusOK, result)
}

// GetHistory returns the full session record.
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.GetHistory(pathParam(r, "sessionID"))
	if err != nil {
		Error(w, http.StatusNotFound, "Session not found")
		return
	}
	JSON(w, http.StatusOK, session)
}

// GetProgress returns the derived progress view for a user.
func (h *Handler) GetProgress(w http.ResponseWriter, r *http.Request) {
	report, err := h.users.GetProgress(pathParam(r, "userID"))
	if err != nil {
		Error(w, http.StatusNotFound, "User not found")
		return
	}
	JSON(w, http.StatusOK, report)
}

// decodeBody decodes a JSON request body into v, answering a 400 and
// returning false on malformed input. An empty body decodes to zero values
// so handlers can apply their documented defaults.
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		Error(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// pathParam returns the decoded chi URL parameter; subjects like
// "Computer Science" arrive percent-encoded.
func pathParam(r *http.Request, key string) string {
	raw := chi.URLParam(r, key)
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}
