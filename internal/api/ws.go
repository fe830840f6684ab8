package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/nkarpova/tutor-ai/internal/tutor"
)

// ChatSocketHandler serves interactive chat over a WebSocket connection.
// Each inbound frame is one chat request; the pipeline result is written
// back as one frame, so the UI can keep a conversation on a single socket.
type ChatSocketHandler struct {
	pipeline *tutor.Service
}

// NewChatSocketHandler creates a new WebSocket chat handler.
func NewChatSocketHandler(pipeline *tutor.Service) *ChatSocketHandler {
	return &ChatSocketHandler{pipeline: pipeline}
}

// ServeHTTP implements http.Handler for WebSocket upgrade.
func (h *ChatSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		slog.Error("Failed to accept WebSocket", "error", err)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "chat ended"); closeErr != nil {
			slog.Debug("Failed to close websocket", "error", closeErr)
		}
	}()

	ctx := r.Context()
	for {
		var req chatMessageRequest
		if err := wsjson.Read(ctx, ws, &req); err != nil {
			if !isExpectedClose(err) {
				slog.Debug("WebSocket read error", "error", err)
			}
			return
		}

		result := h.pipeline.Respond(ctx, tutor.ChatRequest{
			UserID:    req.UserID,
			Message:   req.Message,
			Subject:   req.Subject,
			Topic:     req.Topic,
			SessionID: req.SessionID,
		})

		if err := wsjson.Write(ctx, ws, result); err != nil {
			slog.Debug("WebSocket write error", "error", err)
			return
		}
	}
}

func isExpectedClose(err error) bool {
	var closeErr websocket.CloseError
	if errors.As(err, &closeErr) {
		return closeErr.Code == websocket.StatusNormalClosure ||
			closeErr.Code == websocket.StatusGoingAway
	}
	return errors.Is(err, context.Canceled)
}
