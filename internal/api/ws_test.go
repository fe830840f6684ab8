package api

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/nkarpova/tutor-ai/internal/store"
	"github.com/nkarpova/tutor-ai/internal/tutor"
)

func TestChatSocketRoundTrip(t *testing.T) {
	pipeline := tutor.NewService(tutor.ServiceConfig{
		Users:    store.NewUserStore(),
		Sessions: store.NewSessionStore(),
	})
	srv := httptest.NewServer(NewChatSocketHandler(pipeline))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ws, _, err := websocket.Dial(ctx, "ws"+srv.URL[len("http"):], nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer func() { _ = ws.Close(websocket.StatusNormalClosure, "done") }()

	req := map[string]string{
		"message":    "Can you explain the example problem?",
		"subject":    "Mathematics",
		"topic":      "Algebra",
		"session_id": "sess-ws",
	}
	if err := wsjson.Write(ctx, ws, req); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	var result map[string]interface{}
	if err := wsjson.Read(ctx, ws, &result); err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if result["question_type"] != "explanation" {
		t.Errorf("expected question_type explanation, got %v", result["question_type"])
	}
	if result["session_id"] != "sess-ws" {
		t.Errorf("expected session_id sess-ws, got %v", result["session_id"])
	}
	if response, _ := result["response"].(string); response == "" {
		t.Error("expected non-empty response")
	}

	// A second frame on the same socket keeps the conversation going.
	if err := wsjson.Write(ctx, ws, req); err != nil {
		t.Fatalf("second Write failed: %v", err)
	}
	if err := wsjson.Read(ctx, ws, &result); err != nil {
		t.Fatalf("second Read failed: %v", err)
	}
}
