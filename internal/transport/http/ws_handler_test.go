package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"quiz-session-service/internal/app"
	"quiz-session-service/internal/domain"
	"quiz-session-service/internal/infra/memory"
	"github.com/gorilla/websocket"
)

func TestWebSocketQuizFlow(t *testing.T) {
	service := app.NewSessionService(app.Deps{
		Quizzes: memory.NewDefinitionRepository(
			memory.NewStaticDefinitionLoader([]domain.QuizDefinition{sampleDefinition()}), time.Minute),
		Progress:   memory.NewProgressStore(),
		HighScores: memory.NewHighScoreStore(),
		Attempts:   memory.NewAttemptStore(),
		Identity:   app.ContextIdentity{},
	})
	wsHandler := NewWSHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	server := httptest.NewServer(mux)
	defer server.Close()

	u := "ws" + server.URL[len("http"):] + "/ws?subjectId=math&quizId=quiz-1&userId=u1&name=Alice"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Initial snapshot arrives first.
	typ, payload := readNext(conn, t, "snapshot")
	if typ != "snapshot" {
		t.Fatalf("expected snapshot, got %s", typ)
	}
	if payload["phase"] != "active" {
		t.Fatalf("expected active phase, got %v", payload["phase"])
	}

	// Completing with unanswered questions is rejected.
	writeIntent(conn, t, map[string]any{"type": "goto", "payload": map[string]any{"questionIndex": 1}})
	writeIntent(conn, t, map[string]any{"type": "advance"})
	if !awaitType(conn, t, "error") {
		t.Fatal("expected incomplete-quiz error")
	}

	// Answer both questions, then advance off the last one.
	writeIntent(conn, t, map[string]any{"type": "answer", "payload": map[string]any{"questionIndex": 0, "optionIndex": 1}})
	writeIntent(conn, t, map[string]any{"type": "answer", "payload": map[string]any{"questionIndex": 1, "optionIndex": 0}})
	writeIntent(conn, t, map[string]any{"type": "advance"})

	if !awaitType(conn, t, "completed") {
		t.Fatal("expected completed frame")
	}

	// Review, then advancing past the last question exits.
	writeIntent(conn, t, map[string]any{"type": "review"})
	writeIntent(conn, t, map[string]any{"type": "goto", "payload": map[string]any{"questionIndex": 1}})
	writeIntent(conn, t, map[string]any{"type": "advance"})
	if !awaitType(conn, t, "exit") {
		t.Fatal("expected exit frame")
	}
}

func TestWebSocketRejectsMissingParams(t *testing.T) {
	service := app.NewSessionService(app.Deps{
		Quizzes: memory.NewDefinitionRepository(
			memory.NewStaticDefinitionLoader(nil), time.Minute),
		Progress:   memory.NewProgressStore(),
		HighScores: memory.NewHighScoreStore(),
		Attempts:   memory.NewAttemptStore(),
		Identity:   app.ContextIdentity{},
	})
	wsHandler := NewWSHandler(service)
	server := httptest.NewServer(http.HandlerFunc(wsHandler.ServeWS))
	defer server.Close()

	resp, err := http.Get(server.URL + "?quizId=quiz-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func writeIntent(conn *websocket.Conn, t *testing.T, msg map[string]any) {
	t.Helper()
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("write %v: %v", msg["type"], err)
	}
}

// awaitType reads frames (skipping interleaved snapshots) until the wanted
// type shows up.
func awaitType(conn *websocket.Conn, t *testing.T, want string) bool {
	t.Helper()
	for i := 0; i < 20; i++ {
		typ, _ := readNext(conn, t, "")
		if typ == want {
			return true
		}
	}
	return false
}

func readNext(conn *websocket.Conn, t *testing.T, expect string) (string, map[string]any) {
	t.Helper()
	var msg struct {
		Type    string         `json:"type"`
		Payload map[string]any `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	if expect != "" && msg.Type != expect {
		t.Fatalf("expected type %s, got %s", expect, msg.Type)
	}
	return msg.Type, msg.Payload
}

func sampleDefinition() domain.QuizDefinition {
	return domain.QuizDefinition{
		ID:               "quiz-1",
		SubjectID:        "math",
		Title:            "Arithmetic Basics",
		SubjectTitle:     "Mathematics",
		TimeLimitMinutes: 5,
		Questions: []domain.Question{
			{Prompt: "What is 2 + 2?", Options: []string{"3", "4", "5"}, CorrectOptionIndex: 1},
			{Prompt: "What is 5 - 3?", Options: []string{"2", "4", "8"}, CorrectOptionIndex: 0},
		},
	}
}
