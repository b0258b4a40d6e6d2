package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"quiz-session-service/internal/app"
	"quiz-session-service/internal/domain"
	"github.com/gorilla/websocket"
)

// WSHandler is the presentation adapter: it forwards user intents into the
// session and streams state snapshots back over the socket. All rendering
// decisions belong to the client; the session never touches the UI.
type WSHandler struct {
	service  *app.SessionService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.SessionService) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	QuestionIndex int `json:"questionIndex"`
	OptionIndex   int `json:"optionIndex"`
}

type gotoPayload struct {
	QuestionIndex int `json:"questionIndex"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Kind       string `json:"kind"`
	Message    string `json:"message"`
	Unanswered []int  `json:"unanswered,omitempty"`
}

// ServeWS upgrades the request and runs one quiz session per connection.
// Expected query parameters: subjectId, quizId, userId, name.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	subjectID := r.URL.Query().Get("subjectId")
	quizID := r.URL.Query().Get("quizId")
	userID := r.URL.Query().Get("userId")
	displayName := r.URL.Query().Get("name")
	if subjectID == "" || quizID == "" || userID == "" || displayName == "" {
		http.Error(w, "missing subjectId, quizId, userId, or name", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx := app.WithUser(r.Context(), domain.User{ID: userID, DisplayName: displayName})

	session, err := h.service.Start(ctx, subjectID, quizID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: toErrorPayload(err)})
		return
	}
	defer session.Close()

	updates, cancel := session.Subscribe()
	defer cancel()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case update, ok := <-updates:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: "snapshot", Payload: update}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		if exit := dispatch(ctx, session, send, inbound); exit {
			break
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}

// dispatch applies one inbound intent; it returns true when the client should
// be disconnected (review finished).
func dispatch(ctx context.Context, session *app.Session, send chan outboundMessage[any], inbound inboundMessage) bool {
	switch inbound.Type {
	case "answer":
		var payload answerPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			send <- errorMessage(errors.New("invalid answer payload"))
			return false
		}
		if _, err := session.SelectAnswer(ctx, payload.QuestionIndex, payload.OptionIndex); err != nil {
			send <- errorMessage(err)
		}
	case "goto":
		var payload gotoPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			send <- errorMessage(errors.New("invalid goto payload"))
			return false
		}
		if _, err := session.GoTo(payload.QuestionIndex); err != nil {
			send <- errorMessage(err)
		}
	case "previous":
		if _, err := session.Previous(); err != nil {
			send <- errorMessage(err)
		}
	case "advance":
		outcome, snap, err := session.Advance(ctx)
		if err != nil {
			send <- errorMessage(err)
			return false
		}
		switch outcome {
		case app.AdvanceCompleted:
			send <- outboundMessage[any]{Type: "completed", Payload: snap.Summary}
		case app.AdvanceExited:
			send <- outboundMessage[any]{Type: "exit", Payload: struct{}{}}
			return true
		}
	case "review":
		if _, err := session.EnterReview(); err != nil {
			send <- errorMessage(err)
		}
	case "hidden":
		session.NotifyHidden()
	case "visible":
		session.NotifyVisible()
	default:
		send <- errorMessage(errors.New("unsupported message type"))
	}
	return false
}

func errorMessage(err error) outboundMessage[any] {
	return outboundMessage[any]{Type: "error", Payload: toErrorPayload(err)}
}

func toErrorPayload(err error) errorPayload {
	var incomplete *domain.IncompleteQuizError
	switch {
	case errors.As(err, &incomplete):
		return errorPayload{Kind: "incompleteQuiz", Message: err.Error(), Unanswered: incomplete.Unanswered}
	case errors.Is(err, domain.ErrInvalidDefinition):
		return errorPayload{Kind: "invalidDefinition", Message: err.Error()}
	case errors.Is(err, domain.ErrOutOfRange):
		return errorPayload{Kind: "outOfRange", Message: err.Error()}
	case errors.Is(err, domain.ErrUnauthenticated):
		return errorPayload{Kind: "unauthenticated", Message: err.Error()}
	case errors.Is(err, domain.ErrQuizNotFound):
		return errorPayload{Kind: "notFound", Message: err.Error()}
	case errors.Is(err, domain.ErrSessionClosed):
		return errorPayload{Kind: "sessionClosed", Message: err.Error()}
	case errors.Is(err, domain.ErrRepositoryUnavailable):
		return errorPayload{Kind: "repositoryUnavailable", Message: err.Error()}
	default:
		return errorPayload{Kind: "internal", Message: err.Error()}
	}
}
