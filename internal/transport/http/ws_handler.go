package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"quizcast/internal/app"
	"quizcast/internal/domain"
	"quizcast/internal/logging"
	"quizcast/internal/metrics"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Inbound event names.
const (
	EventPresenterJoin       = "presenter-join"
	EventParticipantJoin     = "participant-join"
	EventPresenterStartQuiz  = "presenter-start-quiz"
	EventAnswer              = "answer"
	EventParticipantFinished = "participant-finished"
)

type WSHandler struct {
	service  *app.QuizService
	hub      *Hub
	logger   zerolog.Logger
	metrics  *metrics.Metrics
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService, hub *Hub, logger zerolog.Logger, m *metrics.Metrics) *WSHandler {
	return &WSHandler{
		service: service,
		hub:     hub,
		logger:  logger,
		metrics: m,
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

type joinPayload struct {
	Name string `json:"name"`
}

type answerPayload struct {
	QuestionID *int     `json:"questionId"`
	Selected   *int     `json:"selected"`
	TimeTaken  *float64 `json:"timeTaken"`
}

// ServeWS upgrades the request and feeds the connection's events into the
// quiz service until the client goes away.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Str("remote", r.RemoteAddr).Msg("ws upgrade failed")
		return
	}

	id := uuid.NewString()
	logger := h.logger.With().Str("conn_id", id).Str("remote", r.RemoteAddr).Logger()
	ctx := logging.IntoContext(r.Context(), logger)

	c := newClient(id, conn)
	h.hub.register(c)
	h.metrics.ConnectionOpened()
	logger.Debug().Msg("connection opened")

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		c.writePump()
	}()

	h.readLoop(ctx, c, logger)

	h.hub.unregister(id)
	h.service.Leave(ctx, id)
	<-writerDone
	h.metrics.ConnectionClosed()
	logger.Debug().Msg("connection closed")
}

func (h *WSHandler) readLoop(ctx context.Context, c *client, logger zerolog.Logger) {
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				logger.Debug().Err(err).Msg("ws read error")
			}
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))

		var inbound inboundMessage
		if err := json.Unmarshal(data, &inbound); err != nil {
			h.drop(ctx, "", "malformed")
			continue
		}
		h.dispatch(ctx, c.id, inbound)
	}
}

func (h *WSHandler) dispatch(ctx context.Context, id string, inbound inboundMessage) {
	switch inbound.Type {
	case EventPresenterJoin:
		h.service.PresenterJoin(ctx, id)
	case EventParticipantJoin:
		var payload joinPayload
		if err := decodePayload(inbound.Payload, &payload); err != nil {
			h.drop(ctx, inbound.Type, "malformed")
			return
		}
		h.service.Join(ctx, id, payload.Name)
	case EventPresenterStartQuiz:
		h.service.StartQuiz(ctx)
	case EventAnswer:
		var payload answerPayload
		if err := decodePayload(inbound.Payload, &payload); err != nil ||
			payload.QuestionID == nil || payload.Selected == nil || payload.TimeTaken == nil {
			h.drop(ctx, inbound.Type, "malformed")
			return
		}
		_, _ = h.service.SubmitAnswer(ctx, id, domain.AnswerSubmission{
			QuestionID:     *payload.QuestionID,
			SelectedOption: *payload.Selected,
			ElapsedSeconds: *payload.TimeTaken,
		})
	case EventParticipantFinished:
		_ = h.service.RecordFinished(ctx, id)
	default:
		h.drop(ctx, inbound.Type, "unknown_event")
	}
}

func (h *WSHandler) drop(ctx context.Context, event, reason string) {
	h.metrics.Rejected(reason)
	l := logging.FromContext(ctx, h.logger)
	l.Debug().Str("event", event).Str("reason", reason).Msg("event dropped")
}

func decodePayload(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		raw = []byte("{}")
	}
	return json.Unmarshal(raw, v)
}
