package http

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"time"

	"archetype-quiz-service/internal/app"
	"archetype-quiz-service/internal/challenge"
	"archetype-quiz-service/internal/content"
	"archetype-quiz-service/internal/scheduler"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// StateInterval is how often the running game's snapshot is pushed.
const StateInterval = 100 * time.Millisecond

type WSHandler struct {
	svc        *app.Services
	plays      *app.PlayService
	difficulty content.Difficulty
	upgrader   websocket.Upgrader
}

func NewWSHandler(svc *app.Services, plays *app.PlayService, difficulty content.Difficulty) *WSHandler {
	return &WSHandler{
		svc:        svc,
		plays:      plays,
		difficulty: difficulty,
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

type inputPayload struct {
	Action string `json:"action"`
	Choice int    `json:"choice"`
}

type movePayload struct {
	X float64 `json:"x"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

// ServePlay upgrades to a websocket and runs one brain-suite play session.
// A scheduler loop owns every game timer; inbound frames are posted to it so
// game state is only touched from that goroutine.
func (h *WSHandler) ServePlay(w http.ResponseWriter, r *http.Request) {
	profileID := r.URL.Query().Get("profileId")
	if _, err := h.svc.Profiles.Get(r.Context(), profileID); err != nil {
		writeError(w, err)
		return
	}
	if activationRequested(r) {
		if _, err := h.svc.Unlocks.Activate(r.Context(), profileID); err != nil {
			writeError(w, err)
			return
		}
	}
	difficulty := h.difficulty
	if raw := r.URL.Query().Get("difficulty"); raw != "" {
		difficulty = content.ParseDifficulty(raw)
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.L().Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	send := make(chan outboundMessage[any], 64)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				zap.L().Debug("ws write error", zap.Error(err))
				return
			}
		}
	}()
	// drops the message once the writer is gone
	push := func(typ string, payload any) {
		select {
		case send <- outboundMessage[any]{Type: typ, Payload: payload}:
		case <-writerDone:
		}
	}
	pushError := func(err error) {
		push(app.EventError, errorPayload{Message: err.Error()})
	}

	ctx, cancel := context.WithCancel(r.Context())
	loop := scheduler.NewLoop(scheduler.DefaultFrameInterval)
	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		_ = loop.Run(ctx)
	}()

	var session *app.PlaySession
	var openErr error
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	err = loop.Do(ctx, func() {
		session, openErr = h.plays.Open(ctx, profileID, difficulty, loop.Scheduler(), rng, func(ev app.PlayEvent) {
			push(ev.Type, ev)
		})
		if openErr == nil {
			loop.Scheduler().Every(StateInterval, session.PublishState)
		}
	})
	if err != nil {
		openErr = err
	}

	if openErr != nil {
		pushError(openErr)
	} else {
		h.readLoop(ctx, conn, loop, session, pushError)
	}

	cancel()
	<-loopDone
	// the loop has stopped, so the session is only touched from here
	if session != nil {
		h.plays.Close(context.Background(), session)
	}
	close(send)
	<-writerDone
}

func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn, loop *scheduler.Loop, session *app.PlaySession, pushError func(error)) {
	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			return
		}

		var in challenge.Input
		switch inbound.Type {
		case "start":
			_ = loop.Do(ctx, session.Start)
			continue
		case "input":
			var payload inputPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				pushError(errInvalidPayload)
				continue
			}
			in = challenge.Input{Action: payload.Action, Choice: payload.Choice}
		case "move":
			var payload movePayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				pushError(errInvalidPayload)
				continue
			}
			in = challenge.Input{Action: challenge.ActionMove, Choice: int(payload.X)}
		case "fire":
			in = challenge.Input{Action: challenge.ActionFire}
		case "hint":
			in = challenge.Input{Action: challenge.ActionHint}
		default:
			pushError(errUnsupportedMessage)
			continue
		}

		var handleErr error
		if err := loop.Do(ctx, func() { handleErr = session.Handle(in) }); err != nil {
			return
		}
		if handleErr != nil {
			pushError(handleErr)
		}
	}
}
