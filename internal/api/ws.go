package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/go-chi/chi/v5"
	"github.com/molkiya/shooting-range/internal/engine"
	"github.com/molkiya/shooting-range/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// Client message types accepted on the event stream.
const (
	MessageShoot   = "shoot"
	MessagePointer = "pointer"
	MessageWeapon  = "weapon"
	MessagePause   = "pause"
	MessageResume  = "resume"
)

// Server message types sent on the event stream.
const (
	MessageEvent    = "event"
	MessageSnapshot = "snapshot"
	MessageError    = "error"
)

// ClientMessage is one input sent by the front-end over the websocket.
type ClientMessage struct {
	Type string  `json:"type"`
	X    float64 `json:"x,omitempty"`
	Y    float64 `json:"y,omitempty"`
}

// ServerMessage is pushed to the front-end for every session event.
// Snapshots follow state changes so clients can redraw without polling.
type ServerMessage struct {
	Type    string           `json:"type"`
	Event   *engine.Event    `json:"event,omitempty"`
	Session *engine.Snapshot `json:"session,omitempty"`
	Error   string           `json:"error,omitempty"`
}

const writeTimeout = 5 * time.Second

var errStreamClosed = errors.New("session stream closed")

// SessionStream handles GET /v1/sessions/{id}/ws
func (h *Handler) SessionStream(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	playerID := GetPlayer(r.Context()).ID
	if playerID == "" {
		// browsers cannot set headers on a websocket handshake
		playerID = r.URL.Query().Get("player_id")
	}

	ctrl, err := h.games.Get(sessionID, playerID)
	if err != nil {
		h.fail(w, r, "session unavailable", err)
		return
	}
	events, unsubscribe, err := h.games.Subscribe(sessionID, playerID)
	if err != nil {
		h.fail(w, r, "session unavailable", err)
		return
	}
	defer unsubscribe()

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.originPatterns,
	})
	if err != nil {
		h.logger.Error("Failed to accept websocket", logger.F("session_id", sessionID), logger.Err(err))
		return
	}
	defer conn.CloseNow()

	log := h.logger.With(logger.F("session_id", sessionID), logger.F("request_id", GetRequestID(r.Context())))
	log.Debug("Event stream opened")

	eg, ctx := errgroup.WithContext(r.Context())
	eg.Go(func() error {
		return h.readLoop(ctx, conn, ctrl)
	})
	eg.Go(func() error {
		return h.writeLoop(ctx, conn, ctrl, events)
	})

	err = eg.Wait()
	switch {
	case errors.Is(err, errStreamClosed),
		websocket.CloseStatus(err) == websocket.StatusNormalClosure,
		websocket.CloseStatus(err) == websocket.StatusGoingAway:
	default:
		log.Debug("Event stream ended", logger.Err(err))
	}
}

func (h *Handler) readLoop(ctx context.Context, conn *websocket.Conn, ctrl *engine.Controller) error {
	for {
		var msg ClientMessage
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			return err
		}
		h.games.Touch(ctrl.ID())

		switch msg.Type {
		case MessageShoot:
			ctrl.Shoot(msg.X, msg.Y)
		case MessagePointer:
			ctrl.MovePointer(msg.X, msg.Y)
		case MessageWeapon:
			ctrl.SwitchWeapon()
		case MessagePause:
			ctrl.Pause()
		case MessageResume:
			ctrl.Resume()
		default:
			if err := write(ctx, conn, ServerMessage{Type: MessageError, Error: "unknown message type " + msg.Type}); err != nil {
				return err
			}
		}
	}
}

func (h *Handler) writeLoop(ctx context.Context, conn *websocket.Conn, ctrl *engine.Controller, events <-chan engine.Event) error {
	snap := ctrl.Snapshot()
	if err := write(ctx, conn, ServerMessage{Type: MessageSnapshot, Session: &snap}); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				conn.Close(websocket.StatusNormalClosure, "session closed")
				return errStreamClosed
			}
			if err := write(ctx, conn, ServerMessage{Type: MessageEvent, Event: &ev}); err != nil {
				return err
			}
			if ev.Kind == engine.EventState {
				snap := ctrl.Snapshot()
				if err := write(ctx, conn, ServerMessage{Type: MessageSnapshot, Session: &snap}); err != nil {
					return err
				}
			}
		}
	}
}

func write(ctx context.Context, conn *websocket.Conn, msg ServerMessage) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return wsjson.Write(ctx, conn, msg)
}
