package session

import (
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"quizhub/internal/server"
	httperrors "quizhub/pkg/http/errors"
	ws "quizhub/pkg/http/ws"
)

// WSHandler streams session snapshots to observer connections. The
// stream is read-only; mutations go through the REST endpoints and are
// fanned out to every observer of the session.
type WSHandler struct {
	hub    *ws.Hub
	logger zerolog.Logger
}

// NewWSHandler creates a session observer handler.
func NewWSHandler(hub *ws.Hub, logger zerolog.Logger) *WSHandler {
	return &WSHandler{
		hub:    hub,
		logger: logger.With().Str("component", "session_ws").Logger(),
	}
}

// HandleWatch upgrades GET /v1/sessions/{id}/ws.
func (h *WSHandler) HandleWatch(w http.ResponseWriter, r *http.Request, s *Session) {
	conn, err := server.WSUpgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	h.handleConnection(conn, s)
}

func (h *WSHandler) handleConnection(conn *websocket.Conn, s *Session) {
	wsConn := ws.NewConnection(conn, h.logger)
	connID := h.hub.Register(s.ID.String(), wsConn)

	// Start write pump
	go wsConn.WritePump()

	// Push the current state so observers render without waiting for a
	// mutation.
	h.sendState(wsConn, s)

	wsConn.ReadPump(func(msg ws.Message) error {
		return h.handleMessage(wsConn, s, msg)
	})

	// Cleanup on disconnect
	h.hub.Unregister(connID)
}

func (h *WSHandler) handleMessage(conn *ws.Connection, s *Session, msg ws.Message) error {
	switch msg.Type {
	case ws.TypeRequestState:
		h.sendState(conn, s)
		return nil
	case ws.TypePing:
		return conn.Send(ws.Message{Type: ws.TypePong})
	default:
		return h.sendError(conn, httperrors.ErrCodeUnknownMessageType, fmt.Sprintf("Unknown message type: %s", msg.Type))
	}
}

func (h *WSHandler) sendState(conn *ws.Connection, s *Session) {
	msg, err := ws.NewMessage(ws.TypeSessionState, s.View())
	if err != nil {
		h.logger.Warn().Err(err).Msg("snapshot marshal failed")
		return
	}
	if err := conn.Send(msg); err != nil {
		h.logger.Warn().Err(err).Msg("snapshot send failed")
	}
}

func (h *WSHandler) sendError(conn *ws.Connection, code, message string) error {
	msg, err := ws.NewMessage(ws.TypeError, ws.ErrorPayload{Code: code, Message: message})
	if err != nil {
		return err
	}
	return conn.Send(msg)
}
