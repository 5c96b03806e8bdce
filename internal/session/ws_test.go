package session

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizhub/internal/quiz"
	ws "quizhub/pkg/http/ws"
)

func newObserverServer(t *testing.T) (*HTTPHandlers, *httptest.Server) {
	t.Helper()
	h, _ := newSessionAPI(t, map[string]*quiz.Document{"starter": twoQuestionDoc()})
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/sessions", h.HandleSessions)
	mux.HandleFunc("/v1/sessions/", h.HandleSessions)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return h, srv
}

func dialObserver(t *testing.T, srv *httptest.Server, sessionID string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/sessions/" + sessionID + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readWSMessage(t *testing.T, conn *websocket.Conn) ws.Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg ws.Message
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func decodeViewPayload(t *testing.T, msg ws.Message) View {
	t.Helper()
	require.Equal(t, ws.TypeSessionState, msg.Type)
	var v View
	require.NoError(t, json.Unmarshal(msg.Payload, &v))
	return v
}

func TestObserverReceivesSnapshots(t *testing.T) {
	h, srv := newObserverServer(t)
	id := createSession(t, h, "Ada")

	conn := dialObserver(t, srv, id)

	// The current state arrives without any request.
	v := decodeViewPayload(t, readWSMessage(t, conn))
	assert.Equal(t, PhaseSelecting, v.Phase)
	assert.Equal(t, id, v.SessionID)

	// REST mutations fan out to the observer.
	rec := doRequest(t, h, http.MethodPost, "/v1/sessions/"+id+"/select", map[string]string{"quiz_id": "starter"})
	require.Equal(t, http.StatusOK, rec.Code)
	v = decodeViewPayload(t, readWSMessage(t, conn))
	assert.Equal(t, PhasePresenting, v.Phase)
	require.NotNil(t, v.Question)
	assert.Equal(t, "q1", v.Question.ID)

	rec = doRequest(t, h, http.MethodPost, "/v1/sessions/"+id+"/answer", map[string]any{"value": "B"})
	require.Equal(t, http.StatusOK, rec.Code)
	v = decodeViewPayload(t, readWSMessage(t, conn))
	assert.Equal(t, PhaseGraded, v.Phase)
	require.NotNil(t, v.Graded)
	assert.True(t, v.Graded.Correct)

	// Resubmitting a graded question does not broadcast; request_state
	// still answers with a fresh snapshot.
	rec = doRequest(t, h, http.MethodPost, "/v1/sessions/"+id+"/answer", map[string]any{"value": "A"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, conn.WriteJSON(ws.Message{Type: ws.TypeRequestState}))
	v = decodeViewPayload(t, readWSMessage(t, conn))
	assert.Equal(t, PhaseGraded, v.Phase)
	assert.Equal(t, 1, v.Score)
}

func TestObserverPingAndUnknownType(t *testing.T) {
	h, srv := newObserverServer(t)
	id := createSession(t, h, "")
	conn := dialObserver(t, srv, id)
	readWSMessage(t, conn)

	require.NoError(t, conn.WriteJSON(ws.Message{Type: ws.TypePing}))
	msg := readWSMessage(t, conn)
	assert.Equal(t, ws.TypePong, msg.Type)

	require.NoError(t, conn.WriteJSON(ws.Message{Type: "subscribe"}))
	msg = readWSMessage(t, conn)
	require.Equal(t, ws.TypeError, msg.Type)
	var payload ws.ErrorPayload
	require.NoError(t, json.Unmarshal(msg.Payload, &payload))
	assert.Equal(t, "unknown_message_type", payload.Code)
	assert.Contains(t, payload.Message, "subscribe")
}

func TestObserverNotifiedOnDelete(t *testing.T) {
	h, srv := newObserverServer(t)
	id := createSession(t, h, "")
	conn := dialObserver(t, srv, id)
	readWSMessage(t, conn)

	rec := doRequest(t, h, http.MethodDelete, "/v1/sessions/"+id, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	msg := readWSMessage(t, conn)
	require.Equal(t, ws.TypeSessionClosed, msg.Type)
	var payload ws.SessionClosedPayload
	require.NoError(t, json.Unmarshal(msg.Payload, &payload))
	assert.Equal(t, id, payload.SessionID)
	assert.Equal(t, "session deleted", payload.Reason)

	// The server closes the connection after the notice.
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var drained ws.Message
	err := conn.ReadJSON(&drained)
	assert.Error(t, err)
}

func TestTwoObserversShareBroadcasts(t *testing.T) {
	h, srv := newObserverServer(t)
	id := createSession(t, h, "")

	connA := dialObserver(t, srv, id)
	connB := dialObserver(t, srv, id)
	readWSMessage(t, connA)
	readWSMessage(t, connB)
	require.Equal(t, 2, h.hub.Observers(id))

	rec := doRequest(t, h, http.MethodPost, "/v1/sessions/"+id+"/select", map[string]string{"quiz_id": "starter"})
	require.Equal(t, http.StatusOK, rec.Code)

	for _, conn := range []*websocket.Conn{connA, connB} {
		v := decodeViewPayload(t, readWSMessage(t, conn))
		assert.Equal(t, PhasePresenting, v.Phase)
	}
}
