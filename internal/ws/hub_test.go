package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func headerIdentity(r *http.Request) (string, bool) {
	id := r.Header.Get("X-User")
	return id, id != ""
}

func TestOrderHubPublish(t *testing.T) {
	hub := NewOrderHub(headerIdentity, nil)
	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, http.Header{"X-User": []string{"u1"}})
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Connected("u1") }, time.Second, 10*time.Millisecond)

	hub.Publish("u1", map[string]string{"type": "payment.updated", "status": "success"})
	hub.Publish("someone-else", map[string]string{"type": "ignored"})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"payment.updated","status":"success"}`, string(msg))
}

func TestOrderHubRejectsAnonymous(t *testing.T) {
	hub := NewOrderHub(headerIdentity, nil)
	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
