package realtime

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metacircle/metasync/internal/models/dtos"
)

func newHubServer(t *testing.T) (*Hub, string) {
	t.Helper()
	hub := NewHub(nil)
	srv := httptest.NewServer(hub.ServeWS())
	t.Cleanup(srv.Close)
	return hub, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) dtos.WSFrame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)
	var frame dtos.WSFrame
	require.NoError(t, json.Unmarshal(payload, &frame))
	return frame
}

// waitForClients polls until the hub's registration count settles, since
// connect and disconnect complete asynchronously to the dialer.
func waitForClients(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.ClientCount() == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("client count never reached %d, last seen %d", want, hub.ClientCount())
}

func TestHandshakeFrame(t *testing.T) {
	hub, url := newHubServer(t)

	conn := dial(t, url)
	frame := readFrame(t, conn)

	assert.Equal(t, dtos.WSTypeConnected, frame.Type)
	assert.NotEmpty(t, frame.Message)
	waitForClients(t, hub, 1)
}

func TestBroadcastReachesAllClients(t *testing.T) {
	hub, url := newHubServer(t)

	conns := make([]*websocket.Conn, 3)
	for i := range conns {
		conns[i] = dial(t, url)
		readFrame(t, conns[i]) // handshake
	}
	waitForClients(t, hub, 3)

	hub.Broadcast(dtos.WSFrame{Type: dtos.WSTypeNewPost, Data: map[string]any{"id": 42}})

	for _, conn := range conns {
		frame := readFrame(t, conn)
		assert.Equal(t, dtos.WSTypeNewPost, frame.Type)
	}
}

func TestDisconnectedClientMissesFrames(t *testing.T) {
	hub, url := newHubServer(t)

	staying := dial(t, url)
	readFrame(t, staying)
	leaving := dial(t, url)
	readFrame(t, leaving)
	waitForClients(t, hub, 2)

	require.NoError(t, leaving.Close())
	waitForClients(t, hub, 1)

	// A frame published after the disconnect reaches only the surviving
	// client; nothing is queued or replayed for the departed one.
	hub.Broadcast(dtos.WSFrame{Type: dtos.WSTypePointsUpdated})

	frame := readFrame(t, staying)
	assert.Equal(t, dtos.WSTypePointsUpdated, frame.Type)
}

func TestBroadcastWithNoClients(t *testing.T) {
	hub := NewHub(nil)

	// Publishing into an empty hub is a no-op, not an error.
	hub.Broadcast(dtos.WSFrame{Type: dtos.WSTypeNewEvent})
	assert.Equal(t, 0, hub.ClientCount())
}
