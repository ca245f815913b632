package realtime

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"metacircle/metasync/internal/logging"
	"metacircle/metasync/internal/metrics"
	"metacircle/metasync/internal/models/dtos"
)

// Broadcaster is the producer-side view of the realtime channel. Delivery
// is at-most-once and best-effort: a client that is offline, or whose send
// buffer is full, simply misses the frame.
type Broadcaster interface {
	Broadcast(frame dtos.WSFrame)
}

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 32
)

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans server frames out to every connected websocket. The channel is
// server→client only; anything a client sends is read and discarded to keep
// the connection's control frames flowing.
type Hub struct {
	mu         sync.Mutex
	clients    map[*client]bool
	upgrader   websocket.Upgrader
	metricsReg *metrics.MetricsRegistry
	bridge     *RedisBridge
}

var _ Broadcaster = (*Hub)(nil)

func NewHub(metricsReg *metrics.MetricsRegistry) *Hub {
	return &Hub{
		clients:    make(map[*client]bool),
		metricsReg: metricsReg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The HTTP layer already handles CORS; the ws endpoint is open.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// AttachBridge wires the optional cross-instance relay. Frames arriving
// from peers are fanned out locally only.
func (h *Hub) AttachBridge(b *RedisBridge) {
	h.bridge = b
	b.listen(h.broadcastLocal)
}

// ServeWS upgrades the request and registers the socket. The handshake
// frame is sent immediately so clients can confirm the channel is live.
func (h *Hub) ServeWS() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			logging.Warn("WebSocket upgrade failed", "error", err.Error())
			return
		}

		c := &client{conn: conn, send: make(chan []byte, sendBufferSize)}

		h.mu.Lock()
		h.clients[c] = true
		count := len(h.clients)
		h.mu.Unlock()
		if h.metricsReg != nil {
			h.metricsReg.WSConnections.Inc()
		}
		logging.Info("WebSocket client connected", "clients", count)

		handshake, _ := json.Marshal(dtos.WSFrame{
			Type:    dtos.WSTypeConnected,
			Message: "Connected to MetaSync realtime updates",
		})
		c.send <- handshake

		go h.writePump(c)
		go h.readPump(c)
	}
}

// Broadcast serializes the frame once and hands it to every connected
// client, plus the bridge when one is attached.
func (h *Hub) Broadcast(frame dtos.WSFrame) {
	payload, err := json.Marshal(frame)
	if err != nil {
		logging.Error("Failed to serialize broadcast frame", "type", frame.Type, "error", err.Error())
		return
	}
	if h.metricsReg != nil {
		h.metricsReg.BroadcastsTotal.WithLabelValues(frame.Type).Inc()
	}

	h.broadcastLocal(payload)

	if h.bridge != nil {
		h.bridge.publish(payload)
	}
}

func (h *Hub) broadcastLocal(payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- payload:
		default:
			// Slow consumer; skip rather than block the producer.
		}
	}
}

// ClientCount reports the number of registered sockets.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	if ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
	if ok {
		if h.metricsReg != nil {
			h.metricsReg.WSConnections.Dec()
		}
		c.conn.Close()
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		h.remove(c)
	}()

	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Hub) readPump(c *client) {
	defer h.remove(c)

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		// No client→server protocol is defined; drain and drop.
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
