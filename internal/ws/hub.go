package ws

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 20 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

// Logger defines minimal logging interface required by the hub.
type Logger interface {
	Infof(string, ...interface{})
	Errorf(string, ...interface{})
}

// IdentityFunc extracts the authenticated user id from a request.
type IdentityFunc func(r *http.Request) (string, bool)

// OrderHub keeps one websocket per user and pushes order/payment events to it.
// A new connection from the same user replaces the previous one.
type OrderHub struct {
	logger   Logger
	identify IdentityFunc

	upgrader websocket.Upgrader

	mu    sync.RWMutex
	conns map[string]*websocket.Conn
	locks map[string]*sync.Mutex
}

func NewOrderHub(identify IdentityFunc, logger Logger) *OrderHub {
	return &OrderHub{
		logger:   logger,
		identify: identify,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		conns: make(map[string]*websocket.Conn),
		locks: make(map[string]*sync.Mutex),
	}
}

// ServeWS upgrades an authenticated request.
func (h *OrderHub) ServeWS(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.identify(r)
	if !ok || userID == "" {
		http.Error(w, `{"message":"Unauthorized"}`, http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		if h.logger != nil {
			h.logger.Errorf("orders ws upgrade failed: %v", err)
		}
		return
	}

	h.mu.Lock()
	if old, ok := h.conns[userID]; ok {
		_ = old.Close()
	}
	h.conns[userID] = conn
	if _, ok := h.locks[userID]; !ok {
		h.locks[userID] = &sync.Mutex{}
	}
	h.mu.Unlock()

	if h.logger != nil {
		h.logger.Infof("orders ws user %s connected", userID)
	}

	go h.pingLoop(userID, conn)
	go h.readLoop(userID, conn)
}

// Connected reports whether userID currently holds a connection.
func (h *OrderHub) Connected(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.conns[userID]
	return ok
}

func (h *OrderHub) pingLoop(userID string, conn *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for range ticker.C {
		h.mu.RLock()
		alive := h.conns[userID] == conn
		h.mu.RUnlock()
		if !alive {
			return
		}
		h.safeWrite(userID, func(c *websocket.Conn) error {
			return c.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
		})
	}
}

func (h *OrderHub) readLoop(userID string, conn *websocket.Conn) {
	defer h.closeConn(userID, conn)

	conn.SetReadLimit(16 << 10)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		mt, message, err := conn.ReadMessage()
		if err != nil {
			return
		}
		conn.SetReadDeadline(time.Now().Add(pongWait))
		if mt == websocket.TextMessage && strings.EqualFold(strings.TrimSpace(string(message)), "ping") {
			h.safeWrite(userID, func(c *websocket.Conn) error {
				return c.WriteMessage(websocket.TextMessage, []byte("pong"))
			})
		}
	}
}

func (h *OrderHub) closeConn(userID string, conn *websocket.Conn) {
	_ = conn.Close()
	h.mu.Lock()
	if current, ok := h.conns[userID]; ok && current == conn {
		delete(h.conns, userID)
		delete(h.locks, userID)
	}
	h.mu.Unlock()
}

func (h *OrderHub) safeWrite(userID string, fn func(*websocket.Conn) error) {
	h.mu.RLock()
	conn := h.conns[userID]
	mu := h.locks[userID]
	h.mu.RUnlock()
	if conn == nil || mu == nil {
		return
	}

	mu.Lock()
	defer mu.Unlock()

	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := fn(conn); err != nil {
		if h.logger != nil {
			h.logger.Errorf("orders ws user %s write failed: %v", userID, err)
		}
		h.closeConn(userID, conn)
	}
}

// Publish sends payload to the user's connection, if any.
func (h *OrderHub) Publish(userID string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		if h.logger != nil {
			h.logger.Errorf("orders ws marshal failed: %v", err)
		}
		return
	}
	h.safeWrite(userID, func(conn *websocket.Conn) error {
		return conn.WriteMessage(websocket.TextMessage, data)
	})
}
