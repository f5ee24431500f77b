package push

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"eventplanner/internal/domain"
)

// wsConn is the subset of *websocket.Conn the hub uses.
type wsConn interface {
	WriteJSON(v any) error
	WriteMessage(messageType int, data []byte) error
	ReadMessage() (messageType int, p []byte, err error)
	Close() error
}

type client struct {
	id   string
	mu   sync.Mutex
	conn wsConn
}

// Hub maps a user to at most one live websocket connection and delivers
// payloads to it. It implements domain.PushSender and serves the GET /ws
// upgrade endpoint. A newer connection for a user replaces the older one.
type Hub struct {
	logger         *slog.Logger
	verifier       domain.TokenVerifier
	userRepo       domain.UserRepository
	allowedOrigins []string

	mu      sync.Mutex
	clients map[string]*client
}

// NewHub creates a Hub. The user repository records the live connection id on
// the user row so it survives as plain stored state, not process globals.
func NewHub(logger *slog.Logger, verifier domain.TokenVerifier, userRepo domain.UserRepository, allowedOrigins []string) *Hub {
	return &Hub{
		logger:         logger,
		verifier:       verifier,
		userRepo:       userRepo,
		allowedOrigins: allowedOrigins,
		clients:        make(map[string]*client),
	}
}

var _ domain.PushSender = (*Hub)(nil)

func (h *Hub) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				// Allow requests with no origin (e.g., non-browser clients)
				return true
			}
			for _, allowed := range h.allowedOrigins {
				if origin == allowed {
					return true
				}
			}
			h.logger.Warn("websocket origin rejected", slog.String("origin", origin))
			return false
		},
	}
}

// ServeHTTP upgrades an authenticated request to a websocket and keeps the
// connection registered until it closes. The token is taken from the "token"
// query parameter or a Bearer Authorization header.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
			token = strings.TrimSpace(auth[len("Bearer "):])
		}
	}
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}
	userID, err := h.verifier.Verify(token)
	if err != nil {
		http.Error(w, "invalid or expired token", http.StatusUnauthorized)
		return
	}

	upgrader := h.upgrader()
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	connID := h.register(userID, ws)
	h.logger.Info("client connected", slog.String("user_id", userID), slog.String("connection_id", connID))

	// Read loop: inbound messages are ignored; exit means disconnect.
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}
	h.unregister(userID, connID)
	h.logger.Info("client disconnected", slog.String("user_id", userID), slog.String("connection_id", connID))
}

// register stores conn as the user's live connection, closing any previous
// one, and records the connection id on the user row.
func (h *Hub) register(userID string, conn wsConn) string {
	connID := newConnectionID()
	h.mu.Lock()
	if old, ok := h.clients[userID]; ok {
		_ = old.conn.Close()
	}
	h.clients[userID] = &client{id: connID, conn: conn}
	h.mu.Unlock()

	h.storeConnectionID(userID, &connID)
	return connID
}

// unregister drops the connection only if it is still the user's current one.
func (h *Hub) unregister(userID, connID string) {
	h.mu.Lock()
	current, ok := h.clients[userID]
	if !ok || current.id != connID {
		h.mu.Unlock()
		return
	}
	delete(h.clients, userID)
	h.mu.Unlock()

	_ = current.conn.Close()
	h.storeConnectionID(userID, nil)
}

func (h *Hub) storeConnectionID(userID string, connID *string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := h.userRepo.UpdateConnectionID(ctx, userID, connID); err != nil {
		h.logger.Warn("could not store connection id", slog.String("user_id", userID), slog.String("error", err.Error()))
	}
}

// Send delivers payload to the user's live connection. Absent connection
// returns (false, nil). A write fault deregisters the connection and returns
// the error; callers log it and continue with other recipients.
func (h *Hub) Send(userID string, payload any) (bool, error) {
	h.mu.Lock()
	c, ok := h.clients[userID]
	h.mu.Unlock()
	if !ok {
		return false, nil
	}

	c.mu.Lock()
	err := c.conn.WriteJSON(payload)
	c.mu.Unlock()
	if err != nil {
		h.unregister(userID, c.id)
		return false, err
	}
	return true, nil
}

// PingAll sends a ping frame to every live connection and returns the number
// of connections pinged. Dead connections are dropped.
func (h *Hub) PingAll() int {
	h.mu.Lock()
	snapshot := make(map[string]*client, len(h.clients))
	for userID, c := range h.clients {
		snapshot[userID] = c
	}
	h.mu.Unlock()

	pinged := 0
	for userID, c := range snapshot {
		c.mu.Lock()
		err := c.conn.WriteMessage(websocket.PingMessage, nil)
		c.mu.Unlock()
		if err != nil {
			h.unregister(userID, c.id)
			continue
		}
		pinged++
	}
	return pinged
}

func newConnectionID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
