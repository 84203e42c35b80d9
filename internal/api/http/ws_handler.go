package http

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"toolcrib-backend/internal/dispatcher"
	"toolcrib-backend/internal/domain"
	"toolcrib-backend/internal/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// WSHandler upgrades authenticated connections and joins them to the hub
// under their role. The connection receives every event published to that
// role scope for as long as it stays open.
type WSHandler struct {
	hub      *dispatcher.Hub
	upgrader websocket.Upgrader
}

func NewWSHandler(hub *dispatcher.Hub, allowedOrigins []string) *WSHandler {
	allowed := make(map[string]bool, len(allowedOrigins))
	allowAll := false
	for _, origin := range allowedOrigins {
		if origin == "*" {
			allowAll = true
		}
		allowed[origin] = true
	}

	return &WSHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowAll || allowed[origin]
			},
		},
	}
}

func (h *WSHandler) Serve(w http.ResponseWriter, r *http.Request) {
	user, ok := mustUser(w, r)
	if !ok {
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", "user_id", user.ID, "error", err)
		return
	}

	connID := uuid.NewString()
	events := h.hub.Subscribe(connID, user.Role)
	logger.Info("websocket connected", "conn_id", connID, "user_id", user.ID, "role", user.Role)

	go h.writePump(conn, connID, events)
	go h.readPump(conn, connID)
}

// writePump drains the subscription channel onto the wire. It owns every
// write on the connection, including pings.
func (h *WSHandler) writePump(conn *websocket.Conn, connID string, events <-chan domain.Event) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case event, ok := <-events:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				logger.Debug("websocket write failed", "conn_id", connID, "error", err)
				h.hub.Unsubscribe(connID)
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.hub.Unsubscribe(connID)
				return
			}
		}
	}
}

// readPump discards inbound frames; clients only listen. It exists to
// answer pongs and to notice when the peer goes away.
func (h *WSHandler) readPump(conn *websocket.Conn, connID string) {
	defer h.hub.Unsubscribe(connID)

	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			logger.Debug("websocket closed", "conn_id", connID, "error", err)
			return
		}
	}
}
