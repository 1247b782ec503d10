package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/logger"
	"github.com/gorilla/websocket"
	"github.com/lotterysystem/lottery-backend/internal/notify"
)

// WSHandler upgrades display clients onto the notification hub
type WSHandler struct {
	hub      *notify.Hub
	upgrader websocket.Upgrader
}

// NewWSHandler creates a new WSHandler
func NewWSHandler(hub *notify.Hub) *WSHandler {
	return &WSHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Display pages are served from other origins; CORS is handled
			// at the HTTP layer.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Subscribe handles GET /ws
func (h *WSHandler) Subscribe(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warningf("websocket upgrade failed: %v", err)
		return
	}

	h.hub.Register(conn)
	// Drain incoming frames until the client goes away. Clients only listen;
	// anything they send is ignored.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.hub.Unregister(conn)
				return
			}
		}
	}()
}
