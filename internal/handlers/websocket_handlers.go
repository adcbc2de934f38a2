package handlers

import (
	"net/http"

	"chatspace/internal/realtime"
	"chatspace/pkg/logger"

	"github.com/gorilla/websocket"
)

type WebSocketHandlers struct {
	registry *realtime.Registry
	upgrader websocket.Upgrader
}

func NewWebSocketHandlers(registry *realtime.Registry) *WebSocketHandlers {
	return &WebSocketHandlers{
		registry: registry,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true }, // Configure for production
		},
	}
}

// HandleWebSocket upgrades the connection and registers it for presence.
// The identity comes from the handshake's userId query parameter: the
// socket layer trusts the identity the HTTP session already
// authenticated and does not re-verify it here. A missing or
// "undefined" identity keeps the connection alive but anonymous.
func (h *WebSocketHandlers) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("Upgrade error: %v", err)
		return
	}

	client := realtime.NewClient(h.registry, conn, userID)
	h.registry.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
