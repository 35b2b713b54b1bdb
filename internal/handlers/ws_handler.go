package handlers

import (
	"log"

	"github.com/gin-gonic/gin"

	"dynotest/internal/ws"
)

// WSHandler upgrades authenticated viewers onto the telemetry hub.
type WSHandler struct {
	hub *ws.Hub
}

func NewWSHandler(hub *ws.Hub) *WSHandler {
	return &WSHandler{hub: hub}
}

func (h *WSHandler) Serve(c *gin.Context) {
	if err := ws.Serve(h.hub, c.Writer, c.Request); err != nil {
		// Upgrade failures already wrote their response.
		log.Printf("WebSocket upgrade failed: %v", err)
	}
}
