package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/XavierBriggs/fortuna/services/prop-builder/internal/client"
	"github.com/XavierBriggs/fortuna/services/prop-builder/internal/hub"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// WSHandler upgrades slip followers to WebSocket connections
type WSHandler struct {
	hub      *hub.Hub
	ctx      context.Context
	upgrader websocket.Upgrader
}

// NewWSHandler creates a websocket handler.
// Connections live until ctx is cancelled; an empty origins list accepts any origin.
func NewWSHandler(ctx context.Context, h *hub.Hub, origins []string) *WSHandler {
	return &WSHandler{
		hub: h,
		ctx: ctx,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(origins),
		},
	}
}

// HandleWebSocket upgrades the connection and follows the slip_id query param
func (h *WSHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	slipID := r.URL.Query().Get("slip_id")

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade error")
		return
	}

	clientID := uuid.New().String()
	c := client.NewClient(clientID, conn, h.hub, slipID)

	h.hub.Register(c)

	// Pumps use the handler context, not the request context
	go c.WritePump(h.ctx)
	go c.ReadPump(h.ctx)

	log.Debug().Str("client_id", clientID).Str("slip_id", slipID).Msg("websocket connection established")
}

// HandleMetrics returns hub metrics
func (h *WSHandler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.hub.GetMetrics())
}

func originChecker(origins []string) func(r *http.Request) bool {
	if len(origins) == 0 {
		return func(r *http.Request) bool { return true }
	}

	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[strings.TrimRight(o, "/")] = true
	}

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		// Non-browser clients send no Origin
		return origin == "" || allowed[origin]
	}
}
