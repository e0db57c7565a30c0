package hub

import (
	"context"
	"sync"
	"time"

	"github.com/XavierBriggs/fortuna/services/prop-builder/internal/client"
	"github.com/XavierBriggs/fortuna/services/prop-builder/pkg/models"
	"github.com/rs/zerolog/log"
)

// Hub maintains the set of active clients and pushes slip updates to them
type Hub struct {
	// Registered clients
	clients   map[*client.Client]bool
	clientsMu sync.RWMutex

	// Slip updates from the HTTP handlers
	broadcast chan models.SlipUpdate

	// Register requests from clients
	register chan *client.Client

	// Unregister requests from clients
	unregister chan *client.Client

	// Closed when Run returns
	done chan struct{}

	// Metrics
	totalConnections int64
	totalMessages    int64
	totalDropped     int64
	metricsMu        sync.Mutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*client.Client]bool),
		broadcast:  make(chan models.SlipUpdate, 256),
		register:   make(chan *client.Client),
		unregister: make(chan *client.Client),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run(ctx context.Context) {
	log.Info().Msg("✓ Hub started")
	defer close(h.done)

	go h.reportMetrics(ctx)

	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case c := <-h.register:
			h.registerClient(c)

		case c := <-h.unregister:
			h.unregisterClient(c)

		case update := <-h.broadcast:
			h.broadcastUpdate(update)
		}
	}
}

// Register adds a client to the hub
func (h *Hub) Register(c *client.Client) {
	select {
	case h.register <- c:
	case <-h.done:
		c.Close()
	}
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(c *client.Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Broadcast queues a slip update for every client following that slip
func (h *Hub) Broadcast(update models.SlipUpdate) {
	select {
	case h.broadcast <- update:
	default:
		log.Warn().Str("slip_id", update.SlipID).Msg("broadcast buffer full, dropping slip update")
	}
}

// registerClient adds a client to the active clients map
func (h *Hub) registerClient(c *client.Client) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	h.clients[c] = true
	h.incrementTotalConnections()

	log.Debug().Str("client_id", c.ID).Str("slip_id", c.SlipID()).Int("total", len(h.clients)).Msg("client connected")
}

// unregisterClient removes a client from the active clients map
func (h *Hub) unregisterClient(c *client.Client) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		c.Close()
		log.Debug().Str("client_id", c.ID).Int("total", len(h.clients)).Msg("client disconnected")
	}
}

// broadcastUpdate sends an update to all clients following the slip
func (h *Hub) broadcastUpdate(update models.SlipUpdate) {
	h.clientsMu.RLock()
	clients := make([]*client.Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.clientsMu.RUnlock()

	message := models.ServerMessage{
		Type:      models.MessageTypeSlipUpdate,
		Payload:   update,
		Timestamp: time.Now(),
	}

	sent := 0
	dropped := 0

	for _, c := range clients {
		if !c.Follows(update.SlipID) {
			continue
		}

		if c.TrySend(message) {
			sent++
		} else {
			dropped++
			// Client buffer full, disconnect it
			log.Warn().Str("client_id", c.ID).Msg("client buffer full, disconnecting")
			go h.Unregister(c)
		}
	}

	h.recordBroadcast(sent, dropped)
}

// GetMetrics returns hub metrics
func (h *Hub) GetMetrics() map[string]interface{} {
	h.clientsMu.RLock()
	activeClients := len(h.clients)
	h.clientsMu.RUnlock()

	h.metricsMu.Lock()
	totalConnections := h.totalConnections
	totalMessages := h.totalMessages
	totalDropped := h.totalDropped
	h.metricsMu.Unlock()

	return map[string]interface{}{
		"active_clients":     activeClients,
		"total_connections":  totalConnections,
		"total_messages":     totalMessages,
		"total_dropped":      totalDropped,
		"broadcast_capacity": cap(h.broadcast),
		"broadcast_usage":    len(h.broadcast),
	}
}

// GetClientCount returns the number of active clients
func (h *Hub) GetClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

// shutdown closes all client connections
func (h *Hub) shutdown() {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	log.Info().Int("active_clients", len(h.clients)).Msg("shutting down hub")

	for c := range h.clients {
		c.Close()
		delete(h.clients, c)
	}
}

// reportMetrics periodically logs hub metrics
func (h *Hub) reportMetrics(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics := h.GetMetrics()
			log.Info().
				Interface("clients", metrics["active_clients"]).
				Interface("total_connections", metrics["total_connections"]).
				Interface("messages", metrics["total_messages"]).
				Msg("hub metrics")
		}
	}
}

// incrementTotalConnections safely increments the total connections counter
func (h *Hub) incrementTotalConnections() {
	h.metricsMu.Lock()
	defer h.metricsMu.Unlock()
	h.totalConnections++
}

// recordBroadcast adds one broadcast's delivery counts to the totals
func (h *Hub) recordBroadcast(sent, dropped int) {
	h.metricsMu.Lock()
	defer h.metricsMu.Unlock()
	h.totalMessages += int64(sent)
	h.totalDropped += int64(dropped)
}
