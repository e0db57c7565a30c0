package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/XavierBriggs/fortuna/services/prop-builder/internal/analyzer"
	"github.com/XavierBriggs/fortuna/services/prop-builder/internal/props"
	"github.com/XavierBriggs/fortuna/services/prop-builder/internal/slip"
	"github.com/XavierBriggs/fortuna/services/prop-builder/pkg/models"
	"github.com/go-chi/chi/v5"
)

// Pinger reports whether a backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler serves the prop board, trend lookups and stateless analysis
type Handler struct {
	catalog  *props.Catalog
	store    Pinger
	maxPicks int
}

// NewHandler creates a new handler with dependencies
func NewHandler(catalog *props.Catalog, store Pinger, maxPicks int) *Handler {
	if maxPicks <= 0 {
		maxPicks = slip.DefaultMaxPicks
	}
	return &Handler{
		catalog:  catalog,
		store:    store,
		maxPicks: maxPicks,
	}
}

// HealthCheck returns service health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		respondError(w, http.StatusServiceUnavailable, "store unhealthy", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"service":   "prop-builder",
	})
}

// GetProps returns the prop board with trend indicators
// Query params: search, sport
func (h *Handler) GetProps(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")
	sport := r.URL.Query().Get("sport")

	cards := props.Cards(h.catalog.Search(search, sport))

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"props":  cards,
		"count":  len(cards),
		"sports": props.Sports,
	})
}

// GetProp returns a single prop card
func (h *Handler) GetProp(w http.ResponseWriter, r *http.Request) {
	propID := chi.URLParam(r, "propID")

	prop, ok := h.catalog.Get(propID)
	if !ok {
		respondError(w, http.StatusNotFound, "prop not found", nil)
		return
	}

	respondJSON(w, http.StatusOK, props.Card(prop))
}

// GetTrend returns the indicator for an integer trend score
func (h *Handler) GetTrend(w http.ResponseWriter, r *http.Request) {
	score, err := strconv.Atoi(chi.URLParam(r, "score"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "score must be an integer", err)
		return
	}

	indicator := analyzer.Indicator(score)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"score": score,
		"label": indicator.Label,
		"color": indicator.Color,
	})
}

// AnalyzeSlip scores a slip sent in the request body without storing it
func (h *Handler) AnalyzeSlip(w http.ResponseWriter, r *http.Request) {
	var req models.AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err), nil)
		return
	}

	if len(req.Selections) > h.maxPicks {
		respondFailure(w, fmt.Errorf("%w: %d picks", slip.ErrSlipFull, len(req.Selections)), h.maxPicks)
		return
	}

	if err := analyzer.ValidateSlip(req.Selections); err != nil {
		respondFailure(w, err, h.maxPicks)
		return
	}

	if id, dup := firstDuplicate(req.Selections); dup {
		respondFailure(w, fmt.Errorf("%w: %s", slip.ErrDuplicatePick, id), h.maxPicks)
		return
	}

	respondJSON(w, http.StatusOK, analyze(req.Selections, h.maxPicks))
}

// firstDuplicate returns the first selection id that appears twice
func firstDuplicate(selections []models.Selection) (string, bool) {
	seen := make(map[string]bool, len(selections))
	for _, s := range selections {
		if seen[s.ID] {
			return s.ID, true
		}
		seen[s.ID] = true
	}
	return "", false
}
