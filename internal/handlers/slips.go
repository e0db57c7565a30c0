package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/XavierBriggs/fortuna/services/prop-builder/internal/metrics"
	"github.com/XavierBriggs/fortuna/services/prop-builder/internal/props"
	"github.com/XavierBriggs/fortuna/services/prop-builder/internal/slip"
	"github.com/XavierBriggs/fortuna/services/prop-builder/internal/store"
	"github.com/XavierBriggs/fortuna/services/prop-builder/pkg/models"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// Broadcaster pushes slip updates to live subscribers
type Broadcaster interface {
	Broadcast(update models.SlipUpdate)
}

// EventPublisher records slip analyses for downstream consumers
type EventPublisher interface {
	Publish(ctx context.Context, event models.SlipEvent) error
}

// SlipHandler handles slip session requests
type SlipHandler struct {
	slips     store.SlipStore
	catalog   *props.Catalog
	hub       Broadcaster
	publisher EventPublisher
	maxPicks  int
}

// NewSlipHandler creates a new slip handler
func NewSlipHandler(slips store.SlipStore, catalog *props.Catalog, hub Broadcaster, publisher EventPublisher, maxPicks int) *SlipHandler {
	if maxPicks <= 0 {
		maxPicks = slip.DefaultMaxPicks
	}
	return &SlipHandler{
		slips:     slips,
		catalog:   catalog,
		hub:       hub,
		publisher: publisher,
		maxPicks:  maxPicks,
	}
}

// CreateSlip starts an empty slip session
func (h *SlipHandler) CreateSlip(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	s := slip.New(h.maxPicks)
	if err := h.slips.Save(ctx, s); err != nil {
		respondError(w, statusFor(err), "failed to create slip", err)
		return
	}

	respondJSON(w, http.StatusCreated, h.response(s))
}

// GetSlip returns a slip with its current analysis
func (h *SlipHandler) GetSlip(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	s, err := h.slips.Load(ctx, chi.URLParam(r, "slipID"))
	if err != nil {
		respondFailure(w, err, h.maxPicks)
		return
	}

	respondJSON(w, http.StatusOK, h.response(s))
}

// DeleteSlip ends a slip session
func (h *SlipHandler) DeleteSlip(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.slips.Delete(ctx, chi.URLParam(r, "slipID")); err != nil {
		respondFailure(w, err, h.maxPicks)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddPick adds a prop from the board to the slip
func (h *SlipHandler) AddPick(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req models.AddPickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err), nil)
		return
	}

	if req.PropID == "" {
		respondError(w, http.StatusBadRequest, "prop_id is required", nil)
		return
	}

	prop, ok := h.catalog.Get(req.PropID)
	if !ok {
		respondError(w, http.StatusNotFound, "prop not found", nil)
		return
	}

	// Policy errors from Add are tied to the stored slip's size limit
	maxPicks := h.maxPicks
	s, err := h.slips.Update(ctx, chi.URLParam(r, "slipID"), func(s *slip.Slip) error {
		maxPicks = s.MaxPicks
		return s.Add(prop, req.Side)
	})
	if err != nil {
		if result, rejected := pickRejection(err); rejected {
			metrics.ObservePick(result)
		}
		respondFailure(w, err, maxPicks)
		return
	}
	metrics.ObservePick(metrics.ResultAdded)

	resp := h.response(s)
	h.notify(ctx, s, resp)
	respondJSON(w, http.StatusOK, resp)
}

// RemovePick removes a prop from the slip; removing a missing prop is a no-op
func (h *SlipHandler) RemovePick(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	slipID := chi.URLParam(r, "slipID")
	propID := chi.URLParam(r, "propID")

	current, err := h.slips.Load(ctx, slipID)
	if err != nil {
		respondFailure(w, err, h.maxPicks)
		return
	}
	if !current.Contains(propID) {
		respondJSON(w, http.StatusOK, h.response(current))
		return
	}

	removed := false
	s, err := h.slips.Update(ctx, slipID, func(s *slip.Slip) error {
		removed = s.Remove(propID)
		return nil
	})
	if err != nil {
		respondFailure(w, err, h.maxPicks)
		return
	}

	resp := h.response(s)
	if removed {
		metrics.ObservePick(metrics.ResultRemoved)
		h.notify(ctx, s, resp)
	}
	respondJSON(w, http.StatusOK, resp)
}

// GetAnalysis returns only the analysis of a stored slip.
// Reads do not notify; updates are pushed when the slip changes.
func (h *SlipHandler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	s, err := h.slips.Load(ctx, chi.URLParam(r, "slipID"))
	if err != nil {
		respondFailure(w, err, h.maxPicks)
		return
	}

	respondJSON(w, http.StatusOK, h.response(s).Analysis)
}

// response bundles a slip with a fresh analysis
func (h *SlipHandler) response(s *slip.Slip) models.SlipResponse {
	return models.SlipResponse{
		SlipID:    s.ID,
		Picks:     s.Picks,
		UpdatedAt: s.UpdatedAt,
		Analysis:  analyze(s.Picks, s.MaxPicks),
	}
}

// notify pushes the analysis of a changed slip to live subscribers and the event stream.
// Failures are logged and never fail the request.
func (h *SlipHandler) notify(ctx context.Context, s *slip.Slip, resp models.SlipResponse) {
	if h.hub != nil {
		h.hub.Broadcast(models.SlipUpdate{
			SlipID:   resp.SlipID,
			Picks:    resp.Picks,
			Analysis: resp.Analysis,
		})
	}

	if h.publisher == nil {
		return
	}

	event := models.SlipEvent{
		SlipID:        s.ID,
		PickCount:     s.Len(),
		RiskScore:     resp.Analysis.RiskScore,
		TrendStrength: resp.Analysis.TrendStrength,
		Warning:       resp.Analysis.Warning,
		AnalyzedAt:    time.Now().UTC(),
	}
	if err := h.publisher.Publish(ctx, event); err != nil {
		log.Warn().Err(err).Str("slip_id", s.ID).Msg("failed to publish slip analysis")
	}
}

// pickRejection labels a slip policy rejection for metrics
func pickRejection(err error) (string, bool) {
	switch {
	case errors.Is(err, slip.ErrSlipFull):
		return metrics.ResultFull, true
	case errors.Is(err, slip.ErrDuplicatePick):
		return metrics.ResultDuplicate, true
	case errors.Is(err, slip.ErrInvalidSide):
		return metrics.ResultRejected, true
	default:
		return "", false
	}
}
