package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/XavierBriggs/fortuna/services/prop-builder/internal/analyzer"
	"github.com/XavierBriggs/fortuna/services/prop-builder/internal/metrics"
	"github.com/XavierBriggs/fortuna/services/prop-builder/internal/store"
	"github.com/XavierBriggs/fortuna/services/prop-builder/pkg/models"
)

// UserKeyHeader carries the authenticated user's key, set by the auth provider
const UserKeyHeader = "X-User-Key"

// WatchlistHandler handles saved prop requests
type WatchlistHandler struct {
	store store.WatchlistStore
}

// NewWatchlistHandler creates a new watchlist handler
func NewWatchlistHandler(watchlist store.WatchlistStore) *WatchlistHandler {
	return &WatchlistHandler{
		store: watchlist,
	}
}

// GetWatchlist returns the user's saved props
func (h *WatchlistHandler) GetWatchlist(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userKey, ok := userKeyFrom(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "missing "+UserKeyHeader+" header", nil)
		return
	}

	saved, err := h.store.LoadProps(ctx, userKey)
	metrics.ObserveWatchlist(metrics.OpLoad, err)
	if err != nil {
		respondError(w, statusFor(err), "failed to retrieve watchlist", err)
		return
	}

	respondJSON(w, http.StatusOK, models.WatchlistResponse{
		UserKey: userKey,
		Props:   saved,
		Count:   len(saved),
	})
}

// ReplaceWatchlist overwrites the user's saved props
func (h *WatchlistHandler) ReplaceWatchlist(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userKey, ok := userKeyFrom(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "missing "+UserKeyHeader+" header", nil)
		return
	}

	var req models.WatchlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err), nil)
		return
	}
	if req.Props == nil {
		req.Props = []models.Prop{}
	}

	for i, p := range req.Props {
		if err := analyzer.ValidateProp(p); err != nil {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("prop %d: %v", i, err), nil)
			return
		}
	}

	err := h.store.ReplaceProps(ctx, userKey, req.Props)
	metrics.ObserveWatchlist(metrics.OpReplace, err)
	if err != nil {
		respondError(w, statusFor(err), "failed to update watchlist", err)
		return
	}

	respondJSON(w, http.StatusOK, models.WatchlistResponse{
		UserKey: userKey,
		Props:   req.Props,
		Count:   len(req.Props),
	})
}

// userKeyFrom reads the user key header
func userKeyFrom(r *http.Request) (string, bool) {
	key := strings.TrimSpace(r.Header.Get(UserKeyHeader))
	return key, key != ""
}
