package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/XavierBriggs/fortuna/services/prop-builder/internal/analyzer"
	"github.com/XavierBriggs/fortuna/services/prop-builder/internal/slip"
	"github.com/XavierBriggs/fortuna/services/prop-builder/internal/store"
	"github.com/rs/zerolog/log"
)

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("error encoding response")
	}
}

// respondError writes an error response; err is logged, never sent to the client
func respondError(w http.ResponseWriter, status int, message string, err error) {
	if err != nil {
		if status >= http.StatusInternalServerError {
			log.Error().Err(err).Int("status", status).Msg(message)
		} else {
			log.Debug().Err(err).Int("status", status).Msg(message)
		}
	}

	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// respondFailure maps err to a status and user-facing message
func respondFailure(w http.ResponseWriter, err error, maxPicks int) {
	respondError(w, statusFor(err), messageFor(err, maxPicks), err)
}

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, analyzer.ErrInvalidSelection), errors.Is(err, slip.ErrInvalidSide):
		return http.StatusBadRequest
	case errors.Is(err, slip.ErrSlipFull), errors.Is(err, slip.ErrDuplicatePick), errors.Is(err, store.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// messageFor returns the text shown to the user for err
func messageFor(err error, maxPicks int) string {
	switch {
	case errors.Is(err, slip.ErrSlipFull), errors.Is(err, slip.ErrDuplicatePick), errors.Is(err, slip.ErrInvalidSide):
		return slip.Message(err, maxPicks)
	case errors.Is(err, analyzer.ErrInvalidSelection):
		return err.Error()
	case errors.Is(err, store.ErrNotFound):
		return "slip not found"
	case errors.Is(err, store.ErrConflict):
		return "slip was changed by another request, try again"
	case errors.Is(err, context.DeadlineExceeded):
		return "request timed out"
	default:
		return "internal error"
	}
}
