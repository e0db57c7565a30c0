package store

import (
	"context"
	"errors"

	"github.com/XavierBriggs/fortuna/services/prop-builder/internal/slip"
	"github.com/XavierBriggs/fortuna/services/prop-builder/pkg/models"
)

var (
	// ErrNotFound is returned when a stored record does not exist
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a record kept changing under an update
	ErrConflict = errors.New("concurrent update conflict")
)

// WatchlistStore persists a user's saved props.
// It is a thin passthrough to the backing document store.
type WatchlistStore interface {
	LoadProps(ctx context.Context, userKey string) ([]models.Prop, error)
	ReplaceProps(ctx context.Context, userKey string, props []models.Prop) error
	Ping(ctx context.Context) error
	Close() error
}

// SlipStore persists slip sessions between requests
type SlipStore interface {
	Load(ctx context.Context, slipID string) (*slip.Slip, error)
	Save(ctx context.Context, s *slip.Slip) error
	Delete(ctx context.Context, slipID string) error

	// Update applies fn to the stored slip and saves the result atomically.
	// Nothing is saved when fn returns an error; that error is returned as is.
	Update(ctx context.Context, slipID string, fn func(s *slip.Slip) error) (*slip.Slip, error)
}
