package slip

import (
	"errors"
	"fmt"
	"time"

	"github.com/XavierBriggs/fortuna/services/prop-builder/pkg/models"
	"github.com/google/uuid"
)

// DefaultMaxPicks is the Pick-6 slip size
const DefaultMaxPicks = 6

var (
	// ErrSlipFull is returned when the slip already holds the maximum number of picks
	ErrSlipFull = errors.New("slip is full")

	// ErrDuplicatePick is returned when the prop is already on the slip
	ErrDuplicatePick = errors.New("prop already in slip")

	// ErrInvalidSide is returned for a pick direction other than OVER or UNDER
	ErrInvalidSide = errors.New("invalid pick side")
)

// Slip is a user's set of picks, owned by the caller between requests
type Slip struct {
	ID        string             `json:"id"`
	Picks     []models.Selection `json:"picks"`
	MaxPicks  int                `json:"max_picks"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// New creates an empty slip with a fresh id
func New(maxPicks int) *Slip {
	if maxPicks <= 0 {
		maxPicks = DefaultMaxPicks
	}
	now := time.Now().UTC()
	return &Slip{
		ID:        uuid.New().String(),
		Picks:     []models.Selection{},
		MaxPicks:  maxPicks,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Add appends a pick built from the prop.
// The slip is left unchanged when an error is returned.
func (s *Slip) Add(prop models.Prop, side models.Side) error {
	if !side.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidSide, side)
	}

	if len(s.Picks) >= s.MaxPicks {
		return fmt.Errorf("%w: %d picks", ErrSlipFull, s.MaxPicks)
	}

	if s.Contains(prop.ID) {
		return fmt.Errorf("%w: %s", ErrDuplicatePick, prop.ID)
	}

	s.Picks = append(s.Picks, models.NewSelection(prop, side))
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// Remove drops every pick for the prop id.
// Returns false when nothing was removed.
func (s *Slip) Remove(propID string) bool {
	kept := make([]models.Selection, 0, len(s.Picks))
	for _, p := range s.Picks {
		if p.ID != propID {
			kept = append(kept, p)
		}
	}

	removed := len(kept) != len(s.Picks)
	s.Picks = kept
	if removed {
		s.UpdatedAt = time.Now().UTC()
	}
	return removed
}

// Contains reports whether the prop id is on the slip
func (s *Slip) Contains(propID string) bool {
	for _, p := range s.Picks {
		if p.ID == propID {
			return true
		}
	}
	return false
}

// Len returns the number of picks
func (s *Slip) Len() int {
	return len(s.Picks)
}

// IsEmpty reports whether the slip has no picks
func (s *Slip) IsEmpty() bool {
	return len(s.Picks) == 0
}

// Message returns the user-facing text for a slip policy error
func Message(err error, maxPicks int) string {
	switch {
	case errors.Is(err, ErrSlipFull):
		return fmt.Sprintf("Maximum of %d picks allowed in the slip.", maxPicks)
	case errors.Is(err, ErrDuplicatePick):
		return "This prop is already in your slip."
	case errors.Is(err, ErrInvalidSide):
		return "Selection must be OVER or UNDER."
	default:
		return err.Error()
	}
}
