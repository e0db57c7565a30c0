package models

import "time"

// Side is the direction of a pick against the line
type Side string

const (
	SideOver  Side = "OVER"
	SideUnder Side = "UNDER"
)

// Valid reports whether the side is OVER or UNDER
func (s Side) Valid() bool {
	return s == SideOver || s == SideUnder
}

// Prop represents a player prop line on the board
type Prop struct {
	ID         string  `json:"id" validate:"required"`
	Name       string  `json:"name" validate:"required"`
	Market     string  `json:"market" validate:"required"`
	Line       float64 `json:"line"`
	TrendScore int     `json:"trend_score" validate:"gte=1,lte=3"`
	GameID     string  `json:"game_id" validate:"required"`
	Sport      string  `json:"sport,omitempty"`
}

// Selection represents a single pick in a slip
type Selection struct {
	ID         string  `json:"id" validate:"required"`
	PlayerName string  `json:"playerName" validate:"required"`
	PropMarket string  `json:"propMarket" validate:"required"`
	Line       float64 `json:"line"`
	Side       Side    `json:"selection" validate:"required,oneof=OVER UNDER"`
	TrendScore int     `json:"trend_score" validate:"gte=1,lte=3"`
	GameID     string  `json:"game_id" validate:"required"`
}

// NewSelection builds a selection from a prop and a pick direction
func NewSelection(prop Prop, side Side) Selection {
	return Selection{
		ID:         prop.ID,
		PlayerName: prop.Name,
		PropMarket: prop.Market,
		Line:       prop.Line,
		Side:       side,
		TrendScore: prop.TrendScore,
		GameID:     prop.GameID,
	}
}

// TrendIndicator is the display label for a trend score
type TrendIndicator struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// PropCard is a prop together with its trend indicator
type PropCard struct {
	Prop
	Trend TrendIndicator `json:"trend"`
}

// SlipAnalysis is the result of scoring a slip
type SlipAnalysis struct {
	RiskScore     float64 `json:"risk_score"`
	Warning       *string `json:"warning"`
	TrendStrength float64 `json:"trend_strength"`
}

// HasWarning reports whether a correlation warning was raised
func (a SlipAnalysis) HasWarning() bool {
	return a.Warning != nil
}

// AnalysisResponse is the analysis as returned to clients
type AnalysisResponse struct {
	SlipAnalysis
	RiskDisplay   string `json:"risk_display"`
	TrendDisplay  string `json:"trend_display"`
	StatusMessage string `json:"status_message"`
	Disclaimer    string `json:"disclaimer"`
	PickCount     int    `json:"pick_count"`
	MaxPicks      int    `json:"max_picks"`
}

// AnalyzeRequest is the request for stateless slip analysis
type AnalyzeRequest struct {
	Selections []Selection `json:"selections"`
}

// AddPickRequest is the request to add a prop to a slip
type AddPickRequest struct {
	PropID string `json:"prop_id"`
	Side   Side   `json:"selection"`
}

// SlipResponse bundles a slip with its current analysis
type SlipResponse struct {
	SlipID    string           `json:"slip_id"`
	Picks     []Selection      `json:"picks"`
	UpdatedAt time.Time        `json:"updated_at"`
	Analysis  AnalysisResponse `json:"analysis"`
}

// WatchlistRequest replaces a user's watchlist
type WatchlistRequest struct {
	Props []Prop `json:"props"`
}

// WatchlistResponse is a user's saved props
type WatchlistResponse struct {
	UserKey string `json:"user_key"`
	Props   []Prop `json:"props"`
	Count   int    `json:"count"`
}
