package props

import (
	"strings"

	"github.com/XavierBriggs/fortuna/services/prop-builder/internal/analyzer"
	"github.com/XavierBriggs/fortuna/services/prop-builder/pkg/models"
)

// Supported sport filters
const (
	SportNBA = "NBA"
	SportNFL = "NFL"
	SportMLB = "MLB"
)

// Sports lists the sports offered in the search filter
var Sports = []string{SportNBA, SportNFL, SportMLB}

// Catalog holds the prop board in display order
type Catalog struct {
	props []models.Prop
	byID  map[string]int
}

// NewCatalog creates a catalog from props.
// Later props with a repeated id are ignored.
func NewCatalog(props []models.Prop) *Catalog {
	c := &Catalog{
		props: make([]models.Prop, 0, len(props)),
		byID:  make(map[string]int, len(props)),
	}
	for _, p := range props {
		if _, exists := c.byID[p.ID]; exists {
			continue
		}
		c.byID[p.ID] = len(c.props)
		c.props = append(c.props, p)
	}
	return c
}

// DefaultProps returns the demo NBA board
func DefaultProps() []models.Prop {
	return []models.Prop{
		{ID: "prop-1", Name: "LeBron James", Market: "Player Points", Line: 25.5, TrendScore: 3, GameID: "LAL@DEN", Sport: SportNBA},
		{ID: "prop-2", Name: "Nikola Jokic", Market: "Player Rebounds", Line: 12.5, TrendScore: 2, GameID: "LAL@DEN", Sport: SportNBA},
		{ID: "prop-3", Name: "Jayson Tatum", Market: "Player Assists", Line: 5.5, TrendScore: 3, GameID: "BOS@NYK", Sport: SportNBA},
		{ID: "prop-4", Name: "Luka Doncic", Market: "Player Points", Line: 32.5, TrendScore: 1, GameID: "DAL@PHX", Sport: SportNBA},
		{ID: "prop-5", Name: "Luka Doncic", Market: "Player Assists", Line: 7.5, TrendScore: 2, GameID: "DAL@PHX", Sport: SportNBA},
	}
}

// All returns every prop in display order
func (c *Catalog) All() []models.Prop {
	out := make([]models.Prop, len(c.props))
	copy(out, c.props)
	return out
}

// Get returns a prop by id
func (c *Catalog) Get(id string) (models.Prop, bool) {
	idx, ok := c.byID[id]
	if !ok {
		return models.Prop{}, false
	}
	return c.props[idx], true
}

// Search filters props by player name (case-insensitive substring) and sport.
// Empty term or sport matches everything.
func (c *Catalog) Search(term, sport string) []models.Prop {
	term = strings.ToLower(strings.TrimSpace(term))
	sport = strings.TrimSpace(sport)

	out := make([]models.Prop, 0, len(c.props))
	for _, p := range c.props {
		if sport != "" && !strings.EqualFold(p.Sport, sport) {
			continue
		}
		if term != "" && !strings.Contains(strings.ToLower(p.Name), term) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Cards attaches trend indicators to props
func Cards(props []models.Prop) []models.PropCard {
	cards := make([]models.PropCard, len(props))
	for i, p := range props {
		cards[i] = Card(p)
	}
	return cards
}

// Card attaches the trend indicator to a single prop
func Card(p models.Prop) models.PropCard {
	return models.PropCard{Prop: p, Trend: analyzer.Indicator(p.TrendScore)}
}
