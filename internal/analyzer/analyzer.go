package analyzer

import (
	"fmt"

	"github.com/XavierBriggs/fortuna/services/prop-builder/pkg/models"
)

const (
	// MaxRisk is the starting point of the risk formula
	MaxRisk = 10.0

	// SelfCorrelationPenalty applies when one player/market appears twice
	SelfCorrelationPenalty = 4.0

	// GameCorrelationPenalty applies when a game has more than GameCorrelationLimit picks
	GameCorrelationPenalty = 2.0
	GameCorrelationLimit   = 2

	// SelfCorrelationWarning is the fixed warning for duplicate player/market picks
	SelfCorrelationWarning = "EXTREME: Multiple picks from the same player/prop market (Self-Correlation)."
)

// playerMarket identifies a player/market pair
type playerMarket struct {
	player string
	market string
}

// AnalyzeSlip scores a slip for correlation risk.
// Risk score = 10 - trend strength - correlation penalty, floored at 0 (lower is better).
func AnalyzeSlip(selections []models.Selection) models.SlipAnalysis {
	if len(selections) == 0 {
		return models.SlipAnalysis{}
	}

	var warning *string
	penalty := 0.0

	// 1. Self-correlation: same player and same market more than once
	pairCounts := make(map[playerMarket]int, len(selections))
	for _, s := range selections {
		pairCounts[playerMarket{player: s.PlayerName, market: s.PropMarket}]++
	}
	for _, count := range pairCounts {
		if count > 1 {
			penalty += SelfCorrelationPenalty
			msg := SelfCorrelationWarning
			warning = &msg
			break
		}
	}

	// 2. Game correlation: first game (in slip order) with more than 2 picks
	gameOrder, gameCounts := countByGame(selections)
	for _, gameID := range gameOrder {
		count := gameCounts[gameID]
		if count > GameCorrelationLimit && warning == nil {
			penalty += GameCorrelationPenalty
			msg := gameCorrelationWarning(count, gameID)
			warning = &msg
		}
	}

	// 3. Trend strength is the mean trend score
	total := 0
	for _, s := range selections {
		total += s.TrendScore
	}
	trendStrength := float64(total) / float64(len(selections))

	// 4. Risk score
	riskScore := MaxRisk - trendStrength - penalty
	if riskScore < 0 {
		riskScore = 0
	}

	return models.SlipAnalysis{
		RiskScore:     riskScore,
		Warning:       warning,
		TrendStrength: trendStrength,
	}
}

// countByGame counts picks per game and returns game ids in first-appearance order
func countByGame(selections []models.Selection) ([]string, map[string]int) {
	order := make([]string, 0, len(selections))
	counts := make(map[string]int, len(selections))
	for _, s := range selections {
		if _, seen := counts[s.GameID]; !seen {
			order = append(order, s.GameID)
		}
		counts[s.GameID]++
	}
	return order, counts
}

func gameCorrelationWarning(count int, gameID string) string {
	return fmt.Sprintf("HIGH: %d picks from the same game (%s). Positive correlation risk.", count, gameID)
}
