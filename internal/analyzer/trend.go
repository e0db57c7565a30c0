package analyzer

import "github.com/XavierBriggs/fortuna/services/prop-builder/pkg/models"

// Trend labels and their display colors
const (
	LabelLock    = "LOCK"
	LabelNeutral = "NEUTRAL"
	LabelFade    = "FADE"

	ColorLock    = "green"
	ColorNeutral = "orange"
	ColorFade    = "red"
)

// Indicator maps a trend score to its display label.
// Scores outside 1-3 are not rejected here; anything below 2 reads as FADE.
func Indicator(score int) models.TrendIndicator {
	switch {
	case score >= 3:
		return models.TrendIndicator{Label: LabelLock, Color: ColorLock}
	case score == 2:
		return models.TrendIndicator{Label: LabelNeutral, Color: ColorNeutral}
	default:
		return models.TrendIndicator{Label: LabelFade, Color: ColorFade}
	}
}
