package handlers

import (
	"fmt"

	"github.com/XavierBriggs/fortuna/services/prop-builder/internal/analyzer"
	"github.com/XavierBriggs/fortuna/services/prop-builder/internal/metrics"
	"github.com/XavierBriggs/fortuna/services/prop-builder/pkg/models"
)

// Analysis display text
const (
	NoWarningMessage = "No major correlation warnings detected."
	Disclaimer       = "This analysis does not guarantee results. Use for informational purposes only."
)

// analyze scores the picks and builds the client-facing analysis
func analyze(picks []models.Selection, maxPicks int) models.AnalysisResponse {
	result := analyzer.AnalyzeSlip(picks)
	metrics.ObserveAnalysis(result, len(picks))
	return buildAnalysisResponse(result, len(picks), maxPicks)
}

// buildAnalysisResponse adds the display fields to an analysis
func buildAnalysisResponse(result models.SlipAnalysis, pickCount, maxPicks int) models.AnalysisResponse {
	status := NoWarningMessage
	if result.HasWarning() {
		status = *result.Warning
	}

	return models.AnalysisResponse{
		SlipAnalysis:  result,
		RiskDisplay:   fmt.Sprintf("%.1f / 10", result.RiskScore),
		TrendDisplay:  fmt.Sprintf("Avg Trend: %.1f", result.TrendStrength),
		StatusMessage: status,
		Disclaimer:    Disclaimer,
		PickCount:     pickCount,
		MaxPicks:      maxPicks,
	}
}
