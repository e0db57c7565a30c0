package metrics

import (
	"strconv"

	"github.com/XavierBriggs/fortuna/services/prop-builder/pkg/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pick results
const (
	ResultAdded     = "added"
	ResultRemoved   = "removed"
	ResultFull      = "full"
	ResultDuplicate = "duplicate"
	ResultRejected  = "rejected"
)

// Watchlist operations
const (
	OpLoad    = "load"
	OpReplace = "replace"
)

var (
	slipAnalyses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "prop_builder_slip_analyses_total",
		Help: "Total slip analyses by whether a correlation warning was raised",
	}, []string{"warning"})

	slipRiskScore = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "prop_builder_slip_risk_score",
		Help:    "Risk score of analyzed non-empty slips",
		Buckets: []float64{0, 2, 4, 5, 6, 7, 8, 9, 10},
	})

	slipPicks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "prop_builder_slip_picks_total",
		Help: "Total pick mutations on slips by result",
	}, []string{"result"})

	watchlistOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "prop_builder_watchlist_ops_total",
		Help: "Total watchlist store operations by op and result",
	}, []string{"op", "result"})
)

// ObserveAnalysis records one analysis of a slip with the given number of picks
func ObserveAnalysis(analysis models.SlipAnalysis, pickCount int) {
	slipAnalyses.WithLabelValues(strconv.FormatBool(analysis.HasWarning())).Inc()
	if pickCount > 0 {
		slipRiskScore.Observe(analysis.RiskScore)
	}
}

// ObservePick records the outcome of adding or removing a pick
func ObservePick(result string) {
	slipPicks.WithLabelValues(result).Inc()
}

// ObserveWatchlist records a watchlist store call
func ObserveWatchlist(op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	watchlistOps.WithLabelValues(op, result).Inc()
}
