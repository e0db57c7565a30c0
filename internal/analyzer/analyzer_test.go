package analyzer_test

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/XavierBriggs/fortuna/services/prop-builder/internal/analyzer"
	"github.com/XavierBriggs/fortuna/services/prop-builder/pkg/models"
)

func pick(id, player, market string, trend int, gameID string) models.Selection {
	return models.Selection{
		ID:         id,
		PlayerName: player,
		PropMarket: market,
		Line:       20.5,
		Side:       models.SideOver,
		TrendScore: trend,
		GameID:     gameID,
	}
}

func warningText(a models.SlipAnalysis) string {
	if a.Warning == nil {
		return "<nil>"
	}
	return *a.Warning
}

func TestIndicator(t *testing.T) {
	tests := []struct {
		name  string
		score int
		label string
		color string
	}{
		{"lock at 3", 3, "LOCK", "green"},
		{"lock above 3", 7, "LOCK", "green"},
		{"neutral at 2", 2, "NEUTRAL", "orange"},
		{"fade at 1", 1, "FADE", "red"},
		{"fade at 0", 0, "FADE", "red"},
		{"fade for negative", -4, "FADE", "red"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := analyzer.Indicator(tt.score)
			if got.Label != tt.label || got.Color != tt.color {
				t.Errorf("Indicator(%d) = (%s, %s), want (%s, %s)", tt.score, got.Label, got.Color, tt.label, tt.color)
			}
		})
	}
}

func TestAnalyzeSlip_Empty(t *testing.T) {
	for _, slip := range [][]models.Selection{nil, {}} {
		got := analyzer.AnalyzeSlip(slip)
		if got.RiskScore != 0 || got.TrendStrength != 0 || got.Warning != nil {
			t.Errorf("AnalyzeSlip(empty) = %+v, want zero analysis", got)
		}
	}
}

func TestAnalyzeSlip(t *testing.T) {
	tests := []struct {
		name        string
		slip        []models.Selection
		wantRisk    float64
		wantTrend   float64
		wantWarning string
	}{
		{
			name: "self-correlation",
			slip: []models.Selection{
				pick("p1", "Luka Doncic", "Player Points", 3, "DAL@PHX"),
				pick("p2", "Luka Doncic", "Player Points", 2, "DAL@LAC"),
			},
			wantRisk:    3.5,
			wantTrend:   2.5,
			wantWarning: analyzer.SelfCorrelationWarning,
		},
		{
			name: "game correlation",
			slip: []models.Selection{
				pick("p1", "LeBron James", "Player Points", 3, "LAL@DEN"),
				pick("p2", "Nikola Jokic", "Player Rebounds", 3, "LAL@DEN"),
				pick("p3", "Jamal Murray", "Player Assists", 3, "LAL@DEN"),
			},
			wantRisk:    5,
			wantTrend:   3,
			wantWarning: "HIGH: 3 picks from the same game (LAL@DEN). Positive correlation risk.",
		},
		{
			name: "no correlation",
			slip: []models.Selection{
				pick("p1", "LeBron James", "Player Points", 3, "LAL@DEN"),
				pick("p2", "Nikola Jokic", "Player Rebounds", 2, "LAL@DEN"),
				pick("p3", "Jayson Tatum", "Player Assists", 1, "BOS@NYK"),
			},
			wantRisk:    8,
			wantTrend:   2,
			wantWarning: "<nil>",
		},
		{
			name: "same player different market is not self-correlation",
			slip: []models.Selection{
				pick("p4", "Luka Doncic", "Player Points", 1, "DAL@PHX"),
				pick("p5", "Luka Doncic", "Player Assists", 2, "DAL@PHX"),
			},
			wantRisk:    8.5,
			wantTrend:   1.5,
			wantWarning: "<nil>",
		},
		{
			name: "self-correlation blocks game penalty",
			slip: []models.Selection{
				pick("p1", "Luka Doncic", "Player Points", 1, "DAL@PHX"),
				pick("p2", "Luka Doncic", "Player Points", 1, "DAL@PHX"),
				pick("p3", "Devin Booker", "Player Points", 1, "DAL@PHX"),
			},
			wantRisk:    5,
			wantTrend:   1,
			wantWarning: analyzer.SelfCorrelationWarning,
		},
		{
			name: "first qualifying game wins",
			slip: []models.Selection{
				pick("a1", "A1", "Player Points", 2, "G1"),
				pick("b1", "B1", "Player Points", 2, "G2"),
				pick("b2", "B2", "Player Points", 2, "G2"),
				pick("b3", "B3", "Player Points", 2, "G2"),
				pick("b4", "B4", "Player Points", 2, "G2"),
				pick("a2", "A2", "Player Points", 2, "G1"),
			},
			wantRisk:    6,
			wantTrend:   2,
			wantWarning: "HIGH: 4 picks from the same game (G2). Positive correlation risk.",
		},
		{
			name: "first qualifying game wins over a later higher count",
			slip: []models.Selection{
				pick("a1", "A1", "Player Points", 3, "G1"),
				pick("a2", "A2", "Player Points", 3, "G1"),
				pick("a3", "A3", "Player Points", 3, "G1"),
				pick("b1", "B1", "Player Points", 3, "G2"),
				pick("b2", "B2", "Player Points", 3, "G2"),
				pick("b3", "B3", "Player Points", 3, "G2"),
				pick("b4", "B4", "Player Points", 3, "G2"),
			},
			wantRisk:    5,
			wantTrend:   3,
			wantWarning: "HIGH: 3 picks from the same game (G1). Positive correlation risk.",
		},
		{
			name: "two games over limit penalized once",
			slip: []models.Selection{
				pick("a1", "A1", "Player Points", 3, "G1"),
				pick("a2", "A2", "Player Points", 3, "G1"),
				pick("a3", "A3", "Player Points", 3, "G1"),
				pick("b1", "B1", "Player Points", 3, "G2"),
				pick("b2", "B2", "Player Points", 3, "G2"),
				pick("b3", "B3", "Player Points", 3, "G2"),
			},
			wantRisk:    5,
			wantTrend:   3,
			wantWarning: "HIGH: 3 picks from the same game (G1). Positive correlation risk.",
		},
		{
			name: "clamped at zero",
			slip: []models.Selection{
				pick("p1", "Luka Doncic", "Player Points", 9, "DAL@PHX"),
				pick("p2", "Luka Doncic", "Player Points", 9, "DAL@LAC"),
			},
			wantRisk:    0,
			wantTrend:   9,
			wantWarning: analyzer.SelfCorrelationWarning,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := analyzer.AnalyzeSlip(tt.slip)

			if math.Abs(got.RiskScore-tt.wantRisk) > 1e-9 {
				t.Errorf("risk_score = %v, want %v", got.RiskScore, tt.wantRisk)
			}
			if math.Abs(got.TrendStrength-tt.wantTrend) > 1e-9 {
				t.Errorf("trend_strength = %v, want %v", got.TrendStrength, tt.wantTrend)
			}
			if w := warningText(got); w != tt.wantWarning {
				t.Errorf("warning = %q, want %q", w, tt.wantWarning)
			}
		})
	}
}

func TestAnalyzeSlip_Properties(t *testing.T) {
	players := []string{"A", "B", "C"}
	markets := []string{"Player Points", "Player Rebounds"}
	games := []string{"G1", "G2"}

	// Enumerate every slip of 1-3 picks over a small domain
	var build func(prefix []models.Selection, depth int)
	checked := 0
	build = func(prefix []models.Selection, depth int) {
		if len(prefix) > 0 {
			got := analyzer.AnalyzeSlip(prefix)
			checked++

			if got.RiskScore < 0 {
				t.Fatalf("negative risk %v for %+v", got.RiskScore, prefix)
			}

			sum := 0
			for _, s := range prefix {
				sum += s.TrendScore
			}
			mean := float64(sum) / float64(len(prefix))
			if math.Abs(got.TrendStrength-mean) > 1e-9 {
				t.Fatalf("trend_strength %v, want mean %v", got.TrendStrength, mean)
			}

			if got.Warning == nil && math.Abs(got.RiskScore-math.Max(0, 10-mean)) > 1e-9 {
				t.Fatalf("risk %v without warning, want %v", got.RiskScore, math.Max(0, 10-mean))
			}
		}
		if depth == 0 {
			return
		}
		for _, p := range players {
			for _, m := range markets {
				for _, g := range games {
					for trend := 1; trend <= 3; trend++ {
						id := fmt.Sprintf("%s-%s-%s-%d-%d", p, m, g, trend, len(prefix))
						next := append(append([]models.Selection{}, prefix...), pick(id, p, m, trend, g))
						build(next, depth-1)
					}
				}
			}
		}
	}
	build(nil, 3)

	if checked == 0 {
		t.Fatal("no slips checked")
	}
}

func TestValidateSelection(t *testing.T) {
	valid := pick("prop-1", "LeBron James", "Player Points", 3, "LAL@DEN")

	tests := []struct {
		name    string
		mutate  func(s *models.Selection)
		wantErr bool
	}{
		{"valid", func(s *models.Selection) {}, false},
		{"under is valid", func(s *models.Selection) { s.Side = models.SideUnder }, false},
		{"missing id", func(s *models.Selection) { s.ID = "" }, true},
		{"missing player", func(s *models.Selection) { s.PlayerName = "" }, true},
		{"missing market", func(s *models.Selection) { s.PropMarket = "" }, true},
		{"missing game", func(s *models.Selection) { s.GameID = "" }, true},
		{"bad side", func(s *models.Selection) { s.Side = "PUSH" }, true},
		{"trend too low", func(s *models.Selection) { s.TrendScore = 0 }, true},
		{"trend too high", func(s *models.Selection) { s.TrendScore = 4 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid
			tt.mutate(&s)

			err := analyzer.ValidateSelection(s)
			if tt.wantErr {
				if !errors.Is(err, analyzer.ErrInvalidSelection) {
					t.Errorf("expected ErrInvalidSelection, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateSlip_ReportsPosition(t *testing.T) {
	slip := []models.Selection{
		pick("prop-1", "LeBron James", "Player Points", 3, "LAL@DEN"),
		pick("prop-2", "Nikola Jokic", "Player Rebounds", 5, "LAL@DEN"),
	}

	err := analyzer.ValidateSlip(slip)
	if !errors.Is(err, analyzer.ErrInvalidSelection) {
		t.Fatalf("expected ErrInvalidSelection, got %v", err)
	}
	if got := err.Error(); got[:11] != "selection 2" {
		t.Errorf("expected error to name selection 2, got %q", got)
	}
}

func TestValidateProp(t *testing.T) {
	prop := models.Prop{ID: "prop-1", Name: "LeBron James", Market: "Player Points", Line: 25.5, TrendScore: 3, GameID: "LAL@DEN"}
	if err := analyzer.ValidateProp(prop); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	prop.Name = ""
	if err := analyzer.ValidateProp(prop); !errors.Is(err, analyzer.ErrInvalidSelection) {
		t.Errorf("expected ErrInvalidSelection, got %v", err)
	}
}
