package publisher

import (
	"testing"
	"time"

	"github.com/XavierBriggs/fortuna/services/prop-builder/pkg/models"
)

func TestEventValues_RoundTripsThroughDataField(t *testing.T) {
	warning := "HIGH: 3 picks from the same game (LAL@DEN). Positive correlation risk."
	event := models.SlipEvent{
		SlipID:        "slip-1",
		PickCount:     3,
		RiskScore:     5,
		TrendStrength: 3,
		Warning:       &warning,
		AnalyzedAt:    time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC),
	}

	values, err := eventValues(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(values) != 1 {
		t.Fatalf("expected a single field, got %d", len(values))
	}

	decoded, err := DecodeEvent(values)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decoded.SlipID != "slip-1" || decoded.PickCount != 3 || decoded.RiskScore != 5 {
		t.Errorf("unexpected event: %+v", decoded)
	}
	if decoded.Warning == nil || *decoded.Warning != warning {
		t.Errorf("warning not preserved: %v", decoded.Warning)
	}
	if !decoded.AnalyzedAt.Equal(event.AnalyzedAt) {
		t.Errorf("expected %v, got %v", event.AnalyzedAt, decoded.AnalyzedAt)
	}
}

func TestDecodeEvent_Errors(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]interface{}
	}{
		{"missing data", map[string]interface{}{}},
		{"wrong type", map[string]interface{}{"data": 42}},
		{"malformed json", map[string]interface{}{"data": "{"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeEvent(tt.values); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestNewStreamPublisher_DefaultStream(t *testing.T) {
	if got := NewStreamPublisher(nil, "").Stream(); got != DefaultStream {
		t.Errorf("expected %s, got %s", DefaultStream, got)
	}
	if got := NewStreamPublisher(nil, "custom").Stream(); got != "custom" {
		t.Errorf("expected custom, got %s", got)
	}
}
