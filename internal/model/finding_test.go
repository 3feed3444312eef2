package model

import "testing"

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Severity
	}{
		{"critical_upper", "CRITICAL", SevCritical},
		{"high_lower", "high", SevHigh},
		{"error_maps_high", "ERROR", SevHigh},
		{"warning_maps_medium", "warning", SevMedium},
		{"medium_spaces", "  Medium  ", SevMedium},
		{"low", "low", SevLow},
		{"info", "INFO", SevInfo},
		{"note_maps_info", "note", SevInfo},
		{"unknown_token", "banana", SevLow},
		{"empty", "", SevLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ParseSeverity(tt.input)
			if result != tt.expected {
				t.Errorf("esperado %v, obtido %v", tt.expected, result)
			}
		})
	}
}

func TestParseSeverityDeterministic(t *testing.T) {
	// Função total: duas chamadas com a mesma entrada nunca divergem.
	inputs := []string{"CRITICAL", "xyz", "", "WARNING", "???"}
	for _, in := range inputs {
		if ParseSeverity(in) != ParseSeverity(in) {
			t.Errorf("ParseSeverity(%q) não é determinística", in)
		}
	}
}

func TestSeverityRankOrder(t *testing.T) {
	for i := 0; i < len(Severities)-1; i++ {
		if Severities[i].Rank() <= Severities[i+1].Rank() {
			t.Errorf("rank de %s deveria ser maior que o de %s", Severities[i], Severities[i+1])
		}
	}
}
