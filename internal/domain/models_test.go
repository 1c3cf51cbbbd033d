package domain

import (
	"testing"
)

func TestMaterialCategoryConstants(t *testing.T) {
	tests := []struct {
		name     string
		value    MaterialCategory
		expected string
	}{
		{"Metal", METAL, "metal"},
		{"Ceramic", CERAMIC, "ceramic"},
		{"Polymer", POLYMER, "polymer"},
		{"Composite", COMPOSITE, "composite"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if string(tt.value) != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, string(tt.value))
			}
		})
	}
}

func TestUrgencyConstants(t *testing.T) {
	tests := []struct {
		name     string
		value    Urgency
		expected string
	}{
		{"Critical", URGENCY_CRITICAL, "critical"},
		{"High", URGENCY_HIGH, "high"},
		{"Moderate", URGENCY_MODERATE, "moderate"},
		{"Low", URGENCY_LOW, "low"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if string(tt.value) != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, string(tt.value))
			}
		})
	}
}

func TestRankLabelConstants(t *testing.T) {
	tests := []struct {
		name     string
		value    RankLabel
		expected string
	}{
		{"Optimal", OPTIMAL_MATCH, "OPTIMAL MATCH"},
		{"Good", GOOD_CANDIDATE, "GOOD CANDIDATE"},
		{"Marginal", MARGINAL_FIT, "MARGINAL FIT"},
		{"Rejected", NOT_RECOMMENDED, "NOT RECOMMENDED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if string(tt.value) != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, string(tt.value))
			}
		})
	}
}
