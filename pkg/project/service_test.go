package project

import "testing"

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		expected string
	}{
		{"plain title", "Launch Campaign", "Launch Campaign"},
		{"trims whitespace", "  Launch Campaign \n", "Launch Campaign"},
		{"empty defaults", "", "Untitled"},
		{"whitespace only defaults", "   \t", "Untitled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeTitle(tt.title); got != tt.expected {
				t.Errorf("normalizeTitle(%q) = %q, expected %q", tt.title, got, tt.expected)
			}
		})
	}
}
