package cli

import "testing"

func TestFormatLocation(t *testing.T) {
	tests := []struct {
		name     string
		lat      float64
		lng      float64
		expected string
	}{
		{"zero", 0, 0, "0.00000,0.00000"},
		{"chicago", 41.8781, -87.6298, "41.87810,-87.62980"},
		{"rounds", 41.123456, -87.654321, "41.12346,-87.65432"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := formatLocation(tt.lat, tt.lng)
			if result != tt.expected {
				t.Errorf("formatLocation(%v, %v) = %q, want %q", tt.lat, tt.lng, result, tt.expected)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		max      int
		expected string
	}{
		{"short", "hello", 10, "hello"},
		{"exact", "hello", 5, "hello"},
		{"long", "hello world!", 8, "hello w…"},
		{"multibyte", "über überall", 7, "über ü…"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := truncate(tt.input, tt.max)
			if result != tt.expected {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.max, result, tt.expected)
			}
		})
	}
}
