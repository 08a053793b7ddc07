package handlers

import "testing"

func TestCalculateChange(t *testing.T) {
	tests := []struct {
		name     string
		current  float64
		previous float64
		want     float64
	}{
		{"growth", 150, 100, 50},
		{"decline", 50, 100, -50},
		{"flat", 100, 100, 0},
		{"new activity on zero baseline", 5, 0, 100},
		{"nothing both months", 0, 0, 0},
		{"dropped to zero", 0, 80, -100},
		{"rounds to one decimal", 110, 300, -63.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalculateChange(tt.current, tt.previous); got != tt.want {
				t.Errorf("CalculateChange(%v, %v) = %v, want %v", tt.current, tt.previous, got, tt.want)
			}
		})
	}
}

func TestRound2(t *testing.T) {
	if got := round2(19.999); got != 20.0 {
		t.Errorf("round2(19.999) = %v, want 20", got)
	}
	if got := round2(3.14159); got != 3.14 {
		t.Errorf("round2(3.14159) = %v, want 3.14", got)
	}
}
