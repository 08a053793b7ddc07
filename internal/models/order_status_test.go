package models

import "testing"

func TestParseOrderStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    OrderStatus
		wantErr bool
	}{
		{"PENDING", StatusPending, false},
		{"pending", StatusPending, false},
		{"Shipped", StatusShipped, false},
		{"delivered", StatusDelivered, false},
		{"CANCELLED", StatusCancelled, false},
		{"refunded", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseOrderStatus(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseOrderStatus(%q): expected error, got %v", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseOrderStatus(%q): unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseOrderStatus(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to OrderStatus
		want     bool
	}{
		{StatusPending, StatusProcessing, true},
		{StatusPending, StatusCancelled, true},
		{StatusProcessing, StatusShipped, true},
		{StatusShipped, StatusDelivered, true},
		{StatusShipped, StatusCancelled, true},

		// No-op transitions are allowed.
		{StatusPending, StatusPending, true},
		{StatusDelivered, StatusDelivered, true},

		// Terminal states never move.
		{StatusDelivered, StatusPending, false},
		{StatusDelivered, StatusCancelled, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusProcessing, false},

		// No going backwards.
		{StatusShipped, StatusPending, false},
		{StatusProcessing, StatusPending, false},
	}

	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%v, %v) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestTerminal(t *testing.T) {
	if !StatusDelivered.Terminal() {
		t.Error("DELIVERED should be terminal")
	}
	if !StatusCancelled.Terminal() {
		t.Error("CANCELLED should be terminal")
	}
	for _, s := range []OrderStatus{StatusPending, StatusProcessing, StatusShipped} {
		if s.Terminal() {
			t.Errorf("%v should not be terminal", s)
		}
	}
}

func TestLower(t *testing.T) {
	if got := StatusProcessing.Lower(); got != "processing" {
		t.Errorf("Lower() = %q, want %q", got, "processing")
	}
}
