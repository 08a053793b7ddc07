package handlers

import (
	"reflect"
	"testing"
	"time"
)

func TestColorCode(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"gray", "#808080"},
		{"Black", "#000000"},
		{"  navy  ", "#000080"},
		{"LIGHT GRAY", "#D3D3D3"},
		{"chartreuse", "#CCCCCC"},
		{"", "#CCCCCC"},
	}

	for _, tt := range tests {
		if got := ColorCode(tt.in); got != tt.want {
			t.Errorf("ColorCode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSections(t *testing.T) {
	now := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		createdAt time.Time
		discount  float64
		sold      int
		want      []string
	}{
		{"fresh product", now.AddDate(0, -2, 0), 0, 10, []string{"new"}},
		{"old product", now.AddDate(-2, 0, 0), 0, 10, []string{}},
		{"discounted", now.AddDate(-2, 0, 0), 15, 10, []string{"sale"}},
		{"popular", now.AddDate(-2, 0, 0), 0, 150, []string{"best seller"}},
		{"exactly at cutoff is not a best seller", now.AddDate(-2, 0, 0), 0, 100, []string{}},
		{"all three", now.AddDate(0, -1, 0), 30, 500, []string{"new", "sale", "best seller"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sections(tt.createdAt, tt.discount, tt.sold, now)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Sections() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name               string
		total, page, limit int
		want               Pagination
	}{
		{"first page", 100, 1, 12, Pagination{Total: 100, Page: 1, Limit: 12, TotalPages: 9}},
		{"exact fit", 24, 2, 12, Pagination{Total: 24, Page: 2, Limit: 12, TotalPages: 2}},
		{"page past the end is kept", 10, 3, 12, Pagination{Total: 10, Page: 3, Limit: 12, TotalPages: 1}},
		{"zero page normalized", 10, 0, 12, Pagination{Total: 10, Page: 1, Limit: 12, TotalPages: 1}},
		{"zero limit normalized", 10, 1, 0, Pagination{Total: 10, Page: 1, Limit: 12, TotalPages: 1}},
		{"empty catalog", 0, 1, 12, Pagination{Total: 0, Page: 1, Limit: 12, TotalPages: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewPagination(tt.total, tt.page, tt.limit); got != tt.want {
				t.Errorf("NewPagination(%d, %d, %d) = %+v, want %+v", tt.total, tt.page, tt.limit, got, tt.want)
			}
		})
	}
}

func TestSplitCSV(t *testing.T) {
	if got := splitCSV(""); len(got) != 0 {
		t.Errorf("splitCSV(\"\") = %v, want empty slice", got)
	}
	if got := splitCSV("Shirts,Summer"); !reflect.DeepEqual(got, []string{"Shirts", "Summer"}) {
		t.Errorf("splitCSV = %v", got)
	}
}
