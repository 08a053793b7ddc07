package handlers

import (
	"math"
	"strings"
	"time"
)

// colorCodes maps a variant color name to a display hex code.
var colorCodes = map[string]string{
	"gray":       "#808080",
	"black":      "#000000",
	"blue":       "#0000FF",
	"light gray": "#D3D3D3",
	"dark blue":  "#00008B",
	"white":      "#FFFFFF",
	"brown":      "#A52A2A",
	"red":        "#FF0000",
	"green":      "#008000",
	"yellow":     "#FFFF00",
	"navy":       "#000080",
	"beige":      "#F5F5DC",
	"pink":       "#FFC0CB",
	"purple":     "#800080",
}

// ColorCode resolves a color name to its hex code. Unknown colors get a
// neutral default instead of failing.
func ColorCode(colorName string) string {
	if code, ok := colorCodes[strings.ToLower(strings.TrimSpace(colorName))]; ok {
		return code
	}
	return "#CCCCCC"
}

// bestSellerCutoff is the sold-count above which a product is tagged
// "best seller" on list pages.
const bestSellerCutoff = 100

// Sections computes the derived list-page tags for a product. They are never
// stored; always recomputed from the row at read time.
func Sections(createdAt time.Time, discount float64, sold int, now time.Time) []string {
	sections := []string{}
	if createdAt.After(now.AddDate(-1, 0, 0)) {
		sections = append(sections, "new")
	}
	if discount > 0 {
		sections = append(sections, "sale")
	}
	if sold > bestSellerCutoff {
		sections = append(sections, "best seller")
	}
	return sections
}

// Pagination is the list-endpoint metadata block.
type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// NewPagination normalizes page/limit and derives totalPages. An out-of-range
// page is not an error; the data query just comes back empty.
func NewPagination(total, page, limit int) Pagination {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 12
	}
	return Pagination{
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
	}
}
