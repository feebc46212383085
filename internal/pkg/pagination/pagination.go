package pagination

import (
	"github.com/gofiber/fiber/v2"
)

// DefaultLimit is the default number of records per page
const DefaultLimit = 20

// MaxLimit caps the page size of record listings
const MaxLimit = 100

// Params is a validated page request
type Params struct {
	Page   int `json:"page"`
	Limit  int `json:"limit"`
	Offset int `json:"-"`
}

// Meta describes where a page sits in the full listing
type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// Page is a listing page with its metadata
type Page struct {
	Items interface{} `json:"items"`
	Meta  Meta        `json:"meta"`
}

// FromQuery reads ?page= and ?limit=, clamping invalid values
func FromQuery(c *fiber.Ctx) Params {
	return Normalize(c.QueryInt("page", 1), c.QueryInt("limit", DefaultLimit))
}

// Normalize clamps page and limit and computes the offset
func Normalize(page, limit int) Params {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Params{Page: page, Limit: limit, Offset: (page - 1) * limit}
}

// NewPage wraps items with metadata computed from total
func NewPage(items interface{}, p Params, total int64) Page {
	totalPages := int((total + int64(p.Limit) - 1) / int64(p.Limit))
	return Page{
		Items: items,
		Meta: Meta{
			Page:       p.Page,
			Limit:      p.Limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    p.Page < totalPages,
		},
	}
}
