package utils

import (
	"math/rand"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// RandomID returns a short time-based id with a random suffix, base36 on both
// halves so it stays URL and filename safe.
func RandomID() string {
	return strconv.FormatInt(time.Now().UnixMilli(), 36) +
		strconv.FormatInt(rand.Int63n(1<<40), 36)
}

// FileNameInKebabCase lowercases the original name, swaps whitespace for
// hyphens, strips the extension, appends a RandomID and reattaches the
// extension. Collision resistant enough for uploaded thumbnails.
func FileNameInKebabCase(name string) string {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	base = strings.ToLower(base)
	base = strings.Join(strings.Fields(base), "-")
	base = strings.ReplaceAll(base, " ", "-")
	return base + "-" + RandomID() + ext
}

// Pagination is the listing envelope shared by bags, blogs and contacts.
type Pagination struct {
	TotalItems  int64 `json:"totalItems"`
	TotalPages  int   `json:"totalPages"`
	NextPage    *int  `json:"nextPage"`
	PrevPage    *int  `json:"prevPage"`
	CurrentPage int   `json:"currentPage"`
	PerPage     int   `json:"perPage"`
}

// NewPagination computes page boundaries. page and limit fall back to 1 and
// 10 when non-positive; Next/Prev are nil at the edges.
func NewPagination(total int64, page, limit int) Pagination {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	totalPages := int((total + int64(limit) - 1) / int64(limit))

	p := Pagination{
		TotalItems:  total,
		TotalPages:  totalPages,
		CurrentPage: page,
		PerPage:     limit,
	}
	if page < totalPages {
		next := page + 1
		p.NextPage = &next
	}
	if page > 1 {
		prev := page - 1
		p.PrevPage = &prev
	}
	return p
}

// ParsePageLimit reads page/limit query strings with the listing defaults.
func ParsePageLimit(pageStr, limitStr string) (int, int) {
	page, err := strconv.Atoi(pageStr)
	if err != nil || page <= 0 {
		page = 1
	}
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 {
		limit = 10
	}
	return page, limit
}
