// Package pagination provides the page arithmetic and query parsing shared by
// the browse use case and its HTTP handlers.
package pagination

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"daybook/internal/domain/entity"
)

// ErrInvalidLimit indicates a page size outside 1..MaxLimit. It wraps
// entity.ErrInvalidInput.
var ErrInvalidLimit = fmt.Errorf("%w: invalid page size", entity.ErrInvalidInput)

// Config bounds the page size a client may ask for. Page indexes always
// default to 1.
type Config struct {
	DefaultLimit int
	MaxLimit     int
}

// DefaultConfig returns a limit of 10 with a ceiling of 100.
func DefaultConfig() Config {
	return Config{DefaultLimit: 10, MaxLimit: 100}
}

// Params is a 1-based page index plus a page size.
type Params struct {
	Page  int
	Limit int
}

// Validate reports an index below 1 as entity.ErrInvalidIndex and a limit
// outside 1..cfg.MaxLimit as ErrInvalidLimit.
func (p Params) Validate(cfg Config) error {
	if p.Page < 1 {
		return fmt.Errorf("%w: got %d", entity.ErrInvalidIndex, p.Page)
	}
	if p.Limit < 1 || p.Limit > cfg.MaxLimit {
		return fmt.Errorf("%w: limit must be between 1 and %d, got %d", ErrInvalidLimit, cfg.MaxLimit, p.Limit)
	}
	return nil
}

// ParseQueryParams reads the page and limit query parameters. Missing
// parameters take page 1 and cfg.DefaultLimit.
func ParseQueryParams(r *http.Request, cfg Config) (Params, error) {
	p := Params{Page: 1, Limit: cfg.DefaultLimit}
	q := r.URL.Query()

	if s := q.Get("page"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return p, fmt.Errorf("%w: page %q is not an integer", entity.ErrInvalidIndex, s)
		}
		p.Page = n
	}
	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return p, fmt.Errorf("%w: limit %q is not an integer", ErrInvalidLimit, s)
		}
		p.Limit = n
	}
	return p, p.Validate(cfg)
}

// Offset is the number of matches before page index of size n. It saturates
// at math.MaxInt instead of wrapping, so a huge index reads past the end.
func Offset(index, n int) int {
	if index <= 1 || n <= 0 {
		return 0
	}
	if index-1 > math.MaxInt/n {
		return math.MaxInt
	}
	return (index - 1) * n
}

// LastPage is the highest index that holds matches, or 0 when total is 0.
func LastPage(total int64, n int) int {
	if total <= 0 || n <= 0 {
		return 0
	}
	return int((total-1)/int64(n) + 1)
}
