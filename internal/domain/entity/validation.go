package entity

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// maxTitleLength defines the maximum allowed title length in runes.
const maxTitleLength = 200

// maxBodyLength caps entry bodies to keep a single request bounded.
const maxBodyLength = 100_000

// ValidateTitle checks that a title is present and not too long.
// Returns a ValidationError if the title is invalid.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return &ValidationError{Field: "title", Message: "is required"}
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return &ValidationError{
			Field:   "title",
			Message: fmt.Sprintf("must not exceed %d characters", maxTitleLength),
		}
	}
	return nil
}

// ValidateBody checks that a body is present and within the size limit.
func ValidateBody(body string) error {
	if strings.TrimSpace(body) == "" {
		return &ValidationError{Field: "body", Message: "is required"}
	}
	if utf8.RuneCountInString(body) > maxBodyLength {
		return &ValidationError{
			Field:   "body",
			Message: fmt.Sprintf("must not exceed %d characters", maxBodyLength),
		}
	}
	return nil
}

// Creation times are kept a day inside [MinYear, MaxYear] so that the month
// and date derived from them in any zone offset remain valid conditions.
var (
	earliestCreatedAt = time.Date(MinYear, time.January, 2, 0, 0, 0, 0, time.UTC)
	latestCreatedAt   = time.Date(MaxYear, time.December, 31, 0, 0, 0, 0, time.UTC)
)

// ValidateCreatedAt checks that a back-dated creation time can be stored and
// browsed. The zero time is accepted and means "now".
func ValidateCreatedAt(t time.Time) error {
	if t.IsZero() {
		return nil
	}
	if t.Before(earliestCreatedAt) || !t.Before(latestCreatedAt) {
		return &ValidationError{
			Field: "created_at",
			Message: fmt.Sprintf("must be between %s and %s",
				earliestCreatedAt.Format(time.DateOnly), latestCreatedAt.Format(time.DateOnly)),
		}
	}
	return nil
}
