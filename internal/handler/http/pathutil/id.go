package pathutil

import (
	"errors"
	"strconv"
)

// ErrInvalidID is returned when the ID in the URL path is invalid.
var ErrInvalidID = errors.New("invalid id")

// ErrInvalidSegment is returned when a numeric path segment cannot be parsed.
var ErrInvalidSegment = errors.New("invalid path segment")

// ParseID parses a positive entry id taken from a path value.
//
// Example:
//
//	id, err := ParseID(r.PathValue("id"))
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}

// ParseInts parses each path segment as a decimal integer. Range checks are
// left to the caller.
func ParseInts(raw ...string) ([]int, error) {
	out := make([]int, len(raw))
	for i, s := range raw {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, ErrInvalidSegment
		}
		out[i] = n
	}
	return out, nil
}
