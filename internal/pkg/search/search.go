// Package search holds helpers shared by the SQL search index adapters.
package search

import (
	"strings"
	"time"
)

// DefaultSearchTimeout bounds a single keyword scan.
const DefaultSearchTimeout = 5 * time.Second

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeILIKE escapes LIKE wildcards in keyword and wraps it in % for a
// substring match. The escape character is the backslash.
func EscapeILIKE(keyword string) string {
	return "%" + likeEscaper.Replace(keyword) + "%"
}

// Document builds the normalized text stored in the search index for an
// entry. Lower-casing here keeps matching case-insensitive on backends whose
// LIKE only folds ASCII.
func Document(title, body string) string {
	return strings.ToLower(title + "\n" + body)
}

// NormalizeTerms lower-cases terms the same way Document does.
func NormalizeTerms(terms []string) []string {
	out := make([]string, len(terms))
	for i, t := range terms {
		out[i] = strings.ToLower(t)
	}
	return out
}
