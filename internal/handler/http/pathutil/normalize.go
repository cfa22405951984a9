package pathutil

import (
	"regexp"
	"strings"
)

// PathPattern represents a regex pattern and its corresponding normalized template.
type PathPattern struct {
	Pattern  *regexp.Regexp
	Template string
}

// pathPatterns lists the diary routes that carry identifiers or calendar
// fields. Patterns are pre-compiled at initialization.
var pathPatterns = []*PathPattern{
	{Pattern: regexp.MustCompile(`^/entries/\d+$`), Template: "/entries/:id"},
	{Pattern: regexp.MustCompile(`^/months/\d+/\d+$`), Template: "/months/:year/:month"},
	{Pattern: regexp.MustCompile(`^/days/\d+/\d+/\d+$`), Template: "/days/:year/:month/:day"},
}

// NormalizePath maps dynamic URL paths onto route templates so metrics labels
// stay bounded. Unknown paths are returned unchanged.
//
// Examples:
//
//	NormalizePath("/entries/123")       // "/entries/:id"
//	NormalizePath("/months/2024/03")    // "/months/:year/:month"
//	NormalizePath("/days/2024/03/05/")  // "/days/:year/:month/:day"
//	NormalizePath("/search?q=rain")     // "/search"
func NormalizePath(path string) string {
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	for _, p := range pathPatterns {
		if p.Pattern.MatchString(path) {
			return p.Template
		}
	}
	return path
}
