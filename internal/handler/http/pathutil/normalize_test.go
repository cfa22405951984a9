package pathutil

import (
	"strconv"
	"testing"
)

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{"entry id", "/entries/123", "/entries/:id"},
		{"entry id trailing slash", "/entries/123/", "/entries/:id"},
		{"entry id with query", "/entries/7?x=1", "/entries/:id"},
		{"entry list", "/entries", "/entries"},
		{"month", "/months/2024/03", "/months/:year/:month"},
		{"month with page", "/months/2024/3?page=2", "/months/:year/:month"},
		{"day", "/days/2024/03/05", "/days/:year/:month/:day"},
		{"search", "/search?q=rain", "/search"},
		{"health", "/health", "/health"},
		{"root", "/", "/"},
		{"non numeric id", "/entries/abc", "/entries/abc"},
		{"partial day", "/days/2024/03", "/days/2024/03"},
		{"unknown", "/unknown/path/123", "/unknown/path/123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePath(tt.path); got != tt.want {
				t.Errorf("NormalizePath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestNormalizePath_BoundedCardinality(t *testing.T) {
	seen := map[string]struct{}{}
	for y := 2020; y < 2025; y++ {
		for m := 1; m <= 12; m++ {
			seen[NormalizePath("/months/"+strconv.Itoa(y)+"/"+strconv.Itoa(m))] = struct{}{}
			seen[NormalizePath("/days/"+strconv.Itoa(y)+"/"+strconv.Itoa(m)+"/1")] = struct{}{}
		}
	}
	if len(seen) != 2 {
		t.Errorf("expected 2 templates, got %d: %v", len(seen), seen)
	}
}
