package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daybook/internal/config"
	"daybook/internal/handler/http/diary"
)

// isolate points HOME at a temp dir, clears the diary environment and writes
// a settings file for a fresh SQLite database.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	for _, key := range []string{"DIARY_STORE", "DATABASE_URL", "DIARY_TIMEZONE", "DIARY_PAGE_SIZE", "REDIS_ADDR"} {
		t.Setenv(key, "")
	}

	settings := filepath.Join(dir, "config.toml")
	content := `
[store]
driver = "sqlite"
dsn = "` + filepath.ToSlash(filepath.Join(dir, "diary.db")) + `"

[browse]
timezone = "UTC"
page_size = 2
`
	require.NoError(t, os.WriteFile(settings, []byte(content), 0o600))
	return settings
}

func run(t *testing.T, settings string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd, a := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", settings}, args...))
	err := cmd.Execute()
	require.NoError(t, a.close())
	return out.String(), err
}

func TestDiaryctl_AddPageReindex(t *testing.T) {
	settings := isolate(t)

	for _, at := range []string{"2024-03-01T09:00:00Z", "2024-03-20T09:00:00Z", "2024-04-05T09:00:00Z"} {
		out, err := run(t, settings, "add", "--title", "entry "+at[:10], "--body", "text", "--at", at)
		require.NoError(t, err, out)
		assert.Contains(t, out, "created entry")
	}

	out, err := run(t, settings, "page", "--month", "2024-03")
	require.NoError(t, err, out)
	assert.Contains(t, out, "month:2024-03  page 1")
	assert.Contains(t, out, "#1")
	assert.Contains(t, out, "#2")
	assert.Contains(t, out, "prev: -")
	assert.Contains(t, out, "next: month:2024-04")

	out, err = run(t, settings, "page", "--id", "3", "--json")
	require.NoError(t, err, out)
	var p diary.PageDTO
	require.NoError(t, json.Unmarshal([]byte(out), &p))
	require.Len(t, p.Entries, 1)
	assert.Equal(t, int64(3), p.Entries[0].ID)
	assert.Nil(t, p.Next)
	require.NotNil(t, p.Prev)
	assert.Equal(t, "/entries/2", p.Prev.Href)

	out, err = run(t, settings, "page", "--page", "2")
	require.NoError(t, err, out)
	assert.Contains(t, out, "all  page 2")
	assert.Contains(t, out, "prev: page 1")
	assert.Contains(t, out, "next: -")

	out, err = run(t, settings, "reindex")
	require.NoError(t, err, out)
	assert.Contains(t, out, "indexed 3, removed 0, failed 0")
}

func TestDiaryctl_Errors(t *testing.T) {
	settings := isolate(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"selectors are exclusive", []string{"page", "--month", "2024-03", "--id", "2"}, "none of the others can be"},
		{"bad month", []string{"page", "--month", "2024-13"}, "out of range"},
		{"zero page", []string{"page", "--page", "0"}, "invalid page index"},
		{"body is required", []string{"add", "--title", "t"}, `"body" not set`},
		{"bad date", []string{"add", "--title", "t", "--body", "b", "--at", "soon"}, "--at must be"},
		{"unknown store", []string{"--store", "cassandra", "reindex"}, "DIARY_STORE must be one of"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, settings, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error()+out, tt.want)
		})
	}
}

func TestDiaryctl_MissingExplicitSettings(t *testing.T) {
	isolate(t)
	_, err := run(t, filepath.Join(t.TempDir(), "absent.toml"), "page")
	assert.ErrorContains(t, err, "read settings")
}

func TestReadSettings(t *testing.T) {
	dir := t.TempDir()

	s, err := readSettings(filepath.Join(dir, "none.toml"), false)
	require.NoError(t, err)
	cfg := config.DefaultDiaryConfig()
	s.apply(&cfg)
	assert.Equal(t, config.DefaultDiaryConfig(), cfg, "an absent file changes nothing")

	path := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[store\ndriver="), 0o600))
	_, err = readSettings(path, false)
	assert.ErrorContains(t, err, "parse settings")

	path = filepath.Join(dir, "ok.toml")
	require.NoError(t, os.WriteFile(path, []byte("[store]\ndriver = \"memory\"\n[cache]\naddr = \"redis:6379\"\n"), 0o600))
	s, err = readSettings(path, true)
	require.NoError(t, err)
	cfg = config.DefaultDiaryConfig()
	s.apply(&cfg)
	assert.Equal(t, config.StoreMemory, cfg.Store.Driver)
	assert.Equal(t, "daybook.db", cfg.Store.DSN)
	assert.Equal(t, "redis:6379", cfg.Cache.Addr)
}

func TestParseAt(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)

	got, err := parseAt("2024-03-05", tokyo)
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2024, time.March, 4, 15, 0, 0, 0, time.UTC)))

	got, err = parseAt("2024-03-05T10:00:00Z", tokyo)
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC)))

	got, err = parseAt("", tokyo)
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	_, err = parseAt("05/03/2024", tokyo)
	assert.ErrorContains(t, err, "RFC3339 or 2006-01-02")
}
