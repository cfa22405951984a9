package browse_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"daybook/internal/domain/entity"
	"daybook/internal/infra/adapter/persistence/memory"
	"daybook/internal/repository"
	"daybook/internal/usecase/browse"
)

/* ───────── フィクスチャ ───────── */

// store wires the in-memory record store and search index behind a Service.
type store struct {
	records *memory.EntryRepo
	index   *memory.SearchIndex
	svc     *browse.Service
}

func newStore(loc *time.Location) *store {
	records := memory.NewEntryRepo()
	index := memory.NewSearchIndex(loc)
	return &store{
		records: records,
		index:   index,
		svc: &browse.Service{
			Search:   index,
			Records:  records,
			PageSize: 10,
			Location: loc,
		},
	}
}

// add stores an entry at t and indexes it.
func (s *store) add(t *testing.T, at time.Time, title string) *entity.Entry {
	t.Helper()
	ctx := context.Background()
	e := &entity.Entry{Title: title, Body: title + " body", CreatedAt: at, UpdatedAt: at}
	if err := s.records.Create(ctx, e); err != nil {
		t.Fatalf("create entry: %v", err)
	}
	if err := s.index.Index(ctx, e); err != nil {
		t.Fatalf("index entry: %v", err)
	}
	return e
}

func utc(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.UTC)
}

func ids(entries []*entity.Entry) []int64 {
	out := make([]int64, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

/* ───────── スタブ実装 ───────── */

// countingSearch wraps a SearchReader and counts calls; err forces failures.
type countingSearch struct {
	inner    repository.SearchReader
	calls    atomic.Int32
	findErr  error
	cursorEr error
}

func (c *countingSearch) FindByCondition(ctx context.Context, cond entity.Condition, offset, limit int) (repository.SearchResult, error) {
	c.calls.Add(1)
	if c.findErr != nil {
		return repository.SearchResult{}, c.findErr
	}
	return c.inner.FindByCondition(ctx, cond, offset, limit)
}

func (c *countingSearch) CursorForward(ctx context.Context, from repository.Cursor, offset, limit int) ([]int64, error) {
	c.calls.Add(1)
	if c.cursorEr != nil {
		return nil, c.cursorEr
	}
	return c.inner.CursorForward(ctx, from, offset, limit)
}

func (c *countingSearch) CursorBackward(ctx context.Context, until repository.Cursor, offset, limit int) ([]int64, error) {
	c.calls.Add(1)
	if c.cursorEr != nil {
		return nil, c.cursorEr
	}
	return c.inner.CursorBackward(ctx, until, offset, limit)
}

// forgetfulRecords hides some ids from the record store, simulating an index
// that references deleted rows.
type forgetfulRecords struct {
	inner  repository.EntryReader
	hidden map[int64]bool
	err    error
}

func (f *forgetfulRecords) Get(ctx context.Context, id int64) (*entity.Entry, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.hidden[id] {
		return nil, nil
	}
	return f.inner.Get(ctx, id)
}

func (f *forgetfulRecords) GetByIDs(ctx context.Context, ids []int64) ([]*entity.Entry, error) {
	if f.err != nil {
		return nil, f.err
	}
	all, err := f.inner.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, e := range all {
		if !f.hidden[e.ID] {
			out = append(out, e)
		}
	}
	return out, nil
}

var errBoom = errors.New("boom")
