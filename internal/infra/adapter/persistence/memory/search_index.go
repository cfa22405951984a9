package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"daybook/internal/domain/entity"
	"daybook/internal/repository"
)

type document struct {
	id        int64
	createdAt time.Time
	text      string
}

func (d document) cursor() repository.Cursor {
	return repository.Cursor{At: d.createdAt, ID: d.id}
}

// SearchIndex is a slice-backed repository.SearchIndex. Documents are kept
// sorted by (created_at, id).
type SearchIndex struct {
	mu   sync.RWMutex
	loc  *time.Location
	docs []document
}

var _ repository.SearchIndex = (*SearchIndex)(nil)

// NewSearchIndex returns an empty index that resolves month and date
// conditions in loc.
func NewSearchIndex(loc *time.Location) *SearchIndex {
	if loc == nil {
		loc = time.UTC
	}
	return &SearchIndex{loc: loc}
}

func less(a, b repository.Cursor) bool {
	if a.At.Equal(b.At) {
		return a.ID < b.ID
	}
	return a.At.Before(b.At)
}

func (s *SearchIndex) Index(ctx context.Context, e *entity.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(e.ID)
	d := document{
		id:        e.ID,
		createdAt: e.CreatedAt.UTC(),
		text:      strings.ToLower(e.Title + "\n" + e.Body),
	}
	i := sort.Search(len(s.docs), func(i int) bool { return less(d.cursor(), s.docs[i].cursor()) })
	s.docs = append(s.docs, document{})
	copy(s.docs[i+1:], s.docs[i:])
	s.docs[i] = d
	return nil
}

func (s *SearchIndex) Remove(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(id)
	return nil
}

func (s *SearchIndex) removeLocked(id int64) {
	for i, d := range s.docs {
		if d.id == id {
			s.docs = append(s.docs[:i], s.docs[i+1:]...)
			return
		}
	}
}

func (s *SearchIndex) IDs(ctx context.Context) ([]int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]int64, len(s.docs))
	for i, d := range s.docs {
		ids[i] = d.id
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (s *SearchIndex) FindByCondition(ctx context.Context, cond entity.Condition, offset, limit int) (repository.SearchResult, error) {
	if err := ctx.Err(); err != nil {
		return repository.SearchResult{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []int64
	switch c := cond.(type) {
	case entity.All:
		for _, d := range s.docs {
			matched = append(matched, d.id)
		}
	case entity.ByYearMonth, entity.ByDate:
		start, end, _ := entity.RangeOf(c, s.loc)
		for _, d := range s.docs {
			if !d.createdAt.Before(start) && d.createdAt.Before(end) {
				matched = append(matched, d.id)
			}
		}
	case entity.ByKeywords:
		terms := make([]string, len(c.Terms))
		for i, t := range c.Terms {
			terms[i] = strings.ToLower(t)
		}
		for i := len(s.docs) - 1; i >= 0; i-- {
			if containsAll(s.docs[i].text, terms) {
				matched = append(matched, s.docs[i].id)
			}
		}
	default:
		return repository.SearchResult{}, fmt.Errorf("%w: %s is not index-addressed", entity.ErrInvalidCondition, cond)
	}

	return repository.SearchResult{IDs: window(matched, offset, limit), TotalCount: int64(len(matched))}, nil
}

func (s *SearchIndex) CursorForward(ctx context.Context, from repository.Cursor, offset, limit int) ([]int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	from.At = from.At.UTC()
	var ids []int64
	for _, d := range s.docs {
		if !less(d.cursor(), from) {
			ids = append(ids, d.id)
		}
	}
	return window(ids, offset, limit), nil
}

func (s *SearchIndex) CursorBackward(ctx context.Context, until repository.Cursor, offset, limit int) ([]int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	until.At = until.At.UTC()
	var ids []int64
	for i := len(s.docs) - 1; i >= 0; i-- {
		if less(s.docs[i].cursor(), until) {
			ids = append(ids, s.docs[i].id)
		}
	}
	return window(ids, offset, limit), nil
}

func containsAll(text string, terms []string) bool {
	for _, t := range terms {
		if !strings.Contains(text, t) {
			return false
		}
	}
	return true
}

func window(ids []int64, offset, limit int) []int64 {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(ids) || limit <= 0 {
		return []int64{}
	}
	end := offset + limit
	if end > len(ids) {
		end = len(ids)
	}
	out := make([]int64, end-offset)
	copy(out, ids[offset:end])
	return out
}
