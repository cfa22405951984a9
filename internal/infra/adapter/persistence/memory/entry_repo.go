// Package memory provides in-process implementations of the record store and
// the search index. They back the dev store mode and the use-case tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"daybook/internal/domain/entity"
	"daybook/internal/repository"
)

// EntryRepo is a map-backed repository.EntryRepository.
type EntryRepo struct {
	mu     sync.RWMutex
	nextID int64
	rows   map[int64]entity.Entry
	now    func() time.Time
}

var _ repository.EntryRepository = (*EntryRepo)(nil)

// NewEntryRepo returns an empty repository.
func NewEntryRepo() *EntryRepo {
	return &EntryRepo{rows: make(map[int64]entity.Entry), now: time.Now}
}

func (r *EntryRepo) Get(ctx context.Context, id int64) (*entity.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (r *EntryRepo) GetByIDs(ctx context.Context, ids []int64) ([]*entity.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entity.Entry, 0, len(ids))
	for _, id := range ids {
		if e, ok := r.rows[id]; ok {
			out = append(out, &e)
		}
	}
	return out, nil
}

func (r *EntryRepo) ListAfter(ctx context.Context, afterID int64, limit int) ([]*entity.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]int64, 0, len(r.rows))
	for id := range r.rows {
		if id > afterID {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	if len(ids) > limit {
		ids = ids[:limit]
	}
	out := make([]*entity.Entry, 0, len(ids))
	for _, id := range ids {
		e := r.rows[id]
		out = append(out, &e)
	}
	return out, nil
}

// Create assigns the next monotonic id. A zero CreatedAt is stamped with the
// current time.
func (r *EntryRepo) Create(ctx context.Context, e *entity.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	e.ID = r.nextID
	if e.CreatedAt.IsZero() {
		e.CreatedAt = r.now()
	}
	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = e.CreatedAt
	}
	r.rows[e.ID] = *e
	return nil
}

func (r *EntryRepo) Update(ctx context.Context, e *entity.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[e.ID]; !ok {
		return entity.ErrNotFound
	}
	r.rows[e.ID] = *e
	return nil
}

func (r *EntryRepo) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return entity.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}
