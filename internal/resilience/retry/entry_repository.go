package retry

import (
	"context"

	"daybook/internal/domain/entity"
	"daybook/internal/repository"
)

// EntryRepository retries transient failures of the wrapped record store.
// Reads and Update are retried. Create and Delete are not, since a lost
// acknowledgement would make a second attempt insert twice or report ErrNotFound.
type EntryRepository struct {
	next repository.EntryRepository
	cfg  Config
}

// NewEntryRepository wraps next with retry logic using cfg.
func NewEntryRepository(next repository.EntryRepository, cfg Config) *EntryRepository {
	return &EntryRepository{next: next, cfg: cfg}
}

var _ repository.EntryRepository = (*EntryRepository)(nil)

func (r *EntryRepository) Get(ctx context.Context, id int64) (*entity.Entry, error) {
	var e *entity.Entry
	err := WithBackoff(ctx, r.cfg, func() error {
		var err error
		e, err = r.next.Get(ctx, id)
		return err
	})
	return e, err
}

func (r *EntryRepository) GetByIDs(ctx context.Context, ids []int64) ([]*entity.Entry, error) {
	var entries []*entity.Entry
	err := WithBackoff(ctx, r.cfg, func() error {
		var err error
		entries, err = r.next.GetByIDs(ctx, ids)
		return err
	})
	return entries, err
}

func (r *EntryRepository) ListAfter(ctx context.Context, afterID int64, limit int) ([]*entity.Entry, error) {
	var entries []*entity.Entry
	err := WithBackoff(ctx, r.cfg, func() error {
		var err error
		entries, err = r.next.ListAfter(ctx, afterID, limit)
		return err
	})
	return entries, err
}

func (r *EntryRepository) Create(ctx context.Context, e *entity.Entry) error {
	return r.next.Create(ctx, e)
}

func (r *EntryRepository) Update(ctx context.Context, e *entity.Entry) error {
	return WithBackoff(ctx, r.cfg, func() error {
		return r.next.Update(ctx, e)
	})
}

func (r *EntryRepository) Delete(ctx context.Context, id int64) error {
	return r.next.Delete(ctx, id)
}
