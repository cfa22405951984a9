package retry_test

import (
	"context"
	"errors"
	"syscall"
	"testing"
	"time"

	"daybook/internal/domain/entity"
	"daybook/internal/repository"
	"daybook/internal/resilience/retry"
)

/* ───────── スタブ実装 ───────── */

type flakyRepo struct {
	repository.EntryRepository
	failures int
	calls    int
	err      error
}

func (f *flakyRepo) fail() error {
	f.calls++
	if f.calls <= f.failures {
		return f.err
	}
	return nil
}

func (f *flakyRepo) Get(_ context.Context, id int64) (*entity.Entry, error) {
	if err := f.fail(); err != nil {
		return nil, err
	}
	return &entity.Entry{ID: id}, nil
}

func (f *flakyRepo) GetByIDs(_ context.Context, ids []int64) ([]*entity.Entry, error) {
	if err := f.fail(); err != nil {
		return nil, err
	}
	return []*entity.Entry{{ID: ids[0]}}, nil
}

func (f *flakyRepo) Create(_ context.Context, _ *entity.Entry) error { return f.fail() }
func (f *flakyRepo) Update(_ context.Context, _ *entity.Entry) error { return f.fail() }
func (f *flakyRepo) Delete(_ context.Context, _ int64) error         { return f.fail() }

func fastConfig() retry.Config {
	return retry.Config{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond, Multiplier: 2}
}

/* ───────── テスト ───────── */

func TestEntryRepository_RetriesReads(t *testing.T) {
	stub := &flakyRepo{failures: 2, err: syscall.ECONNRESET}
	repo := retry.NewEntryRepository(stub, fastConfig())

	got, err := repo.Get(context.Background(), 7)
	if err != nil {
		t.Fatalf("Get err=%v", err)
	}
	if got.ID != 7 || stub.calls != 3 {
		t.Fatalf("got=%+v calls=%d, want id 7 after 3 calls", got, stub.calls)
	}

	stub.calls = 0
	entries, err := repo.GetByIDs(context.Background(), []int64{3})
	if err != nil || len(entries) != 1 {
		t.Fatalf("GetByIDs = %v, %v", entries, err)
	}
}

func TestEntryRepository_DoesNotRetryNonTransient(t *testing.T) {
	stub := &flakyRepo{failures: 5, err: entity.ErrNotFound}
	repo := retry.NewEntryRepository(stub, fastConfig())

	err := repo.Update(context.Background(), &entity.Entry{ID: 1})
	if !errors.Is(err, entity.ErrNotFound) {
		t.Fatalf("Update err=%v, want ErrNotFound", err)
	}
	if stub.calls != 1 {
		t.Fatalf("calls=%d, want 1", stub.calls)
	}
}

func TestEntryRepository_WritesThatAreNotIdempotentRunOnce(t *testing.T) {
	tests := []struct {
		name string
		call func(r *retry.EntryRepository) error
	}{
		{"create", func(r *retry.EntryRepository) error { return r.Create(context.Background(), &entity.Entry{}) }},
		{"delete", func(r *retry.EntryRepository) error { return r.Delete(context.Background(), 1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &flakyRepo{failures: 5, err: syscall.ECONNRESET}
			err := tt.call(retry.NewEntryRepository(stub, fastConfig()))
			if !errors.Is(err, syscall.ECONNRESET) {
				t.Fatalf("err=%v, want ECONNRESET", err)
			}
			if stub.calls != 1 {
				t.Fatalf("calls=%d, want 1", stub.calls)
			}
		})
	}
}
