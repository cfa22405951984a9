package circuitbreaker

import (
	"context"

	"daybook/internal/domain/entity"
	"daybook/internal/repository"
)

// SearchIndex guards a repository.SearchIndex with a circuit breaker.
// When the breaker is open every call fails fast with gobreaker.ErrOpenState.
type SearchIndex struct {
	cb   *CircuitBreaker
	next repository.SearchIndex
}

// NewSearchIndex wraps next using SearchIndexConfig.
func NewSearchIndex(next repository.SearchIndex) *SearchIndex {
	return NewSearchIndexWithConfig(next, SearchIndexConfig())
}

// NewSearchIndexWithConfig wraps next with a breaker built from cfg.
func NewSearchIndexWithConfig(next repository.SearchIndex, cfg Config) *SearchIndex {
	return &SearchIndex{cb: New(cfg), next: next}
}

var _ repository.SearchIndex = (*SearchIndex)(nil)

// Breaker exposes the underlying breaker for health reporting.
func (s *SearchIndex) Breaker() *CircuitBreaker { return s.cb }

func (s *SearchIndex) FindByCondition(ctx context.Context, cond entity.Condition, offset, limit int) (repository.SearchResult, error) {
	return run(s.cb, func() (repository.SearchResult, error) {
		return s.next.FindByCondition(ctx, cond, offset, limit)
	})
}

func (s *SearchIndex) CursorForward(ctx context.Context, from repository.Cursor, offset, limit int) ([]int64, error) {
	return run(s.cb, func() ([]int64, error) {
		return s.next.CursorForward(ctx, from, offset, limit)
	})
}

func (s *SearchIndex) CursorBackward(ctx context.Context, until repository.Cursor, offset, limit int) ([]int64, error) {
	return run(s.cb, func() ([]int64, error) {
		return s.next.CursorBackward(ctx, until, offset, limit)
	})
}

func (s *SearchIndex) Index(ctx context.Context, e *entity.Entry) error {
	_, err := run(s.cb, func() (struct{}, error) {
		return struct{}{}, s.next.Index(ctx, e)
	})
	return err
}

func (s *SearchIndex) Remove(ctx context.Context, id int64) error {
	_, err := run(s.cb, func() (struct{}, error) {
		return struct{}{}, s.next.Remove(ctx, id)
	})
	return err
}

func (s *SearchIndex) IDs(ctx context.Context) ([]int64, error) {
	return run(s.cb, func() ([]int64, error) {
		return s.next.IDs(ctx)
	})
}

// run adapts a typed call to gobreaker's interface{} signature.
func run[T any](cb *CircuitBreaker, fn func() (T, error)) (T, error) {
	var zero T
	result, err := cb.Execute(func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		return zero, err
	}
	return result.(T), nil
}
