// Package browse computes diary pages: the entries a condition selects at a
// page index, plus pointers to the adjacent page of the same condition or to
// the neighbouring condition once the current one is exhausted.
package browse

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"daybook/internal/common/pagination"
	"daybook/internal/domain/entity"
	"daybook/internal/observability/metrics"
	"daybook/internal/observability/tracing"
	"daybook/internal/repository"
)

// DefaultPageSize is used when neither the call nor the Service sets one.
const DefaultPageSize = 10

// Service computes pages over a search index and a record store.
// It holds no mutable state and is safe for concurrent use.
type Service struct {
	Search  repository.SearchReader
	Records repository.EntryReader
	// PageSize applies when Paginate is called with pageSize <= 0.
	PageSize int
	// Location is the calendar used to derive month and date conditions.
	// Nil means UTC.
	Location *time.Location
}

// Paginate returns page index of cond. pageSize <= 0 selects the service default.
//
// ByID conditions ignore index and always yield a one-entry page with Index 1.
// Errors wrap entity.ErrInvalidCondition, entity.ErrInvalidIndex,
// entity.ErrNotFound or entity.ErrAdjacentInconsistency; port failures are
// returned wrapped with the failing operation.
func (s *Service) Paginate(ctx context.Context, cond entity.Condition, index, pageSize int) (page *entity.Page, err error) {
	start := time.Now()
	kind := "unknown"
	if cond != nil {
		kind = cond.Kind().String()
	}

	ctx, span := tracing.GetTracer().Start(ctx, "browse.Paginate",
		trace.WithAttributes(
			attribute.String("diary.condition", kind),
			attribute.Int("diary.page_index", index),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			recordAdjacency(kind, page)
		}
		span.End()
		elapsed := time.Since(start)
		metrics.RecordBrowse(kind, resultLabel(err), elapsed)
		pagination.RecordDuration("service", elapsed)
	}()

	if cond == nil {
		return nil, fmt.Errorf("%w: condition is required", entity.ErrInvalidCondition)
	}
	if err := cond.Validate(); err != nil {
		return nil, err
	}

	if c, ok := cond.(entity.ByID); ok {
		return s.pageByID(ctx, c)
	}

	if index < 1 {
		return nil, entity.ErrInvalidIndex
	}
	return s.pageByIndex(ctx, cond, index, s.pageSize(pageSize))
}

func (s *Service) pageSize(n int) int {
	if n > 0 {
		return n
	}
	if s.PageSize > 0 {
		return s.PageSize
	}
	return DefaultPageSize
}

// anchor is where a cross-condition cursor query starts. Entry anchors skip
// the entry itself on the forward side; boundary anchors skip nothing.
type anchor struct {
	cursor repository.Cursor
	offset int
}

func entryAnchor(e *entity.Entry) anchor {
	return anchor{cursor: repository.CursorOf(e), offset: 1}
}

func (s *Service) pageByIndex(ctx context.Context, cond entity.Condition, index, n int) (*entity.Page, error) {
	res, err := s.Search.FindByCondition(ctx, cond, pagination.Offset(index, n), n)
	if err != nil {
		return nil, fmt.Errorf("find by condition: %w", err)
	}
	entries, err := s.hydrate(ctx, res.IDs)
	if err != nil {
		return nil, err
	}

	page := &entity.Page{
		Condition: cond,
		Index:     index,
		Entries:   entries,
		Next:      entity.NoAdjacent(),
		Prev:      entity.NoAdjacent(),
	}

	total := res.TotalCount
	crosses := crossesConditions(cond)

	var nextFrom, prevFrom *anchor
	switch {
	case total == 0:
		// Nothing matches: both directions start from the period boundary,
		// whatever index was asked for.
		if crosses {
			startAt, _ := entity.StartOf(cond, s.Location)
			seed := anchor{cursor: repository.Cursor{At: startAt}}
			nextFrom, prevFrom = &seed, &seed
		}
	case len(entries) == 0:
		// Past the last page: step back to it, and step forward from the
		// final entry of the condition.
		page.Prev = entity.AdjacentPage(pagination.LastPage(total, n))
		if crosses {
			final, err := s.finalEntry(ctx, cond, total)
			if err != nil {
				return nil, err
			}
			a := entryAnchor(final)
			nextFrom = &a
		}
	default:
		if index < pagination.LastPage(total, n) {
			page.Next = entity.AdjacentPage(index + 1)
		} else if crosses {
			a := entryAnchor(entries[len(entries)-1])
			nextFrom = &a
		}
		if index > 1 {
			page.Prev = entity.AdjacentPage(index - 1)
		} else if crosses {
			prevFrom = &anchor{cursor: repository.CursorOf(entries[0])}
		}
	}

	if err := s.resolveEdges(ctx, page, nextFrom, prevFrom); err != nil {
		return nil, err
	}
	return page, nil
}

func (s *Service) pageByID(ctx context.Context, cond entity.ByID) (*entity.Page, error) {
	e, err := s.Records.Get(ctx, cond.ID)
	if err != nil {
		return nil, fmt.Errorf("get entry: %w", err)
	}
	if e == nil {
		return nil, fmt.Errorf("entry %d: %w", cond.ID, entity.ErrNotFound)
	}

	page := &entity.Page{
		Condition: cond,
		Index:     1,
		Entries:   []*entity.Entry{e},
		Next:      entity.NoAdjacent(),
		Prev:      entity.NoAdjacent(),
	}
	next := entryAnchor(e)
	prev := anchor{cursor: repository.CursorOf(e)}
	if err := s.resolveEdges(ctx, page, &next, &prev); err != nil {
		return nil, err
	}
	return page, nil
}

// resolveEdges runs the forward and backward cursor lookups concurrently.
// A nil anchor leaves that edge as it is.
func (s *Service) resolveEdges(ctx context.Context, page *entity.Page, nextFrom, prevFrom *anchor) error {
	if nextFrom == nil && prevFrom == nil {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	if nextFrom != nil {
		g.Go(func() error {
			ids, err := s.Search.CursorForward(gctx, nextFrom.cursor, nextFrom.offset, 1)
			if err != nil {
				return fmt.Errorf("cursor forward: %w", err)
			}
			adj, err := s.derive(gctx, page.Condition, ids)
			if err != nil {
				return err
			}
			page.Next = adj
			return nil
		})
	}
	if prevFrom != nil {
		g.Go(func() error {
			ids, err := s.Search.CursorBackward(gctx, prevFrom.cursor, 0, 1)
			if err != nil {
				return fmt.Errorf("cursor backward: %w", err)
			}
			adj, err := s.derive(gctx, page.Condition, ids)
			if err != nil {
				return err
			}
			page.Prev = adj
			return nil
		})
	}
	return g.Wait()
}

// derive maps the entry a cursor query found to the condition containing it.
func (s *Service) derive(ctx context.Context, cond entity.Condition, ids []int64) (entity.Adjacent, error) {
	if len(ids) == 0 {
		return entity.NoAdjacent(), nil
	}
	e, err := s.Records.Get(ctx, ids[0])
	if err != nil {
		return entity.NoAdjacent(), fmt.Errorf("get adjacent entry: %w", err)
	}
	if e == nil {
		return entity.NoAdjacent(), &entity.InconsistencyError{ID: ids[0]}
	}

	switch cond.(type) {
	case entity.ByYearMonth:
		return entity.AdjacentCondition(entity.YearMonthOf(e.CreatedAt, s.Location)), nil
	case entity.ByDate:
		return entity.AdjacentCondition(entity.DateOf(e.CreatedAt, s.Location)), nil
	case entity.ByID:
		return entity.AdjacentCondition(entity.ByID{ID: e.ID}), nil
	default:
		return entity.NoAdjacent(), nil
	}
}

func (s *Service) finalEntry(ctx context.Context, cond entity.Condition, total int64) (*entity.Entry, error) {
	res, err := s.Search.FindByCondition(ctx, cond, int(total-1), 1)
	if err != nil {
		return nil, fmt.Errorf("find final entry: %w", err)
	}
	if len(res.IDs) == 0 {
		return nil, fmt.Errorf("%w: final entry of %s vanished", entity.ErrAdjacentInconsistency, cond)
	}
	entries, err := s.hydrate(ctx, res.IDs)
	if err != nil {
		return nil, err
	}
	return entries[0], nil
}

// hydrate loads ids from the record store, preserving their order.
func (s *Service) hydrate(ctx context.Context, ids []int64) ([]*entity.Entry, error) {
	if len(ids) == 0 {
		return []*entity.Entry{}, nil
	}
	found, err := s.Records.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get entries: %w", err)
	}
	byID := make(map[int64]*entity.Entry, len(found))
	for _, e := range found {
		byID[e.ID] = e
	}
	out := make([]*entity.Entry, 0, len(ids))
	for _, id := range ids {
		e, ok := byID[id]
		if !ok {
			return nil, &entity.InconsistencyError{ID: id}
		}
		out = append(out, e)
	}
	return out, nil
}

// crossesConditions reports whether cond has calendar neighbours. All spans
// the whole store and keyword results have no successor, so neither crosses.
func crossesConditions(cond entity.Condition) bool {
	switch cond.(type) {
	case entity.ByYearMonth, entity.ByDate, entity.ByID:
		return true
	default:
		return false
	}
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, entity.ErrInvalidCondition), errors.Is(err, entity.ErrInvalidIndex):
		return "invalid"
	case errors.Is(err, entity.ErrNotFound):
		return "not_found"
	case errors.Is(err, entity.ErrAdjacentInconsistency):
		return "inconsistent"
	default:
		return "error"
	}
}

func recordAdjacency(kind string, page *entity.Page) {
	if page == nil {
		return
	}
	metrics.RecordAdjacent(kind, "next", variantLabel(page.Next))
	metrics.RecordAdjacent(kind, "prev", variantLabel(page.Prev))
}

func variantLabel(a entity.Adjacent) string {
	switch a.Kind() {
	case entity.AdjacentPageIndex:
		return "page"
	case entity.AdjacentOtherCondition:
		return "condition"
	default:
		return "none"
	}
}
