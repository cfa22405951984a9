package store

import (
	"context"
	"database/sql"
	"time"

	"daybook/internal/domain/entity"
	"daybook/internal/observability/metrics"
	"daybook/internal/repository"
)

// timedRecords observes db_query_duration_seconds around every record store call.
// It sits directly on the SQL repository so retries are timed one by one.
type timedRecords struct {
	next repository.EntryRepository
}

var _ repository.EntryRepository = timedRecords{}

func observe(op string, start time.Time) {
	metrics.RecordDBQuery(op, time.Since(start))
}

func (t timedRecords) Get(ctx context.Context, id int64) (*entity.Entry, error) {
	defer observe("get_entry", time.Now())
	return t.next.Get(ctx, id)
}

func (t timedRecords) GetByIDs(ctx context.Context, ids []int64) ([]*entity.Entry, error) {
	defer observe("get_entries", time.Now())
	return t.next.GetByIDs(ctx, ids)
}

func (t timedRecords) ListAfter(ctx context.Context, afterID int64, limit int) ([]*entity.Entry, error) {
	defer observe("list_entries", time.Now())
	return t.next.ListAfter(ctx, afterID, limit)
}

func (t timedRecords) Create(ctx context.Context, e *entity.Entry) error {
	defer observe("insert_entry", time.Now())
	return t.next.Create(ctx, e)
}

func (t timedRecords) Update(ctx context.Context, e *entity.Entry) error {
	defer observe("update_entry", time.Now())
	return t.next.Update(ctx, e)
}

func (t timedRecords) Delete(ctx context.Context, id int64) error {
	defer observe("delete_entry", time.Now())
	return t.next.Delete(ctx, id)
}

// ReportPoolStats publishes the connection pool gauges every interval until
// ctx is cancelled. It returns at once for the memory driver.
func (s *Stores) ReportPoolStats(ctx context.Context, interval time.Duration) {
	if s.DB == nil {
		return
	}
	publishPoolStats(s.DB)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			publishPoolStats(s.DB)
		}
	}
}

func publishPoolStats(db *sql.DB) {
	st := db.Stats()
	metrics.UpdateDBConnectionStats(st.InUse, st.Idle)
}
