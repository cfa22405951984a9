package metrics

import (
	"time"
)

// RecordBrowse records one page computation.
// Result should be one of "success", "invalid", "not_found", "inconsistent" or "error".
func RecordBrowse(kind, result string, duration time.Duration) {
	BrowseRequestsTotal.WithLabelValues(kind, result).Inc()
	BrowseDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordAdjacent records which variant a next or prev pointer resolved to.
func RecordAdjacent(kind, direction, variant string) {
	AdjacentResolvedTotal.WithLabelValues(kind, direction, variant).Inc()
}

// RecordIndexWriteFailure records a search index write that failed after the
// record store accepted the change.
func RecordIndexWriteFailure(operation string) {
	IndexWriteFailuresTotal.WithLabelValues(operation).Inc()
}

// RecordReindex records the outcome of a reindex run.
//
// Example:
//
//	start := time.Now()
//	stats, err := svc.Run(ctx)
//	RecordReindex(stats.Indexed, stats.Removed, stats.Failed, time.Since(start))
func RecordReindex(indexed, removed, failed int, duration time.Duration) {
	ReindexDocumentsTotal.WithLabelValues("indexed").Add(float64(indexed))
	ReindexDocumentsTotal.WithLabelValues("removed").Add(float64(removed))
	ReindexDocumentsTotal.WithLabelValues("failed").Add(float64(failed))
	ReindexDuration.Observe(duration.Seconds())
}

// RecordCacheResult records a record cache lookup. Result is "hit", "miss" or "error".
func RecordCacheResult(result string) {
	CacheRequestsTotal.WithLabelValues(result).Inc()
}

// UpdateEntriesTotal updates the number of entries in the record store.
func UpdateEntriesTotal(count int) {
	EntriesTotal.Set(float64(count))
}

// RecordDBQuery records the duration of a database query operation.
// Operation should describe the query type (e.g., "select_entries", "insert_entry").
func RecordDBQuery(operation string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// UpdateDBConnectionStats updates database connection pool statistics.
func UpdateDBConnectionStats(active, idle int) {
	DBConnectionsActive.Set(float64(active))
	DBConnectionsIdle.Set(float64(idle))
}
