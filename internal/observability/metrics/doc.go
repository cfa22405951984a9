// Package metrics holds the Prometheus collectors shared across daybook,
// registered on the default registry and served on /metrics.
//
// Collectors are grouped by concern: HTTP traffic, diary browsing and
// writes, the entry cache, reindex runs, and the SQL record store.
//
//	start := time.Now()
//	page, err := svc.Paginate(ctx, cond, index, size)
//	metrics.RecordBrowse(cond.Kind().String(), "success", time.Since(start))
package metrics
