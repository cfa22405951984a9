// Package resilience provides reliability and fault tolerance patterns for the application.
// It includes circuit breakers and retry logic that wrap the record store,
// the search index and the entry cache.
//
// The package supports:
//   - Circuit breakers that fail fast while the search index or cache is down
//   - Retry logic with exponential backoff and jitter for transient database errors
//
// Usage Example:
//
//	index := circuitbreaker.NewSearchIndex(postgres.NewSearchIndex(db, loc))
//	records := retry.NewEntryRepository(postgres.NewEntryRepo(db), retry.DBConfig())
package resilience
