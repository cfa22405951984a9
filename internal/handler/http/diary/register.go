package diary

import (
	"log/slog"
	"net/http"

	"daybook/internal/common/pagination"
)

// Register registers the browse and write routes with mux.
// writeMW wraps the mutating routes, typically with a rate limiter; nil means none.
func Register(mux *http.ServeMux, pages Paginator, entries EntryWriter, paginationCfg pagination.Config,
	logger *slog.Logger, writeMW func(http.Handler) http.Handler) {
	page := func(cond ConditionFunc) http.Handler {
		return PageHandler{Svc: pages, PaginationCfg: paginationCfg, Logger: logger, Condition: cond}
	}
	if writeMW == nil {
		writeMW = func(h http.Handler) http.Handler { return h }
	}

	mux.Handle("GET /entries", page(AllCondition))
	mux.Handle("GET /entries/{id}", page(EntryCondition))
	mux.Handle("GET /months/{year}/{month}", page(MonthCondition))
	mux.Handle("GET /days/{year}/{month}/{day}", page(DayCondition))
	mux.Handle("GET /search", page(KeywordCondition))

	mux.Handle("POST /entries", writeMW(CreateHandler{entries}))
	mux.Handle("PUT /entries/{id}", writeMW(UpdateHandler{entries}))
	mux.Handle("DELETE /entries/{id}", writeMW(DeleteHandler{entries}))
}
