package diary

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"daybook/internal/common/pagination"
	"daybook/internal/domain/entity"
	"daybook/internal/handler/http/pathutil"
	"daybook/internal/handler/http/requestid"
	"daybook/internal/handler/http/respond"
	"daybook/internal/observability/logging"
)

// Paginator computes one page of a condition.
type Paginator interface {
	Paginate(ctx context.Context, cond entity.Condition, index, pageSize int) (*entity.Page, error)
}

// ConditionFunc extracts the condition addressed by a request.
type ConditionFunc func(r *http.Request) (entity.Condition, error)

// PageHandler serves one page of the condition its Condition func extracts.
// The page index and page size come from the page and limit query parameters.
type PageHandler struct {
	Svc           Paginator
	PaginationCfg pagination.Config
	Logger        *slog.Logger
	Condition     ConditionFunc
}

func (h PageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()
	reqID := requestid.FromContext(ctx)
	logger := logging.WithRequestID(ctx, h.logger())

	cond, err := h.Condition(r)
	if err != nil {
		logger.Warn("Invalid browse condition", "error", err.Error(), "path", r.URL.Path)
		pagination.RecordError("unknown", "validation")
		writeError(w, err)
		return
	}

	params, err := pagination.ParseQueryParams(r, h.PaginationCfg)
	if err != nil {
		logger.Warn("Invalid pagination parameters", "error", err.Error())
		pagination.RecordError(cond.Kind().String(), "validation")
		writeError(w, err)
		return
	}
	pagination.LogRequest(logger, reqID, cond, params)

	page, err := h.Svc.Paginate(ctx, cond, params.Page, params.Limit)
	if err != nil {
		code := writeError(w, err)
		pagination.RecordError(cond.Kind().String(), errorType(code))
		if code >= http.StatusInternalServerError {
			pagination.LogError(logger, reqID, params, err, errorType(code))
		}
		return
	}

	out := NewPageDTO(page)
	duration := time.Since(startTime)
	pagination.RecordRequest(cond.Kind().String(), page.Index)
	pagination.RecordDuration("handler", duration)
	pagination.LogResponse(logger, reqID, params, len(out.Entries), duration, http.StatusOK)

	respond.JSON(w, http.StatusOK, out)
}

func (h PageHandler) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// AllCondition addresses every entry.
func AllCondition(*http.Request) (entity.Condition, error) {
	return entity.All{}, nil
}

// EntryCondition reads {id}.
func EntryCondition(r *http.Request) (entity.Condition, error) {
	id, err := pathutil.ParseID(r.PathValue("id"))
	if err != nil {
		return nil, err
	}
	return entity.ByID{ID: id}, nil
}

// MonthCondition reads {year}/{month}.
func MonthCondition(r *http.Request) (entity.Condition, error) {
	n, err := pathutil.ParseInts(r.PathValue("year"), r.PathValue("month"))
	if err != nil {
		return nil, err
	}
	c := entity.ByYearMonth{Year: n[0], Month: time.Month(n[1])}
	return c, c.Validate()
}

// DayCondition reads {year}/{month}/{day}.
func DayCondition(r *http.Request) (entity.Condition, error) {
	n, err := pathutil.ParseInts(r.PathValue("year"), r.PathValue("month"), r.PathValue("day"))
	if err != nil {
		return nil, err
	}
	c := entity.ByDate{Year: n[0], Month: time.Month(n[1]), Day: n[2]}
	return c, c.Validate()
}

// KeywordCondition reads the q query parameter.
func KeywordCondition(r *http.Request) (entity.Condition, error) {
	c := entity.Keywords(r.URL.Query().Get("q"))
	return c, c.Validate()
}
