// Package sqlite provides SQLite implementations of the record store and the
// search index. Timestamps are stored as unix nanoseconds in UTC.
package sqlite

import (
	"fmt"
	"strings"
	"time"

	"daybook/internal/domain/entity"
	"daybook/internal/pkg/search"
)

// EntryQueryBuilder builds WHERE clauses over the entry_index table.
// SQLite-specific: uses ? placeholders and LIKE with an explicit escape character.
type EntryQueryBuilder struct {
	loc *time.Location
}

// NewEntryQueryBuilder creates a builder that resolves calendar conditions in loc.
func NewEntryQueryBuilder(loc *time.Location) *EntryQueryBuilder {
	if loc == nil {
		loc = time.UTC
	}
	return &EntryQueryBuilder{loc: loc}
}

// BuildWhereClause returns the WHERE clause selecting cond and its arguments.
func (qb *EntryQueryBuilder) BuildWhereClause(cond entity.Condition) (clause string, args []interface{}, err error) {
	switch c := cond.(type) {
	case entity.All:
		return "", nil, nil
	case entity.ByYearMonth, entity.ByDate:
		start, end, _ := entity.RangeOf(c, qb.loc)
		return "WHERE created_at >= ? AND created_at < ?", []interface{}{start.UnixNano(), end.UnixNano()}, nil
	case entity.ByKeywords:
		conditions := make([]string, 0, len(c.Terms))
		for _, term := range search.NormalizeTerms(c.Terms) {
			conditions = append(conditions, `document LIKE ? ESCAPE '\'`)
			args = append(args, search.EscapeILIKE(term))
		}
		return "WHERE " + strings.Join(conditions, " AND "), args, nil
	default:
		return "", nil, fmt.Errorf("%w: %s is not index-addressed", entity.ErrInvalidCondition, cond)
	}
}

// OrderBy returns the ORDER BY clause for cond.
func (qb *EntryQueryBuilder) OrderBy(cond entity.Condition) string {
	if cond.Kind() == entity.KindKeywords {
		return "ORDER BY created_at DESC, entry_id DESC"
	}
	return "ORDER BY created_at ASC, entry_id ASC"
}

func toNanos(t time.Time) int64 { return t.UTC().UnixNano() }

func fromNanos(n int64) time.Time { return time.Unix(0, n).UTC() }
