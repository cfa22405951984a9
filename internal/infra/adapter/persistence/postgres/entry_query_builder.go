// Package postgres provides PostgreSQL implementations of repository interfaces.
package postgres

import (
	"fmt"
	"strings"
	"time"

	"daybook/internal/domain/entity"
	"daybook/internal/pkg/search"
)

// EntryQueryBuilder builds WHERE clauses over the entry_index table.
// The same clause is shared by the COUNT and SELECT queries of a condition.
// It uses PostgreSQL-specific features like ILIKE and numbered placeholders ($1, $2, etc.).
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
// All yields an empty clause. ByID is not index-addressed and is rejected.
func (qb *EntryQueryBuilder) BuildWhereClause(cond entity.Condition) (clause string, args []interface{}, err error) {
	switch c := cond.(type) {
	case entity.All:
		return "", nil, nil
	case entity.ByYearMonth, entity.ByDate:
		start, end, _ := entity.RangeOf(c, qb.loc)
		return "WHERE created_at >= $1 AND created_at < $2", []interface{}{start, end}, nil
	case entity.ByKeywords:
		var conditions []string
		for i, term := range search.NormalizeTerms(c.Terms) {
			conditions = append(conditions, fmt.Sprintf("document ILIKE $%d", i+1))
			args = append(args, search.EscapeILIKE(term))
		}
		return "WHERE " + strings.Join(conditions, " AND "), args, nil
	default:
		return "", nil, fmt.Errorf("%w: %s is not index-addressed", entity.ErrInvalidCondition, cond)
	}
}

// OrderBy returns the ORDER BY clause for cond: ascending time for calendar
// conditions, newest first for keyword searches.
func (qb *EntryQueryBuilder) OrderBy(cond entity.Condition) string {
	if cond.Kind() == entity.KindKeywords {
		return "ORDER BY created_at DESC, entry_id DESC"
	}
	return "ORDER BY created_at ASC, entry_id ASC"
}
