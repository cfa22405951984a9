package postgres_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"daybook/internal/domain/entity"
	"daybook/internal/infra/adapter/persistence/postgres"
)

/* ──────────────────────────── BuildWhereClause Tests ──────────────────────────── */

func TestEntryQueryBuilder_All(t *testing.T) {
	builder := postgres.NewEntryQueryBuilder(time.UTC)
	clause, args, err := builder.BuildWhereClause(entity.All{})
	if err != nil {
		t.Fatal(err)
	}
	if clause != "" || len(args) != 0 {
		t.Errorf("clause = %q args = %v, want empty", clause, args)
	}
	if got := builder.OrderBy(entity.All{}); got != "ORDER BY created_at ASC, entry_id ASC" {
		t.Errorf("OrderBy = %q", got)
	}
}

func TestEntryQueryBuilder_MonthInLocation(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	builder := postgres.NewEntryQueryBuilder(tokyo)
	clause, args, err := builder.BuildWhereClause(entity.ByYearMonth{Year: 2024, Month: time.March})
	if err != nil {
		t.Fatal(err)
	}

	if clause != "WHERE created_at >= $1 AND created_at < $2" {
		t.Errorf("clause = %q", clause)
	}
	want := []interface{}{
		time.Date(2024, time.February, 29, 15, 0, 0, 0, time.UTC),
		time.Date(2024, time.March, 31, 15, 0, 0, 0, time.UTC),
	}
	if diff := cmp.Diff(want, args); diff != "" {
		t.Errorf("args mismatch (-want +got):\n%s", diff)
	}
}

func TestEntryQueryBuilder_Keywords(t *testing.T) {
	builder := postgres.NewEntryQueryBuilder(nil)
	clause, args, err := builder.BuildWhereClause(entity.Keywords("Green 100%"))
	if err != nil {
		t.Fatal(err)
	}

	if clause != "WHERE document ILIKE $1 AND document ILIKE $2" {
		t.Errorf("clause = %q", clause)
	}
	if diff := cmp.Diff([]interface{}{"%green%", `%100\%%`}, args); diff != "" {
		t.Errorf("args mismatch (-want +got):\n%s", diff)
	}
	if got := builder.OrderBy(entity.Keywords("x")); got != "ORDER BY created_at DESC, entry_id DESC" {
		t.Errorf("OrderBy = %q", got)
	}
}

func TestEntryQueryBuilder_RejectsByID(t *testing.T) {
	builder := postgres.NewEntryQueryBuilder(nil)
	_, _, err := builder.BuildWhereClause(entity.ByID{ID: 3})
	if !errors.Is(err, entity.ErrInvalidCondition) {
		t.Errorf("err = %v, want ErrInvalidCondition", err)
	}
}
