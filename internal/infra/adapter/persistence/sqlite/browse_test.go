package sqlite_test

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"daybook/internal/domain/entity"
	"daybook/internal/infra/adapter/persistence/sqlite"
	"daybook/internal/usecase/browse"
)

// Months at the edges of the supported year range still resolve their
// neighbours in the right direction on nanosecond timestamps.
func TestBrowse_YearRangeEdges(t *testing.T) {
	conn := openDB(t)
	e := seed(t, conn,
		time.Date(entity.MinYear, time.January, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC),
		time.Date(entity.MaxYear, time.December, 30, 23, 0, 0, 0, time.UTC),
	)
	svc := &browse.Service{
		Search:   sqlite.NewSearchIndex(conn, time.UTC),
		Records:  sqlite.NewEntryRepo(conn),
		PageSize: 10,
		Location: time.UTC,
	}
	march2024 := entity.AdjacentCondition(entity.ByYearMonth{Year: 2024, Month: time.March})

	tests := []struct {
		name    string
		cond    entity.Condition
		entries []int64
		next    entity.Adjacent
		prev    entity.Adjacent
	}{
		{"first supported month", entity.ByYearMonth{Year: entity.MinYear, Month: time.January},
			idsOf(e[0]), march2024, entity.NoAdjacent()},
		{"empty month after the first", entity.ByYearMonth{Year: entity.MinYear, Month: time.February},
			[]int64{}, march2024, entity.AdjacentCondition(entity.ByYearMonth{Year: entity.MinYear, Month: time.January})},
		{"last supported month", entity.ByYearMonth{Year: entity.MaxYear, Month: time.December},
			idsOf(e[2]), entity.NoAdjacent(), march2024},
		{"empty day before the last", entity.ByDate{Year: entity.MaxYear, Month: time.December, Day: 29},
			[]int64{}, entity.AdjacentCondition(entity.ByDate{Year: entity.MaxYear, Month: time.December, Day: 30}),
			entity.AdjacentCondition(entity.ByDate{Year: 2024, Month: time.March, Day: 15})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := svc.Paginate(context.Background(), tt.cond, 1, 0)
			if err != nil {
				t.Fatalf("Paginate err=%v", err)
			}
			if diff := cmp.Diff(tt.entries, idsOf(page.Entries...)); diff != "" {
				t.Errorf("entries mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.next, page.Next, cmp.AllowUnexported(entity.Adjacent{})); diff != "" {
				t.Errorf("next mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.prev, page.Prev, cmp.AllowUnexported(entity.Adjacent{})); diff != "" {
				t.Errorf("prev mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBrowse_HugePageIndex(t *testing.T) {
	conn := openDB(t)
	seed(t, conn,
		time.Date(2024, time.March, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.March, 2, 12, 0, 0, 0, time.UTC),
	)
	svc := &browse.Service{
		Search:   sqlite.NewSearchIndex(conn, time.UTC),
		Records:  sqlite.NewEntryRepo(conn),
		Location: time.UTC,
	}

	page, err := svc.Paginate(context.Background(), entity.ByYearMonth{Year: 2024, Month: time.March}, math.MaxInt, 10)
	if err != nil {
		t.Fatalf("Paginate err=%v", err)
	}
	if len(page.Entries) != 0 {
		t.Errorf("expected no entries, got %v", idsOf(page.Entries...))
	}
	if got, ok := page.Prev.PageIndex(); !ok || got != 1 {
		t.Errorf("prev = %v, want page 1", page.Prev)
	}
	if !page.Next.IsNone() {
		t.Errorf("next = %v, want none", page.Next)
	}
}
