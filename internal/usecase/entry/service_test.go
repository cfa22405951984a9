package entry_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"daybook/internal/domain/entity"
	"daybook/internal/infra/adapter/persistence/memory"
	"daybook/internal/repository"
	entryUC "daybook/internal/usecase/entry"
)

/* ───────── スタブ実装 ───────── */

// 書き込みを失敗させられる SearchWriter
type brokenIndex struct {
	repository.SearchWriter
	err error
}

func (b *brokenIndex) Index(_ context.Context, _ *entity.Entry) error { return b.err }
func (b *brokenIndex) Remove(_ context.Context, _ int64) error        { return b.err }

type report struct {
	op string
	id int64
}

type recordingReporter struct{ reports []report }

func (r *recordingReporter) ReportIndexFailure(_ context.Context, op string, id int64, _ error) {
	r.reports = append(r.reports, report{op: op, id: id})
}

// 強制的にエラーを返す EntryRepository
type failingRepo struct {
	repository.EntryRepository
	err error
}

func (f *failingRepo) Create(_ context.Context, _ *entity.Entry) error { return f.err }

/* ───────── ヘルパ ───────── */

var fixedNow = time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC)

func newService() (*entryUC.Service, *memory.SearchIndex, *recordingReporter) {
	idx := memory.NewSearchIndex(time.UTC)
	rep := &recordingReporter{}
	return &entryUC.Service{
		Repo:     memory.NewEntryRepo(),
		Index:    idx,
		Reporter: rep,
		Now:      func() time.Time { return fixedNow },
	}, idx, rep
}

func strPtr(s string) *string { return &s }

/* ───────── テスト ───────── */

func TestService_CreateIndexesEntry(t *testing.T) {
	svc, idx, rep := newService()
	ctx := context.Background()

	e, err := svc.Create(ctx, entryUC.CreateInput{Title: "Walk", Body: "Cherry blossoms"})
	if err != nil {
		t.Fatalf("Create err=%v", err)
	}
	if e.ID == 0 || !e.CreatedAt.Equal(fixedNow) || !e.UpdatedAt.Equal(fixedNow) {
		t.Fatalf("unexpected entry %+v", e)
	}

	res, err := idx.FindByCondition(ctx, entity.Keywords("cherry"), 0, 10)
	if err != nil {
		t.Fatalf("FindByCondition err=%v", err)
	}
	if diff := cmp.Diff([]int64{e.ID}, res.IDs); diff != "" {
		t.Fatalf("index mismatch (-want +got):\n%s", diff)
	}
	if len(rep.reports) != 0 {
		t.Fatalf("unexpected reports %+v", rep.reports)
	}
}

func TestService_CreateBackdated(t *testing.T) {
	svc, _, _ := newService()
	at := time.Date(2023, 12, 31, 23, 0, 0, 0, time.UTC)

	e, err := svc.Create(context.Background(), entryUC.CreateInput{Title: "NYE", Body: "late", CreatedAt: at})
	if err != nil {
		t.Fatalf("Create err=%v", err)
	}
	if !e.CreatedAt.Equal(at) || !e.UpdatedAt.Equal(fixedNow) {
		t.Fatalf("CreatedAt=%v UpdatedAt=%v", e.CreatedAt, e.UpdatedAt)
	}
}

func TestService_CreateValidation(t *testing.T) {
	tests := []struct {
		name  string
		in    entryUC.CreateInput
		field string
	}{
		{"blank title", entryUC.CreateInput{Title: "  ", Body: "b"}, "title"},
		{"long title", entryUC.CreateInput{Title: strings.Repeat("あ", 201), Body: "b"}, "title"},
		{"missing body", entryUC.CreateInput{Title: "t"}, "body"},
		{"backdated before 1678", entryUC.CreateInput{Title: "t", Body: "b", CreatedAt: time.Date(1500, 1, 1, 0, 0, 0, 0, time.UTC)}, "created_at"},
		{"dated after 2261", entryUC.CreateInput{Title: "t", Body: "b", CreatedAt: time.Date(9000, 1, 1, 0, 0, 0, 0, time.UTC)}, "created_at"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newService()
			_, err := svc.Create(context.Background(), tt.in)
			var ve *entity.ValidationError
			if !errors.As(err, &ve) || ve.Field != tt.field {
				t.Fatalf("err=%v, want ValidationError on %s", err, tt.field)
			}
			if !errors.Is(err, entity.ErrInvalidInput) {
				t.Fatalf("err=%v should match ErrInvalidInput", err)
			}
		})
	}
}

func TestService_CreateIndexFailureIsReported(t *testing.T) {
	rep := &recordingReporter{}
	repo := memory.NewEntryRepo()
	svc := &entryUC.Service{Repo: repo, Index: &brokenIndex{err: errors.New("index down")}, Reporter: rep}

	e, err := svc.Create(context.Background(), entryUC.CreateInput{Title: "t", Body: "b"})
	if err != nil {
		t.Fatalf("Create err=%v, want success despite index failure", err)
	}
	stored, _ := repo.Get(context.Background(), e.ID)
	if stored == nil {
		t.Fatal("entry was not stored")
	}
	if diff := cmp.Diff([]report{{op: "index", id: e.ID}}, rep.reports, cmp.AllowUnexported(report{})); diff != "" {
		t.Fatalf("reports mismatch (-want +got):\n%s", diff)
	}
}

func TestService_CreateStoreFailureSkipsIndex(t *testing.T) {
	boom := errors.New("db down")
	idx := memory.NewSearchIndex(time.UTC)
	svc := &entryUC.Service{Repo: &failingRepo{err: boom}, Index: idx}

	_, err := svc.Create(context.Background(), entryUC.CreateInput{Title: "t", Body: "b"})
	if !errors.Is(err, boom) {
		t.Fatalf("err=%v, want %v", err, boom)
	}
	ids, _ := idx.IDs(context.Background())
	if len(ids) != 0 {
		t.Fatalf("index should be untouched, got %v", ids)
	}
}

func TestService_Update(t *testing.T) {
	svc, idx, _ := newService()
	ctx := context.Background()
	e, _ := svc.Create(ctx, entryUC.CreateInput{Title: "old", Body: "body", CreatedAt: fixedNow.Add(-time.Hour)})

	later := fixedNow.Add(time.Hour)
	svc.Now = func() time.Time { return later }
	got, err := svc.Update(ctx, entryUC.UpdateInput{ID: e.ID, Title: strPtr("new title")})
	if err != nil {
		t.Fatalf("Update err=%v", err)
	}
	if got.Title != "new title" || got.Body != "body" || !got.UpdatedAt.Equal(later) {
		t.Fatalf("unexpected entry %+v", got)
	}
	if !got.CreatedAt.Equal(e.CreatedAt) {
		t.Fatalf("CreatedAt changed: %v -> %v", e.CreatedAt, got.CreatedAt)
	}

	res, _ := idx.FindByCondition(ctx, entity.Keywords("old"), 0, 10)
	if res.TotalCount != 0 {
		t.Fatalf("stale document still indexed: %+v", res)
	}
	res, _ = idx.FindByCondition(ctx, entity.Keywords("new"), 0, 10)
	if res.TotalCount != 1 {
		t.Fatalf("updated document not indexed: %+v", res)
	}
}

func TestService_UpdateErrors(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()
	e, _ := svc.Create(ctx, entryUC.CreateInput{Title: "t", Body: "b"})

	tests := []struct {
		name string
		in   entryUC.UpdateInput
		want error
	}{
		{"invalid id", entryUC.UpdateInput{ID: 0}, entryUC.ErrInvalidEntryID},
		{"not found", entryUC.UpdateInput{ID: 999, Title: strPtr("x")}, entryUC.ErrEntryNotFound},
		{"blank body", entryUC.UpdateInput{ID: e.ID, Body: strPtr("")}, entity.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Update(ctx, tt.in)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err=%v, want %v", err, tt.want)
			}
		})
	}
}

func TestService_Delete(t *testing.T) {
	svc, idx, _ := newService()
	ctx := context.Background()
	e, _ := svc.Create(ctx, entryUC.CreateInput{Title: "t", Body: "b"})

	if err := svc.Delete(ctx, e.ID); err != nil {
		t.Fatalf("Delete err=%v", err)
	}
	ids, _ := idx.IDs(ctx)
	if len(ids) != 0 {
		t.Fatalf("index still holds %v", ids)
	}
	if err := svc.Delete(ctx, e.ID); !errors.Is(err, entryUC.ErrEntryNotFound) {
		t.Fatalf("second Delete err=%v, want ErrEntryNotFound", err)
	}
	if err := svc.Delete(ctx, -1); !errors.Is(err, entryUC.ErrInvalidEntryID) {
		t.Fatalf("Delete(-1) err=%v, want ErrInvalidEntryID", err)
	}
	if _, err := svc.Get(ctx, e.ID); !errors.Is(err, entryUC.ErrEntryNotFound) {
		t.Fatalf("Get after delete err=%v, want ErrEntryNotFound", err)
	}
}

func TestService_DeleteIndexFailureIsReported(t *testing.T) {
	rep := &recordingReporter{}
	repo := memory.NewEntryRepo()
	e := &entity.Entry{Title: "t", Body: "b"}
	_ = repo.Create(context.Background(), e)
	svc := &entryUC.Service{Repo: repo, Index: &brokenIndex{err: errors.New("index down")}, Reporter: rep}

	if err := svc.Delete(context.Background(), e.ID); err != nil {
		t.Fatalf("Delete err=%v", err)
	}
	if len(rep.reports) != 1 || rep.reports[0].op != "remove" {
		t.Fatalf("reports=%+v, want one remove failure", rep.reports)
	}
}
