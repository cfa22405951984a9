package diary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"daybook/internal/domain/entity"
	"daybook/internal/handler/http/pathutil"
	"daybook/internal/handler/http/respond"
	entryUC "daybook/internal/usecase/entry"
)

// EntryWriter is the write side of the entry use case.
type EntryWriter interface {
	Create(ctx context.Context, in entryUC.CreateInput) (*entity.Entry, error)
	Update(ctx context.Context, in entryUC.UpdateInput) (*entity.Entry, error)
	Delete(ctx context.Context, id int64) error
}

// errMalformedBody wraps JSON decode failures so they map to 400.
var errMalformedBody = fmt.Errorf("%w: request body must be a JSON object", entity.ErrInvalidInput)

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			return err
		}
		return errMalformedBody
	}
	return nil
}

type CreateHandler struct{ Svc EntryWriter }

// ServeHTTP creates an entry from {"title", "body", "created_at"}.
// created_at is optional RFC3339 and back-dates the entry.
func (h CreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title     string `json:"title"`
		Body      string `json:"body"`
		CreatedAt string `json:"created_at"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	var createdAt time.Time
	if req.CreatedAt != "" {
		var err error
		createdAt, err = time.Parse(time.RFC3339, req.CreatedAt)
		if err != nil {
			respond.SafeError(w, http.StatusBadRequest,
				errors.New("created_at must be in RFC3339 format"))
			return
		}
	}

	e, err := h.Svc.Create(r.Context(), entryUC.CreateInput{
		Title:     req.Title,
		Body:      req.Body,
		CreatedAt: createdAt,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Location", Href(entity.ByID{ID: e.ID}))
	respond.JSON(w, http.StatusCreated, toEntryDTO(e))
}

type UpdateHandler struct{ Svc EntryWriter }

// ServeHTTP applies a partial update; omitted fields keep their value.
func (h UpdateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ParseID(r.PathValue("id"))
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	var req struct {
		Title *string `json:"title"`
		Body  *string `json:"body"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	e, err := h.Svc.Update(r.Context(), entryUC.UpdateInput{
		ID:    id,
		Title: req.Title,
		Body:  req.Body,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, toEntryDTO(e))
}

type DeleteHandler struct{ Svc EntryWriter }

func (h DeleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ParseID(r.PathValue("id"))
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	if err := h.Svc.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	respond.NoContent(w)
}
