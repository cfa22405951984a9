package entry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"daybook/internal/domain/entity"
	"daybook/internal/repository"
)

// CreateInput represents the input parameters for creating a new entry.
// A zero CreatedAt means now; a non-zero one back-dates the entry.
type CreateInput struct {
	Title     string
	Body      string
	CreatedAt time.Time
}

// UpdateInput represents the input parameters for updating an existing entry.
// Fields with nil values will not be updated.
type UpdateInput struct {
	ID    int64
	Title *string
	Body  *string
}

// Service provides entry management use cases.
type Service struct {
	Repo     repository.EntryRepository
	Index    repository.SearchWriter
	Reporter IndexFailureReporter

	// Now defaults to time.Now.
	Now func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) reporter() IndexFailureReporter {
	if s.Reporter != nil {
		return s.Reporter
	}
	return LogReporter{}
}

// Get retrieves a single entry by its ID.
// Returns ErrInvalidEntryID if the ID is not positive.
// Returns ErrEntryNotFound if the entry does not exist.
func (s *Service) Get(ctx context.Context, id int64) (*entity.Entry, error) {
	if id <= 0 {
		return nil, ErrInvalidEntryID
	}
	e, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get entry: %w", err)
	}
	if e == nil {
		return nil, ErrEntryNotFound
	}
	return e, nil
}

// Create validates in, stores a new entry and indexes it.
// Returns a ValidationError if any input field is invalid.
func (s *Service) Create(ctx context.Context, in CreateInput) (*entity.Entry, error) {
	if err := entity.ValidateTitle(in.Title); err != nil {
		return nil, err
	}
	if err := entity.ValidateBody(in.Body); err != nil {
		return nil, err
	}
	if err := entity.ValidateCreatedAt(in.CreatedAt); err != nil {
		return nil, err
	}

	now := s.now()
	e := &entity.Entry{
		Title:     in.Title,
		Body:      in.Body,
		CreatedAt: in.CreatedAt,
		UpdatedAt: now,
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}

	if err := s.Repo.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("create entry: %w", err)
	}
	if err := s.Index.Index(ctx, e); err != nil {
		s.reporter().ReportIndexFailure(ctx, "index", e.ID, err)
	}
	return e, nil
}

// Update modifies an existing entry with the provided input and refreshes UpdatedAt.
// Returns ErrInvalidEntryID if the ID is not positive.
// Returns ErrEntryNotFound if the entry does not exist.
// Returns a ValidationError if any updated field is invalid.
func (s *Service) Update(ctx context.Context, in UpdateInput) (*entity.Entry, error) {
	if in.ID <= 0 {
		return nil, ErrInvalidEntryID
	}
	if in.Title != nil {
		if err := entity.ValidateTitle(*in.Title); err != nil {
			return nil, err
		}
	}
	if in.Body != nil {
		if err := entity.ValidateBody(*in.Body); err != nil {
			return nil, err
		}
	}

	e, err := s.Get(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		e.Title = *in.Title
	}
	if in.Body != nil {
		e.Body = *in.Body
	}
	e.UpdatedAt = s.now()

	if err := s.Repo.Update(ctx, e); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("update entry: %w", err)
	}
	if err := s.Index.Index(ctx, e); err != nil {
		s.reporter().ReportIndexFailure(ctx, "index", e.ID, err)
	}
	return e, nil
}

// Delete removes an entry from the record store and then from the index.
// Returns ErrInvalidEntryID if the ID is not positive.
// Returns ErrEntryNotFound if the entry does not exist.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrInvalidEntryID
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return ErrEntryNotFound
		}
		return fmt.Errorf("delete entry: %w", err)
	}
	if err := s.Index.Remove(ctx, id); err != nil {
		s.reporter().ReportIndexFailure(ctx, "remove", id, err)
	}
	return nil
}
