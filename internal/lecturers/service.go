package lecturers

import (
	"context"
	"errors"
)

// Service owns lecturer register reads and writes.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns all lecturers, alphabetical by name.
func (s *Service) List(ctx context.Context) ([]Lecturer, error) {
	return s.repo.List(ctx)
}

// Get returns one lecturer.
func (s *Service) Get(ctx context.Context, id int64) (Lecturer, error) {
	if id <= 0 {
		return Lecturer{}, errors.New("invalid lecturer ID")
	}
	return s.repo.Get(ctx, id)
}

// Create stores a new lecturer.
func (s *Service) Create(ctx context.Context, lecturer Lecturer) (Lecturer, error) {
	if err := s.validate(lecturer); err != nil {
		return Lecturer{}, err
	}
	return s.repo.Create(ctx, lecturer)
}

// Update replaces a lecturer's details.
func (s *Service) Update(ctx context.Context, lecturer Lecturer) error {
	if lecturer.ID <= 0 {
		return errors.New("invalid lecturer ID")
	}
	if err := s.validate(lecturer); err != nil {
		return err
	}
	return s.repo.Update(ctx, lecturer)
}

// Delete removes a lecturer without claims. ErrHasClaims otherwise.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return errors.New("invalid lecturer ID")
	}
	return s.repo.Delete(ctx, id)
}
