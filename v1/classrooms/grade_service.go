package classrooms

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/classtrack/classrooms/v1/repository"
)

// GradeService implements the use cases for grade records on top of the
// generic repository. Uniqueness of grade names is checked before every
// write so callers get a ConflictError instead of a raw constraint
// violation.
//
// Each method binds a fresh repository (and therefore a fresh session) from
// the factory, so concurrent callers never share transaction state.
type GradeService struct {
	repos GradeRepositoryFactory
	log   *zap.Logger
}

// NewGradeService creates the service.
func NewGradeService(repos GradeRepositoryFactory, log *zap.Logger) *GradeService {
	return &GradeService{
		repos: repos,
		log:   log.Named("grades"),
	}
}

// Create stores a new grade. The name must be non-empty and not already
// taken.
func (s *GradeService) Create(ctx context.Context, name string) (*Grade, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &repository.ValidationError{Message: "grade_name must not be empty"}
	}

	// The uniqueness check and the insert share one transaction so a
	// concurrent create cannot slip between them.
	repo := s.repos()
	opts := repository.TxOptions{Name: "GradeService.Create", Component: "service", Root: true}
	created, err := repository.WithTransaction(ctx, repo.Session(), opts, func(ctx context.Context) (*Grade, error) {
		exists, err := repo.ExistsBy(ctx, repository.Filters{"grade_name": name})
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, &repository.ConflictError{
				Message: fmt.Sprintf("Grade '%s' already exists", name),
			}
		}
		return repo.Save(ctx, &Grade{GradeName: name})
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("grade created",
		zap.Uint64("id", created.ID),
		zap.String("grade_name", created.GradeName))
	return created, nil
}

// GetByID returns the grade or a NotFoundError.
func (s *GradeService) GetByID(ctx context.Context, id uint64) (*Grade, error) {
	grade, err := s.repos().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if grade == nil {
		return nil, &repository.NotFoundError{
			Resource: "Grade",
			Message:  fmt.Sprintf("Grade with id %d not found", id),
		}
	}
	return grade, nil
}

// List returns every grade ordered by id.
func (s *GradeService) List(ctx context.Context) ([]Grade, error) {
	return s.repos().FindAllOrderedBy(ctx, "id", true, nil)
}

// Page returns one page of grades with pagination metadata.
func (s *GradeService) Page(ctx context.Context, page, size int) (*repository.Page[Grade], error) {
	return s.repos().GetPageable(ctx, page, size)
}

// Search returns a filtered page of grades.
func (s *GradeService) Search(ctx context.Context, q SearchQuery) (*repository.Page[Grade], error) {
	return s.repos().GetPageableBy(ctx, q.Page, q.Size, q.filters("grade_name"))
}

// Update renames a grade. The new name must not collide with a different
// grade.
func (s *GradeService) Update(ctx context.Context, id uint64, name string) (*Grade, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &repository.ValidationError{Message: "grade_name must not be empty"}
	}

	repo := s.repos()
	opts := repository.TxOptions{Name: "GradeService.Update", Component: "service", Root: true}
	updated, err := repository.WithTransaction(ctx, repo.Session(), opts, func(ctx context.Context) (*Grade, error) {
		existing, err := repo.FindOneBy(ctx, repository.Filters{"grade_name": name})
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, &repository.ConflictError{
				Message: fmt.Sprintf("Grade '%s' already exists", name),
			}
		}
		return repo.UpdateByID(ctx, id, map[string]any{"grade_name": name})
	})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, &repository.NotFoundError{
			Resource: "Grade",
			Message:  fmt.Sprintf("Grade with id %d not found", id),
		}
	}
	s.log.Info("grade updated", zap.Uint64("id", id))
	return updated, nil
}

// Delete removes a grade or returns a NotFoundError.
func (s *GradeService) Delete(ctx context.Context, id uint64) error {
	deleted, err := s.repos().Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return &repository.NotFoundError{
			Resource: "Grade",
			Message:  fmt.Sprintf("Grade with id %d not found", id),
		}
	}
	s.log.Info("grade deleted", zap.Uint64("id", id))
	return nil
}
