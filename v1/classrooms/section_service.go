package classrooms

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/classtrack/classrooms/v1/repository"
)

// SectionService implements the use cases for section records. It mirrors
// GradeService over the sections table.
//
// Each method binds a fresh repository (and therefore a fresh session) from
// the factory, so concurrent callers never share transaction state.
type SectionService struct {
	repos SectionRepositoryFactory
	log   *zap.Logger
}

// NewSectionService creates the service.
func NewSectionService(repos SectionRepositoryFactory, log *zap.Logger) *SectionService {
	return &SectionService{
		repos: repos,
		log:   log.Named("sections"),
	}
}

// Create stores a new section. The name must be non-empty and not already
// taken.
func (s *SectionService) Create(ctx context.Context, name string) (*Section, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &repository.ValidationError{Message: "section_name must not be empty"}
	}

	// The uniqueness check and the insert share one transaction so a
	// concurrent create cannot slip between them.
	repo := s.repos()
	opts := repository.TxOptions{Name: "SectionService.Create", Component: "service", Root: true}
	created, err := repository.WithTransaction(ctx, repo.Session(), opts, func(ctx context.Context) (*Section, error) {
		exists, err := repo.ExistsBy(ctx, repository.Filters{"section_name": name})
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, &repository.ConflictError{
				Message: fmt.Sprintf("Section '%s' already exists", name),
			}
		}
		return repo.Save(ctx, &Section{SectionName: name})
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("section created",
		zap.Uint64("id", created.ID),
		zap.String("section_name", created.SectionName))
	return created, nil
}

// GetByID returns the section or a NotFoundError.
func (s *SectionService) GetByID(ctx context.Context, id uint64) (*Section, error) {
	section, err := s.repos().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if section == nil {
		return nil, &repository.NotFoundError{
			Resource: "Section",
			Message:  fmt.Sprintf("Section with id %d not found", id),
		}
	}
	return section, nil
}

// List returns every section ordered by id.
func (s *SectionService) List(ctx context.Context) ([]Section, error) {
	return s.repos().FindAllOrderedBy(ctx, "id", true, nil)
}

// Page returns one page of sections with pagination metadata.
func (s *SectionService) Page(ctx context.Context, page, size int) (*repository.Page[Section], error) {
	return s.repos().GetPageable(ctx, page, size)
}

// Search returns a filtered page of sections.
func (s *SectionService) Search(ctx context.Context, q SearchQuery) (*repository.Page[Section], error) {
	return s.repos().GetPageableBy(ctx, q.Page, q.Size, q.filters("section_name"))
}

// Update renames a section. The new name must not collide with a different
// section.
func (s *SectionService) Update(ctx context.Context, id uint64, name string) (*Section, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &repository.ValidationError{Message: "section_name must not be empty"}
	}

	repo := s.repos()
	opts := repository.TxOptions{Name: "SectionService.Update", Component: "service", Root: true}
	updated, err := repository.WithTransaction(ctx, repo.Session(), opts, func(ctx context.Context) (*Section, error) {
		existing, err := repo.FindOneBy(ctx, repository.Filters{"section_name": name})
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, &repository.ConflictError{
				Message: fmt.Sprintf("Section '%s' already exists", name),
			}
		}
		return repo.UpdateByID(ctx, id, map[string]any{"section_name": name})
	})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, &repository.NotFoundError{
			Resource: "Section",
			Message:  fmt.Sprintf("Section with id %d not found", id),
		}
	}
	s.log.Info("section updated", zap.Uint64("id", id))
	return updated, nil
}

// Delete removes a section or returns a NotFoundError.
func (s *SectionService) Delete(ctx context.Context, id uint64) error {
	deleted, err := s.repos().Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return &repository.NotFoundError{
			Resource: "Section",
			Message:  fmt.Sprintf("Section with id %d not found", id),
		}
	}
	s.log.Info("section deleted", zap.Uint64("id", id))
	return nil
}
