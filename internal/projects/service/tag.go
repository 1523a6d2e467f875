package service

import (
	"context"
	"log/slog"

	"github.com/kamilaalv/movie465/internal/projects/domain"
	"github.com/kamilaalv/movie465/internal/projects/repository"
	"github.com/kamilaalv/movie465/pkg/pagination"
)

// TagService implements tag management.
type TagService struct {
	tags   repository.TagRepository
	logger *slog.Logger
}

// NewTagService creates the tag service.
func NewTagService(tags repository.TagRepository, logger *slog.Logger) *TagService {
	return &TagService{tags: tags, logger: logger}
}

// Create adds a new tag.
func (s *TagService) Create(ctx context.Context, name string) (*domain.Tag, error) {
	tag := &domain.Tag{Name: name}
	if err := s.tags.Create(ctx, tag); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "tag created",
		slog.Int64("tag_id", tag.ID),
		slog.String("name", tag.Name),
	)

	return tag, nil
}

// GetByID retrieves a single tag.
func (s *TagService) GetByID(ctx context.Context, id int64) (*domain.Tag, error) {
	return s.tags.GetByID(ctx, id)
}

// List retrieves tags with pagination.
func (s *TagService) List(ctx context.Context, params pagination.Params) (pagination.Result[domain.Tag], error) {
	tags, total, err := s.tags.List(ctx, params)
	if err != nil {
		return pagination.Result[domain.Tag]{}, err
	}
	return pagination.NewResult(tags, total, params), nil
}

// Update renames a tag.
func (s *TagService) Update(ctx context.Context, id int64, name string) (*domain.Tag, error) {
	tag := &domain.Tag{ID: id, Name: name}
	if err := s.tags.Update(ctx, tag); err != nil {
		return nil, err
	}
	return s.tags.GetByID(ctx, id)
}

// Delete removes a tag not attached to any project.
func (s *TagService) Delete(ctx context.Context, id int64) error {
	return s.tags.Delete(ctx, id)
}
