package repository

import (
	"context"

	"github.com/kamilaalv/movie465/internal/projects/domain"
	"github.com/kamilaalv/movie465/pkg/pagination"
)

// ProjectFilter narrows project listings.
type ProjectFilter struct {
	Name  string
	TagID int64
}

// WorkFilter narrows work listings.
type WorkFilter struct {
	Name      string
	ProjectID int64
}

// ProjectRepository defines the data access contract for projects.
type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project) error
	GetByID(ctx context.Context, id int64) (*domain.Project, error)
	List(ctx context.Context, filter ProjectFilter, params pagination.Params) ([]domain.Project, int, error)
	Update(ctx context.Context, project *domain.Project) error
	Delete(ctx context.Context, id int64) error
	SetTags(ctx context.Context, projectID int64, tagIDs []int64) error
}

// TagRepository defines the data access contract for tags.
type TagRepository interface {
	Create(ctx context.Context, tag *domain.Tag) error
	GetByID(ctx context.Context, id int64) (*domain.Tag, error)
	List(ctx context.Context, params pagination.Params) ([]domain.Tag, int, error)
	Update(ctx context.Context, tag *domain.Tag) error
	Delete(ctx context.Context, id int64) error
}

// WorkRepository defines the data access contract for works.
type WorkRepository interface {
	Create(ctx context.Context, work *domain.Work) error
	GetByID(ctx context.Context, id int64) (*domain.Work, error)
	List(ctx context.Context, filter WorkFilter, params pagination.Params) ([]domain.Work, int, error)
	Update(ctx context.Context, work *domain.Work) error
	Delete(ctx context.Context, id int64) error
}
