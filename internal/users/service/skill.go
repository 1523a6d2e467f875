package service

import (
	"context"
	"log/slog"

	"github.com/kamilaalv/movie465/internal/users/domain"
	"github.com/kamilaalv/movie465/internal/users/repository"
	"github.com/kamilaalv/movie465/pkg/pagination"
)

// SkillService implements skill management.
type SkillService struct {
	skills repository.SkillRepository
	logger *slog.Logger
}

// NewSkillService creates the skill service.
func NewSkillService(skills repository.SkillRepository, logger *slog.Logger) *SkillService {
	return &SkillService{skills: skills, logger: logger}
}

// Create adds a new skill.
func (s *SkillService) Create(ctx context.Context, name string) (*domain.Skill, error) {
	skill := &domain.Skill{Name: name}
	if err := s.skills.Create(ctx, skill); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "skill created",
		slog.Int64("skill_id", skill.ID),
		slog.String("name", skill.Name),
	)

	return skill, nil
}

// GetByID retrieves a single skill.
func (s *SkillService) GetByID(ctx context.Context, id int64) (*domain.Skill, error) {
	return s.skills.GetByID(ctx, id)
}

// List retrieves skills with pagination.
func (s *SkillService) List(ctx context.Context, params pagination.Params) (pagination.Result[domain.Skill], error) {
	skills, total, err := s.skills.List(ctx, params)
	if err != nil {
		return pagination.Result[domain.Skill]{}, err
	}
	return pagination.NewResult(skills, total, params), nil
}

// Update renames a skill.
func (s *SkillService) Update(ctx context.Context, id int64, name string) (*domain.Skill, error) {
	skill := &domain.Skill{ID: id, Name: name}
	if err := s.skills.Update(ctx, skill); err != nil {
		return nil, err
	}
	return s.skills.GetByID(ctx, id)
}

// Delete removes a skill and its user associations.
func (s *SkillService) Delete(ctx context.Context, id int64) error {
	return s.skills.Delete(ctx, id)
}
