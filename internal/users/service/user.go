package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/kamilaalv/movie465/internal/users/domain"
	"github.com/kamilaalv/movie465/internal/users/event"
	"github.com/kamilaalv/movie465/internal/users/repository"
	"github.com/kamilaalv/movie465/pkg/pagination"
)

const bcryptCost = 12

// CreateUserInput carries the fields for registering a new user.
type CreateUserInput struct {
	UserName string
	Password string
	Name     string
	Surname  string
	RoleID   int64
	SkillIDs []int64
}

// UpdateUserInput carries the fields for modifying a user. Password empty
// keeps the current hash; SkillIDs nil keeps the current associations.
type UpdateUserInput struct {
	UserName string
	Password string
	Name     string
	Surname  string
	IsActive bool
	RoleID   int64
	SkillIDs *[]int64
}

// UserService implements user management.
type UserService struct {
	users  repository.UserRepository
	events *event.Producer
	logger *slog.Logger
}

// NewUserService creates the user service.
func NewUserService(users repository.UserRepository, events *event.Producer, logger *slog.Logger) *UserService {
	return &UserService{users: users, events: events, logger: logger}
}

// Create registers a new active user with a bcrypt-hashed password.
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		UserName:         input.UserName,
		PasswordHash:     string(hash),
		Name:             input.Name,
		Surname:          input.Surname,
		RegistrationDate: time.Now().UTC(),
		IsActive:         true,
		RoleID:           input.RoleID,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	if len(input.SkillIDs) > 0 {
		if err := s.users.SetSkills(ctx, user.ID, input.SkillIDs); err != nil {
			return nil, err
		}
	}

	created, err := s.users.GetByID(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "user created",
		slog.Int64("user_id", created.ID),
		slog.String("user_name", created.UserName),
	)
	s.events.UserChanged(ctx, event.TypeUserCreated, created)

	return created, nil
}

// GetByID retrieves a single user.
func (s *UserService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// List retrieves users matching the filter.
func (s *UserService) List(ctx context.Context, filter repository.UserFilter, params pagination.Params) (pagination.Result[domain.User], error) {
	users, total, err := s.users.List(ctx, filter, params)
	if err != nil {
		return pagination.Result[domain.User]{}, err
	}
	return pagination.NewResult(users, total, params), nil
}

// Update modifies a user. An empty password keeps the existing hash.
func (s *UserService) Update(ctx context.Context, id int64, input UpdateUserInput) (*domain.User, error) {
	existing, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	existing.UserName = input.UserName
	existing.Name = input.Name
	existing.Surname = input.Surname
	existing.IsActive = input.IsActive
	existing.RoleID = input.RoleID

	if input.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		existing.PasswordHash = string(hash)
	}

	if err := s.users.Update(ctx, existing); err != nil {
		return nil, err
	}

	if input.SkillIDs != nil {
		if err := s.users.SetSkills(ctx, id, *input.SkillIDs); err != nil {
			return nil, err
		}
	}

	updated, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.events.UserChanged(ctx, event.TypeUserUpdated, updated)

	return updated, nil
}

// Delete removes a user. Any bound refresh token disappears with the row, so
// the account's sessions cannot be refreshed afterwards.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	existing, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "user deleted", slog.Int64("user_id", id))
	s.events.UserChanged(ctx, event.TypeUserDeleted, existing)

	return nil
}
