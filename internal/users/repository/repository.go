package repository

import (
	"context"
	"time"

	"github.com/kamilaalv/movie465/internal/users/domain"
	"github.com/kamilaalv/movie465/pkg/pagination"
)

// UserFilter narrows user listings. Zero values mean "no filter".
type UserFilter struct {
	Name     string
	UserName string
	RoleID   int64
	SkillID  int64
	IsActive *bool
}

// UserRepository defines the data access contract for users, including the
// refresh token binding operations used by the auth flows.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUserName(ctx context.Context, userName string) (*domain.User, error)
	// GetByRefreshTokenHash looks up the user holding the given refresh token
	// digest with a strictly future expiry. Expired or unknown tokens return
	// ErrNotFound.
	GetByRefreshTokenHash(ctx context.Context, hash string) (*domain.User, error)
	List(ctx context.Context, filter UserFilter, params pagination.Params) ([]domain.User, int, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id int64) error

	// BindRefreshToken unconditionally stores a new refresh token digest and
	// expiry on the user row, replacing any previous binding.
	BindRefreshToken(ctx context.Context, userID int64, hash string, expiresAt time.Time) error
	// RotateRefreshToken replaces the stored digest only if it still equals
	// previousHash. A concurrent rotation that got there first makes the
	// compare fail, reported as ErrConflict.
	RotateRefreshToken(ctx context.Context, userID int64, previousHash, newHash string, expiresAt time.Time) error

	SetSkills(ctx context.Context, userID int64, skillIDs []int64) error
}

// RoleRepository defines the data access contract for roles.
type RoleRepository interface {
	Create(ctx context.Context, role *domain.Role) error
	GetByID(ctx context.Context, id int64) (*domain.Role, error)
	GetByName(ctx context.Context, name string) (*domain.Role, error)
	List(ctx context.Context, params pagination.Params) ([]domain.Role, int, error)
	Update(ctx context.Context, role *domain.Role) error
	Delete(ctx context.Context, id int64) error
}

// SkillRepository defines the data access contract for skills.
type SkillRepository interface {
	Create(ctx context.Context, skill *domain.Skill) error
	GetByID(ctx context.Context, id int64) (*domain.Skill, error)
	List(ctx context.Context, params pagination.Params) ([]domain.Skill, int, error)
	Update(ctx context.Context, skill *domain.Skill) error
	Delete(ctx context.Context, id int64) error
}
