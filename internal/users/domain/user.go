package domain

import "time"

// User represents a registered account. PasswordHash holds a bcrypt hash and
// never leaves the service layer. RefreshTokenHash stores the SHA-256 hex
// digest of the single active refresh token; the plaintext token exists only
// in transit to the client.
type User struct {
	ID                    int64      `json:"id"`
	UserName              string     `json:"userName"`
	PasswordHash          string     `json:"-"`
	Name                  string     `json:"name"`
	Surname               string     `json:"surname"`
	RegistrationDate      time.Time  `json:"registrationDate"`
	IsActive              bool       `json:"isActive"`
	RoleID                int64      `json:"roleId"`
	RoleName              string     `json:"role,omitempty"`
	SkillIDs              []int64    `json:"skillIds,omitempty"`
	RefreshTokenHash      *string    `json:"-"`
	RefreshTokenExpiresAt *time.Time `json:"-"`
	CreatedAt             time.Time  `json:"createdAt"`
	UpdatedAt             time.Time  `json:"updatedAt"`
}

// FullName returns the display name used in token responses.
func (u *User) FullName() string {
	return u.Name + " " + u.Surname
}

// Role is a named authorization role assigned to users.
type Role struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Skill is a competency that can be attached to users.
type Skill struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TokenResult is the outcome of a successful login or refresh: a fresh
// access/refresh token pair plus the identity snapshot clients render.
type TokenResult struct {
	AccessToken           string    `json:"accessToken"`
	AccessTokenExpiresAt  time.Time `json:"accessTokenExpiration"`
	RefreshToken          string    `json:"refreshToken"`
	RefreshTokenExpiresAt time.Time `json:"refreshTokenExpiration"`
	UserID                int64     `json:"userId"`
	UserName              string    `json:"userName"`
	FullName              string    `json:"fullName"`
	Role                  string    `json:"role"`
}
