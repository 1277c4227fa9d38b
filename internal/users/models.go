package users

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleOperator Role = "operator"
	RoleUser     Role = "user"
)

func IsValidRole(role string) bool {
	switch Role(role) {
	case RoleAdmin, RoleOperator, RoleUser:
		return true
	default:
		return false
	}
}

// Profile is a marketplace account
type Profile struct {
	ID           uuid.UUID  `json:"id" gorm:"primaryKey;type:uuid;default:uuid_generate_v4()"`
	FullName     string     `json:"full_name" gorm:"not null"`
	Email        string     `json:"email" gorm:"uniqueIndex;not null"`
	Phone        string     `json:"phone"`
	PasswordHash string     `json:"-" gorm:"not null"`
	Roles        []UserRole `json:"roles,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}

// UserRole grants one role to one profile
type UserRole struct {
	ID        uuid.UUID `json:"id" gorm:"primaryKey;type:uuid;default:uuid_generate_v4()"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_user_role"`
	Role      Role      `json:"role" gorm:"not null;uniqueIndex:idx_user_role"`
	CreatedAt time.Time `json:"created_at"`
}

func (UserRole) TableName() string {
	return "user_roles"
}

// RoleNames lists the granted roles, defaulting to user.
func (p Profile) RoleNames() []string {
	if len(p.Roles) == 0 {
		return []string{string(RoleUser)}
	}
	names := make([]string, 0, len(p.Roles))
	for _, r := range p.Roles {
		names = append(names, string(r.Role))
	}
	return names
}

type ProfileResponse struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p Profile) ToResponse() ProfileResponse {
	return ProfileResponse{
		ID:        p.ID.String(),
		FullName:  p.FullName,
		Email:     p.Email,
		Phone:     p.Phone,
		Roles:     p.RoleNames(),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
