package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRole represents the privilege level of a user
type UserRole string

const (
	AdminRole  UserRole = "admin"  // Sees and manages every task and user
	MemberRole UserRole = "member" // Sees only tasks they assigned or received
)

// UserRoleFromString converts a string to a UserRole
func UserRoleFromString(roleStr string) (UserRole, error) {
	switch roleStr {
	case "admin":
		return AdminRole, nil
	case "member":
		return MemberRole, nil
	default:
		return "", errors.New("invalid user role")
	}
}

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PhoneNo      *string   `gorm:"uniqueIndex" json:"phone_no,omitempty"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `gorm:"type:varchar(50);not null;default:'member'" json:"role"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}

// BeforeCreate is a GORM hook that assigns an ID when none was set
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (u *User) IsAdmin() bool {
	return u.Role == AdminRole
}
