package models

import (
	"time"
)

type UserRole string
type Role = UserRole // Alias for compatibility

const (
	RoleGuest UserRole = "guest"
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// AdminUsername is the single account granted the admin role.
const AdminUsername = "admin"

// RoleForUsername resolves the role of an authenticated account.
func RoleForUsername(username string) UserRole {
	if username == AdminUsername {
		return RoleAdmin
	}
	return RoleUser
}

type User struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	Username     string `json:"username" gorm:"uniqueIndex;not null;size:64"`
	PasswordHash string `json:"-" gorm:"not null;size:255"`

	Profile *UserProfile `json:"profile,omitempty" gorm:"foreignKey:UserID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// Role returns the role this account acts with once logged in.
func (u *User) Role() UserRole {
	return RoleForUsername(u.Username)
}

func (u *User) IsAdmin() bool {
	return u.Role() == RoleAdmin
}
