package models

import "time"

// Roles a user can hold.
const (
	RoleFaculty = "faculty"
	RoleAdmin   = "admin"
)

// User represents a staff account that can sign in and manage students.
type User struct {
	ID        string    `json:"_id" gorm:"primaryKey;type:varchar(36)"`
	Name      string    `json:"name" gorm:"type:varchar(255);not null"`
	Email     string    `json:"email" gorm:"uniqueIndex;type:varchar(255);not null"`
	Password  string    `json:"-" gorm:"type:varchar(255);not null"` // bcrypt hash, never serialized
	Role      string    `json:"role" gorm:"type:varchar(16);not null"`
	Avatar    string    `json:"avatar" gorm:"type:varchar(512)"`
	CreatedAt time.Time `json:"createdAt"`
}

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	return role == RoleFaculty || role == RoleAdmin
}

// SanitizedUser is the projection of a User that is safe to send to clients.
type SanitizedUser struct {
	ID     string `json:"_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Avatar string `json:"avatar"`
}

// Sanitize drops the password hash.
func (u *User) Sanitize() SanitizedUser {
	return SanitizedUser{
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Role:   u.Role,
		Avatar: u.Avatar,
	}
}
