package models

import "time"

// Role is the authorization level attached to a user.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User represents an account. Passwords are stored as bcrypt hashes only
// and never leave the service layer.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:50;not null" json:"name"`
	Email        string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         Role      `gorm:"size:16;not null;default:'user'" json:"role"`
	ProfileImage string    `gorm:"size:255" json:"profileImage,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// PublicUser is the shape other records hydrate user references into.
type PublicUser struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email,omitempty"`
	ProfileImage string `json:"profileImage,omitempty"`
}

// Public returns the user's public fields.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		ProfileImage: u.ProfileImage,
	}
}
