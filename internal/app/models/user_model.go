package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	UserRoleUser  = "USER"
	UserRoleAdmin = "ADMIN"
)

// User is a Connect identity. The same shape answers /users/me for the
// signed-in operator.
type User struct {
	ID              uuid.UUID  `json:"id"`
	Email           string     `json:"email,omitempty"`
	Username        string     `json:"username,omitempty"`
	FullName        string     `json:"full_name,omitempty"`
	AvatarURL       string     `json:"avatar_url,omitempty"`
	GlobalRole      string     `json:"global_role,omitempty"`
	Status          string     `json:"status,omitempty"`
	IsEmailVerified bool       `json:"is_email_verified,omitempty"`
	CreatedAt       *time.Time `json:"created_at,omitempty"`
}

func (u User) ItemID() string {
	return u.ID.String()
}
