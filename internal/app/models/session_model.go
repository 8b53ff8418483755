package models

import (
	"github.com/google/uuid"
)

// ConsoleSession is the signed-in operator behind a bearer token. The token
// itself is never cached.
type ConsoleSession struct {
	ActorID  uuid.UUID `json:"actor_id"`
	Username string    `json:"username"`
	FullName string    `json:"full_name,omitempty"`
	Role     string    `json:"role"`
	Token    string    `json:"-"`
}

func (s *ConsoleSession) IsAdmin() bool {
	return s.Role == UserRoleAdmin
}

func NewConsoleSession(user *User, token string) *ConsoleSession {
	return &ConsoleSession{
		ActorID:  user.ID,
		Username: user.Username,
		FullName: user.FullName,
		Role:     user.GlobalRole,
		Token:    token,
	}
}
