package domain

import "time"

type UserRole string

const (
	RolePlayer     UserRole = "player"
	RoleFieldOwner UserRole = "field_owner"
	RoleAdmin      UserRole = "admin"
)

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email" validate:"required,email"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"role"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Actor is the authenticated identity a request acts as. Handlers build it
// from the JWT claims; services never look at tokens.
type Actor struct {
	ID   int64
	Role UserRole
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
