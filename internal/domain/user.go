// internal/domain/user.go
package domain

import "time"

// MaxEmailLength is the longest email address, in characters, either store accepts.
const MaxEmailLength = 255

// User is a catalog owner. Movies is populated on reads and keeps the
// order in which the movies were created.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash *string   `json:"-"`
	Movies       []Movie   `json:"movies"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewUser carries the fields required to create a user.
type NewUser struct {
	Name         string
	Email        string
	PasswordHash *string
}

// UserPatch describes a partial update; nil fields are left untouched.
type UserPatch struct {
	Name         *string
	Email        *string
	PasswordHash *string
}

// IsEmpty reports whether the patch changes nothing.
func (p UserPatch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && p.PasswordHash == nil
}
