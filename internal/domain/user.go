package domain

import "time"

// User represents a registered account of the catalog.
type User struct {
	ID             string
	Username       string
	PasswordHash   string
	Email          string
	Birthday       *time.Time
	FavoriteMovies []string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// UserUpdate carries a partial update of a user record. Nil fields are left untouched.
type UserUpdate struct {
	Username     *string
	PasswordHash *string
	Email        *string
	Birthday     *time.Time
}

// Empty reports whether the update changes nothing.
func (u UserUpdate) Empty() bool {
	return u.Username == nil && u.PasswordHash == nil && u.Email == nil && u.Birthday == nil
}
