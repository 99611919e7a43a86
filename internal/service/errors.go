package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is the parent of every "missing resource" error.
	ErrNotFound         = errors.New("not found")
	ErrUserNotFound     = fmt.Errorf("user %w", ErrNotFound)
	ErrMovieNotFound    = fmt.Errorf("movie %w", ErrNotFound)
	ErrGenreNotFound    = fmt.Errorf("genre %w", ErrNotFound)
	ErrDirectorNotFound = fmt.Errorf("director %w", ErrNotFound)
	// ErrEmptyCatalog is returned when the catalog holds no movies at all.
	ErrEmptyCatalog = errors.New("no movies in catalog")

	// ErrPermissionDenied is returned when the actor does not own the target record.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrInvalidID is returned for movie ids that are not 24 hex characters.
	ErrInvalidID = errors.New("invalid movie id")
	// ErrNotFavorited is returned when removing a movie that is not in the favorites set.
	ErrNotFavorited = errors.New("movie is not in favorites")
	// ErrInvalidCredentials indicates that provided login credentials are incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserAlreadyExists is returned when attempting to register with an existing username.
	ErrUserAlreadyExists = errors.New("user already exists")
)

// StoreError wraps an unexpected persistence failure. The cause is meant for
// server logs only.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func storeErr(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}
