package repository

import (
	"context"
	"errors"

	"myflix-api/internal/domain"
)

var (
	// ErrNotFound is returned when no record matches the lookup.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a write violates a unique key.
	ErrDuplicate = errors.New("duplicate key")
	// ErrNotFavorited is returned by RemoveFavorite when the movie is not in the user's set.
	ErrNotFavorited = errors.New("movie not in favorites")
)

// UserRepository defines persistence operations for User entities.
//
// AddFavorite and RemoveFavorite must be single atomic operations on the user record:
// callers never read-modify-write the favorites list.
type UserRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, user *domain.User) (string, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, username string, update domain.UserUpdate) (*domain.User, error)
	Delete(ctx context.Context, username string) error
	AddFavorite(ctx context.Context, username, movieID string) (*domain.User, error)
	RemoveFavorite(ctx context.Context, username, movieID string) (*domain.User, error)
}
