package repository

import (
	"context"

	"myflix-api/internal/domain"
)

// MovieRepository exposes catalog queries. Name and title matching is case-insensitive.
type MovieRepository interface {
	Init(ctx context.Context) error
	List(ctx context.Context) ([]domain.Movie, error)
	GetByID(ctx context.Context, id string) (*domain.Movie, error)
	GetByTitle(ctx context.Context, title string) (*domain.Movie, error)
	ListByGenre(ctx context.Context, genre string) ([]domain.Movie, error)
	ListByDirector(ctx context.Context, director string) ([]domain.Movie, error)
	// Upsert inserts the movie or replaces the one with the same title.
	// It reports whether a new record was created.
	Upsert(ctx context.Context, movie *domain.Movie) (bool, error)
}
