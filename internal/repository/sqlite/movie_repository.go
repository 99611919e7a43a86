package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"myflix-api/internal/domain"
	"myflix-api/internal/repository"
)

const (
	createMoviesTable = `
CREATE TABLE IF NOT EXISTS movies (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL UNIQUE COLLATE NOCASE,
	description TEXT NOT NULL DEFAULT '',
	genre_name TEXT NOT NULL DEFAULT '',
	genre_description TEXT NOT NULL DEFAULT '',
	director_name TEXT NOT NULL DEFAULT '',
	director_bio TEXT NOT NULL DEFAULT '',
	director_birth TEXT NOT NULL DEFAULT '',
	director_death TEXT NOT NULL DEFAULT '',
	image_url TEXT NOT NULL DEFAULT '',
	featured INTEGER NOT NULL DEFAULT 0
);
`
	selectMovieColumns = `
SELECT id, title, description, genre_name, genre_description, director_name, director_bio,
	director_birth, director_death, image_url, featured
FROM movies`
)

type MovieRepository struct {
	db *sql.DB
}

func NewMovieRepository(db *sql.DB) repository.MovieRepository {
	return &MovieRepository{db: db}
}

func (r *MovieRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createMoviesTable); err != nil {
		return fmt.Errorf("create movies table: %w", err)
	}
	return nil
}

func (r *MovieRepository) List(ctx context.Context) ([]domain.Movie, error) {
	return r.query(ctx, selectMovieColumns+` ORDER BY title`)
}

func (r *MovieRepository) GetByID(ctx context.Context, id string) (*domain.Movie, error) {
	row := r.db.QueryRowContext(ctx, selectMovieColumns+` WHERE id = ?`, id)
	return scanMovie(row)
}

func (r *MovieRepository) GetByTitle(ctx context.Context, title string) (*domain.Movie, error) {
	row := r.db.QueryRowContext(ctx, selectMovieColumns+` WHERE title = ? COLLATE NOCASE`, title)
	return scanMovie(row)
}

func (r *MovieRepository) ListByGenre(ctx context.Context, genre string) ([]domain.Movie, error) {
	return r.query(ctx, selectMovieColumns+` WHERE instr(lower(genre_name), lower(?)) > 0 ORDER BY title`, genre)
}

func (r *MovieRepository) ListByDirector(ctx context.Context, director string) ([]domain.Movie, error) {
	return r.query(ctx, selectMovieColumns+` WHERE instr(lower(director_name), lower(?)) > 0 ORDER BY title`, director)
}

func (r *MovieRepository) Upsert(ctx context.Context, movie *domain.Movie) (bool, error) {
	existing, err := r.GetByTitle(ctx, movie.Title)
	switch {
	case err == nil:
		movie.ID = existing.ID
	case errors.Is(err, repository.ErrNotFound):
		if movie.ID == "" {
			movie.ID = domain.NewID()
		}
	default:
		return false, err
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO movies (id, title, description, genre_name, genre_description, director_name,
	director_bio, director_birth, director_death, image_url, featured)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	title = excluded.title,
	description = excluded.description,
	genre_name = excluded.genre_name,
	genre_description = excluded.genre_description,
	director_name = excluded.director_name,
	director_bio = excluded.director_bio,
	director_birth = excluded.director_birth,
	director_death = excluded.director_death,
	image_url = excluded.image_url,
	featured = excluded.featured`,
		movie.ID,
		movie.Title,
		movie.Description,
		movie.Genre.Name,
		movie.Genre.Description,
		movie.Director.Name,
		movie.Director.Bio,
		movie.Director.Birth,
		movie.Director.Death,
		movie.ImageURL,
		movie.Featured,
	)
	if err != nil {
		return false, fmt.Errorf("upsert movie %q: %w", movie.Title, err)
	}
	return existing == nil, nil
}

func (r *MovieRepository) query(ctx context.Context, query string, args ...any) ([]domain.Movie, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query movies: %w", err)
	}
	defer rows.Close()

	movies := []domain.Movie{}
	for rows.Next() {
		movie, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		movies = append(movies, *movie)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate movies: %w", err)
	}
	return movies, nil
}

func scanMovie(row interface {
	Scan(dest ...any) error
}) (*domain.Movie, error) {
	var movie domain.Movie
	if err := row.Scan(
		&movie.ID,
		&movie.Title,
		&movie.Description,
		&movie.Genre.Name,
		&movie.Genre.Description,
		&movie.Director.Name,
		&movie.Director.Bio,
		&movie.Director.Birth,
		&movie.Director.Death,
		&movie.ImageURL,
		&movie.Featured,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("movie: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan movie: %w", err)
	}
	return &movie, nil
}
