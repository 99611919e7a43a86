package service

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"myflix-api/internal/domain"
	"myflix-api/internal/repository"
)

// PosterSigner turns a private object location (s3://bucket/key) into a
// time-limited public URL.
type PosterSigner interface {
	PresignURL(ctx context.Context, location string) (string, error)
}

// CatalogService answers read-only catalog queries.
type CatalogService interface {
	List(ctx context.Context) ([]domain.Movie, error)
	GetByTitle(ctx context.Context, title string) (*domain.Movie, error)
	ListByGenre(ctx context.Context, genre string) ([]domain.Movie, error)
	ListByDirector(ctx context.Context, director string) ([]domain.Movie, error)
	GetGenre(ctx context.Context, name string) (*domain.Genre, error)
	GetDirector(ctx context.Context, name string) (*domain.Director, error)
}

type catalogService struct {
	movies  repository.MovieRepository
	posters PosterSigner
	logger  *logrus.Logger
}

// NewCatalogService builds the lookup service. posters may be nil, in which
// case image locations are returned as stored.
func NewCatalogService(movies repository.MovieRepository, posters PosterSigner, logger *logrus.Logger) CatalogService {
	if logger == nil {
		logger = logrus.New()
	}
	return &catalogService{
		movies:  movies,
		posters: posters,
		logger:  logger,
	}
}

func (s *catalogService) List(ctx context.Context) ([]domain.Movie, error) {
	movies, err := s.movies.List(ctx)
	if err != nil {
		return nil, storeErr("list movies", err)
	}
	if len(movies) == 0 {
		return nil, ErrEmptyCatalog
	}
	s.resolvePosters(ctx, movies)
	return movies, nil
}

func (s *catalogService) GetByTitle(ctx context.Context, title string) (*domain.Movie, error) {
	movie, err := s.movies.GetByTitle(ctx, strings.TrimSpace(title))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMovieNotFound
		}
		return nil, storeErr("get movie", err)
	}
	s.resolvePoster(ctx, movie)
	return movie, nil
}

func (s *catalogService) ListByGenre(ctx context.Context, genre string) ([]domain.Movie, error) {
	return s.listBy(ctx, "list movies by genre", genre, s.movies.ListByGenre)
}

func (s *catalogService) ListByDirector(ctx context.Context, director string) ([]domain.Movie, error) {
	return s.listBy(ctx, "list movies by director", director, s.movies.ListByDirector)
}

func (s *catalogService) GetGenre(ctx context.Context, name string) (*domain.Genre, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrGenreNotFound
	}
	movies, err := s.movies.ListByGenre(ctx, name)
	if err != nil {
		return nil, storeErr("get genre", err)
	}
	for i := range movies {
		if strings.EqualFold(movies[i].Genre.Name, name) {
			genre := movies[i].Genre
			return &genre, nil
		}
	}
	return nil, ErrGenreNotFound
}

func (s *catalogService) GetDirector(ctx context.Context, name string) (*domain.Director, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrDirectorNotFound
	}
	movies, err := s.movies.ListByDirector(ctx, name)
	if err != nil {
		return nil, storeErr("get director", err)
	}
	for i := range movies {
		if strings.EqualFold(movies[i].Director.Name, name) {
			director := movies[i].Director
			return &director, nil
		}
	}
	return nil, ErrDirectorNotFound
}

func (s *catalogService) listBy(ctx context.Context, op, term string, query func(context.Context, string) ([]domain.Movie, error)) ([]domain.Movie, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, ErrMovieNotFound
	}
	movies, err := query(ctx, term)
	if err != nil {
		return nil, storeErr(op, err)
	}
	if len(movies) == 0 {
		return nil, ErrMovieNotFound
	}
	s.resolvePosters(ctx, movies)
	return movies, nil
}

func (s *catalogService) resolvePosters(ctx context.Context, movies []domain.Movie) {
	for i := range movies {
		s.resolvePoster(ctx, &movies[i])
	}
}

func (s *catalogService) resolvePoster(ctx context.Context, movie *domain.Movie) {
	if s.posters == nil || !strings.HasPrefix(movie.ImageURL, "s3://") {
		return
	}
	url, err := s.posters.PresignURL(ctx, movie.ImageURL)
	if err != nil {
		s.logger.WithError(err).WithField("movie", movie.Title).Warn("presign poster")
		return
	}
	movie.ImageURL = url
}
