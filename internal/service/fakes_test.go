package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"myflix-api/internal/domain"
	"myflix-api/internal/repository"
)

// fakeUsers is an in-memory UserRepository that counts every call.
type fakeUsers struct {
	mu    sync.Mutex
	users map[string]*domain.User
	calls int
	err   error
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: make(map[string]*domain.User)}
}

func (f *fakeUsers) touch() error {
	f.calls++
	return f.err
}

func (f *fakeUsers) Init(ctx context.Context) error { return nil }

func (f *fakeUsers) Create(ctx context.Context, user *domain.User) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.touch(); err != nil {
		return "", err
	}
	if _, ok := f.users[user.Username]; ok {
		return "", fmt.Errorf("insert: %w", repository.ErrDuplicate)
	}
	user.ID = domain.NewID()
	user.FavoriteMovies = []string{}
	stored := *user
	f.users[user.Username] = &stored
	return user.ID, nil
}

func (f *fakeUsers) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.touch(); err != nil {
		return nil, err
	}
	return f.copyOf(username)
}

func (f *fakeUsers) List(ctx context.Context) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.touch(); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(f.users))
	for name := range f.users {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]domain.User, 0, len(names))
	for _, name := range names {
		u, _ := f.copyOf(name)
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeUsers) Update(ctx context.Context, username string, update domain.UserUpdate) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.touch(); err != nil {
		return nil, err
	}
	u, ok := f.users[username]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if update.Username != nil && *update.Username != username {
		if _, taken := f.users[*update.Username]; taken {
			return nil, repository.ErrDuplicate
		}
		delete(f.users, username)
		u.Username = *update.Username
		f.users[u.Username] = u
	}
	if update.PasswordHash != nil {
		u.PasswordHash = *update.PasswordHash
	}
	if update.Email != nil {
		u.Email = *update.Email
	}
	if update.Birthday != nil {
		b := *update.Birthday
		u.Birthday = &b
	}
	return f.copyOf(u.Username)
}

func (f *fakeUsers) Delete(ctx context.Context, username string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.touch(); err != nil {
		return err
	}
	if _, ok := f.users[username]; !ok {
		return repository.ErrNotFound
	}
	delete(f.users, username)
	return nil
}

func (f *fakeUsers) AddFavorite(ctx context.Context, username, movieID string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.touch(); err != nil {
		return nil, err
	}
	u, ok := f.users[username]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if !hasFavorite(u, movieID) {
		u.FavoriteMovies = append(u.FavoriteMovies, movieID)
	}
	return f.copyOf(username)
}

func (f *fakeUsers) RemoveFavorite(ctx context.Context, username, movieID string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.touch(); err != nil {
		return nil, err
	}
	u, ok := f.users[username]
	if !ok {
		return nil, repository.ErrNotFound
	}
	for i, id := range u.FavoriteMovies {
		if id == movieID {
			u.FavoriteMovies = append(u.FavoriteMovies[:i], u.FavoriteMovies[i+1:]...)
			return f.copyOf(username)
		}
	}
	return nil, repository.ErrNotFavorited
}

func hasFavorite(u *domain.User, movieID string) bool {
	for _, id := range u.FavoriteMovies {
		if id == movieID {
			return true
		}
	}
	return false
}

func (f *fakeUsers) copyOf(username string) (*domain.User, error) {
	u, ok := f.users[username]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", username, repository.ErrNotFound)
	}
	c := *u
	c.FavoriteMovies = append([]string{}, u.FavoriteMovies...)
	return &c, nil
}

// fakeMovies is an in-memory MovieRepository that counts every call.
type fakeMovies struct {
	mu     sync.Mutex
	movies []domain.Movie
	calls  int
	err    error
}

func newFakeMovies(movies ...domain.Movie) *fakeMovies {
	return &fakeMovies{movies: movies}
}

func (f *fakeMovies) Init(ctx context.Context) error { return nil }

func (f *fakeMovies) List(ctx context.Context) ([]domain.Movie, error) {
	return f.filter(func(domain.Movie) bool { return true })
}

func (f *fakeMovies) GetByID(ctx context.Context, id string) (*domain.Movie, error) {
	return f.one(func(m domain.Movie) bool { return m.ID == id })
}

func (f *fakeMovies) GetByTitle(ctx context.Context, title string) (*domain.Movie, error) {
	return f.one(func(m domain.Movie) bool { return strings.EqualFold(m.Title, title) })
}

func (f *fakeMovies) ListByGenre(ctx context.Context, genre string) ([]domain.Movie, error) {
	return f.filter(func(m domain.Movie) bool {
		return strings.Contains(strings.ToLower(m.Genre.Name), strings.ToLower(genre))
	})
}

func (f *fakeMovies) ListByDirector(ctx context.Context, director string) ([]domain.Movie, error) {
	return f.filter(func(m domain.Movie) bool {
		return strings.Contains(strings.ToLower(m.Director.Name), strings.ToLower(director))
	})
}

func (f *fakeMovies) Upsert(ctx context.Context, movie *domain.Movie) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	for i := range f.movies {
		if strings.EqualFold(f.movies[i].Title, movie.Title) {
			movie.ID = f.movies[i].ID
			f.movies[i] = *movie
			return false, nil
		}
	}
	movie.ID = domain.NewID()
	f.movies = append(f.movies, *movie)
	return true, nil
}

func (f *fakeMovies) one(match func(domain.Movie) bool) (*domain.Movie, error) {
	movies, err := f.filter(match)
	if err != nil {
		return nil, err
	}
	if len(movies) == 0 {
		return nil, repository.ErrNotFound
	}
	return &movies[0], nil
}

func (f *fakeMovies) filter(match func(domain.Movie) bool) ([]domain.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := []domain.Movie{}
	for _, m := range f.movies {
		if match(m) {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakeSigner struct {
	err error
}

func (s fakeSigner) PresignURL(ctx context.Context, location string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "https://signed.example.com/" + strings.TrimPrefix(location, "s3://"), nil
}
