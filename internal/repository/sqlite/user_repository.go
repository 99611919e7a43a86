package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"myflix-api/internal/domain"
	"myflix-api/internal/repository"
)

const (
	createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	username TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	email TEXT NOT NULL,
	birthday DATETIME NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
`
	createFavoritesTable = `
CREATE TABLE IF NOT EXISTS user_favorites (
	user_id TEXT NOT NULL,
	movie_id TEXT NOT NULL,
	added_at DATETIME NOT NULL,
	PRIMARY KEY (user_id, movie_id),
	FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
);
`
	selectUserColumns = `SELECT id, username, password_hash, email, birthday, created_at, updated_at FROM users`
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createUsersTable); err != nil {
		return fmt.Errorf("create users table: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, createFavoritesTable); err != nil {
		return fmt.Errorf("create favorites table: %w", err)
	}
	return nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (string, error) {
	now := time.Now().UTC()
	user.ID = domain.NewID()
	user.CreatedAt = now
	user.UpdatedAt = now
	user.FavoriteMovies = []string{}

	_, err := r.db.ExecContext(ctx, `
INSERT INTO users (id, username, password_hash, email, birthday, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Username,
		user.PasswordHash,
		user.Email,
		nullTime(user.Birthday),
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return "", fmt.Errorf("insert user %s: %w", user.Username, repository.ErrDuplicate)
		}
		return "", fmt.Errorf("insert user: %w", err)
	}
	return user.ID, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, selectUserColumns+` WHERE username = ?`, username)
	user, err := scanUser(row)
	if err != nil {
		return nil, err
	}
	favorites, err := r.favorites(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	user.FavoriteMovies = favorites
	return user, nil
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, selectUserColumns+` ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	favorites, err := r.allFavorites(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].FavoriteMovies = favorites[users[i].ID]
		if users[i].FavoriteMovies == nil {
			users[i].FavoriteMovies = []string{}
		}
	}
	return users, nil
}

func (r *UserRepository) Update(ctx context.Context, username string, update domain.UserUpdate) (*domain.User, error) {
	var (
		sets []string
		args []any
	)
	if update.Username != nil {
		sets = append(sets, "username = ?")
		args = append(args, *update.Username)
	}
	if update.PasswordHash != nil {
		sets = append(sets, "password_hash = ?")
		args = append(args, *update.PasswordHash)
	}
	if update.Email != nil {
		sets = append(sets, "email = ?")
		args = append(args, *update.Email)
	}
	if update.Birthday != nil {
		sets = append(sets, "birthday = ?")
		args = append(args, update.Birthday.UTC())
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().UTC(), username)

	res, err := r.db.ExecContext(ctx, `UPDATE users SET `+strings.Join(sets, ", ")+` WHERE username = ?`, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("update user %s: %w", username, repository.ErrDuplicate)
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update user rows affected: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("update user %s: %w", username, repository.ErrNotFound)
	}

	if update.Username != nil {
		username = *update.Username
	}
	return r.GetByUsername(ctx, username)
}

func (r *UserRepository) Delete(ctx context.Context, username string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE username = ?`, username)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete user rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("delete user %s: %w", username, repository.ErrNotFound)
	}
	return nil
}

func (r *UserRepository) AddFavorite(ctx context.Context, username, movieID string) (*domain.User, error) {
	_, err := r.db.ExecContext(ctx, `
INSERT OR IGNORE INTO user_favorites (user_id, movie_id, added_at)
SELECT id, ?, ? FROM users WHERE username = ?`,
		movieID,
		time.Now().UTC(),
		username,
	)
	if err != nil {
		return nil, fmt.Errorf("add favorite: %w", err)
	}
	return r.GetByUsername(ctx, username)
}

func (r *UserRepository) RemoveFavorite(ctx context.Context, username, movieID string) (*domain.User, error) {
	res, err := r.db.ExecContext(ctx, `
DELETE FROM user_favorites
WHERE movie_id = ? AND user_id = (SELECT id FROM users WHERE username = ?)`,
		movieID,
		username,
	)
	if err != nil {
		return nil, fmt.Errorf("remove favorite: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("remove favorite rows affected: %w", err)
	}

	user, err := r.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, fmt.Errorf("remove favorite %s: %w", movieID, repository.ErrNotFavorited)
	}
	return user, nil
}

func (r *UserRepository) favorites(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT movie_id FROM user_favorites WHERE user_id = ? ORDER BY rowid`, userID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	defer rows.Close()

	favorites := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan favorite: %w", err)
		}
		favorites = append(favorites, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate favorites: %w", err)
	}
	return favorites, nil
}

func (r *UserRepository) allFavorites(ctx context.Context) (map[string][]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT user_id, movie_id FROM user_favorites ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	defer rows.Close()

	favorites := make(map[string][]string)
	for rows.Next() {
		var userID, movieID string
		if err := rows.Scan(&userID, &movieID); err != nil {
			return nil, fmt.Errorf("scan favorite: %w", err)
		}
		favorites[userID] = append(favorites[userID], movieID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate favorites: %w", err)
	}
	return favorites, nil
}

func scanUser(row interface {
	Scan(dest ...any) error
}) (*domain.User, error) {
	var (
		user     domain.User
		birthday sql.NullTime
	)
	if err := row.Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.Email,
		&birthday,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	if birthday.Valid {
		b := birthday.Time.UTC()
		user.Birthday = &b
	}
	return &user, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}
