package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"myflix-api/internal/domain"
	"myflix-api/internal/metrics"
	"myflix-api/internal/repository"
	"myflix-api/internal/validation"
)

const (
	birthdayLayout = "2006-01-02"
	// bcrypt only hashes the first 72 bytes and rejects longer input.
	maxPasswordBytes = 72
)

// Actor is the authenticated caller: the account id and username from its token.
type Actor struct {
	ID       string
	Username string
}

// RegisterInput is the payload of a registration.
type RegisterInput struct {
	Username string `json:"username" form:"username" validate:"required,min=5,alphanum"`
	Password string `json:"password" form:"password" validate:"required,max=72"`
	Email    string `json:"email" form:"email" validate:"required,email"`
	Birthday string `json:"birthday" form:"birthday" validate:"omitempty,datetime=2006-01-02"`
}

// UpdateInput is a partial update of a user. Nil fields are left untouched.
type UpdateInput struct {
	Username *string `json:"username" validate:"omitnil,required,min=5,alphanum"`
	Password *string `json:"password" validate:"omitnil,required,max=72"`
	Email    *string `json:"email" validate:"omitnil,required,email"`
	Birthday *string `json:"birthday" validate:"omitnil,datetime=2006-01-02"`
}

// UserService is the authorization and favorites manager. Every operation on a
// user record takes the authenticated actor and refuses to touch any record but
// the actor's own. The username check runs before any lookup; the stored account
// id is then confirmed against the actor's id before anything is read or changed.
type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Get(ctx context.Context, actor Actor, target string) (*domain.User, error)
	Update(ctx context.Context, actor Actor, target string, in UpdateInput) (*domain.User, error)
	Delete(ctx context.Context, actor Actor, target string) error
	AddFavorite(ctx context.Context, actor Actor, target, movieID string) (*domain.User, error)
	RemoveFavorite(ctx context.Context, actor Actor, target, movieID string) (*domain.User, error)
}

type userService struct {
	users      repository.UserRepository
	movies     repository.MovieRepository
	bcryptCost int
}

// NewUserService builds the manager. A bcryptCost of 0 selects bcrypt.DefaultCost.
func NewUserService(users repository.UserRepository, movies repository.MovieRepository, bcryptCost int) UserService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &userService{
		users:      users,
		movies:     movies,
		bcryptCost: bcryptCost,
	}
}

func (s *userService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	in.Birthday = strings.TrimSpace(in.Birthday)

	if err := validatePassword(validation.Struct(&in), &in.Password); err != nil {
		metrics.RecordRegistration("invalid")
		return nil, err
	}

	_, err := s.users.GetByUsername(ctx, in.Username)
	switch {
	case err == nil:
		metrics.RecordRegistration("conflict")
		return nil, ErrUserAlreadyExists
	case !errors.Is(err, repository.ErrNotFound):
		return nil, storeErr("lookup user", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, storeErr("hash password", err)
	}

	user := &domain.User{
		Username:     in.Username,
		PasswordHash: string(hash),
		Email:        in.Email,
	}
	if in.Birthday != "" {
		b, _ := time.Parse(birthdayLayout, in.Birthday)
		user.Birthday = &b
	}

	if _, err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			metrics.RecordRegistration("conflict")
			return nil, ErrUserAlreadyExists
		}
		return nil, storeErr("create user", err)
	}

	metrics.RecordRegistration("ok")
	return sanitizeUser(user), nil
}

func (s *userService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, storeErr("lookup user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return sanitizeUser(user), nil
}

func (s *userService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, storeErr("list users", err)
	}
	out := make([]domain.User, len(users))
	for i := range users {
		out[i] = *sanitizeUser(&users[i])
	}
	return out, nil
}

func (s *userService) Get(ctx context.Context, actor Actor, target string) (*domain.User, error) {
	if err := authorize(actor, target); err != nil {
		return nil, err
	}
	user, err := s.ownAccount(ctx, actor, "get user")
	if err != nil {
		return nil, err
	}
	return sanitizeUser(user), nil
}

func (s *userService) Update(ctx context.Context, actor Actor, target string, in UpdateInput) (*domain.User, error) {
	if err := authorize(actor, target); err != nil {
		return nil, err
	}

	if in.Username != nil {
		trimmed := strings.TrimSpace(*in.Username)
		in.Username = &trimmed
	}
	if in.Email != nil {
		trimmed := strings.TrimSpace(*in.Email)
		in.Email = &trimmed
	}
	if err := validatePassword(validation.Struct(&in), in.Password); err != nil {
		return nil, err
	}

	update := domain.UserUpdate{
		Username: in.Username,
		Email:    in.Email,
	}
	if in.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), s.bcryptCost)
		if err != nil {
			return nil, storeErr("hash password", err)
		}
		h := string(hash)
		update.PasswordHash = &h
	}
	if in.Birthday != nil {
		b, _ := time.Parse(birthdayLayout, *in.Birthday)
		update.Birthday = &b
	}

	if update.Empty() {
		return s.Get(ctx, actor, target)
	}
	if _, err := s.ownAccount(ctx, actor, "update user"); err != nil {
		return nil, err
	}

	user, err := s.users.Update(ctx, target, update)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserAlreadyExists
		}
		return nil, userErr("update user", err)
	}
	return sanitizeUser(user), nil
}

func (s *userService) Delete(ctx context.Context, actor Actor, target string) error {
	if err := authorize(actor, target); err != nil {
		return err
	}
	if _, err := s.ownAccount(ctx, actor, "delete user"); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, target); err != nil {
		return userErr("delete user", err)
	}
	return nil
}

func (s *userService) AddFavorite(ctx context.Context, actor Actor, target, movieID string) (*domain.User, error) {
	user, err := s.addFavorite(ctx, actor, target, movieID)
	metrics.RecordFavoriteMutation("add", outcome(err))
	return user, err
}

func (s *userService) addFavorite(ctx context.Context, actor Actor, target, movieID string) (*domain.User, error) {
	movieID, err := s.checkFavoriteTarget(ctx, actor, target, movieID)
	if err != nil {
		return nil, err
	}

	user, err := s.users.AddFavorite(ctx, target, movieID)
	if err != nil {
		return nil, userErr("add favorite", err)
	}
	return sanitizeUser(user), nil
}

func (s *userService) RemoveFavorite(ctx context.Context, actor Actor, target, movieID string) (*domain.User, error) {
	user, err := s.removeFavorite(ctx, actor, target, movieID)
	metrics.RecordFavoriteMutation("remove", outcome(err))
	return user, err
}

func (s *userService) removeFavorite(ctx context.Context, actor Actor, target, movieID string) (*domain.User, error) {
	movieID, err := s.checkFavoriteTarget(ctx, actor, target, movieID)
	if err != nil {
		return nil, err
	}

	user, err := s.users.RemoveFavorite(ctx, target, movieID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFavorited) {
			return nil, ErrNotFavorited
		}
		return nil, userErr("remove favorite", err)
	}
	return sanitizeUser(user), nil
}

// checkFavoriteTarget runs the checks shared by add and remove: ownership,
// id format (before any store access), movie existence and the account id.
// It returns the movie id in its canonical lower-case form.
func (s *userService) checkFavoriteTarget(ctx context.Context, actor Actor, target, movieID string) (string, error) {
	if err := authorize(actor, target); err != nil {
		return "", err
	}
	if !domain.ValidMovieID(movieID) {
		return "", ErrInvalidID
	}
	movieID = strings.ToLower(movieID)
	if _, err := s.movies.GetByID(ctx, movieID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrMovieNotFound
		}
		return "", storeErr("get movie", err)
	}
	if _, err := s.ownAccount(ctx, actor, "get user"); err != nil {
		return "", err
	}
	return movieID, nil
}

// ownAccount loads the actor's record and checks it is the account the token
// was issued to, not a later registration of the same username.
func (s *userService) ownAccount(ctx context.Context, actor Actor, op string) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, actor.Username)
	if err != nil {
		return nil, userErr(op, err)
	}
	if user.ID != actor.ID {
		return nil, ErrPermissionDenied
	}
	return user, nil
}

func authorize(actor Actor, target string) error {
	if actor.ID == "" || actor.Username == "" || actor.Username != target {
		return ErrPermissionDenied
	}
	return nil
}

// validatePassword adds a byte-length error for passwords bcrypt cannot hash.
// The max tag counts runes, so multi-byte input can pass it and still be too long.
func validatePassword(err error, password *string) error {
	if password == nil || len(*password) <= maxPasswordBytes {
		return err
	}
	verr := &validation.RequestValidationError{}
	if err != nil && !errors.As(err, &verr) {
		return err
	}
	for _, f := range verr.Fields {
		if f.Field == "password" {
			return verr
		}
	}
	verr.Add("password", "max", fmt.Sprintf("password must be at most %d bytes", maxPasswordBytes))
	return verr
}

func userErr(op string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUserNotFound
	}
	return storeErr(op, err)
}

func outcome(err error) string {
	var se *StoreError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrPermissionDenied):
		return "forbidden"
	case errors.Is(err, ErrInvalidID):
		return "invalid_id"
	case errors.Is(err, ErrNotFavorited):
		return "not_favorited"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.As(err, &se):
		return "store_error"
	default:
		return "error"
	}
}

func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	favorites := make([]string, len(user.FavoriteMovies))
	copy(favorites, user.FavoriteMovies)
	return &domain.User{
		ID:             user.ID,
		Username:       user.Username,
		Email:          user.Email,
		Birthday:       user.Birthday,
		FavoriteMovies: favorites,
		CreatedAt:      user.CreatedAt,
		UpdatedAt:      user.UpdatedAt,
	}
}
