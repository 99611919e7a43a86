package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"myflix-api/internal/domain"
	"myflix-api/internal/repository"
)

type userDocument struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty"`
	Username       string               `bson:"username"`
	Password       string               `bson:"password"`
	Email          string               `bson:"email"`
	Birthday       *time.Time           `bson:"birthday,omitempty"`
	FavoriteMovies []primitive.ObjectID `bson:"favoriteMovies"`
	CreatedAt      time.Time            `bson:"createdAt"`
	UpdatedAt      time.Time            `bson:"updatedAt"`
}

type UserRepository struct {
	users *mongo.Collection
}

func NewUserRepository(db *mongo.Database) repository.UserRepository {
	return &UserRepository{users: db.Collection(usersCollection)}
}

func (r *UserRepository) Init(ctx context.Context) error {
	_, err := r.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("username_unique"),
	})
	if err != nil {
		return fmt.Errorf("create users index: %w", err)
	}
	return nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (string, error) {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	user.FavoriteMovies = []string{}

	doc := userDocument{
		Username:       user.Username,
		Password:       user.PasswordHash,
		Email:          user.Email,
		Birthday:       user.Birthday,
		FavoriteMovies: []primitive.ObjectID{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	res, err := r.users.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", fmt.Errorf("insert user %s: %w", user.Username, repository.ErrDuplicate)
		}
		return "", fmt.Errorf("insert user: %w", err)
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("insert user: unexpected id type %T", res.InsertedID)
	}
	user.ID = id.Hex()
	return user.ID, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var doc userDocument
	if err := r.users.FindOne(ctx, bson.M{"username": username}).Decode(&doc); err != nil {
		return nil, wrapUserErr("find user", err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	cursor, err := r.users.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	users := make([]domain.User, len(docs))
	for i := range docs {
		users[i] = *docs[i].toDomain()
	}
	return users, nil
}

func (r *UserRepository) Update(ctx context.Context, username string, update domain.UserUpdate) (*domain.User, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if update.Username != nil {
		set["username"] = *update.Username
	}
	if update.PasswordHash != nil {
		set["password"] = *update.PasswordHash
	}
	if update.Email != nil {
		set["email"] = *update.Email
	}
	if update.Birthday != nil {
		set["birthday"] = update.Birthday.UTC()
	}

	var doc userDocument
	err := r.users.FindOneAndUpdate(ctx,
		bson.M{"username": username},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("update user %s: %w", username, repository.ErrDuplicate)
		}
		return nil, wrapUserErr("update user", err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) Delete(ctx context.Context, username string) error {
	res, err := r.users.DeleteOne(ctx, bson.M{"username": username})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("delete user %s: %w", username, repository.ErrNotFound)
	}
	return nil
}

func (r *UserRepository) AddFavorite(ctx context.Context, username, movieID string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(movieID)
	if err != nil {
		return nil, fmt.Errorf("add favorite: %w", err)
	}

	var doc userDocument
	err = r.users.FindOneAndUpdate(ctx,
		bson.M{"username": username},
		bson.M{
			"$addToSet": bson.M{"favoriteMovies": oid},
			"$set":      bson.M{"updatedAt": time.Now().UTC()},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return nil, wrapUserErr("add favorite", err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) RemoveFavorite(ctx context.Context, username, movieID string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(movieID)
	if err != nil {
		return nil, fmt.Errorf("remove favorite: %w", err)
	}

	var doc userDocument
	err = r.users.FindOneAndUpdate(ctx,
		bson.M{"username": username, "favoriteMovies": oid},
		bson.M{
			"$pull": bson.M{"favoriteMovies": oid},
			"$set":  bson.M{"updatedAt": time.Now().UTC()},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err == nil {
		return doc.toDomain(), nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("remove favorite: %w", err)
	}

	// nothing matched: tell a missing user apart from a missing relation
	n, err := r.users.CountDocuments(ctx, bson.M{"username": username}, options.Count().SetLimit(1))
	if err != nil {
		return nil, fmt.Errorf("count user: %w", err)
	}
	if n == 0 {
		return nil, fmt.Errorf("remove favorite: user %s: %w", username, repository.ErrNotFound)
	}
	return nil, fmt.Errorf("remove favorite %s: %w", movieID, repository.ErrNotFavorited)
}

func (d *userDocument) toDomain() *domain.User {
	user := &domain.User{
		ID:             d.ID.Hex(),
		Username:       d.Username,
		PasswordHash:   d.Password,
		Email:          d.Email,
		FavoriteMovies: make([]string, len(d.FavoriteMovies)),
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
	if d.Birthday != nil {
		b := d.Birthday.UTC()
		user.Birthday = &b
	}
	for i, id := range d.FavoriteMovies {
		user.FavoriteMovies[i] = id.Hex()
	}
	return user
}

func wrapUserErr(op string, err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%s: %w", op, repository.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}
