package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"myflix-api/internal/domain"
	"myflix-api/internal/repository"
)

type genreDocument struct {
	Name        string `bson:"name"`
	Description string `bson:"description,omitempty"`
}

type directorDocument struct {
	Name  string `bson:"name"`
	Bio   string `bson:"bio,omitempty"`
	Birth string `bson:"birth,omitempty"`
	Death string `bson:"death,omitempty"`
}

type movieDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Genre       genreDocument      `bson:"genre"`
	Director    directorDocument   `bson:"director"`
	ImageURL    string             `bson:"imageUrl,omitempty"`
	Featured    bool               `bson:"featured"`
}

type MovieRepository struct {
	movies *mongo.Collection
}

func NewMovieRepository(db *mongo.Database) repository.MovieRepository {
	return &MovieRepository{movies: db.Collection(moviesCollection)}
}

func (r *MovieRepository) Init(ctx context.Context) error {
	_, err := r.movies.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "title", Value: 1}},
			Options: options.Index().
				SetName("title_unique_ci").
				SetUnique(true).
				SetCollation(&options.Collation{Locale: "en", Strength: 2}),
		},
		{Keys: bson.D{{Key: "genre.name", Value: 1}}, Options: options.Index().SetName("genre_name")},
		{Keys: bson.D{{Key: "director.name", Value: 1}}, Options: options.Index().SetName("director_name")},
	})
	if err != nil {
		return fmt.Errorf("create movies indexes: %w", err)
	}
	return nil
}

func (r *MovieRepository) List(ctx context.Context) ([]domain.Movie, error) {
	return r.find(ctx, bson.D{})
}

func (r *MovieRepository) GetByID(ctx context.Context, id string) (*domain.Movie, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("find movie: %w", err)
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *MovieRepository) GetByTitle(ctx context.Context, title string) (*domain.Movie, error) {
	return r.findOne(ctx, bson.M{"title": exactFold(title)})
}

func (r *MovieRepository) ListByGenre(ctx context.Context, genre string) ([]domain.Movie, error) {
	return r.find(ctx, bson.M{"genre.name": containsFold(genre)})
}

func (r *MovieRepository) ListByDirector(ctx context.Context, director string) ([]domain.Movie, error) {
	return r.find(ctx, bson.M{"director.name": containsFold(director)})
}

func (r *MovieRepository) Upsert(ctx context.Context, movie *domain.Movie) (bool, error) {
	existing, err := r.GetByTitle(ctx, movie.Title)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return false, err
	}

	doc := movieFromDomain(movie)
	if existing != nil {
		doc.ID = primitive.NilObjectID
		if _, err := r.movies.ReplaceOne(ctx, bson.M{"title": exactFold(movie.Title)}, doc); err != nil {
			return false, fmt.Errorf("replace movie %q: %w", movie.Title, err)
		}
		movie.ID = existing.ID
		return false, nil
	}

	res, err := r.movies.InsertOne(ctx, doc)
	if err != nil {
		return false, fmt.Errorf("insert movie %q: %w", movie.Title, err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		movie.ID = oid.Hex()
	}
	return true, nil
}

func (r *MovieRepository) findOne(ctx context.Context, filter any) (*domain.Movie, error) {
	var doc movieDocument
	if err := r.movies.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("find movie: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("find movie: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *MovieRepository) find(ctx context.Context, filter any) ([]domain.Movie, error) {
	cursor, err := r.movies.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "title", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find movies: %w", err)
	}
	var docs []movieDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode movies: %w", err)
	}

	movies := make([]domain.Movie, len(docs))
	for i := range docs {
		movies[i] = *docs[i].toDomain()
	}
	return movies, nil
}

func exactFold(s string) primitive.Regex {
	return primitive.Regex{Pattern: "^" + regexp.QuoteMeta(s) + "$", Options: "i"}
}

func containsFold(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

func movieFromDomain(m *domain.Movie) movieDocument {
	doc := movieDocument{
		Title:       m.Title,
		Description: m.Description,
		Genre:       genreDocument{Name: m.Genre.Name, Description: m.Genre.Description},
		Director: directorDocument{
			Name:  m.Director.Name,
			Bio:   m.Director.Bio,
			Birth: m.Director.Birth,
			Death: m.Director.Death,
		},
		ImageURL: m.ImageURL,
		Featured: m.Featured,
	}
	if oid, err := primitive.ObjectIDFromHex(m.ID); err == nil {
		doc.ID = oid
	}
	return doc
}

func (d *movieDocument) toDomain() *domain.Movie {
	return &domain.Movie{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Genre:       domain.Genre{Name: d.Genre.Name, Description: d.Genre.Description},
		Director: domain.Director{
			Name:  d.Director.Name,
			Bio:   d.Director.Bio,
			Birth: d.Director.Birth,
			Death: d.Director.Death,
		},
		ImageURL: d.ImageURL,
		Featured: d.Featured,
	}
}
