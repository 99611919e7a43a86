// Package seed provisions the movie catalog from a JSON document. The API never
// writes movies; this is the only path that does.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"myflix-api/internal/domain"
	"myflix-api/internal/repository"
	"myflix-api/internal/storage"
	"myflix-api/internal/validation"
)

type genreRecord struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

type directorRecord struct {
	Name  string `json:"name" validate:"required"`
	Bio   string `json:"bio"`
	Birth string `json:"birth"`
	Death string `json:"death"`
}

type movieRecord struct {
	Title       string         `json:"title" validate:"required"`
	Description string         `json:"description"`
	Genre       genreRecord    `json:"genre"`
	Director    directorRecord `json:"director"`
	ImageURL    string         `json:"imageUrl"`
	Featured    bool           `json:"featured"`
}

// Result counts what a Load did.
type Result struct {
	Inserted int
	Updated  int
}

// Read returns the catalog document at source, which is either a local path or
// an s3://bucket/key location. objects may be nil when source is local.
func Read(ctx context.Context, source string, objects storage.Service) ([]byte, error) {
	if storage.IsLocation(source) {
		if objects == nil {
			return nil, fmt.Errorf("object storage is not configured for %s", source)
		}
		return objects.Download(ctx, source)
	}
	data, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return data, nil
}

// Parse decodes and validates a catalog document. Every invalid record is reported.
func Parse(data []byte) ([]domain.Movie, error) {
	var records []movieRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	var problems []string
	seen := make(map[string]int, len(records))
	movies := make([]domain.Movie, 0, len(records))
	for i, rec := range records {
		rec.Title = strings.TrimSpace(rec.Title)
		if err := validation.Struct(&rec); err != nil {
			problems = append(problems, fmt.Sprintf("movie %d: %v", i, err))
			continue
		}
		key := strings.ToLower(rec.Title)
		if prev, dup := seen[key]; dup {
			problems = append(problems, fmt.Sprintf("movie %d: title %q duplicates movie %d", i, rec.Title, prev))
			continue
		}
		seen[key] = i
		movies = append(movies, domain.Movie{
			Title:       rec.Title,
			Description: rec.Description,
			Genre:       domain.Genre{Name: rec.Genre.Name, Description: rec.Genre.Description},
			Director: domain.Director{
				Name:  rec.Director.Name,
				Bio:   rec.Director.Bio,
				Birth: rec.Director.Birth,
				Death: rec.Director.Death,
			},
			ImageURL: rec.ImageURL,
			Featured: rec.Featured,
		})
	}
	if len(problems) > 0 {
		return nil, fmt.Errorf("invalid catalog: %s", strings.Join(problems, "; "))
	}
	return movies, nil
}

// Load upserts every movie by title.
func Load(ctx context.Context, movies repository.MovieRepository, catalog []domain.Movie, logger *logrus.Logger) (Result, error) {
	var res Result
	for i := range catalog {
		created, err := movies.Upsert(ctx, &catalog[i])
		if err != nil {
			return res, err
		}
		if created {
			res.Inserted++
		} else {
			res.Updated++
		}
		logger.WithFields(logrus.Fields{
			"title":   catalog[i].Title,
			"id":      catalog[i].ID,
			"created": created,
		}).Debug("seeded movie")
	}
	return res, nil
}
