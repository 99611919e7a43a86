package seed

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"myflix-api/internal/repository/sqlite"
)

const catalogJSON = `[
  {
    "title": "Inception",
    "description": "A thief who steals corporate secrets through dreams.",
    "genre": {"name": "Action/Sci-fi", "description": "Explosions in space"},
    "director": {"name": "Christopher Nolan", "birth": "1970"},
    "imageUrl": "s3://posters/inception.jpg",
    "featured": true
  },
  {
    "title": "Amelie",
    "genre": {"name": "Comedy"},
    "director": {"name": "Jean-Pierre Jeunet"}
  }
]`

type stubObjects struct {
	data []byte
	got  string
}

func (s *stubObjects) PresignURL(ctx context.Context, location string) (string, error) {
	return "", errors.New("not used")
}

func (s *stubObjects) Download(ctx context.Context, location string) ([]byte, error) {
	s.got = location
	return s.data, nil
}

func TestParse(t *testing.T) {
	movies, err := Parse([]byte(catalogJSON))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(movies) != 2 {
		t.Fatalf("Parse() len = %d, want 2", len(movies))
	}
	if m := movies[0]; m.Genre.Name != "Action/Sci-fi" || m.Director.Birth != "1970" || !m.Featured {
		t.Errorf("movies[0] = %+v", m)
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
		want []string
	}{
		{name: "not json", data: `{`, want: []string{"decode catalog"}},
		{
			name: "missing fields",
			data: `[{"title":" ","genre":{"name":"x"},"director":{"name":"y"}},{"title":"A","genre":{},"director":{"name":"y"}}]`,
			want: []string{"movie 0", "title is required", "movie 1", "name is required"},
		},
		{
			name: "duplicate title",
			data: `[{"title":"Amelie","genre":{"name":"x"},"director":{"name":"y"}},{"title":"AMELIE","genre":{"name":"x"},"director":{"name":"y"}}]`,
			want: []string{"duplicates movie 0"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if err == nil {
				t.Fatal("Parse() error = nil")
			}
			for _, w := range tt.want {
				if !strings.Contains(err.Error(), w) {
					t.Errorf("error %q does not mention %q", err, w)
				}
			}
		})
	}
}

func TestRead(t *testing.T) {
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "movies.json")
	if err := os.WriteFile(path, []byte(catalogJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	data, err := Read(ctx, path, nil)
	if err != nil || string(data) != catalogJSON {
		t.Errorf("Read(local) = %d bytes, %v", len(data), err)
	}

	objects := &stubObjects{data: []byte(catalogJSON)}
	if _, err := Read(ctx, "s3://catalog/movies.json", objects); err != nil {
		t.Fatalf("Read(s3) error = %v", err)
	}
	if objects.got != "s3://catalog/movies.json" {
		t.Errorf("downloaded %q", objects.got)
	}

	if _, err := Read(ctx, "s3://catalog/movies.json", nil); err == nil {
		t.Error("Read(s3) without storage succeeded")
	}
}

func TestLoad_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "seed.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	repo := sqlite.NewMovieRepository(db)
	if err := repo.Init(ctx); err != nil {
		t.Fatal(err)
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	for i, want := range []Result{{Inserted: 2}, {Updated: 2}} {
		movies, err := Parse([]byte(catalogJSON))
		if err != nil {
			t.Fatal(err)
		}
		got, err := Load(ctx, repo, movies, logger)
		if err != nil {
			t.Fatalf("Load() #%d error = %v", i, err)
		}
		if got != want {
			t.Errorf("Load() #%d = %+v, want %+v", i, got, want)
		}
	}

	all, err := repo.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Errorf("catalog size = %d, want 2", len(all))
	}
}
