// Package store opens the configured document store and exposes its repositories.
package store

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"myflix-api/internal/config"
	"myflix-api/internal/repository"
	mongorepo "myflix-api/internal/repository/mongo"
	"myflix-api/internal/repository/sqlite"
)

type Store struct {
	Users  repository.UserRepository
	Movies repository.MovieRepository
	close  func(context.Context) error
}

// Open connects to the store selected by cfg.Store.Driver and initializes its schema/indexes.
func Open(ctx context.Context, cfg config.Config, logger *logrus.Logger) (*Store, error) {
	var s *Store
	switch cfg.Store.Driver {
	case config.StoreMongo:
		client, db, err := mongorepo.Open(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			return nil, err
		}
		s = &Store{
			Users:  mongorepo.NewUserRepository(db),
			Movies: mongorepo.NewMovieRepository(db),
			close:  client.Disconnect,
		}
		logger.Infof("using mongo database %s", cfg.Mongo.Database)
	case config.StoreSQLite:
		db, err := sqlite.Open(cfg.SQLite.Path)
		if err != nil {
			return nil, err
		}
		s = &Store{
			Users:  sqlite.NewUserRepository(db),
			Movies: sqlite.NewMovieRepository(db),
			close:  func(context.Context) error { return db.Close() },
		}
		logger.Infof("using sqlite database %s", cfg.SQLite.Path)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}

	if err := s.Movies.Init(ctx); err != nil {
		_ = s.Close(ctx)
		return nil, fmt.Errorf("init movie repository: %w", err)
	}
	if err := s.Users.Init(ctx); err != nil {
		_ = s.Close(ctx)
		return nil, fmt.Errorf("init user repository: %w", err)
	}
	return s, nil
}

func (s *Store) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}
