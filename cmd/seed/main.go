// Command seed loads a movie catalog JSON document into the configured store.
//
//	seed -source data/movies.json
//	seed -source s3://my-bucket/catalog/movies.json
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"myflix-api/internal/config"
	"myflix-api/internal/logging"
	"myflix-api/internal/seed"
	"myflix-api/internal/storage"
	"myflix-api/internal/store"
)

func main() {
	source := flag.String("source", "movies.json", "catalog file path or s3://bucket/key")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	logger := logging.New(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var objects storage.Service
	if storage.IsLocation(*source) {
		objects, err = storage.NewFromOptions(ctx, storage.Options{
			Region:   cfg.Storage.Region,
			Endpoint: cfg.Storage.Endpoint,
			Profile:  cfg.AWS.Profile,
		})
		if err != nil {
			logger.Fatalf("setup storage: %v", err)
		}
	}

	data, err := seed.Read(ctx, *source, objects)
	if err != nil {
		logger.Fatalf("read catalog: %v", err)
	}
	movies, err := seed.Parse(data)
	if err != nil {
		logger.Fatalf("parse catalog: %v", err)
	}

	st, err := store.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("open store: %v", err)
	}
	defer st.Close(context.Background())

	res, err := seed.Load(ctx, st.Movies, movies, logger)
	if err != nil {
		_ = st.Close(context.Background())
		logger.Fatalf("load catalog: %v", err)
	}
	logger.WithFields(logrus.Fields{
		"source":   *source,
		"inserted": res.Inserted,
		"updated":  res.Updated,
	}).Info("catalog loaded")
}
