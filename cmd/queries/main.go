package main

import (
	"context"
	"os"

	"bookstore/internal/fixture"
	"bookstore/internal/platform/logging"
	"bookstore/internal/queryrunner"
	"bookstore/internal/store"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const driverLogDocumentLength = 500

func main() {
	loadEnvFiles()

	cfg, err := loadConfig()
	if err != nil {
		logrus.Fatalf("cannot load configuration: %v", err)
	}

	logger, err := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		logrus.Fatalf("cannot create logger: %v", err)
	}

	ops, err := queryrunner.Catalog(cfg.Catalog)
	if err != nil {
		logger.WithError(err).Fatal("invalid query options")
	}

	runner := queryrunner.New(
		connector(cfg, logger),
		ops,
		queryrunner.NewPrinter(os.Stdout, cfg.Color),
		logger,
	)
	if err := runner.Run(context.Background()); err != nil {
		logger.WithError(err).Fatal("query run failed")
	}
}

func connector(cfg config, logger *logrus.Logger) queryrunner.ConnectFunc {
	if cfg.Backend == backendMemory {
		return func(context.Context) (queryrunner.Session, error) {
			logger.Info("using in-memory fixture backend")
			return store.OpenMemory(fixture.Books()), nil
		}
	}

	storeCfg := store.Config{
		URI:            cfg.MongoURI,
		Database:       cfg.Database,
		Collection:     cfg.Collection,
		ConnectTimeout: cfg.ConnectTimeout,
	}
	if cfg.DriverLog {
		storeCfg.DriverLog = logging.DriverOptions(logger, driverLogDocumentLength)
	}

	return func(ctx context.Context) (queryrunner.Session, error) {
		s, err := store.Open(ctx, storeCfg)
		if err != nil {
			return nil, errors.Wrapf(err, "open %s", redactURI(cfg.MongoURI))
		}
		logger.WithFields(logrus.Fields{
			"uri":        redactURI(cfg.MongoURI),
			"database":   cfg.Database,
			"collection": cfg.Collection,
		}).Info("database connection OK")
		return s, nil
	}
}
