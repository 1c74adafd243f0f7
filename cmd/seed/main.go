package main

import (
	"context"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"bookstore/internal/fixture"
	"bookstore/internal/ingest"
	"bookstore/internal/platform/logging"
	"bookstore/internal/platform/openlibrary"
	"bookstore/internal/store"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

func main() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	logger, err := logging.New(os.Stderr, getEnv("LOG_LEVEL", "info"), getEnv("LOG_FORMAT", "text"))
	if err != nil {
		logrus.Fatalf("cannot create logger: %v", err)
	}

	if err := run(context.Background(), logger); err != nil {
		logger.WithError(err).Fatal("seed failed")
	}
}

func run(ctx context.Context, logger *logrus.Logger) error {
	randomCount, err := strconv.Atoi(getEnv("SEED_RANDOM", "0"))
	if err != nil || randomCount < 0 {
		return errors.Errorf("SEED_RANDOM must be a non-negative integer, got %q", os.Getenv("SEED_RANDOM"))
	}
	perSubject, err := strconv.Atoi(getEnv("SEED_PER_SUBJECT", "20"))
	if err != nil {
		return errors.Wrap(err, "SEED_PER_SUBJECT")
	}
	timeout, err := time.ParseDuration(getEnv("MONGO_CONNECT_TIMEOUT", "10s"))
	if err != nil {
		return errors.Wrap(err, "MONGO_CONNECT_TIMEOUT")
	}

	books := fixture.Books()

	if randomCount > 0 {
		logger.Infof("Generating %d books...", randomCount)
		books = append(books, randomBooks(rand.New(rand.NewSource(time.Now().UnixNano())), randomCount)...)
	}

	if subjects := splitList(getEnv("SEED_SUBJECTS", "")); len(subjects) > 0 {
		client := openlibrary.NewClient(getEnv("OPENLIBRARY_URL", openlibrary.DefaultBaseURL), "bookstore-seed/1.0", 2, 3)
		fetched, err := ingest.NewService(client, ingest.Config{Subjects: subjects, PerSubject: perSubject}, logger).Fetch(ctx)
		if err != nil {
			return errors.Wrap(err, "fetch open library books")
		}
		books = append(books, fetched...)
	}

	sess, err := store.Open(ctx, store.Config{
		URI:            getEnv("MONGO_URI", "mongodb://localhost:27017"),
		Database:       getEnv("MONGO_DB", "plp_bookstore"),
		Collection:     getEnv("MONGO_COLLECTION", "books"),
		ConnectTimeout: timeout,
	})
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sess.Close(ctx); cerr != nil {
			logger.WithError(cerr).Warn("disconnect failed")
		}
	}()

	logger.Println("Inserting books into database...")
	n, err := store.Seed(ctx, sess.Collection(), books)
	if err != nil {
		return err
	}

	total, err := sess.Collection().EstimatedDocumentCount(ctx)
	if err != nil {
		return errors.Wrap(err, "count books")
	}
	logger.WithFields(logrus.Fields{"inserted": n, "total": total}).Info("Successfully seeded books")
	return nil
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
