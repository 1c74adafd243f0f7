package main

import (
	"os"
	"strconv"
	"strings"
	"time"

	"bookstore/internal/queryrunner"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

const (
	backendMongo  = "mongo"
	backendMemory = "memory"
)

type config struct {
	MongoURI       string        `validate:"required_if=Backend mongo"`
	Database       string        `validate:"required"`
	Collection     string        `validate:"required"`
	ConnectTimeout time.Duration `validate:"gt=0"`
	Backend        string        `validate:"oneof=mongo memory"`
	LogLevel       string        `validate:"oneof=trace debug info warn warning error"`
	LogFormat      string        `validate:"oneof=text json"`
	DriverLog      bool
	Color          bool
	Catalog        queryrunner.Options
}

func loadEnvFiles() {
	// Do not override environment provided by the runtime (e.g. Docker).
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")
}

func loadConfig() (config, error) {
	defaults := queryrunner.DefaultOptions()

	cfg := config{
		MongoURI:   getEnv("MONGO_URI", "mongodb://localhost:27017"),
		Database:   getEnv("MONGO_DB", "plp_bookstore"),
		Collection: getEnv("MONGO_COLLECTION", "books"),
		Backend:    strings.ToLower(getEnv("QUERY_BACKEND", backendMongo)),
		LogLevel:   strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat:  strings.ToLower(getEnv("LOG_FORMAT", "text")),
		Catalog: queryrunner.Options{
			Genre:        getEnv("QUERY_GENRE", defaults.Genre),
			Author:       getEnv("QUERY_AUTHOR", defaults.Author),
			DeleteTitle:  getEnv("QUERY_DELETE_TITLE", defaults.DeleteTitle),
			ExplainTitle: getEnv("QUERY_EXPLAIN_TITLE", defaults.ExplainTitle),
		},
	}

	var err error
	if cfg.ConnectTimeout, err = getEnvDuration("MONGO_CONNECT_TIMEOUT", 10*time.Second); err != nil {
		return config{}, err
	}
	if cfg.DriverLog, err = getEnvBool("MONGO_DRIVER_LOG", false); err != nil {
		return config{}, err
	}
	if cfg.Color, err = getEnvBool("OUTPUT_COLOR", false); err != nil {
		return config{}, err
	}
	if cfg.Catalog.ModernAfterYear, err = getEnvInt("QUERY_MODERN_AFTER", defaults.ModernAfterYear); err != nil {
		return config{}, err
	}
	if cfg.Catalog.RecentAfterYear, err = getEnvInt("QUERY_RECENT_AFTER", defaults.RecentAfterYear); err != nil {
		return config{}, err
	}
	if cfg.Catalog.Page, err = getEnvInt("QUERY_PAGE", defaults.Page); err != nil {
		return config{}, err
	}
	if cfg.Catalog.PageSize, err = getEnvInt("QUERY_PAGE_SIZE", defaults.PageSize); err != nil {
		return config{}, err
	}

	if err := validator.New().Struct(cfg); err != nil {
		return config{}, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) (int, error) {
	v := getEnv(key, "")
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.Wrapf(err, "%s", key)
	}
	return n, nil
}

func getEnvBool(key string, def bool) (bool, error) {
	v := getEnv(key, "")
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errors.Wrapf(err, "%s", key)
	}
	return b, nil
}

func getEnvDuration(key string, def time.Duration) (time.Duration, error) {
	v := getEnv(key, "")
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, errors.Wrapf(err, "%s", key)
	}
	return d, nil
}

// redactURI hides credentials in a connection string before it is logged.
func redactURI(uri string) string {
	const marker = "://"
	start := strings.Index(uri, marker)
	if start < 0 {
		return uri
	}
	start += len(marker)
	end := strings.Index(uri[start:], "@")
	if end < 0 {
		return uri
	}
	return uri[:start] + "***" + uri[start+end:]
}
