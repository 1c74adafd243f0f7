package store

import (
	"context"
	"time"

	"bookstore/internal/book"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	appName             = "bookstore-queries"
	defaultConnectLimit = 10 * time.Second
	disconnectTimeout   = 5 * time.Second
)

// Config describes where the books collection lives.
type Config struct {
	URI            string
	Database       string
	Collection     string
	ConnectTimeout time.Duration
	// DriverLog, when set, routes the driver's own log messages.
	DriverLog *options.LoggerOptions
}

// MongoSession is an open client scoped to one collection.
type MongoSession struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// Open connects to MongoDB and pings the primary within the connect timeout.
// On a failed ping the client is disconnected before returning.
func Open(ctx context.Context, cfg Config) (*MongoSession, error) {
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = defaultConnectLimit
	}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetAppName(appName).
		SetServerSelectionTimeout(timeout)
	if cfg.DriverLog != nil {
		opts.SetLoggerOptions(cfg.DriverLog)
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, errors.Wrap(err, "connect to mongodb")
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(err, "ping mongodb")
	}

	return newMongoSession(client, cfg.Database, cfg.Collection), nil
}

func newMongoSession(client *mongo.Client, database, collection string) *MongoSession {
	return &MongoSession{
		client: client,
		coll:   client.Database(database).Collection(collection),
	}
}

// Books returns the repository for the session's collection.
func (s *MongoSession) Books() book.Repository {
	return book.NewMongoRepo(s.coll)
}

// Collection returns the underlying collection handle.
func (s *MongoSession) Collection() *mongo.Collection {
	return s.coll
}

// Close disconnects the client, waiting at most a few seconds for in-use
// connections to be returned.
func (s *MongoSession) Close(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, disconnectTimeout)
	defer cancel()
	if err := s.client.Disconnect(ctx); err != nil {
		return errors.Wrap(err, "disconnect mongodb")
	}
	return nil
}
