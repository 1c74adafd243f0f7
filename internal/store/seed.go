package store

import (
	"context"

	"bookstore/internal/book"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const seedBatchSize = 1000

// Seed replaces the contents of coll with books, inserting in ordered batches.
// Existing documents and indexes are dropped first.
func Seed(ctx context.Context, coll *mongo.Collection, books []book.Book) (int, error) {
	if err := coll.Drop(ctx); err != nil {
		return 0, errors.Wrapf(err, "drop %s", coll.Name())
	}

	inserted := 0
	for start := 0; start < len(books); start += seedBatchSize {
		end := start + seedBatchSize
		if end > len(books) {
			end = len(books)
		}

		docs := make([]interface{}, 0, end-start)
		for _, b := range books[start:end] {
			docs = append(docs, b)
		}

		res, err := coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true))
		if err != nil {
			return inserted, errors.Wrapf(err, "insert books %d-%d", start, end)
		}
		inserted += len(res.InsertedIDs)
	}
	return inserted, nil
}
