// Package testutil holds helpers shared by tests that run against the
// driver's mock deployment.
package testutil

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

// MockMongo returns an mtest harness backed by a mock deployment, so no
// server is needed. Each mt.Run gets a fresh client.
func MockMongo(t *testing.T) *mtest.T {
	return mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
}

// Namespace is the "db.collection" string cursor replies must carry.
func Namespace(mt *mtest.T) string {
	return mt.Coll.Database().Name() + "." + mt.Coll.Name()
}

// Cursor builds a single-batch find/aggregate reply holding docs.
func Cursor(mt *mtest.T, docs ...bson.D) bson.D {
	return mtest.CreateCursorResponse(0, Namespace(mt), mtest.FirstBatch, docs...)
}

// BookDoc is a minimal stored book as the projected catalog queries return it.
func BookDoc(title, author string, price float64) bson.D {
	return bson.D{{Key: "title", Value: title}, {Key: "author", Value: author}, {Key: "price", Value: price}}
}
