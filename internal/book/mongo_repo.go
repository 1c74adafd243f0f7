package book

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepo implements Repository on a MongoDB collection.
type MongoRepo struct {
	coll *mongo.Collection
}

func NewMongoRepo(coll *mongo.Collection) *MongoRepo {
	return &MongoRepo{coll: coll}
}

func (r *MongoRepo) Find(ctx context.Context, q Query) ([]Book, error) {
	opts := options.Find()
	if len(q.Fields) > 0 {
		opts.SetProjection(projectionDoc(q.Fields))
	}
	if len(q.Sort) > 0 {
		opts.SetSort(sortDoc(q.Sort))
	}
	if q.Skip > 0 {
		opts.SetSkip(q.Skip)
	}
	if q.Limit > 0 {
		opts.SetLimit(q.Limit)
	}

	cur, err := r.coll.Find(ctx, filterDoc(q.Filter), opts)
	if err != nil {
		return nil, errors.Wrap(err, "find books")
	}

	books := []Book{}
	if err := cur.All(ctx, &books); err != nil {
		return nil, errors.Wrap(err, "decode books")
	}
	for i := range books {
		if len(books[i].Extra) == 0 {
			books[i].Extra = nil
		}
	}
	return books, nil
}

func (r *MongoRepo) DeleteOne(ctx context.Context, f Filter) (int64, error) {
	if f.IsEmpty() {
		return 0, errors.Wrap(ErrInvalidQuery, "refusing to delete with an empty filter")
	}
	res, err := r.coll.DeleteOne(ctx, filterDoc(f))
	if err != nil {
		return 0, errors.Wrap(err, "delete book")
	}
	return res.DeletedCount, nil
}

func (r *MongoRepo) AveragePriceByGenre(ctx context.Context) ([]GenreStats, error) {
	rows := []GenreStats{}
	if err := r.aggregate(ctx, averagePriceByGenrePipeline(), &rows); err != nil {
		return nil, errors.Wrap(err, "average price by genre")
	}
	return rows, nil
}

func (r *MongoRepo) TopAuthors(ctx context.Context, limit int) ([]AuthorCount, error) {
	if limit < 1 {
		return nil, errors.Wrapf(ErrInvalidQuery, "author limit %d", limit)
	}
	rows := []AuthorCount{}
	if err := r.aggregate(ctx, topAuthorsPipeline(limit), &rows); err != nil {
		return nil, errors.Wrap(err, "top authors")
	}
	return rows, nil
}

func (r *MongoRepo) CountByDecade(ctx context.Context) ([]DecadeCount, error) {
	rows := []DecadeCount{}
	if err := r.aggregate(ctx, countByDecadePipeline(), &rows); err != nil {
		return nil, errors.Wrap(err, "count by decade")
	}
	return rows, nil
}

func (r *MongoRepo) aggregate(ctx context.Context, pipeline mongo.Pipeline, out interface{}) error {
	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}
	return cur.All(ctx, out)
}

func (r *MongoRepo) CreateIndex(ctx context.Context, keys ...IndexKey) (string, error) {
	if len(keys) == 0 {
		return "", errors.Wrap(ErrInvalidQuery, "index needs at least one key")
	}
	model := mongo.IndexModel{Keys: indexDoc(keys)}
	name, err := r.coll.Indexes().CreateOne(ctx, model)
	if err != nil {
		return "", errors.Wrap(err, "create index")
	}
	return name, nil
}

type planStage struct {
	Stage      string     `bson:"stage"`
	InputStage *planStage `bson:"inputStage"`
	// Set instead of Stage by servers running the slot-based engine.
	QueryPlan *planStage `bson:"queryPlan"`
}

type explainResult struct {
	QueryPlanner struct {
		WinningPlan *planStage `bson:"winningPlan"`
	} `bson:"queryPlanner"`
	ExecutionStats struct {
		NReturned           int64 `bson:"nReturned"`
		ExecutionTimeMillis int64 `bson:"executionTimeMillis"`
		TotalDocsExamined   int64 `bson:"totalDocsExamined"`
		TotalKeysExamined   int64 `bson:"totalKeysExamined"`
	} `bson:"executionStats"`
}

func (r *MongoRepo) Explain(ctx context.Context, f Filter) (ExplainStats, error) {
	cmd := bson.D{
		{"explain", bson.D{
			{"find", r.coll.Name()},
			{"filter", filterDoc(f)},
		}},
		{"verbosity", "executionStats"},
	}

	var res explainResult
	if err := r.coll.Database().RunCommand(ctx, cmd).Decode(&res); err != nil {
		return ExplainStats{}, errors.Wrap(err, "explain find")
	}

	return ExplainStats{
		NReturned:           res.ExecutionStats.NReturned,
		ExecutionTimeMillis: res.ExecutionStats.ExecutionTimeMillis,
		TotalDocsExamined:   res.ExecutionStats.TotalDocsExamined,
		TotalKeysExamined:   res.ExecutionStats.TotalKeysExamined,
		Stages:              stageChain(res.QueryPlanner.WinningPlan),
	}, nil
}

// stageChain flattens a plan tree along its inputStage links, outermost first.
func stageChain(p *planStage) []string {
	var stages []string
	for p != nil {
		if p.Stage == "" && p.QueryPlan != nil {
			p = p.QueryPlan
			continue
		}
		stages = append(stages, p.Stage)
		p = p.InputStage
	}
	return stages
}

func filterDoc(f Filter) bson.D {
	doc := bson.D{}
	if f.Title != "" {
		doc = append(doc, bson.E{Key: FieldTitle, Value: f.Title})
	}
	if f.Author != "" {
		doc = append(doc, bson.E{Key: FieldAuthor, Value: f.Author})
	}
	if f.Genre != "" {
		doc = append(doc, bson.E{Key: FieldGenre, Value: f.Genre})
	}
	if f.InStock != nil {
		doc = append(doc, bson.E{Key: FieldInStock, Value: *f.InStock})
	}
	if f.PublishedAfter != nil {
		doc = append(doc, bson.E{Key: FieldPublishedYear, Value: bson.D{{"$gt", *f.PublishedAfter}}})
	}
	return doc
}

func projectionDoc(fields []string) bson.D {
	doc := bson.D{{FieldID, 0}}
	for _, f := range fields {
		if f == FieldID {
			continue
		}
		doc = append(doc, bson.E{Key: f, Value: 1})
	}
	return doc
}

func sortDoc(keys []SortKey) bson.D {
	doc := bson.D{}
	for _, k := range keys {
		doc = append(doc, bson.E{Key: k.Field, Value: direction(k.Desc)})
	}
	return doc
}

func indexDoc(keys []IndexKey) bson.D {
	doc := bson.D{}
	for _, k := range keys {
		doc = append(doc, bson.E{Key: k.Field, Value: direction(k.Desc)})
	}
	return doc
}

func direction(desc bool) int {
	if desc {
		return -1
	}
	return 1
}

// Ties on the sort key are broken by _id so repeated runs print the same order.

func averagePriceByGenrePipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{"$group", bson.D{
			{"_id", "$" + FieldGenre},
			{"averagePrice", bson.D{{"$avg", "$" + FieldPrice}}},
			{"totalBooks", bson.D{{"$sum", 1}}},
		}}},
		{{"$sort", bson.D{{"averagePrice", -1}, {"_id", 1}}}},
	}
}

func topAuthorsPipeline(limit int) mongo.Pipeline {
	return mongo.Pipeline{
		{{"$group", bson.D{
			{"_id", "$" + FieldAuthor},
			{"bookCount", bson.D{{"$sum", 1}}},
		}}},
		{{"$sort", bson.D{{"bookCount", -1}, {"_id", 1}}}},
		{{"$limit", limit}},
	}
}

func countByDecadePipeline() mongo.Pipeline {
	decadeStart := bson.D{{"$multiply", bson.A{
		bson.D{{"$floor", bson.D{{"$divide", bson.A{"$" + FieldPublishedYear, 10}}}}},
		10,
	}}}
	return mongo.Pipeline{
		{{"$match", bson.D{{FieldPublishedYear, bson.D{{"$type", "number"}}}}}},
		{{"$project", bson.D{
			{"decade", bson.D{{"$concat", bson.A{
				bson.D{{"$toString", bson.D{{"$toInt", decadeStart}}}},
				"s",
			}}}},
		}}},
		{{"$group", bson.D{
			{"_id", "$decade"},
			{"count", bson.D{{"$sum", 1}}},
		}}},
		{{"$sort", bson.D{{"_id", 1}}}},
	}
}
