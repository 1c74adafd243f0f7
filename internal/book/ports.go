package book

import (
	"context"
)

// Repository defines the contract for book data storage.
type Repository interface {
	Find(ctx context.Context, q Query) ([]Book, error)
	DeleteOne(ctx context.Context, f Filter) (int64, error)
	AveragePriceByGenre(ctx context.Context) ([]GenreStats, error)
	TopAuthors(ctx context.Context, limit int) ([]AuthorCount, error)
	CountByDecade(ctx context.Context) ([]DecadeCount, error)
	CreateIndex(ctx context.Context, keys ...IndexKey) (string, error)
	Explain(ctx context.Context, f Filter) (ExplainStats, error)
}
