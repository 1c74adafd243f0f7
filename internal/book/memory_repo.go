package book

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryRepo implements Repository over an in-process slice. It evaluates the
// same filters, projections and groupings as MongoRepo and reports a plan that
// mirrors what the server would choose for the indexes created so far.
//
// Books are held as Seed would store them: a zero published year means the
// field is absent, while price is always present, so a zero price takes part
// in averages.
type MemoryRepo struct {
	mu      sync.Mutex
	books   []Book
	indexes []string
}

// NewMemoryRepo copies books into a new repository, assigning ids where missing.
func NewMemoryRepo(books []Book) *MemoryRepo {
	r := &MemoryRepo{books: make([]Book, 0, len(books))}
	for _, b := range books {
		if b.ID == nil {
			id := primitive.NewObjectID()
			b.ID = &id
		}
		r.books = append(r.books, b)
	}
	return r
}

func (r *MemoryRepo) Find(_ context.Context, q Query) ([]Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []Book{}
	for _, b := range r.books {
		if matches(b, q.Filter) {
			out = append(out, b)
		}
	}

	if len(q.Sort) > 0 {
		sort.SliceStable(out, func(i, j int) bool {
			for _, k := range q.Sort {
				c := compareField(out[i], out[j], k.Field)
				if c == 0 {
					continue
				}
				if k.Desc {
					return c > 0
				}
				return c < 0
			}
			return false
		})
	}

	if q.Skip > 0 {
		if q.Skip >= int64(len(out)) {
			out = out[:0]
		} else {
			out = out[q.Skip:]
		}
	}
	if q.Limit > 0 && q.Limit < int64(len(out)) {
		out = out[:q.Limit]
	}

	if len(q.Fields) > 0 {
		projected := make([]Book, len(out))
		for i, b := range out {
			projected[i] = project(b, q.Fields)
		}
		out = projected
	}
	return out, nil
}

func (r *MemoryRepo) DeleteOne(_ context.Context, f Filter) (int64, error) {
	if f.IsEmpty() {
		return 0, errors.Wrap(ErrInvalidQuery, "refusing to delete with an empty filter")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i, b := range r.books {
		if matches(b, f) {
			r.books = append(r.books[:i], r.books[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (r *MemoryRepo) AveragePriceByGenre(_ context.Context) ([]GenreStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sums := map[string]float64{}
	counts := map[string]int{}
	for _, b := range r.books {
		sums[b.Genre] += b.Price
		counts[b.Genre]++
	}

	rows := make([]GenreStats, 0, len(counts))
	for genre, n := range counts {
		rows = append(rows, GenreStats{Genre: genre, AveragePrice: sums[genre] / float64(n), TotalBooks: n})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].AveragePrice != rows[j].AveragePrice {
			return rows[i].AveragePrice > rows[j].AveragePrice
		}
		return rows[i].Genre < rows[j].Genre
	})
	return rows, nil
}

func (r *MemoryRepo) TopAuthors(_ context.Context, limit int) ([]AuthorCount, error) {
	if limit < 1 {
		return nil, errors.Wrapf(ErrInvalidQuery, "author limit %d", limit)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	counts := map[string]int{}
	for _, b := range r.books {
		counts[b.Author]++
	}

	rows := make([]AuthorCount, 0, len(counts))
	for author, n := range counts {
		rows = append(rows, AuthorCount{Author: author, BookCount: n})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].BookCount != rows[j].BookCount {
			return rows[i].BookCount > rows[j].BookCount
		}
		return rows[i].Author < rows[j].Author
	})
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (r *MemoryRepo) CountByDecade(_ context.Context) ([]DecadeCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	counts := map[string]int{}
	for _, b := range r.books {
		if b.PublishedYear == 0 {
			continue
		}
		counts[decadeLabel(b.PublishedYear)]++
	}

	rows := make([]DecadeCount, 0, len(counts))
	for decade, n := range counts {
		rows = append(rows, DecadeCount{Decade: decade, Count: n})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Decade < rows[j].Decade })
	return rows, nil
}

func (r *MemoryRepo) CreateIndex(_ context.Context, keys ...IndexKey) (string, error) {
	if len(keys) == 0 {
		return "", errors.Wrap(ErrInvalidQuery, "index needs at least one key")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	name := indexName(keys)
	for _, existing := range r.indexes {
		if existing == name {
			return name, nil
		}
	}
	r.indexes = append(r.indexes, name)
	return name, nil
}

func (r *MemoryRepo) Explain(_ context.Context, f Filter) (ExplainStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched int64
	for _, b := range r.books {
		if matches(b, f) {
			matched++
		}
	}

	if f.Title != "" && r.hasIndexPrefix(FieldTitle) {
		return ExplainStats{
			NReturned:         matched,
			TotalDocsExamined: matched,
			TotalKeysExamined: matched,
			Stages:            []string{"FETCH", "IXSCAN"},
		}, nil
	}
	return ExplainStats{
		NReturned:         matched,
		TotalDocsExamined: int64(len(r.books)),
		Stages:            []string{"COLLSCAN"},
	}, nil
}

// Indexes returns the names of the indexes created so far.
func (r *MemoryRepo) Indexes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.indexes...)
}

// Len returns the number of stored books.
func (r *MemoryRepo) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.books)
}

func (r *MemoryRepo) hasIndexPrefix(field string) bool {
	for _, name := range r.indexes {
		if strings.HasPrefix(name, field+"_") {
			return true
		}
	}
	return false
}

func matches(b Book, f Filter) bool {
	if f.Title != "" && b.Title != f.Title {
		return false
	}
	if f.Author != "" && b.Author != f.Author {
		return false
	}
	if f.Genre != "" && b.Genre != f.Genre {
		return false
	}
	if f.InStock != nil && (b.InStock == nil || *b.InStock != *f.InStock) {
		return false
	}
	if f.PublishedAfter != nil && (b.PublishedYear == 0 || b.PublishedYear <= *f.PublishedAfter) {
		return false
	}
	return true
}

func compareField(a, b Book, field string) int {
	switch field {
	case FieldID:
		return strings.Compare(hexID(a.ID), hexID(b.ID))
	case FieldPrice:
		return compareFloat(a.Price, b.Price)
	case FieldPublishedYear:
		return compareFloat(float64(a.PublishedYear), float64(b.PublishedYear))
	case FieldPages:
		return compareFloat(float64(a.Pages), float64(b.Pages))
	case FieldTitle:
		return strings.Compare(a.Title, b.Title)
	case FieldAuthor:
		return strings.Compare(a.Author, b.Author)
	case FieldGenre:
		return strings.Compare(a.Genre, b.Genre)
	case FieldPublisher:
		return strings.Compare(a.Publisher, b.Publisher)
	}
	return 0
}

func hexID(id *primitive.ObjectID) string {
	if id == nil {
		return ""
	}
	return id.Hex()
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func project(b Book, fields []string) Book {
	var out Book
	for _, f := range fields {
		switch f {
		case FieldTitle:
			out.Title = b.Title
		case FieldAuthor:
			out.Author = b.Author
		case FieldGenre:
			out.Genre = b.Genre
		case FieldPublishedYear:
			out.PublishedYear = b.PublishedYear
		case FieldPrice:
			out.Price = b.Price
		case FieldInStock:
			out.InStock = b.InStock
		case FieldPages:
			out.Pages = b.Pages
		case FieldPublisher:
			out.Publisher = b.Publisher
		}
	}
	return out
}

func decadeLabel(year int) string {
	start := year / 10 * 10
	if year < 0 && year%10 != 0 {
		start -= 10
	}
	return fmt.Sprintf("%ds", start)
}

// indexName follows the server's default naming: field_direction pairs joined by "_".
func indexName(keys []IndexKey) string {
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s_%d", k.Field, direction(k.Desc)))
	}
	return strings.Join(parts, "_")
}
