package book

import (
	"encoding/json"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrNotFound is returned when a lookup matches no book.
var ErrNotFound = errors.New("book not found")

// ErrInvalidQuery is returned when query parameters are out of range.
var ErrInvalidQuery = errors.New("invalid book query")

// Book represents a document in the books collection.
type Book struct {
	ID            *primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Title         string              `bson:"title,omitempty" json:"title,omitempty"`
	Author        string              `bson:"author,omitempty" json:"author,omitempty"`
	Genre         string              `bson:"genre,omitempty" json:"genre,omitempty"`
	PublishedYear int                 `bson:"published_year,omitempty" json:"published_year,omitempty"`
	Price         float64             `bson:"price" json:"price"`
	InStock       *bool               `bson:"in_stock,omitempty" json:"in_stock,omitempty"`
	Pages         int                 `bson:"pages,omitempty" json:"pages,omitempty"`
	Publisher     string              `bson:"publisher,omitempty" json:"publisher,omitempty"`

	// Extra keeps stored fields the struct does not name, so documents
	// written by other tools print in full.
	Extra map[string]interface{} `bson:",inline" json:"-"`
}

// MarshalJSON writes the named fields followed by Extra, keys sorted.
func (b Book) MarshalJSON() ([]byte, error) {
	type plain Book
	raw, err := json.Marshal(plain(b))
	if err != nil || len(b.Extra) == 0 {
		return raw, err
	}
	extra, err := json.Marshal(b.Extra)
	if err != nil {
		return nil, errors.Wrap(err, "marshal extra fields")
	}
	out := append(raw[:len(raw)-1], ',')
	return append(out, extra[1:]...), nil
}

// Field names as stored in the collection.
const (
	FieldID            = "_id"
	FieldTitle         = "title"
	FieldAuthor        = "author"
	FieldGenre         = "genre"
	FieldPublishedYear = "published_year"
	FieldPrice         = "price"
	FieldInStock       = "in_stock"
	FieldPages         = "pages"
	FieldPublisher     = "publisher"
)

// Filter selects books. Zero-valued fields do not constrain the match.
type Filter struct {
	Title          string
	Author         string
	Genre          string
	PublishedAfter *int
	InStock        *bool
}

// IsEmpty reports whether the filter matches every book.
func (f Filter) IsEmpty() bool {
	return f.Title == "" && f.Author == "" && f.Genre == "" && f.PublishedAfter == nil && f.InStock == nil
}

// SortKey orders results on one field.
type SortKey struct {
	Field string
	Desc  bool
}

// Query defines filters, projection, ordering and pagination for finding books.
type Query struct {
	Filter Filter
	// Fields limits the returned fields. _id is excluded whenever Fields is set.
	Fields []string
	Sort   []SortKey
	Skip   int64
	Limit  int64
}

// IndexKey is one field of an index.
type IndexKey struct {
	Field string
	Desc  bool
}

// GenreStats is one row of the average-price-by-genre aggregation.
type GenreStats struct {
	Genre        string  `bson:"_id" json:"genre"`
	AveragePrice float64 `bson:"averagePrice" json:"averagePrice"`
	TotalBooks   int     `bson:"totalBooks" json:"totalBooks"`
}

// AuthorCount is one row of the books-per-author aggregation.
type AuthorCount struct {
	Author    string `bson:"_id" json:"author"`
	BookCount int    `bson:"bookCount" json:"bookCount"`
}

// DecadeCount is one row of the books-per-decade aggregation.
type DecadeCount struct {
	Decade string `bson:"_id" json:"decade"`
	Count  int    `bson:"count" json:"count"`
}

// ExplainStats holds the executionStats section of a query plan.
type ExplainStats struct {
	NReturned           int64    `json:"nReturned"`
	ExecutionTimeMillis int64    `json:"executionTimeMillis"`
	TotalDocsExamined   int64    `json:"totalDocsExamined"`
	TotalKeysExamined   int64    `json:"totalKeysExamined"`
	Stages              []string `json:"stages,omitempty"`
}

// UsedIndex reports whether the winning plan scanned an index.
func (e ExplainStats) UsedIndex() bool {
	for _, s := range e.Stages {
		if s == "IXSCAN" {
			return true
		}
	}
	return false
}

// PriceSummary describes the distribution of book prices.
type PriceSummary struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"stdDev"`
}
