package book

import (
	"context"
	"strings"

	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
)

// CatalogFields is the projection used by the catalog listings.
var CatalogFields = []string{FieldTitle, FieldAuthor, FieldPrice}

// Service provides the bookstore queries.
type Service struct {
	repo Repository
}

// NewService creates a new book service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// All returns every book.
func (s *Service) All(ctx context.Context) ([]Book, error) {
	return s.repo.Find(ctx, Query{})
}

// PublishedAfter returns books published strictly after year.
func (s *Service) PublishedAfter(ctx context.Context, year int) ([]Book, error) {
	return s.repo.Find(ctx, Query{Filter: Filter{PublishedAfter: &year}})
}

// ByGenre returns books in genre.
func (s *Service) ByGenre(ctx context.Context, genre string) ([]Book, error) {
	genre = strings.TrimSpace(genre)
	if genre == "" {
		return nil, errors.Wrap(ErrInvalidQuery, "genre is required")
	}
	return s.repo.Find(ctx, Query{Filter: Filter{Genre: genre}})
}

// ByAuthor returns books written by author.
func (s *Service) ByAuthor(ctx context.Context, author string) ([]Book, error) {
	author = strings.TrimSpace(author)
	if author == "" {
		return nil, errors.Wrap(ErrInvalidQuery, "author is required")
	}
	return s.repo.Find(ctx, Query{Filter: Filter{Author: author}})
}

// DeleteByTitle removes at most one book with the given title and reports how
// many were removed.
func (s *Service) DeleteByTitle(ctx context.Context, title string) (int64, error) {
	if strings.TrimSpace(title) == "" {
		return 0, errors.Wrap(ErrInvalidQuery, "title is required")
	}
	return s.repo.DeleteOne(ctx, Filter{Title: title})
}

// InStockPublishedAfter returns books that are in stock and published after year.
func (s *Service) InStockPublishedAfter(ctx context.Context, year int) ([]Book, error) {
	inStock := true
	return s.repo.Find(ctx, Query{Filter: Filter{InStock: &inStock, PublishedAfter: &year}})
}

// Catalog returns title, author and price of every book.
func (s *Service) Catalog(ctx context.Context) ([]Book, error) {
	return s.repo.Find(ctx, Query{Fields: CatalogFields})
}

// CatalogByPrice returns the catalog ordered by price. Equal prices keep
// insertion order.
func (s *Service) CatalogByPrice(ctx context.Context, desc bool) ([]Book, error) {
	return s.repo.Find(ctx, Query{
		Fields: CatalogFields,
		Sort:   []SortKey{{Field: FieldPrice, Desc: desc}, {Field: FieldID}},
	})
}

// CatalogPage returns one page of the catalog in natural order.
func (s *Service) CatalogPage(ctx context.Context, p Page) ([]Book, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Find(ctx, Query{
		Fields: CatalogFields,
		Skip:   p.Skip(),
		Limit:  p.Limit(),
	})
}

// AveragePriceByGenre returns per-genre price averages, most expensive genre first.
func (s *Service) AveragePriceByGenre(ctx context.Context) ([]GenreStats, error) {
	return s.repo.AveragePriceByGenre(ctx)
}

// TopAuthor returns the author with the most books.
func (s *Service) TopAuthor(ctx context.Context) (AuthorCount, error) {
	authors, err := s.repo.TopAuthors(ctx, 1)
	if err != nil {
		return AuthorCount{}, err
	}
	if len(authors) == 0 {
		return AuthorCount{}, ErrNotFound
	}
	return authors[0], nil
}

// CountByDecade returns the number of books per publication decade.
func (s *Service) CountByDecade(ctx context.Context) ([]DecadeCount, error) {
	return s.repo.CountByDecade(ctx)
}

// IndexTitle creates an ascending index on title.
func (s *Service) IndexTitle(ctx context.Context) (string, error) {
	return s.repo.CreateIndex(ctx, IndexKey{Field: FieldTitle})
}

// IndexAuthorYear creates a compound ascending index on author and published_year.
func (s *Service) IndexAuthorYear(ctx context.Context) (string, error) {
	return s.repo.CreateIndex(ctx, IndexKey{Field: FieldAuthor}, IndexKey{Field: FieldPublishedYear})
}

// ExplainTitle returns execution statistics for a title lookup.
func (s *Service) ExplainTitle(ctx context.Context, title string) (ExplainStats, error) {
	if strings.TrimSpace(title) == "" {
		return ExplainStats{}, errors.Wrap(ErrInvalidQuery, "title is required")
	}
	return s.repo.Explain(ctx, Filter{Title: title})
}

// PriceSummary computes price statistics over every book.
func (s *Service) PriceSummary(ctx context.Context) (PriceSummary, error) {
	books, err := s.repo.Find(ctx, Query{Fields: []string{FieldPrice}})
	if err != nil {
		return PriceSummary{}, err
	}
	if len(books) == 0 {
		return PriceSummary{}, ErrNotFound
	}

	prices := make(stats.Float64Data, 0, len(books))
	for _, b := range books {
		prices = append(prices, b.Price)
	}

	summary := PriceSummary{Count: len(prices)}
	if summary.Min, err = prices.Min(); err != nil {
		return PriceSummary{}, errors.Wrap(err, "price min")
	}
	if summary.Max, err = prices.Max(); err != nil {
		return PriceSummary{}, errors.Wrap(err, "price max")
	}
	if summary.Mean, err = prices.Mean(); err != nil {
		return PriceSummary{}, errors.Wrap(err, "price mean")
	}
	if summary.Median, err = prices.Median(); err != nil {
		return PriceSummary{}, errors.Wrap(err, "price median")
	}
	if summary.StdDev, err = prices.StandardDeviation(); err != nil {
		return PriceSummary{}, errors.Wrap(err, "price standard deviation")
	}
	return summary, nil
}
