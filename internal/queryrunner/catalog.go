package queryrunner

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"bookstore/internal/book"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

var validate = validator.New()

// Options parameterise the fixed operation catalog.
type Options struct {
	ModernAfterYear int    `validate:"gte=0"`
	RecentAfterYear int    `validate:"gte=0"`
	Genre           string `validate:"required"`
	Author          string `validate:"required"`
	DeleteTitle     string `validate:"required"`
	ExplainTitle    string `validate:"required"`
	Page            int    `validate:"min=1"`
	PageSize        int    `validate:"min=1,max=1000"`
}

// DefaultOptions returns the bookstore's standard query parameters.
func DefaultOptions() Options {
	return Options{
		ModernAfterYear: 1900,
		RecentAfterYear: 2010,
		Genre:           "Fiction",
		Author:          "Harper Lee",
		DeleteTitle:     "Brave New World",
		ExplainTitle:    "The Lord of the Rings",
		Page:            2,
		PageSize:        5,
	}
}

func (o Options) Validate() error {
	return errors.Wrap(validate.Struct(o), "catalog options")
}

// DeleteResult reports the outcome of a delete.
type DeleteResult struct {
	DeletedCount int64 `json:"deletedCount"`
}

// Catalog validates o and returns the fixed, ordered list of bookstore operations.
func Catalog(o Options) ([]Operation, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	return []Operation{
		{
			Name:  "all-books",
			Title: "ALL AVAILABLE BOOKS",
			Exec: func(ctx context.Context, svc *book.Service) (interface{}, error) {
				return svc.All(ctx)
			},
		},
		{
			Name:  "modern-books",
			Title: fmt.Sprintf("BOOKS PUBLISHED AFTER %d", o.ModernAfterYear),
			Exec: func(ctx context.Context, svc *book.Service) (interface{}, error) {
				return svc.PublishedAfter(ctx, o.ModernAfterYear)
			},
		},
		{
			Name:  "genre-books",
			Title: strings.ToUpper(o.Genre) + " BOOKS",
			Exec: func(ctx context.Context, svc *book.Service) (interface{}, error) {
				return svc.ByGenre(ctx, o.Genre)
			},
		},
		{
			Name:  "author-books",
			Title: "BOOKS BY " + strings.ToUpper(o.Author),
			Exec: func(ctx context.Context, svc *book.Service) (interface{}, error) {
				return svc.ByAuthor(ctx, o.Author)
			},
		},
		{
			Name:  "delete-by-title",
			Title: "BOOK DELETED",
			Exec: func(ctx context.Context, svc *book.Service) (interface{}, error) {
				n, err := svc.DeleteByTitle(ctx, o.DeleteTitle)
				if err != nil {
					return nil, err
				}
				return DeleteResult{DeletedCount: n}, nil
			},
		},
		{
			Name:  "in-stock-recent",
			Title: fmt.Sprintf("IN STOCK AND PUBLISHED AFTER %d", o.RecentAfterYear),
			Exec: func(ctx context.Context, svc *book.Service) (interface{}, error) {
				return svc.InStockPublishedAfter(ctx, o.RecentAfterYear)
			},
		},
		{
			Name:  "projected-books",
			Title: "PROJECTED BOOKS",
			Exec: func(ctx context.Context, svc *book.Service) (interface{}, error) {
				return svc.Catalog(ctx)
			},
		},
		{
			Name:  "price-ascending",
			Title: "BOOKS BY PRICE - ASCENDING",
			Exec: func(ctx context.Context, svc *book.Service) (interface{}, error) {
				return svc.CatalogByPrice(ctx, false)
			},
		},
		{
			Name:  "price-descending",
			Title: "BOOKS BY PRICE - DESCENDING",
			Exec: func(ctx context.Context, svc *book.Service) (interface{}, error) {
				return svc.CatalogByPrice(ctx, true)
			},
		},
		{
			Name:  "paginated-books",
			Title: fmt.Sprintf("PAGINATED BOOKS (PAGE %d, %d PER PAGE)", o.Page, o.PageSize),
			Exec: func(ctx context.Context, svc *book.Service) (interface{}, error) {
				return svc.CatalogPage(ctx, book.Page{Number: o.Page, Size: o.PageSize})
			},
		},
		{
			Name:  "avg-price-by-genre",
			Title: "Average Price of Books by Genre",
			Exec: func(ctx context.Context, svc *book.Service) (interface{}, error) {
				rows, err := svc.AveragePriceByGenre(ctx)
				if err != nil {
					return nil, err
				}
				t := Table{Header: []string{"_id", "averagePrice", "totalBooks"}}
				for _, r := range rows {
					t.Rows = append(t.Rows, []string{r.Genre, formatPrice(r.AveragePrice), strconv.Itoa(r.TotalBooks)})
				}
				return t, nil
			},
		},
		{
			Name:  "top-author",
			Title: "Author with the Most Books",
			Exec: func(ctx context.Context, svc *book.Service) (interface{}, error) {
				t := Table{Header: []string{"_id", "bookCount"}}
				top, err := svc.TopAuthor(ctx)
				if errors.Is(err, book.ErrNotFound) {
					return t, nil
				}
				if err != nil {
					return nil, err
				}
				t.Rows = [][]string{{top.Author, strconv.Itoa(top.BookCount)}}
				return t, nil
			},
		},
		{
			Name:  "books-by-decade",
			Title: "Books Grouped by Decade",
			Exec: func(ctx context.Context, svc *book.Service) (interface{}, error) {
				rows, err := svc.CountByDecade(ctx)
				if err != nil {
					return nil, err
				}
				t := Table{Header: []string{"_id", "count"}}
				for _, r := range rows {
					t.Rows = append(t.Rows, []string{r.Decade, strconv.Itoa(r.Count)})
				}
				return t, nil
			},
		},
		{
			Name:  "explain-title-before-index",
			Title: fmt.Sprintf("Query performance stats before indexing (title %q)", o.ExplainTitle),
			Exec: func(ctx context.Context, svc *book.Service) (interface{}, error) {
				return svc.ExplainTitle(ctx, o.ExplainTitle)
			},
		},
		{
			Name:  "index-title",
			Title: "Created index on 'title'",
			Exec: func(ctx context.Context, svc *book.Service) (interface{}, error) {
				name, err := svc.IndexTitle(ctx)
				return Message(name), err
			},
		},
		{
			Name:  "index-author-year",
			Title: "Created compound index on 'author + published_year'",
			Exec: func(ctx context.Context, svc *book.Service) (interface{}, error) {
				name, err := svc.IndexAuthorYear(ctx)
				return Message(name), err
			},
		},
		{
			Name:  "explain-title",
			Title: fmt.Sprintf("Query performance stats (title %q)", o.ExplainTitle),
			Exec: func(ctx context.Context, svc *book.Service) (interface{}, error) {
				return svc.ExplainTitle(ctx, o.ExplainTitle)
			},
		},
		{
			Name:  "price-summary",
			Title: "Price Summary",
			Exec: func(ctx context.Context, svc *book.Service) (interface{}, error) {
				t := Table{Header: []string{"count", "min", "max", "mean", "median", "stdDev"}}
				s, err := svc.PriceSummary(ctx)
				if errors.Is(err, book.ErrNotFound) {
					return t, nil
				}
				if err != nil {
					return nil, err
				}
				t.Rows = [][]string{{
					strconv.Itoa(s.Count),
					formatPrice(s.Min),
					formatPrice(s.Max),
					formatPrice(s.Mean),
					formatPrice(s.Median),
					formatPrice(s.StdDev),
				}}
				return t, nil
			},
		},
	}, nil
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
