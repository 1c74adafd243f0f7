package queryrunner

import (
	"context"
	"testing"

	"bookstore/internal/book"
	"bookstore/internal/fixture"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_Order(t *testing.T) {
	ops, err := Catalog(DefaultOptions())
	require.NoError(t, err)

	var names []string
	seen := map[string]bool{}
	for _, op := range ops {
		assert.False(t, seen[op.Name], "duplicate operation %s", op.Name)
		seen[op.Name] = true
		assert.NotEmpty(t, op.Title)
		assert.NotNil(t, op.Exec)
		names = append(names, op.Name)
	}

	assert.Equal(t, []string{
		"all-books",
		"modern-books",
		"genre-books",
		"author-books",
		"delete-by-title",
		"in-stock-recent",
		"projected-books",
		"price-ascending",
		"price-descending",
		"paginated-books",
		"avg-price-by-genre",
		"top-author",
		"books-by-decade",
		"explain-title-before-index",
		"index-title",
		"index-author-year",
		"explain-title",
		"price-summary",
	}, names)
}

func TestCatalog_UsesOptions(t *testing.T) {
	ctx := context.Background()
	opts := DefaultOptions()
	opts.Genre = "Fantasy"
	opts.Author = "George Orwell"
	opts.DeleteTitle = "Moby Dick"
	opts.Page = 1
	opts.PageSize = 3

	list, err := Catalog(opts)
	require.NoError(t, err)
	ops := map[string]Operation{}
	for _, op := range list {
		ops[op.Name] = op
	}
	repo := book.NewMemoryRepo(fixture.Books())
	svc := book.NewService(repo)

	t.Run("genre", func(t *testing.T) {
		assert.Equal(t, "FANTASY BOOKS", ops["genre-books"].Title)
		res, err := ops["genre-books"].Exec(ctx, svc)
		require.NoError(t, err)
		assert.Len(t, res.([]book.Book), 2)
	})

	t.Run("author", func(t *testing.T) {
		assert.Equal(t, "BOOKS BY GEORGE ORWELL", ops["author-books"].Title)
		res, err := ops["author-books"].Exec(ctx, svc)
		require.NoError(t, err)
		assert.Len(t, res.([]book.Book), 2)
	})

	t.Run("page", func(t *testing.T) {
		res, err := ops["paginated-books"].Exec(ctx, svc)
		require.NoError(t, err)
		assert.Len(t, res.([]book.Book), 3)
	})

	t.Run("delete", func(t *testing.T) {
		res, err := ops["delete-by-title"].Exec(ctx, svc)
		require.NoError(t, err)
		assert.Equal(t, DeleteResult{DeletedCount: 1}, res)
		assert.Equal(t, 11, repo.Len())
	})

	t.Run("tables", func(t *testing.T) {
		res, err := ops["top-author"].Exec(ctx, svc)
		require.NoError(t, err)
		assert.Equal(t, Table{
			Header: []string{"_id", "bookCount"},
			Rows:   [][]string{{"George Orwell", "2"}},
		}, res)

		res, err = ops["avg-price-by-genre"].Exec(ctx, svc)
		require.NoError(t, err)
		table := res.(Table)
		assert.Equal(t, []string{"Fantasy", "17.49", "2"}, table.Rows[0])
	})

	t.Run("index names", func(t *testing.T) {
		res, err := ops["index-title"].Exec(ctx, svc)
		require.NoError(t, err)
		assert.Equal(t, Message("title_1"), res)
	})
}

func TestOptions_Validate(t *testing.T) {
	assert.NoError(t, DefaultOptions().Validate())

	cases := map[string]func(*Options){
		"page zero":       func(o *Options) { o.Page = 0 },
		"page size zero":  func(o *Options) { o.PageSize = 0 },
		"page size huge":  func(o *Options) { o.PageSize = 5000 },
		"missing genre":   func(o *Options) { o.Genre = "" },
		"missing title":   func(o *Options) { o.DeleteTitle = "" },
		"negative year":   func(o *Options) { o.ModernAfterYear = -1 },
		"missing explain": func(o *Options) { o.ExplainTitle = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			o := DefaultOptions()
			mutate(&o)
			assert.Error(t, o.Validate())

			ops, err := Catalog(o)
			assert.Error(t, err)
			assert.Nil(t, ops)
		})
	}
}

func TestCatalog_EmptyCollection(t *testing.T) {
	ctx := context.Background()
	list, err := Catalog(DefaultOptions())
	require.NoError(t, err)
	ops := map[string]Operation{}
	for _, op := range list {
		ops[op.Name] = op
	}
	svc := book.NewService(book.NewMemoryRepo(nil))

	res, err := ops["top-author"].Exec(ctx, svc)
	require.NoError(t, err)
	assert.Equal(t, Table{Header: []string{"_id", "bookCount"}}, res)

	res, err = ops["price-summary"].Exec(ctx, svc)
	require.NoError(t, err)
	assert.Empty(t, res.(Table).Rows)
	assert.Len(t, res.(Table).Header, 6)
}
