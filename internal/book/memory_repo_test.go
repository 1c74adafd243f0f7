package book_test

import (
	"context"
	"testing"

	"bookstore/internal/book"
	"bookstore/internal/fixture"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFixtureService() (*book.Service, *book.MemoryRepo) {
	repo := book.NewMemoryRepo(fixture.Books())
	return book.NewService(repo), repo
}

func titles(books []book.Book) []string {
	out := make([]string, 0, len(books))
	for _, b := range books {
		out = append(out, b.Title)
	}
	return out
}

func TestMemoryRepo_Reads(t *testing.T) {
	ctx := context.Background()
	svc, _ := newFixtureService()

	t.Run("all books", func(t *testing.T) {
		books, err := svc.All(ctx)
		require.NoError(t, err)
		assert.Len(t, books, 12)
		for _, b := range books {
			assert.NotNil(t, b.ID)
		}
	})

	t.Run("published after 1900", func(t *testing.T) {
		books, err := svc.PublishedAfter(ctx, 1900)
		require.NoError(t, err)
		assert.Len(t, books, 9)
		assert.NotContains(t, titles(books), "Pride and Prejudice")
		assert.NotContains(t, titles(books), "Moby Dick")
	})

	t.Run("fiction excludes gothic fiction", func(t *testing.T) {
		books, err := svc.ByGenre(ctx, "Fiction")
		require.NoError(t, err)
		assert.Equal(t, []string{
			"To Kill a Mockingbird",
			"The Great Gatsby",
			"The Catcher in the Rye",
			"The Alchemist",
		}, titles(books))
	})

	t.Run("by author", func(t *testing.T) {
		books, err := svc.ByAuthor(ctx, "Harper Lee")
		require.NoError(t, err)
		assert.Equal(t, []string{"To Kill a Mockingbird"}, titles(books))
	})

	t.Run("in stock and recent", func(t *testing.T) {
		books, err := svc.InStockPublishedAfter(ctx, 2010)
		require.NoError(t, err)
		assert.Empty(t, books)

		books, err = svc.InStockPublishedAfter(ctx, 1940)
		require.NoError(t, err)
		assert.Equal(t, []string{
			"To Kill a Mockingbird",
			"1984",
			"The Catcher in the Rye",
			"The Lord of the Rings",
			"The Alchemist",
		}, titles(books))
	})

	t.Run("catalog projection", func(t *testing.T) {
		books, err := svc.Catalog(ctx)
		require.NoError(t, err)
		require.Len(t, books, 12)
		first := books[0]
		assert.Nil(t, first.ID)
		assert.Equal(t, "To Kill a Mockingbird", first.Title)
		assert.Equal(t, "Harper Lee", first.Author)
		assert.Equal(t, 12.99, first.Price)
		assert.Empty(t, first.Genre)
		assert.Nil(t, first.InStock)
		assert.Zero(t, first.PublishedYear)
	})

	t.Run("price ascending and descending", func(t *testing.T) {
		asc, err := svc.CatalogByPrice(ctx, false)
		require.NoError(t, err)
		desc, err := svc.CatalogByPrice(ctx, true)
		require.NoError(t, err)

		assert.Equal(t, "Pride and Prejudice", asc[0].Title)
		assert.Equal(t, "The Lord of the Rings", asc[len(asc)-1].Title)
		assert.Equal(t, "The Lord of the Rings", desc[0].Title)
		for i := 1; i < len(asc); i++ {
			assert.LessOrEqual(t, asc[i-1].Price, asc[i].Price)
			assert.GreaterOrEqual(t, desc[i-1].Price, desc[i].Price)
		}
	})

	t.Run("second page of five", func(t *testing.T) {
		books, err := svc.CatalogPage(ctx, book.Page{Number: 2, Size: 5})
		require.NoError(t, err)
		assert.Equal(t, []string{
			"The Catcher in the Rye",
			"Pride and Prejudice",
			"The Lord of the Rings",
			"Animal Farm",
			"The Alchemist",
		}, titles(books))
	})

	t.Run("page past the end", func(t *testing.T) {
		books, err := svc.CatalogPage(ctx, book.Page{Number: 4, Size: 5})
		require.NoError(t, err)
		assert.Empty(t, books)
	})
}

func TestMemoryRepo_Aggregations(t *testing.T) {
	ctx := context.Background()
	svc, _ := newFixtureService()

	t.Run("average price by genre", func(t *testing.T) {
		rows, err := svc.AveragePriceByGenre(ctx)
		require.NoError(t, err)
		require.Len(t, rows, 7)

		assert.Equal(t, "Fantasy", rows[0].Genre)
		assert.InDelta(t, 17.49, rows[0].AveragePrice, 1e-9)
		assert.Equal(t, 2, rows[0].TotalBooks)
		assert.Equal(t, "Romance", rows[6].Genre)

		var total int
		for i, r := range rows {
			total += r.TotalBooks
			if i > 0 {
				assert.GreaterOrEqual(t, rows[i-1].AveragePrice, r.AveragePrice)
			}
		}
		assert.Equal(t, 12, total)
	})

	t.Run("top author breaks ties by name", func(t *testing.T) {
		top, err := svc.TopAuthor(ctx)
		require.NoError(t, err)
		assert.Equal(t, book.AuthorCount{Author: "George Orwell", BookCount: 2}, top)
	})

	t.Run("books by decade", func(t *testing.T) {
		rows, err := svc.CountByDecade(ctx)
		require.NoError(t, err)
		assert.Equal(t, []book.DecadeCount{
			{Decade: "1810s", Count: 1},
			{Decade: "1840s", Count: 1},
			{Decade: "1850s", Count: 1},
			{Decade: "1920s", Count: 1},
			{Decade: "1930s", Count: 2},
			{Decade: "1940s", Count: 2},
			{Decade: "1950s", Count: 2},
			{Decade: "1960s", Count: 1},
			{Decade: "1980s", Count: 1},
		}, rows)
	})

	t.Run("price summary", func(t *testing.T) {
		summary, err := svc.PriceSummary(ctx)
		require.NoError(t, err)
		assert.Equal(t, 12, summary.Count)
		assert.Equal(t, 7.99, summary.Min)
		assert.Equal(t, 19.99, summary.Max)
		assert.InDelta(t, 11.6175, summary.Mean, 1e-9)
		assert.InDelta(t, 10.99, summary.Median, 1e-9)
		assert.Greater(t, summary.StdDev, 0.0)
	})
}

func TestMemoryRepo_DeleteRemovesAtMostOne(t *testing.T) {
	ctx := context.Background()
	repo := book.NewMemoryRepo(append(fixture.Books(), fixture.Books()[3]))
	svc := book.NewService(repo)
	require.Equal(t, 13, repo.Len())

	n, err := svc.DeleteByTitle(ctx, "Brave New World")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, 12, repo.Len())

	n, err = svc.DeleteByTitle(ctx, "Brave New World")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = svc.DeleteByTitle(ctx, "Brave New World")
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
	assert.Equal(t, 11, repo.Len())
}

func TestMemoryRepo_IndexesChangePlan(t *testing.T) {
	ctx := context.Background()
	svc, repo := newFixtureService()

	before, err := svc.ExplainTitle(ctx, "The Lord of the Rings")
	require.NoError(t, err)
	assert.Equal(t, []string{"COLLSCAN"}, before.Stages)
	assert.Equal(t, int64(1), before.NReturned)
	assert.Equal(t, int64(12), before.TotalDocsExamined)
	assert.Equal(t, int64(0), before.TotalKeysExamined)
	assert.False(t, before.UsedIndex())

	name, err := svc.IndexTitle(ctx)
	require.NoError(t, err)
	assert.Equal(t, "title_1", name)

	name, err = svc.IndexAuthorYear(ctx)
	require.NoError(t, err)
	assert.Equal(t, "author_1_published_year_1", name)

	_, err = svc.IndexTitle(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"title_1", "author_1_published_year_1"}, repo.Indexes())

	after, err := svc.ExplainTitle(ctx, "The Lord of the Rings")
	require.NoError(t, err)
	assert.Equal(t, []string{"FETCH", "IXSCAN"}, after.Stages)
	assert.Equal(t, int64(1), after.TotalDocsExamined)
	assert.Equal(t, int64(1), after.TotalKeysExamined)
	assert.True(t, after.UsedIndex())
}

func TestMemoryRepo_Deterministic(t *testing.T) {
	ctx := context.Background()

	run := func() ([]book.Book, []book.GenreStats, []book.DecadeCount) {
		svc, _ := newFixtureService()
		books, err := svc.CatalogByPrice(ctx, false)
		require.NoError(t, err)
		genres, err := svc.AveragePriceByGenre(ctx)
		require.NoError(t, err)
		decades, err := svc.CountByDecade(ctx)
		require.NoError(t, err)
		return books, genres, decades
	}

	b1, g1, d1 := run()
	b2, g2, d2 := run()
	assert.Equal(t, b1, b2)
	assert.Equal(t, g1, g2)
	assert.Equal(t, d1, d2)
}

func TestMemoryRepo_SparseBooks(t *testing.T) {
	ctx := context.Background()
	svc := book.NewService(book.NewMemoryRepo([]book.Book{
		{Title: "Free Pamphlet", Author: "Anon", Genre: "Essay", Price: 0, PublishedYear: 1921},
		{Title: "Essay Collection", Author: "Anon", Genre: "Essay", Price: 10},
	}))

	genres, err := svc.AveragePriceByGenre(ctx)
	require.NoError(t, err)
	assert.Equal(t, []book.GenreStats{{Genre: "Essay", AveragePrice: 5, TotalBooks: 2}}, genres)

	decades, err := svc.CountByDecade(ctx)
	require.NoError(t, err)
	assert.Equal(t, []book.DecadeCount{{Decade: "1920s", Count: 1}}, decades)
}
