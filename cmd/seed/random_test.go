package main

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomBooks(t *testing.T) {
	books := randomBooks(rand.New(rand.NewSource(42)), 50)
	require.Len(t, books, 50)

	for i, b := range books {
		assert.True(t, strings.HasPrefix(b.Title, "Book Title "), b.Title)
		assert.NotEmpty(t, b.Author)
		assert.Contains(t, genres, b.Genre)
		assert.Contains(t, publishers, b.Publisher)
		assert.GreaterOrEqual(t, b.PublishedYear, 1950, "book %d", i)
		assert.Less(t, b.PublishedYear, 2025, "book %d", i)
		assert.GreaterOrEqual(t, b.Price, 4.99)
		assert.LessOrEqual(t, b.Price, 29.99)
		assert.GreaterOrEqual(t, b.Pages, 100)
		require.NotNil(t, b.InStock)
	}

	again := randomBooks(rand.New(rand.NewSource(42)), 50)
	assert.Equal(t, books, again)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"fantasy", "science fiction"}, splitList(" fantasy, ,science fiction,"))
	assert.Nil(t, splitList(""))
}
