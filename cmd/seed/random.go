package main

import (
	"fmt"
	"math"
	"math/rand"

	"bookstore/internal/book"
)

var (
	genres     = []string{"Fiction", "Science Fiction", "History", "Science", "Technology", "Romance", "Mystery", "Biography", "Philosophy", "Art"}
	publishers = []string{"Penguin", "HarperCollins", "Oxford", "Cambridge", "MIT Press", "Springer", "Wiley", "Elsevier"}
	authors    = []string{"Ada Lane", "Brook Ellis", "Carmen Ruiz", "Dev Patel", "Eun-ji Park", "Femi Adeyemi", "Greta Holm", "Hiro Tanaka"}
)

// randomBooks generates n filler books. Titles are numbered so they never
// collide with the fixture.
func randomBooks(r *rand.Rand, n int) []book.Book {
	out := make([]book.Book, 0, n)
	for i := 0; i < n; i++ {
		inStock := r.Intn(4) != 0
		out = append(out, book.Book{
			Title:         fmt.Sprintf("Book Title %d - %s", i+1, getRandomWord(r)),
			Author:        authors[r.Intn(len(authors))],
			Genre:         genres[r.Intn(len(genres))],
			PublishedYear: 1950 + r.Intn(75),
			Price:         math.Round((4.99+r.Float64()*25)*100) / 100,
			InStock:       &inStock,
			Pages:         100 + r.Intn(800),
			Publisher:     publishers[r.Intn(len(publishers))],
		})
	}
	return out
}

func getRandomWord(r *rand.Rand) string {
	words := []string{
		"Adventure", "Mystery", "Journey", "Discovery", "Secrets", "Dreams", "Hope",
		"Love", "War", "Peace", "Science", "Nature", "Technology", "History", "Future",
		"Past", "Present", "Reality", "Imagination", "Wisdom", "Life", "Death",
		"Light", "Darkness", "World", "Universe", "Time", "Space", "Mind", "Soul",
	}
	return words[r.Intn(len(words))]
}
