// Package ingest turns Open Library subject searches into bookstore documents
// for the seed command.
package ingest

import (
	"context"
	"math"
	"strings"

	"bookstore/internal/book"
	"bookstore/internal/platform/openlibrary"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type Config struct {
	Subjects   []string
	PerSubject int
}

type OpenLibraryClient interface {
	SearchBooks(ctx context.Context, subject string, limit int) (*openlibrary.SearchResponse, error)
}

type Service struct {
	olClient OpenLibraryClient
	cfg      Config
	log      logrus.FieldLogger
}

func NewService(olClient OpenLibraryClient, cfg Config, log logrus.FieldLogger) *Service {
	return &Service{olClient: olClient, cfg: cfg, log: log}
}

// Fetch searches every configured subject and returns the usable results,
// deduplicated by title and author, in subject order.
func (s *Service) Fetch(ctx context.Context) ([]book.Book, error) {
	if s.cfg.PerSubject <= 0 {
		return nil, errors.Errorf("per-subject limit must be positive, got %d", s.cfg.PerSubject)
	}

	seen := make(map[string]bool)
	var out []book.Book
	for _, subject := range s.cfg.Subjects {
		subject = strings.TrimSpace(subject)
		if subject == "" {
			continue
		}

		res, err := s.olClient.SearchBooks(ctx, subject, s.cfg.PerSubject)
		if err != nil {
			return nil, err
		}

		added := 0
		for _, doc := range res.Docs {
			b, ok := toBook(subject, doc)
			if !ok {
				continue
			}
			key := strings.ToLower(b.Title + "\x00" + b.Author)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, b)
			added++
		}

		s.log.WithFields(logrus.Fields{
			"subject": subject,
			"found":   res.NumFound,
			"added":   added,
		}).Info("open library subject fetched")
	}
	return out, nil
}

func toBook(subject string, doc openlibrary.SearchDoc) (book.Book, bool) {
	title := strings.TrimSpace(doc.Title)
	if title == "" || len(doc.AuthorNames) == 0 || doc.FirstPublishYear == 0 {
		return book.Book{}, false
	}

	inStock := doc.PagesMedian > 0
	b := book.Book{
		Title:         title,
		Author:        strings.TrimSpace(doc.AuthorNames[0]),
		Genre:         genreFor(subject),
		PublishedYear: doc.FirstPublishYear,
		Price:         priceFor(doc.PagesMedian),
		InStock:       &inStock,
		Pages:         doc.PagesMedian,
	}
	if len(doc.Publishers) > 0 {
		b.Publisher = doc.Publishers[0]
	}
	return b, true
}

// genreFor title-cases a subject: "science fiction" -> "Science Fiction".
func genreFor(subject string) string {
	words := strings.Fields(strings.ReplaceAll(subject, "_", " "))
	return cases.Title(language.English).String(strings.Join(words, " "))
}

// Open Library carries no prices; derive a stable one from the page count.
func priceFor(pages int) float64 {
	if pages <= 0 {
		return 9.99
	}
	p := 4.99 + float64(pages)/50
	if p > 29.99 {
		p = 29.99
	}
	return math.Round(p*100) / 100
}
