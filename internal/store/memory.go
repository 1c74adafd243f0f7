package store

import (
	"context"
	"sync/atomic"

	"bookstore/internal/book"
)

// MemorySession serves an in-process copy of a book list. It needs no server
// and is used for dry runs.
type MemorySession struct {
	repo   *book.MemoryRepo
	closed atomic.Bool
}

func OpenMemory(books []book.Book) *MemorySession {
	return &MemorySession{repo: book.NewMemoryRepo(books)}
}

func (s *MemorySession) Books() book.Repository {
	return s.repo
}

func (s *MemorySession) Close(context.Context) error {
	s.closed.Store(true)
	return nil
}

// Closed reports whether Close has been called.
func (s *MemorySession) Closed() bool {
	return s.closed.Load()
}
