package book

import (
	"github.com/pkg/errors"
)

// Page addresses one fixed-size slice of an ordered result. Numbers start at 1.
type Page struct {
	Number int
	Size   int
}

// Validate rejects page numbers and sizes below 1.
func (p Page) Validate() error {
	if p.Number < 1 {
		return errors.Wrapf(ErrInvalidQuery, "page number %d", p.Number)
	}
	if p.Size < 1 {
		return errors.Wrapf(ErrInvalidQuery, "page size %d", p.Size)
	}
	return nil
}

// Skip is the number of documents before the page.
func (p Page) Skip() int64 {
	return int64(p.Number-1) * int64(p.Size)
}

// Limit is the maximum number of documents on the page.
func (p Page) Limit() int64 {
	return int64(p.Size)
}
