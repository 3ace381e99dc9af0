package store

import "math"

const (
	MaxPageSize = 100
	// MaxPageNumber keeps Offset within int for any accepted size.
	MaxPageNumber = math.MaxInt / MaxPageSize
)

// Page selects a 1-based page of a listing.
type Page struct {
	Number int
	Size   int
}

// Normalize fills defaults and clamps the number and size to their maxima.
func (p Page) Normalize(defaultSize int) Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Number > MaxPageNumber {
		p.Number = MaxPageNumber
	}
	if p.Size < 1 {
		p.Size = defaultSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}
