package week

import "context"

// Repository describes week-index discovery over the snapshot store.
type Repository interface {
	// ListWeeks returns every discovered snapshot week ascending by date.
	// Unparsable filenames are skipped; a missing snapshot directory yields
	// an empty slice, not an error.
	ListWeeks(ctx context.Context) ([]Marker, error)
	// Invalidate drops the cached index so the next ListWeeks rescans disk.
	Invalidate(ctx context.Context)
}
