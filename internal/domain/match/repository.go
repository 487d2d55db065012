package match

import "context"

// Repository loads raw weekly match rows from the snapshot store.
type Repository interface {
	// ListRows returns every fixture row for the gender across the given
	// week codes, in week order then file order. Missing weekly files are
	// skipped.
	ListRows(ctx context.Context, gender string, weekCodes []string) ([]SnapshotRow, error)
}
