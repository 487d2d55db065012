package player

import "context"

// Repository loads raw weekly snapshot rows from the snapshot store.
type Repository interface {
	// ListRows returns every row from the snapshot for the given gender and
	// week code. A missing file is not an error: the slice is empty and ok
	// is false.
	ListRows(ctx context.Context, gender, weekCode string) (rows []SnapshotRow, ok bool, err error)
}
