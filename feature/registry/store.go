package registry

import (
	"context"
	"errors"
)

// ErrTableNotFound reports a platform table missing from the store. This
// is a configuration error and fatal for the pass.
var ErrTableNotFound = errors.New("table not found")

// CellWrite sets one cell. Row is a data-row index (header excluded);
// positions refer to the table as read, before inserts and sorting.
type CellWrite struct {
	Row   int
	Col   int
	Value string
}

// Mutations is one batched change set for a table. The store applies the
// parts in a fixed order: cell writes first (while row positions from the
// read snapshot are still valid), then top inserts, then the sort.
type Mutations struct {
	SetCells []CellWrite
	// InsertTop rows are placed above all existing data rows, in the
	// given order.
	InsertTop [][]string
	// Sort, when set, re-sorts all data rows after the writes.
	Sort *Sort
}

// Sort orders data rows by the cell text of one column. Timestamp
// columns use a layout that sorts lexicographically, so text comparison
// is chronological.
type Sort struct {
	Col  int
	Desc bool
}

// Empty reports whether applying the mutations would change nothing.
func (m Mutations) Empty() bool {
	return len(m.SetCells) == 0 && len(m.InsertTop) == 0 && m.Sort == nil
}

// Store is the sheet-like persistence behind the registry: named tables
// of string rows with a header row declaring column names.
type Store interface {
	// ReadTable returns the header row and all data rows.
	ReadTable(ctx context.Context, table string) (header []string, rows [][]string, err error)
	// Apply executes one mutation batch against a table.
	Apply(ctx context.Context, table string, m Mutations) error
}
