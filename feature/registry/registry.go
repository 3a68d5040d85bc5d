package registry

import (
	"context"
	"fmt"
	"time"
)

// Registry is a read snapshot of one platform table plus the batched
// write path back to it. Components inspect the snapshot and return
// intended mutations; Apply is the single place that touches the store.
//
// A Registry is single-use per pass: after Apply the snapshot is stale
// and the table must be re-opened to observe the new state.
type Registry struct {
	store Store
	table string
	loc   *time.Location

	header []string
	ix     Index
	rows   [][]string
	keyRow map[string]int
}

// Open reads a platform table and resolves its column index. A missing
// table surfaces as ErrTableNotFound.
func Open(ctx context.Context, store Store, table string, loc *time.Location) (*Registry, error) {
	header, rows, err := store.ReadTable(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("failed to open table %q: %w", table, err)
	}

	r := &Registry{
		store:  store,
		table:  table,
		loc:    loc,
		header: header,
		ix:     ResolveIndex(header),
		rows:   rows,
	}

	if idCol, ok := r.ix[ColReservationID]; ok {
		r.keyRow = make(map[string]int, len(rows))
		for i, row := range rows {
			if idCol >= len(row) || row[idCol] == "" {
				continue
			}
			if _, dup := r.keyRow[row[idCol]]; dup {
				continue
			}
			r.keyRow[row[idCol]] = i
		}
	}

	return r, nil
}

// Table returns the table name.
func (r *Registry) Table() string { return r.table }

// Location returns the table's display time zone.
func (r *Registry) Location() *time.Location { return r.loc }

// Index returns the resolved column index.
func (r *Registry) Index() Index { return r.ix }

// Width returns the header width; inserted rows must match it.
func (r *Registry) Width() int { return len(r.header) }

// Require verifies the table carries every named column.
func (r *Registry) Require(cols ...string) error {
	if err := r.ix.Require(cols...); err != nil {
		return fmt.Errorf("table %q: %w", r.table, err)
	}
	return nil
}

// Rows returns the snapshot's data rows. Callers must not mutate them.
func (r *Registry) Rows() [][]string { return r.rows }

// RowForID returns the data-row index holding the given reservation ID.
func (r *Registry) RowForID(id string) (int, bool) {
	row, ok := r.keyRow[id]
	return row, ok
}

// Cell returns one cell of the snapshot by logical column name. Missing
// columns and short rows read as empty.
func (r *Registry) Cell(row int, col string) string {
	i, ok := r.ix[col]
	if !ok || row < 0 || row >= len(r.rows) || i >= len(r.rows[row]) {
		return ""
	}
	return r.rows[row][i]
}

// Record returns one snapshot row in typed form.
func (r *Registry) Record(row int) Record {
	if row < 0 || row >= len(r.rows) {
		return Record{}
	}
	return RecordFromRow(r.rows[row], r.ix, r.loc)
}

// SetCell builds a cell write for the mutation batch. It resolves the
// logical column against this table's index.
func (r *Registry) SetCell(row int, col, value string) (CellWrite, error) {
	i, ok := r.ix[col]
	if !ok {
		return CellWrite{}, fmt.Errorf("table %q: %w", r.table, &MissingColumnError{Column: col})
	}
	return CellWrite{Row: row, Col: i, Value: value}, nil
}

// SortByBookedAt builds the chronological re-sort for the mutation
// batch, newest booking first.
func (r *Registry) SortByBookedAt() (*Sort, error) {
	i, ok := r.ix[ColBookedAt]
	if !ok {
		return nil, fmt.Errorf("table %q: %w", r.table, &MissingColumnError{Column: ColBookedAt})
	}
	return &Sort{Col: i, Desc: true}, nil
}

// Apply executes one mutation batch. Empty batches skip the store
// round-trip.
func (r *Registry) Apply(ctx context.Context, m Mutations) error {
	if m.Empty() {
		return nil
	}
	if err := r.store.Apply(ctx, r.table, m); err != nil {
		return fmt.Errorf("failed to apply mutations to table %q: %w", r.table, err)
	}
	return nil
}
