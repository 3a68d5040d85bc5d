package registry

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is an in-memory Store for tests and local runs.
type MemoryStore struct {
	mu     sync.Mutex
	tables map[string]*memTable
}

type memTable struct {
	header []string
	rows   [][]string
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tables: make(map[string]*memTable)}
}

// CreateTable adds an empty table with the given header.
func (s *MemoryStore) CreateTable(table string, header []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[table] = &memTable{header: append([]string(nil), header...)}
}

// SeedRows appends data rows to an existing table.
func (s *MemoryStore) SeedRows(table string, rows ...[]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.tables[table]
	for _, row := range rows {
		t.rows = append(t.rows, append([]string(nil), row...))
	}
}

func (s *MemoryStore) ReadTable(_ context.Context, table string) ([]string, [][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tables[table]
	if !ok {
		return nil, nil, ErrTableNotFound
	}
	header := append([]string(nil), t.header...)
	rows := make([][]string, len(t.rows))
	for i, row := range t.rows {
		rows[i] = append([]string(nil), row...)
	}
	return header, rows, nil
}

func (s *MemoryStore) Apply(_ context.Context, table string, m Mutations) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tables[table]
	if !ok {
		return ErrTableNotFound
	}
	t.rows = applyMutations(t.rows, m)
	return nil
}

// applyMutations executes one batch against a row set: cell writes while
// pre-insert positions are valid, then top inserts, then the sort.
func applyMutations(rows [][]string, m Mutations) [][]string {
	for _, w := range m.SetCells {
		if w.Row < 0 || w.Row >= len(rows) {
			continue
		}
		row := rows[w.Row]
		for len(row) <= w.Col {
			row = append(row, "")
		}
		row[w.Col] = w.Value
		rows[w.Row] = row
	}

	if len(m.InsertTop) > 0 {
		inserted := make([][]string, 0, len(m.InsertTop)+len(rows))
		for _, row := range m.InsertTop {
			inserted = append(inserted, append([]string(nil), row...))
		}
		rows = append(inserted, rows...)
	}

	if m.Sort != nil {
		col := m.Sort.Col
		cell := func(row []string) string {
			if col >= len(row) {
				return ""
			}
			return row[col]
		}
		sort.SliceStable(rows, func(i, j int) bool {
			if m.Sort.Desc {
				return cell(rows[i]) > cell(rows[j])
			}
			return cell(rows[i]) < cell(rows[j])
		})
	}

	return rows
}
