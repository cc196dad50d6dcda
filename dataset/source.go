package dataset

import (
	"github.com/warp/insight-engine/metric"
)

// =============================================================================
// RAW SOURCE ACCESS
// =============================================================================

// Table is a raw, untyped record set: a header row plus data rows. Produced
// by a Source, consumed by the loader which validates it against
// RequiredColumns and parses it into typed records.
type Table struct {
	Columns []string
	Rows    [][]string
}

// columnIndex maps column name to position, or -1 when absent.
func (t Table) columnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Source provides raw tables for the four record sets by name (SetSales,
// SetMarketing, SetInventory, SetUnitEconomics).
//
// Implementations:
//   - DirSource (csv.go): one CSV file per record set
//   - sqlite.Store (store/sqlite): one table per record set
//
// A Source must return a *metric.SourceMissingError when the underlying
// file/table does not exist. An existing-but-empty source returns a Table
// with columns and zero rows - that is a valid empty record set.
type Source interface {
	Table(name string) (Table, error)
}

// MemorySource serves tables from memory, keyed by record-set name. Used for
// pre-assembled snapshots and in tests.
type MemorySource map[string]Table

func (s MemorySource) Table(name string) (Table, error) {
	t, ok := s[name]
	if !ok {
		return Table{}, &metric.SourceMissingError{RecordSet: name, Detail: "not present in memory source"}
	}
	return t, nil
}
