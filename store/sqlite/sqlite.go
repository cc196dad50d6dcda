/*
Package sqlite provides a SQLite-backed record source for the insight engine.

PURPOSE:
  Implements dataset.Source over a SQLite database holding the four
  operational tables (sales, marketing, inventory, unit_economics). The
  engine is strictly read-only against business data: the only write path
  is ImportTable, which exists for bootstrapping a database from CSV
  exports.

KEY TABLES:
  sales:           one row per sale line
  marketing:       one row per (date, channel)
  inventory:       one row per (date, product)
  unit_economics:  one row per product (static cost sheet)

  All columns are stored as TEXT; typing happens in the dataset loader,
  exactly as it does for CSV sources, so both source kinds share one
  validation and parsing path.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. WAL mode keeps concurrent readers
  cheap; the engine never writes during analysis.

USAGE:
  store, err := sqlite.New("./data/insight.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  ctx, err := dataset.Load(store)

SEE ALSO:
  - dataset/source.go: the Source contract
  - dataset/csv.go: the CSV implementation of the same contract
*/
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/insight-engine/dataset"
	"github.com/warp/insight-engine/metric"
)

// Store implements dataset.Source using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New opens a SQLite store at the given path. Use ":memory:" for an
// in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Table reads all rows of the named record set. A missing table is a
// SourceMissingError; an existing empty table is a valid zero-row set.
func (s *Store) Table(name string) (dataset.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !validName(name) {
		return dataset.Table{}, fmt.Errorf("invalid record set name %q", name)
	}

	exists, err := s.tableExists(name)
	if err != nil {
		return dataset.Table{}, err
	}
	if !exists {
		return dataset.Table{}, &metric.SourceMissingError{RecordSet: name, Detail: "no such table"}
	}

	rows, err := s.db.Query(`SELECT * FROM ` + name)
	if err != nil {
		return dataset.Table{}, fmt.Errorf("query %s: %w", name, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return dataset.Table{}, fmt.Errorf("columns of %s: %w", name, err)
	}

	table := dataset.Table{Columns: columns}
	for rows.Next() {
		cells := make([]sql.NullString, len(columns))
		scan := make([]any, len(columns))
		for i := range cells {
			scan[i] = &cells[i]
		}
		if err := rows.Scan(scan...); err != nil {
			return dataset.Table{}, fmt.Errorf("scan %s: %w", name, err)
		}
		row := make([]string, len(columns))
		for i, c := range cells {
			row[i] = c.String
		}
		table.Rows = append(table.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return dataset.Table{}, fmt.Errorf("read %s: %w", name, err)
	}
	return table, nil
}

// ImportTable (re)creates the named table from a raw record set. Bootstrap
// only - analysis never writes.
func (s *Store) ImportTable(name string, t dataset.Table) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !validName(name) {
		return fmt.Errorf("invalid record set name %q", name)
	}
	for _, c := range t.Columns {
		if !validName(c) {
			return fmt.Errorf("invalid column name %q", c)
		}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DROP TABLE IF EXISTS ` + name); err != nil {
		return fmt.Errorf("drop %s: %w", name, err)
	}

	cols := make([]string, len(t.Columns))
	marks := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = `"` + c + `" TEXT`
		marks[i] = "?"
	}
	if _, err := tx.Exec(fmt.Sprintf(`CREATE TABLE %s (%s)`, name, strings.Join(cols, ", "))); err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}

	stmt, err := tx.Prepare(fmt.Sprintf(`INSERT INTO %s VALUES (%s)`, name, strings.Join(marks, ", ")))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, row := range t.Rows {
		args := make([]any, len(t.Columns))
		for i := range t.Columns {
			if i < len(row) {
				args[i] = row[i]
			} else {
				args[i] = ""
			}
		}
		if _, err := stmt.Exec(args...); err != nil {
			return fmt.Errorf("insert into %s: %w", name, err)
		}
	}
	return tx.Commit()
}

func (s *Store) tableExists(name string) (bool, error) {
	var n int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, name,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check table %s: %w", name, err)
	}
	return n > 0, nil
}

// validName guards identifier interpolation: ASCII letters, digits, and
// underscore, not starting with a digit.
func validName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
