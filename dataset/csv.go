package dataset

// CSV directory source. One file per record set: sales.csv, marketing.csv,
// inventory.csv, unit_economics.csv. The reader only deals in raw cells;
// typing and validation happen in the loader.

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/warp/insight-engine/metric"
)

// DirSource reads the four record sets from CSV files in a directory.
type DirSource struct {
	Dir string
}

// NewDirSource points at a data directory.
func NewDirSource(dir string) *DirSource { return &DirSource{Dir: dir} }

// Table reads <dir>/<name>.csv. A missing file is a SourceMissingError; a
// file with only a header row is a valid empty record set.
func (s *DirSource) Table(name string) (Table, error) {
	path := filepath.Join(s.Dir, name+".csv")

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Table{}, &metric.SourceMissingError{RecordSet: name, Detail: path}
		}
		return Table{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // ragged rows surface as short cells, not reader errors

	header, err := r.Read()
	if err == io.EOF {
		// Zero-byte file: no header means no schema.
		return Table{}, &metric.SourceMissingError{RecordSet: name, Detail: path + " is empty"}
	}
	if err != nil {
		return Table{}, fmt.Errorf("read %s header: %w", path, err)
	}

	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(h)
	}

	var rows [][]string
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Table{}, fmt.Errorf("read %s: %w", path, err)
		}
		rows = append(rows, row)
	}

	return Table{Columns: columns, Rows: rows}, nil
}
