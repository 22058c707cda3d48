package dataset

// csv.go - column-oriented CSV snapshot loading

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// Load reads a header-row CSV file into a snapshot. The target column, if
// present, is typed ColumnTarget. An unreadable file is the only fatal case;
// malformed cell contents surface later as gate failures, not load errors.
func Load(path, target string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset %s: %w", path, err)
	}
	defer f.Close()

	s, err := Read(f, target)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset %s: %w", path, err)
	}
	return s, nil
}

// Read parses header-row CSV content into a snapshot.
func Read(r io.Reader, target string) (*Snapshot, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty file: missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	var rows [][]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", len(rows)+2, err)
		}
		row := make([]string, len(rec))
		copy(row, rec)
		rows = append(rows, row)
	}

	return New(header, rows, target)
}
