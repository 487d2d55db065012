// Package snapshotcsv implements the snapshot-store repositories over the
// directory of weekly CSV exports written by the collector. The store is
// append-only: readers never mutate files, so concurrent reads need no
// locking.
package snapshotcsv

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	crerr "github.com/cockroachdb/errors"

	"github.com/americascouted/ncaa-stats/internal/platform/logging"
)

const (
	playersSubdir = "Players"
	matchesSubdir = "Matches"
)

// Store anchors the repositories at a snapshot data directory containing
// Players/ and Matches/ subdirectories.
type Store struct {
	dataDir string
	logger  *logging.Logger
}

func NewStore(dataDir string, logger *logging.Logger) *Store {
	if logger == nil {
		logger = logging.Default()
	}
	return &Store{
		dataDir: strings.TrimRight(dataDir, "/"),
		logger:  logger,
	}
}

func (s *Store) playersDir() string { return s.dataDir + "/" + playersSubdir }
func (s *Store) matchesDir() string { return s.dataDir + "/" + matchesSubdir }

// table is a loaded CSV file: cleaned header names mapped to column index,
// plus the raw records.
type table struct {
	columns map[string]int
	rows    [][]string
}

func (t *table) hasColumn(name string) bool {
	_, ok := t.columns[name]
	return ok
}

func (t *table) cell(row []string, column string) string {
	idx, ok := t.columns[column]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// intCell coerces a numeric cell, treating blanks and junk as zero.
func (t *table) intCell(row []string, column string) int {
	raw := t.cell(row, column)
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return int(v)
}

// readTable loads a whole CSV file. exists is false when the file is absent,
// which callers treat as "no snapshot that week", never as an error.
func readTable(path string) (*table, bool, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, crerr.Wrapf(err, "open snapshot %q", path)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return &table{columns: map[string]int{}}, true, nil
		}
		return nil, false, crerr.Wrapf(err, "read snapshot header %q", path)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		clean := strings.ReplaceAll(strings.TrimSpace(name), `"`, "")
		if clean == "" {
			continue
		}
		if _, dup := columns[clean]; !dup {
			columns[clean] = i
		}
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Per-row breakage is absorbed; the rest of the file still loads.
			continue
		}
		rows = append(rows, record)
	}

	return &table{columns: columns, rows: rows}, true, nil
}

// genderFileToken maps the API gender value to the filename prefix used by
// the collector ("men" -> "mens").
func genderFileToken(gender string) string {
	g := strings.ToLower(strings.TrimSpace(gender))
	if g == "men" || g == "women" {
		return g + "s"
	}
	return g
}
