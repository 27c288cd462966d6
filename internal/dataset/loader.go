// Package dataset loads the accident CSV into an immutable in-memory snapshot.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"

	"accidentdash/internal/domain"
)

// Snapshot is the fully-loaded dataset. It is built once at startup and
// shared read-only across all requests; no locking is needed because no
// writer exists after Load returns.
type Snapshot struct {
	ID       string
	Records  []domain.Record
	States   []string // sorted distinct state codes
	Years    []int    // sorted distinct start years
	LoadedAt time.Time
	Skipped  int // rows dropped for missing/unparseable fields
}

// YearBounds returns the earliest and latest years present in the snapshot.
// Both are zero for an empty snapshot.
func (s *Snapshot) YearBounds() (minYear, maxYear int) {
	if len(s.Years) == 0 {
		return 0, 0
	}
	return s.Years[0], s.Years[len(s.Years)-1]
}

// Load reads the accident CSV at path into a Snapshot. maxRows caps the
// number of data rows read; zero or negative means load everything.
// A missing file or a header without the required columns is an error —
// startup fails rather than serving a partial dashboard. Individual rows
// that fail to parse are skipped and counted.
func Load(path string, maxRows int, logger *slog.Logger) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	snap, err := read(f, maxRows)
	if err != nil {
		return nil, fmt.Errorf("load dataset %s: %w", path, err)
	}

	logger.Info("dataset loaded",
		"path", path,
		"rows", len(snap.Records),
		"skipped", snap.Skipped,
		"states", len(snap.States),
		"years", len(snap.Years),
	)
	return snap, nil
}

func read(r io.Reader, maxRows int) (*Snapshot, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	colIdx := make(map[string]int, len(header))
	for i, h := range header {
		colIdx[h] = i
	}

	var missing []string
	for _, col := range domain.RequiredColumns {
		if _, ok := colIdx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %v", missing)
	}

	var (
		records []domain.Record
		skipped int
	)
	stateSet := map[string]struct{}{}
	yearSet := map[int]struct{}{}

	for maxRows <= 0 || len(records)+skipped < maxRows {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		fields := make(map[string]string, len(domain.RequiredColumns))
		for _, col := range domain.RequiredColumns {
			idx := colIdx[col]
			if idx < len(row) {
				fields[col] = row[idx]
			}
		}

		rec, err := domain.ParseRow(fields)
		if err != nil {
			skipped++
			continue
		}

		records = append(records, rec)
		stateSet[rec.State] = struct{}{}
		yearSet[rec.Year()] = struct{}{}
	}

	states := make([]string, 0, len(stateSet))
	for s := range stateSet {
		states = append(states, s)
	}
	sort.Strings(states)

	years := make([]int, 0, len(yearSet))
	for y := range yearSet {
		years = append(years, y)
	}
	sort.Ints(years)

	return &Snapshot{
		ID:       uuid.NewString(),
		Records:  records,
		States:   states,
		Years:    years,
		LoadedAt: domain.Now(),
		Skipped:  skipped,
	}, nil
}
