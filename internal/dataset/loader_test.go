package dataset_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"accidentdash/internal/dataset"
	"accidentdash/internal/domain"
)

const csvHeader = "Severity,State,Start_Time,Start_Lat,Start_Lng,Visibility(mi),Temperature(F),Wind_Speed(mph),Weather_Condition\n"

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "accidents.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	csv := csvHeader +
		"2,CA,2020-03-14 08:15:00,34.05,-118.24,10,61.0,4.6,Clear\n" +
		"3,NY,2021-07-01 17:30:00,40.71,-74.00,5,85.2,10.0,Rain\n" +
		"2,CA,2020-11-20 06:00:00,37.77,-122.41,1.5,52.0,0.0,Fog\n"

	path := writeCSV(t, csv)
	snap, err := dataset.Load(path, 0, slog.Default())

	require.NoError(t, err)
	assert.Len(t, snap.Records, 3)
	assert.Zero(t, snap.Skipped)
	assert.NotEmpty(t, snap.ID)
	assert.Equal(t, []string{"CA", "NY"}, snap.States)
	assert.Equal(t, []int{2020, 2021}, snap.Years)

	minYear, maxYear := snap.YearBounds()
	assert.Equal(t, 2020, minYear)
	assert.Equal(t, 2021, maxYear)
}

func TestLoad_RowCap(t *testing.T) {
	csv := csvHeader +
		"2,CA,2020-03-14 08:15:00,34.05,-118.24,10,61.0,4.6,Clear\n" +
		"3,NY,2021-07-01 17:30:00,40.71,-74.00,5,85.2,10.0,Rain\n" +
		"2,TX,2022-01-05 09:00:00,31.97,-99.90,8,40.0,15.0,Snow\n"

	path := writeCSV(t, csv)
	snap, err := dataset.Load(path, 2, slog.Default())

	require.NoError(t, err)
	assert.Len(t, snap.Records, 2)
	assert.Equal(t, []string{"CA", "NY"}, snap.States)
}

func TestLoad_SkipsBadRows(t *testing.T) {
	csv := csvHeader +
		"2,CA,2020-03-14 08:15:00,34.05,-118.24,10,61.0,4.6,Clear\n" +
		"9,CA,2020-03-14 08:15:00,34.05,-118.24,10,61.0,4.6,Clear\n" + // severity out of range
		"2,CA,not-a-time,34.05,-118.24,10,61.0,4.6,Clear\n" + // bad timestamp
		"2,CA,2020-03-14 08:15:00,34.05,-118.24,,61.0,4.6,Clear\n" // missing visibility

	path := writeCSV(t, csv)
	snap, err := dataset.Load(path, 0, slog.Default())

	require.NoError(t, err)
	assert.Len(t, snap.Records, 1)
	assert.Equal(t, 3, snap.Skipped)
}

func TestLoad_MissingColumn(t *testing.T) {
	csv := "Severity,State,Start_Time\n2,CA,2020-03-14 08:15:00\n"

	path := writeCSV(t, csv)
	_, err := dataset.Load(path, 0, slog.Default())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required columns")
	assert.Contains(t, err.Error(), "Start_Lat")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := dataset.Load(filepath.Join(t.TempDir(), "nope.csv"), 0, slog.Default())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "open dataset")
}

func TestLoad_EmptyDataset(t *testing.T) {
	path := writeCSV(t, csvHeader)
	snap, err := dataset.Load(path, 0, slog.Default())

	require.NoError(t, err)
	assert.Empty(t, snap.Records)
	assert.Empty(t, snap.States)

	minYear, maxYear := snap.YearBounds()
	assert.Zero(t, minYear)
	assert.Zero(t, maxYear)
}

func TestLoad_LoadedAtUsesClock(t *testing.T) {
	frozen := time.Date(2024, time.April, 27, 6, 0, 0, 0, time.UTC)
	domain.SetClock(clockwork.NewFakeClockAt(frozen))
	defer domain.SetClock(nil)

	path := writeCSV(t, csvHeader+"2,CA,2020-03-14 08:15:00,34.05,-118.24,10,61.0,4.6,Clear\n")
	snap, err := dataset.Load(path, 0, slog.Default())

	require.NoError(t, err)
	assert.Equal(t, frozen, snap.LoadedAt)
}
