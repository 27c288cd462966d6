// Command genmock generates a synthetic accident CSV fixture for tests and
// local development. Output is deterministic for a given seed so fixtures
// can be regenerated byte-identically.
//
// Usage:
//
//	go run ./cmd/genmock -out data/us_accidents.csv -rows 5000
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"accidentdash/internal/domain"
)

var states = []string{"CA", "TX", "FL", "NY", "PA", "OH", "IL", "GA", "NC", "MI"}

var conditions = []string{
	"Clear", "Mostly Cloudy", "Overcast", "Light Rain", "Rain",
	"Heavy Rain", "Light Snow", "Snow", "Fog", "Haze",
}

// stateCenters gives rough geographic centers so generated points land in
// plausible territory for their state.
var stateCenters = map[string][2]float64{
	"CA": {36.78, -119.42}, "TX": {31.97, -99.90}, "FL": {27.66, -81.52},
	"NY": {43.00, -75.00}, "PA": {41.20, -77.19}, "OH": {40.42, -82.91},
	"IL": {40.63, -89.40}, "GA": {32.16, -82.90}, "NC": {35.76, -79.02},
	"MI": {44.31, -85.60},
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output CSV path")
	rows := flag.Int("rows", 5000, "number of data rows to generate")
	seed := flag.Int64("seed", 1, "random seed")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}

	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	f, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer f.Close()

	rng := rand.New(rand.NewSource(*seed))
	w := csv.NewWriter(f)

	if err := w.Write(domain.RequiredColumns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	start := time.Date(2016, time.January, 1, 0, 0, 0, 0, time.UTC)
	span := time.Date(2023, time.April, 1, 0, 0, 0, 0, time.UTC).Sub(start)

	for i := 0; i < *rows; i++ {
		if err := w.Write(generateRow(rng, start, span)); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}

	log.Printf("wrote %d rows to %s", *rows, *out)
	return nil
}

func generateRow(rng *rand.Rand, start time.Time, span time.Duration) []string {
	state := states[rng.Intn(len(states))]
	center := stateCenters[state]
	ts := start.Add(time.Duration(rng.Int63n(int64(span))))

	// Severity skews toward 2, matching the real dataset's distribution.
	severity := 2
	switch r := rng.Float64(); {
	case r < 0.08:
		severity = 1
	case r < 0.20:
		severity = 3
	case r < 0.25:
		severity = 4
	}

	return []string{
		fmt.Sprintf("%d", severity),
		state,
		ts.Format("2006-01-02 15:04:05"),
		fmt.Sprintf("%.4f", center[0]+rng.Float64()*4-2),
		fmt.Sprintf("%.4f", center[1]+rng.Float64()*4-2),
		fmt.Sprintf("%.1f", rng.Float64()*10),       // visibility, miles
		fmt.Sprintf("%.1f", rng.Float64()*100-10),   // temperature, F
		fmt.Sprintf("%.1f", rng.Float64()*30),       // wind speed, mph
		conditions[rng.Intn(len(conditions))],
	}
}
