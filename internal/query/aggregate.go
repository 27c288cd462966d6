package query

import (
	"fmt"
	"sort"

	"accidentdash/internal/domain"
)

// GeoPoint is a map marker: location plus severity for coloring.
type GeoPoint struct {
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Severity int     `json:"severity"`
}

// GeoPoints is the map-pane aggregate. When the filtered view exceeds the
// cap, Points holds a deterministic stride sample and Sampled is true;
// Total always reflects the full view size.
type GeoPoints struct {
	Points  []GeoPoint `json:"points"`
	Total   int        `json:"total"`
	Sampled bool       `json:"sampled"`
}

// SampleGeoPoints projects (lat, lng, severity) from the view, stride-sampled
// down to at most limit points. Stride sampling keeps responses byte-identical
// across repeated identical requests, unlike a random sample. limit <= 0
// disables the cap.
func SampleGeoPoints(view []domain.Record, limit int) GeoPoints {
	total := len(view)
	stride := 1
	if limit > 0 && total > limit {
		stride = (total + limit - 1) / limit
	}

	points := make([]GeoPoint, 0, (total+stride-1)/stride)
	for i := 0; i < total; i += stride {
		r := view[i]
		points = append(points, GeoPoint{Lat: r.Lat, Lng: r.Lng, Severity: r.Severity})
	}

	return GeoPoints{
		Points:  points,
		Total:   total,
		Sampled: stride > 1,
	}
}

// SeverityCount is one bar of the severity distribution.
type SeverityCount struct {
	Severity int `json:"severity"`
	Count    int `json:"count"`
}

// SeverityCounts groups the view by severity level. All four levels are
// always present, zero-filled, so the chart axis never shifts.
func SeverityCounts(view []domain.Record) []SeverityCount {
	counts := make(map[int]int, domain.SeverityMax)
	for _, r := range view {
		counts[r.Severity]++
	}

	out := make([]SeverityCount, 0, domain.SeverityMax)
	for _, level := range domain.SeverityLevels() {
		out = append(out, SeverityCount{Severity: level, Count: counts[level]})
	}
	return out
}

// MonthCount is one point of the monthly trend line.
type MonthCount struct {
	Month string `json:"month"` // "2020-03"
	Count int    `json:"count"`
}

// MonthlyTrend groups the view by year-month, ordered chronologically.
// Only observed months appear; gaps between them are not zero-filled.
func MonthlyTrend(view []domain.Record) []MonthCount {
	counts := map[string]int{}
	for _, r := range view {
		counts[r.YearMonth()]++
	}

	out := make([]MonthCount, 0, len(counts))
	for month, count := range counts {
		out = append(out, MonthCount{Month: month, Count: count})
	}
	// Year-month strings sort lexicographically in chronological order.
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// Bin is one bucket of the weather metric histogram, left-closed: [Low, High).
type Bin struct {
	Label string  `json:"label"`
	Low   float64 `json:"low"`
	High  float64 `json:"high"`
	Count int     `json:"count"`
}

// binEdges defines the fixed left-closed bucket edges per metric. Visibility
// keeps the dashboard's historical edges; readings outside the outermost
// edges fall into no bin.
var binEdges = map[domain.WeatherMetric][]float64{
	domain.MetricVisibility:  {0, 1, 3, 5, 10, 50, 100},
	domain.MetricTemperature: {-30, 0, 20, 40, 60, 80, 100, 130},
	domain.MetricWindSpeed:   {0, 5, 10, 20, 30, 50, 100},
}

// WeatherHistogram buckets the selected metric's readings into fixed bins.
// The bin layout depends only on the metric, so an empty view produces the
// full zero-filled histogram rather than nothing.
func WeatherHistogram(view []domain.Record, metric domain.WeatherMetric) []Bin {
	edges, ok := binEdges[metric]
	if !ok {
		edges = binEdges[domain.MetricVisibility]
		metric = domain.MetricVisibility
	}

	bins := make([]Bin, len(edges)-1)
	for i := range bins {
		bins[i] = Bin{
			Label: fmt.Sprintf("%g-%g %s", edges[i], edges[i+1], metric.Unit()),
			Low:   edges[i],
			High:  edges[i+1],
		}
	}

	for _, r := range view {
		v := metric.Value(r)
		for i := range bins {
			if v >= bins[i].Low && v < bins[i].High {
				bins[i].Count++
				break
			}
		}
	}
	return bins
}
