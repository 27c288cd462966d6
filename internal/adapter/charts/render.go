// Package charts renders aggregate results as PNG images with go-chart.
// It is a thin presentation boundary: all numbers come in pre-aggregated
// and nothing here touches raw records.
package charts

import (
	"bytes"
	"fmt"
	"io"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"accidentdash/internal/domain"
	"accidentdash/internal/query"
)

const (
	chartWidth  = 800
	chartHeight = 400
)

var barColor = drawing.Color{R: 68, G: 122, B: 219, A: 255}

// RenderSeverityBar draws the severity distribution as a bar chart.
func RenderSeverityBar(counts []query.SeverityCount) ([]byte, error) {
	bars := make([]chart.Value, 0, len(counts))
	maxCount := 0
	for _, c := range counts {
		bars = append(bars, chart.Value{
			Value: float64(c.Count),
			Label: fmt.Sprintf("%d", c.Severity),
			Style: chart.Style{FillColor: barColor, StrokeColor: barColor},
		})
		if c.Count > maxCount {
			maxCount = c.Count
		}
	}

	graph := chart.BarChart{
		Title:    "Accident Severity Distribution",
		Width:    chartWidth,
		Height:   chartHeight,
		BarWidth: 80,
		Bars:     bars,
		YAxis:    yAxisRange(maxCount),
	}

	return renderPNG(&graph)
}

// RenderMonthlyLine draws the monthly accident trend as a time series line.
func RenderMonthlyLine(trend []query.MonthCount) ([]byte, error) {
	times, counts, maxCount := trendSeries(trend)

	graph := chart.Chart{
		Title:  "Accident Trend Over Time (Monthly)",
		Width:  chartWidth,
		Height: chartHeight,
		YAxis:  yAxisRange(maxCount),
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatterWithFormat("2006-01"),
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Accidents",
				XValues: times,
				YValues: counts,
				Style: chart.Style{
					StrokeColor: barColor,
					DotColor:    barColor,
					DotWidth:    3,
				},
			},
		},
	}

	return renderPNG(&graph)
}

// RenderWeatherBar draws the weather metric histogram as a bar chart.
func RenderWeatherBar(bins []query.Bin, metric domain.WeatherMetric) ([]byte, error) {
	bars := make([]chart.Value, 0, len(bins))
	maxCount := 0
	for _, b := range bins {
		bars = append(bars, chart.Value{
			Value: float64(b.Count),
			Label: b.Label,
			Style: chart.Style{FillColor: barColor, StrokeColor: barColor},
		})
		if b.Count > maxCount {
			maxCount = b.Count
		}
	}

	graph := chart.BarChart{
		Title:    fmt.Sprintf("Accident Frequency by %s", metric.Label()),
		Width:    chartWidth,
		Height:   chartHeight,
		BarWidth: 60,
		Bars:     bars,
		YAxis:    yAxisRange(maxCount),
	}

	return renderPNG(&graph)
}

// renderable is satisfied by both chart.Chart and chart.BarChart.
type renderable interface {
	Render(rp chart.RendererProvider, w io.Writer) error
}

func renderPNG(graph renderable) ([]byte, error) {
	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	return buf.Bytes(), nil
}

// yAxisRange pins the Y axis to [0, max]. go-chart refuses a zero-delta
// range, so an all-zero aggregate still gets a [0, 1] axis and renders as
// an empty chart instead of erroring.
func yAxisRange(maxCount int) chart.YAxis {
	upper := float64(maxCount)
	if upper < 1 {
		upper = 1
	}
	return chart.YAxis{
		Range: &chart.ContinuousRange{Min: 0, Max: upper},
	}
}

// trendSeries converts the trend to parallel X/Y slices, padding to the two
// points go-chart requires for a line series.
func trendSeries(trend []query.MonthCount) ([]time.Time, []float64, int) {
	times := make([]time.Time, 0, len(trend))
	counts := make([]float64, 0, len(trend))
	maxCount := 0
	for _, m := range trend {
		t, err := time.Parse("2006-01", m.Month)
		if err != nil {
			continue
		}
		times = append(times, t)
		counts = append(counts, float64(m.Count))
		if m.Count > maxCount {
			maxCount = m.Count
		}
	}

	switch len(times) {
	case 0:
		now := domain.Now().UTC()
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		times = []time.Time{start, start.AddDate(0, 1, 0)}
		counts = []float64{0, 0}
	case 1:
		times = append(times, times[0].AddDate(0, 1, 0))
		counts = append(counts, counts[0])
	}

	return times, counts, maxCount
}
