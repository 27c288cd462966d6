package domain

import "fmt"

// WeatherMetric selects which continuous weather measurement the
// distribution aggregate buckets over. It is a per-request parameter;
// switching it never affects the other aggregates.
type WeatherMetric string

const (
	MetricVisibility  WeatherMetric = "visibility"
	MetricTemperature WeatherMetric = "temperature"
	MetricWindSpeed   WeatherMetric = "wind_speed"
)

// WeatherMetrics returns the selectable metrics in display order.
func WeatherMetrics() []WeatherMetric {
	return []WeatherMetric{MetricVisibility, MetricTemperature, MetricWindSpeed}
}

// ParseWeatherMetric validates a user-supplied metric name. An empty string
// selects visibility, matching the dashboard's default pane.
func ParseWeatherMetric(s string) (WeatherMetric, error) {
	switch WeatherMetric(s) {
	case "":
		return MetricVisibility, nil
	case MetricVisibility, MetricTemperature, MetricWindSpeed:
		return WeatherMetric(s), nil
	default:
		return "", fmt.Errorf("unknown weather metric %q", s)
	}
}

// Value extracts the metric's reading from a record.
func (m WeatherMetric) Value(r Record) float64 {
	switch m {
	case MetricTemperature:
		return r.Temperature
	case MetricWindSpeed:
		return r.WindSpeed
	default:
		return r.Visibility
	}
}

// Unit returns the metric's display unit.
func (m WeatherMetric) Unit() string {
	switch m {
	case MetricTemperature:
		return "F"
	case MetricWindSpeed:
		return "mph"
	default:
		return "mi"
	}
}

// Label returns a human-readable axis label, e.g. "Visibility (mi)".
func (m WeatherMetric) Label() string {
	switch m {
	case MetricTemperature:
		return "Temperature (F)"
	case MetricWindSpeed:
		return "Wind Speed (mph)"
	default:
		return "Visibility (mi)"
	}
}
