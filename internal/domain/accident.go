package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Source CSV column names (US Accidents dataset).
const (
	ColSeverity         = "Severity"
	ColState            = "State"
	ColStartTime        = "Start_Time"
	ColLat              = "Start_Lat"
	ColLng              = "Start_Lng"
	ColVisibility       = "Visibility(mi)"
	ColTemperature      = "Temperature(F)"
	ColWindSpeed        = "Wind_Speed(mph)"
	ColWeatherCondition = "Weather_Condition"
)

// RequiredColumns lists the CSV columns the loader refuses to proceed without.
var RequiredColumns = []string{
	ColSeverity,
	ColState,
	ColStartTime,
	ColLat,
	ColLng,
	ColVisibility,
	ColTemperature,
	ColWindSpeed,
	ColWeatherCondition,
}

// startTimeLayouts covers both dataset revisions: plain seconds and
// nanosecond-fraction timestamps.
var startTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.000000000",
}

// Record is a single accident report. Records are parsed once at startup
// and never mutated afterwards.
type Record struct {
	Severity         int       `json:"severity"`
	State            string    `json:"state"`
	StartTime        time.Time `json:"start_time"`
	Lat              float64   `json:"lat"`
	Lng              float64   `json:"lng"`
	Visibility       float64   `json:"visibility_mi"`
	Temperature      float64   `json:"temperature_f"`
	WindSpeed        float64   `json:"wind_speed_mph"`
	WeatherCondition string    `json:"weather_condition"`
}

// Year returns the calendar year the accident started in.
func (r Record) Year() int {
	return r.StartTime.Year()
}

// YearMonth returns the monthly trend bucket, e.g. "2020-03".
func (r Record) YearMonth() string {
	return r.StartTime.Format("2006-01")
}

// ParseRow converts a header-keyed CSV row into a Record. Any missing or
// unparseable field is an error; callers skip such rows rather than keeping
// partially-populated records.
func ParseRow(fields map[string]string) (Record, error) {
	severity, err := parseSeverity(fields[ColSeverity])
	if err != nil {
		return Record{}, err
	}

	state := strings.ToUpper(strings.TrimSpace(fields[ColState]))
	if state == "" {
		return Record{}, fmt.Errorf("missing %s", ColState)
	}

	startTime, err := parseStartTime(fields[ColStartTime])
	if err != nil {
		return Record{}, err
	}

	lat, err := parseFloatField(ColLat, fields[ColLat])
	if err != nil {
		return Record{}, err
	}
	lng, err := parseFloatField(ColLng, fields[ColLng])
	if err != nil {
		return Record{}, err
	}
	visibility, err := parseFloatField(ColVisibility, fields[ColVisibility])
	if err != nil {
		return Record{}, err
	}
	temperature, err := parseFloatField(ColTemperature, fields[ColTemperature])
	if err != nil {
		return Record{}, err
	}
	windSpeed, err := parseFloatField(ColWindSpeed, fields[ColWindSpeed])
	if err != nil {
		return Record{}, err
	}

	condition := strings.TrimSpace(fields[ColWeatherCondition])
	if condition == "" {
		return Record{}, fmt.Errorf("missing %s", ColWeatherCondition)
	}

	return Record{
		Severity:         severity,
		State:            state,
		StartTime:        startTime,
		Lat:              lat,
		Lng:              lng,
		Visibility:       visibility,
		Temperature:      temperature,
		WindSpeed:        windSpeed,
		WeatherCondition: condition,
	}, nil
}

func parseSeverity(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("missing %s", ColSeverity)
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", ColSeverity, s, err)
	}
	if v < SeverityMin || v > SeverityMax {
		return 0, fmt.Errorf("%s %d out of range", ColSeverity, v)
	}
	return v, nil
}

func parseStartTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("missing %s", ColStartTime)
	}
	for _, layout := range startTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse %s %q: unrecognized layout", ColStartTime, s)
}

func parseFloatField(col, s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("missing %s", col)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", col, s, err)
	}
	return v, nil
}
