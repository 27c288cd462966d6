package http_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"accidentdash/internal/domain"
	"accidentdash/internal/query"
)

type metaBody struct {
	SnapshotID     string `json:"snapshot_id"`
	TotalRecords   int    `json:"total_records"`
	MatchedRecords int    `json:"matched_records"`
}

type dashboardBody struct {
	Meta     metaBody              `json:"meta"`
	Geo      query.GeoPoints       `json:"geo"`
	Severity []query.SeverityCount `json:"severity_counts"`
	Monthly  []query.MonthCount    `json:"monthly_trend"`
	Weather  struct {
		Metric string      `json:"metric"`
		Unit   string      `json:"unit"`
		Bins   []query.Bin `json:"bins"`
	} `json:"weather_histogram"`
}

func TestOptionsEndpoint(t *testing.T) {
	rec := get(t, newTestServer(testSnapshot()), "/api/v1/options")

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		States     []string `json:"states"`
		Years      []int    `json:"years"`
		Severities []int    `json:"severities"`
		Metrics    []string `json:"metrics"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{"CA", "NY"}, body.States)
	assert.Equal(t, []int{2020, 2021}, body.Years)
	assert.Equal(t, []int{1, 2, 3, 4}, body.Severities)
	assert.Equal(t, []string{"visibility", "temperature", "wind_speed"}, body.Metrics)
}

func TestDashboardEndpoint(t *testing.T) {
	srv := newTestServer(testSnapshot())

	t.Run("unfiltered", func(t *testing.T) {
		rec := get(t, srv, "/api/v1/dashboard")

		require.Equal(t, http.StatusOK, rec.Code)

		var body dashboardBody
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "snap-test", body.Meta.SnapshotID)
		assert.Equal(t, 3, body.Meta.TotalRecords)
		assert.Equal(t, 3, body.Meta.MatchedRecords)
		assert.Equal(t, 3, body.Geo.Total)
		assert.Equal(t, "visibility", body.Weather.Metric)
		assert.Equal(t, "mi", body.Weather.Unit)
	})

	t.Run("state filter narrows the view", func(t *testing.T) {
		rec := get(t, srv, "/api/v1/dashboard?state=CA")

		require.Equal(t, http.StatusOK, rec.Code)

		var body dashboardBody
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, 2, body.Meta.MatchedRecords)
		assert.Equal(t, []query.SeverityCount{
			{Severity: 1, Count: 0},
			{Severity: 2, Count: 1},
			{Severity: 3, Count: 1},
			{Severity: 4, Count: 0},
		}, body.Severity)
	})

	t.Run("year range excludes later records", func(t *testing.T) {
		rec := get(t, srv, "/api/v1/dashboard?year_min=2020&year_max=2020")

		var body dashboardBody
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, 2, body.Meta.MatchedRecords)
	})

	t.Run("inverted year range is clamped, not rejected", func(t *testing.T) {
		rec := get(t, srv, "/api/v1/dashboard?year_min=2021&year_max=2020")

		require.Equal(t, http.StatusOK, rec.Code)

		var body dashboardBody
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, 3, body.Meta.MatchedRecords)
	})

	t.Run("empty severity parameter matches nothing", func(t *testing.T) {
		rec := get(t, srv, "/api/v1/dashboard?severity=")

		require.Equal(t, http.StatusOK, rec.Code)

		var body dashboardBody
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, 0, body.Meta.MatchedRecords)
		for _, c := range body.Severity {
			assert.Zero(t, c.Count)
		}
		assert.Empty(t, body.Monthly)
	})

	t.Run("comma-separated severities", func(t *testing.T) {
		rec := get(t, srv, "/api/v1/dashboard?severity=2,3")

		var body dashboardBody
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, 3, body.Meta.MatchedRecords)
	})

	t.Run("identical requests yield byte-identical bodies", func(t *testing.T) {
		domain.SetClock(clockwork.NewFakeClockAt(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)))
		defer domain.SetClock(nil)

		first := get(t, srv, "/api/v1/dashboard?state=CA&severity=2,3&year_min=2020")
		second := get(t, srv, "/api/v1/dashboard?state=CA&severity=2,3&year_min=2020")

		assert.Equal(t, first.Body.Bytes(), second.Body.Bytes())
	})

	t.Run("metric switch changes only the weather aggregate", func(t *testing.T) {
		vis := get(t, srv, "/api/v1/dashboard?state=CA&metric=visibility")
		temp := get(t, srv, "/api/v1/dashboard?state=CA&metric=temperature")

		var visBody, tempBody dashboardBody
		require.NoError(t, json.Unmarshal(vis.Body.Bytes(), &visBody))
		require.NoError(t, json.Unmarshal(temp.Body.Bytes(), &tempBody))

		assert.Equal(t, visBody.Severity, tempBody.Severity)
		assert.Equal(t, visBody.Monthly, tempBody.Monthly)
		assert.Equal(t, "F", tempBody.Weather.Unit)
		assert.NotEqual(t, visBody.Weather.Bins, tempBody.Weather.Bins)
	})
}

func TestDashboardValidation(t *testing.T) {
	srv := newTestServer(testSnapshot())

	cases := []struct {
		name string
		url  string
	}{
		{"bad severity value", "/api/v1/dashboard?severity=high"},
		{"severity out of range", "/api/v1/dashboard?severity=7"},
		{"bad year", "/api/v1/dashboard?year_min=twenty"},
		{"bad metric", "/api/v1/dashboard?metric=humidity"},
		{"bad state", "/api/v1/dashboard?state=California"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := get(t, srv, tc.url)

			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestIndividualAggregateEndpoints(t *testing.T) {
	srv := newTestServer(testSnapshot())

	t.Run("severity", func(t *testing.T) {
		rec := get(t, srv, "/api/v1/aggregates/severity?state=CA")

		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Counts []query.SeverityCount `json:"severity_counts"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body.Counts, 4)
	})

	t.Run("monthly", func(t *testing.T) {
		rec := get(t, srv, "/api/v1/aggregates/monthly")

		var body struct {
			Trend []query.MonthCount `json:"monthly_trend"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body.Trend, 2)
		assert.Equal(t, "2020-03", body.Trend[0].Month)
		assert.Equal(t, 2, body.Trend[0].Count)
	})

	t.Run("weather honors metric", func(t *testing.T) {
		rec := get(t, srv, "/api/v1/aggregates/weather?metric=wind_speed")

		var body struct {
			Histogram struct {
				Metric string      `json:"metric"`
				Bins   []query.Bin `json:"bins"`
			} `json:"weather_histogram"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "wind_speed", body.Histogram.Metric)
		assert.NotEmpty(t, body.Histogram.Bins)
	})

	t.Run("accidents returns geo points", func(t *testing.T) {
		rec := get(t, srv, "/api/v1/accidents?state=NY")

		var body struct {
			Geo query.GeoPoints `json:"geo"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, 1, body.Geo.Total)
		require.Len(t, body.Geo.Points, 1)
		assert.Equal(t, 2, body.Geo.Points[0].Severity)
	})
}

func TestChartEndpoints(t *testing.T) {
	srv := newTestServer(testSnapshot())

	paths := []string{
		"/api/v1/charts/severity.png",
		"/api/v1/charts/monthly.png",
		"/api/v1/charts/weather.png?metric=temperature",
	}

	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			rec := get(t, srv, path)

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
			// PNG magic bytes.
			require.Greater(t, rec.Body.Len(), 8)
			assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, rec.Body.Bytes()[:4])
		})
	}

	t.Run("empty view still renders", func(t *testing.T) {
		rec := get(t, srv, "/api/v1/charts/severity.png?severity=")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	})
}
