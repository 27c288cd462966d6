package charts_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"accidentdash/internal/adapter/charts"
	"accidentdash/internal/domain"
	"accidentdash/internal/query"
)

func assertPNG(t *testing.T, data []byte) {
	t.Helper()
	require.Greater(t, len(data), 8)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, data[:4])
}

func TestRenderSeverityBar(t *testing.T) {
	t.Run("with data", func(t *testing.T) {
		png, err := charts.RenderSeverityBar([]query.SeverityCount{
			{Severity: 1, Count: 5},
			{Severity: 2, Count: 120},
			{Severity: 3, Count: 40},
			{Severity: 4, Count: 2},
		})

		require.NoError(t, err)
		assertPNG(t, png)
	})

	t.Run("all-zero counts still render", func(t *testing.T) {
		png, err := charts.RenderSeverityBar([]query.SeverityCount{
			{Severity: 1}, {Severity: 2}, {Severity: 3}, {Severity: 4},
		})

		require.NoError(t, err)
		assertPNG(t, png)
	})
}

func TestRenderMonthlyLine(t *testing.T) {
	t.Run("with data", func(t *testing.T) {
		png, err := charts.RenderMonthlyLine([]query.MonthCount{
			{Month: "2020-01", Count: 10},
			{Month: "2020-02", Count: 25},
			{Month: "2020-03", Count: 18},
		})

		require.NoError(t, err)
		assertPNG(t, png)
	})

	t.Run("single month is padded", func(t *testing.T) {
		png, err := charts.RenderMonthlyLine([]query.MonthCount{{Month: "2020-01", Count: 10}})

		require.NoError(t, err)
		assertPNG(t, png)
	})

	t.Run("empty trend still renders", func(t *testing.T) {
		png, err := charts.RenderMonthlyLine(nil)

		require.NoError(t, err)
		assertPNG(t, png)
	})
}

func TestRenderWeatherBar(t *testing.T) {
	bins := query.WeatherHistogram([]domain.Record{
		{Visibility: 0.5}, {Visibility: 7}, {Visibility: 7},
	}, domain.MetricVisibility)

	png, err := charts.RenderWeatherBar(bins, domain.MetricVisibility)

	require.NoError(t, err)
	assertPNG(t, png)
}
