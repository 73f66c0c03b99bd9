package weather

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func archiveFixture(t *testing.T, raw string) ArchiveResponse {
	t.Helper()
	var resp ArchiveResponse
	require.NoError(t, json.Unmarshal([]byte(raw), &resp))
	return resp
}

func TestBuildSeriesPairsDatesWithValues(t *testing.T) {
	resp := archiveFixture(t, `{
		"daily": {
			"time": ["2024-01-01", "2024-01-02"],
			"temperature_2m_max": [5.2, 7.0]
		},
		"daily_units": {"time": "iso8601", "temperature_2m_max": "°C"}
	}`)

	series, err := BuildSeries(resp, []string{"temperature_2m_max"})
	require.NoError(t, err)
	require.Len(t, series, 1)

	assert.Equal(t, "temperature_2m_max", series[0].Variable)
	assert.Equal(t, "temperature_2m_max.json", series[0].FileName())
	assert.Equal(t, map[string]string{
		"2024-01-01": "5.2°C",
		"2024-01-02": "7.0°C",
	}, series[0].Values)
}

func TestBuildSeriesRendersNullValues(t *testing.T) {
	resp := archiveFixture(t, `{
		"daily": {"time": ["2024-01-01"], "temperature_2m_min": [null]},
		"daily_units": {"temperature_2m_min": "°C"}
	}`)

	series, err := BuildSeries(resp, []string{"temperature_2m_min"})
	require.NoError(t, err)
	assert.Equal(t, "null°C", series[0].Values["2024-01-01"])
}

func TestBuildSeriesTruncatesToShorterArray(t *testing.T) {
	resp := archiveFixture(t, `{
		"daily": {"time": ["2024-01-01", "2024-01-02", "2024-01-03"], "temperature_2m_mean": [1, 2]},
		"daily_units": {"temperature_2m_mean": "°C"}
	}`)

	series, err := BuildSeries(resp, []string{"temperature_2m_mean"})
	require.NoError(t, err)
	assert.Len(t, series[0].Values, 2)
	assert.NotContains(t, series[0].Values, "2024-01-03")
}

func TestBuildSeriesSchemaErrors(t *testing.T) {
	cases := []struct {
		name  string
		raw   string
		field string
	}{
		{
			name:  "missing daily",
			raw:   `{"daily_units": {}}`,
			field: "daily",
		},
		{
			name:  "missing daily_units",
			raw:   `{"daily": {"time": []}}`,
			field: "daily_units",
		},
		{
			name:  "missing variable",
			raw:   `{"daily": {"time": []}, "daily_units": {}}`,
			field: "temperature_2m_max",
		},
		{
			name:  "missing time",
			raw:   `{"daily": {"temperature_2m_max": []}, "daily_units": {"temperature_2m_max": "°C"}}`,
			field: "time",
		},
		{
			name:  "missing unit",
			raw:   `{"daily": {"time": [], "temperature_2m_max": []}, "daily_units": {}}`,
			field: "temperature_2m_max",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := BuildSeries(archiveFixture(t, tc.raw), []string{"temperature_2m_max"})

			var schema *SchemaError
			require.ErrorAs(t, err, &schema)
			assert.Equal(t, tc.field, schema.Field)
			assert.Contains(t, err.Error(), tc.field+" field not present")
		})
	}
}
