package tools

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/nimbuslab/nimbus/internal/pkg/weather"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUpstream(t *testing.T, handler http.HandlerFunc) *weather.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := weather.NewClient(weather.Config{
		APIKey:        "test-key",
		BaseURL:       server.URL,
		Timeout:       2 * time.Second,
		MaxRetries:    1,
		BackoffFactor: time.Millisecond,
	})
	require.NoError(t, err)
	t.Cleanup(client.Close)
	return client
}

func respondWith(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}
}

func TestRegistryKeepsRegistrationOrder(t *testing.T) {
	client := newUpstream(t, respondWith(`{}`))

	registry := NewRegistry()
	registry.Register(NewLocateTool(client))
	registry.Register(NewCurrentConditionsTool(client, ""))
	registry.Register(NewForecastTool(client, ""))

	defs := registry.Definitions()
	require.Len(t, defs, 3)
	assert.Equal(t, "locate", defs[0].Name)
	assert.Equal(t, "current_conditions", defs[1].Name)
	assert.Equal(t, "forecast", defs[2].Name)

	_, ok := registry.Get("locate")
	assert.True(t, ok)
	_, ok = registry.Get("nonexistent")
	assert.False(t, ok)
}

func TestLocateNormalizedName(t *testing.T) {
	client := newUpstream(t, respondWith(`[{"name":"Paris","lat":48.85,"lon":2.35,"country":"FR"}]`))
	tool := NewLocateTool(client)

	result := tool.Execute(context.Background(), map[string]any{"city": "Paris"})

	assert.Equal(t, "Paris, FR", result["normalized_name"])
	assert.Equal(t, 48.85, result["lat"])
	assert.Equal(t, 2.35, result["lon"])
	assert.NotContains(t, result, "error")
}

func TestLocateNormalizedNameWithState(t *testing.T) {
	client := newUpstream(t, respondWith(`[{"name":"Paris","lat":33.66,"lon":-95.55,"state":"Texas","country":"US"}]`))
	tool := NewLocateTool(client)

	result := tool.Execute(context.Background(), map[string]any{"city": "Paris, Texas"})

	assert.Equal(t, "Paris, Texas, US", result["normalized_name"])
}

func TestLocateUnknownPlace(t *testing.T) {
	client := newUpstream(t, respondWith(`[]`))
	tool := NewLocateTool(client)

	result := tool.Execute(context.Background(), map[string]any{"city": "Unknown Place"})

	assert.NotEmpty(t, result["error"])
	assert.Nil(t, result["lat"])
	assert.Nil(t, result["lon"])
	assert.Nil(t, result["normalized_name"])
}

func TestLocateUpstreamFailure(t *testing.T) {
	client := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	tool := NewLocateTool(client)

	result := tool.Execute(context.Background(), map[string]any{"city": "Paris"})

	assert.NotEmpty(t, result["error"])
	assert.Nil(t, result["lat"])
	assert.Nil(t, result["normalized_name"])
}

func TestCurrentConditionsUnits(t *testing.T) {
	body := `{"main":{"temp":21.5,"feels_like":20.1,"humidity":40},"weather":[{"main":"Clear","description":"clear sky"}],"wind":{"speed":3.2},"clouds":{"all":10}}`

	cases := []struct {
		units    string
		tempUnit string
		windUnit string
	}{
		{"metric", "°C", "m/s"},
		{"imperial", "°F", "mph"},
		{"standard", "K", "m/s"},
		{"bogus", "K", "m/s"},
	}
	for _, tc := range cases {
		t.Run(tc.units, func(t *testing.T) {
			client := newUpstream(t, respondWith(body))
			tool := NewCurrentConditionsTool(client, "")

			result := tool.Execute(context.Background(), map[string]any{
				"lat":   48.85,
				"lon":   2.35,
				"units": tc.units,
			})

			assert.Equal(t, tc.tempUnit, result["temp_unit"])
			assert.Equal(t, tc.windUnit, result["wind_unit"])
			assert.Equal(t, 21.5, result["temp"])
			assert.Equal(t, "Clear", result["condition"])
		})
	}
}

func TestCurrentConditionsMissingFieldsAreNull(t *testing.T) {
	client := newUpstream(t, respondWith(`{"main":{"temp":15.0},"weather":[]}`))
	tool := NewCurrentConditionsTool(client, "metric")

	result := tool.Execute(context.Background(), map[string]any{"lat": 1.0, "lon": 2.0})

	assert.Equal(t, 15.0, result["temp"])
	assert.Nil(t, result["feels_like"])
	assert.Nil(t, result["wind_speed"])
	assert.Nil(t, result["humidity"])
	assert.Nil(t, result["visibility"])
	assert.Equal(t, "Unknown", result["condition"])
	assert.Equal(t, "", result["description"])
}

func TestCurrentConditionsUpstreamFailure(t *testing.T) {
	client := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	tool := NewCurrentConditionsTool(client, "")

	result := tool.Execute(context.Background(), map[string]any{"lat": 1.0, "lon": 2.0})

	assert.NotEmpty(t, result["error"])
	assert.Nil(t, result["temp"])
	assert.Nil(t, result["condition"])
	assert.Nil(t, result["wind_speed"])
}

func TestForecastEmptyUpstreamList(t *testing.T) {
	client := newUpstream(t, respondWith(`{"list":[]}`))
	tool := NewForecastTool(client, "")

	result := tool.Execute(context.Background(), map[string]any{"lat": 1.0, "lon": 2.0})

	assert.Equal(t, "No forecast data available", result["error"])
	assert.Empty(t, result["entries"])
}

func TestForecastUpstreamFailure(t *testing.T) {
	client := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	tool := NewForecastTool(client, "")

	result := tool.Execute(context.Background(), map[string]any{
		"lat":       1.0,
		"lon":       2.0,
		"timeframe": "weekend",
	})

	assert.NotEmpty(t, result["error"])
	assert.Equal(t, "weekend", result["timeframe"])
	assert.Empty(t, result["entries"])
	assert.Equal(t, 0, result["count"])
}

func TestForecastNormalizesEntries(t *testing.T) {
	now := time.Now().UTC()
	tomorrowNoon := truncateToDay(now.AddDate(0, 0, 1)).Add(12 * time.Hour)
	body := `{"list":[{"dt":` + formatUnix(tomorrowNoon) + `,"main":{"temp":18.0,"feels_like":17.2,"temp_min":16.0,"temp_max":19.5,"humidity":55},"weather":[{"main":"Rain","description":"light rain"}],"clouds":{"all":80},"wind":{"speed":4.1},"pop":0.4}]}`

	client := newUpstream(t, respondWith(body))
	tool := NewForecastTool(client, "")

	result := tool.Execute(context.Background(), map[string]any{
		"lat":       1.0,
		"lon":       2.0,
		"timeframe": "tomorrow",
	})

	require.Equal(t, 1, result["count"])
	entries, ok := result["entries"].([]map[string]any)
	require.True(t, ok)
	entry := entries[0]

	assert.Equal(t, tomorrowNoon.Format("2006-01-02T15:04:05"), entry["datetime"])
	assert.Equal(t, tomorrowNoon.Unix(), entry["timestamp"])
	assert.Equal(t, 18.0, entry["temp"])
	assert.Equal(t, "°C", entry["temp_unit"])
	assert.Equal(t, 16.0, entry["temp_min"])
	assert.Equal(t, 19.5, entry["temp_max"])
	assert.Equal(t, "Rain", entry["condition"])
	assert.Equal(t, "light rain", entry["description"])
	assert.Equal(t, 40.0, entry["precipitation_prob"])
	assert.Equal(t, 4.1, entry["wind_speed"])
	assert.Equal(t, 55.0, entry["humidity"])
	assert.Equal(t, 80.0, entry["clouds"])
}

func formatUnix(t time.Time) string {
	return strconv.FormatInt(t.Unix(), 10)
}
