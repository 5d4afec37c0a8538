package tools

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/nimbuslab/nimbus/internal/pkg/utils"
	"github.com/nimbuslab/nimbus/internal/pkg/weather"
)

const (
	TimeframeTonight   = "tonight"
	TimeframeTomorrow  = "tomorrow"
	TimeframeWeekend   = "weekend"
	TimeframeNext3Days = "next_3_days"
)

// ForecastTool fetches the 5-day/3-hour forecast and filters it down to a
// requested timeframe.
//
// Entry timestamps are provider-supplied UTC epoch seconds treated as a
// naive local-equivalent when filtering. This is a deliberate approximation,
// not a timezone conversion; actual local windows may differ.
type ForecastTool struct {
	client       *weather.Client
	defaultUnits string
	now          func() time.Time
}

func NewForecastTool(client *weather.Client, units string) *ForecastTool {
	return &ForecastTool{
		client:       client,
		defaultUnits: utils.GetOrDefault(units, defaultUnits),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (t *ForecastTool) Name() string {
	return "forecast"
}

func (t *ForecastTool) Description() string {
	return `Get the weather forecast for a timeframe: "tonight", "tomorrow", "weekend", or "next_3_days". Entries come in 3-hour intervals.`
}

func (t *ForecastTool) Parameters() Parameters {
	return Parameters{
		Type: "object",
		Properties: map[string]Property{
			"lat": {
				Type:        "number",
				Description: "Latitude of the location",
			},
			"lon": {
				Type:        "number",
				Description: "Longitude of the location",
			},
			"timeframe": {
				Type:        "string",
				Description: "Time period to report on",
				Enum:        []string{TimeframeTonight, TimeframeTomorrow, TimeframeWeekend, TimeframeNext3Days},
			},
			"units": {
				Type:        "string",
				Description: `Unit system - "metric" (Celsius), "imperial" (Fahrenheit), or "standard" (Kelvin)`,
				Enum:        []string{"metric", "imperial", "standard"},
			},
		},
		Required: []string{"lat", "lon"},
	}
}

type forecastArgs struct {
	Lat       float64 `mapstructure:"lat"`
	Lon       float64 `mapstructure:"lon"`
	Timeframe string  `mapstructure:"timeframe"`
	Units     string  `mapstructure:"units"`
}

func (t *ForecastTool) Execute(ctx context.Context, args map[string]any) map[string]any {
	var in forecastArgs
	if err := mapstructure.Decode(args, &in); err != nil {
		return forecastError(fmt.Sprintf("Invalid arguments: %v", err), in.Timeframe)
	}
	timeframe := utils.GetOrDefault(in.Timeframe, TimeframeTomorrow)
	units := utils.GetOrDefault(in.Units, t.defaultUnits)

	raw, err := t.client.Forecast5Day(ctx, in.Lat, in.Lon, units, "")
	if err != nil {
		slog.Error("Forecast tool: fetch failed", "lat", in.Lat, "lon", in.Lon, "timeframe", timeframe, "error", err)
		return forecastError(fmt.Sprintf("Failed to fetch forecast data: %v", err), timeframe)
	}
	if len(raw.List) == 0 {
		return map[string]any{
			"error":   "No forecast data available",
			"entries": []map[string]any{},
		}
	}

	tempUnit, _ := unitSuffixes(units)
	matched := filterEntries(raw.List, timeframe, t.now())

	entries := make([]map[string]any, 0, len(matched))
	for _, entry := range matched {
		entries = append(entries, normalizeEntry(entry, tempUnit))
	}

	return map[string]any{
		"timeframe": timeframe,
		"entries":   entries,
		"count":     len(entries),
	}
}

// filterEntries applies the timeframe window rules against now. Unrecognized
// timeframes fall back to the next_3_days window.
func filterEntries(entries []weather.ForecastEntry, timeframe string, now time.Time) []weather.ForecastEntry {
	var matches func(t time.Time) bool

	switch timeframe {
	case TimeframeTonight:
		// 6 PM today (or now, if the evening already started) to 6 AM tomorrow.
		start := time.Date(now.Year(), now.Month(), now.Day(), 18, 0, 0, 0, time.UTC)
		if now.Hour() >= 18 {
			start = now
		}
		nextDay := now.AddDate(0, 0, 1)
		end := time.Date(nextDay.Year(), nextDay.Month(), nextDay.Day(), 6, 0, 0, 0, time.UTC)
		matches = func(t time.Time) bool {
			return !t.Before(start) && !t.After(end)
		}

	case TimeframeTomorrow:
		// The next full calendar day, [00:00, 24:00).
		start := truncateToDay(now.AddDate(0, 0, 1))
		end := start.AddDate(0, 0, 1)
		matches = func(t time.Time) bool {
			return !t.Before(start) && t.Before(end)
		}

	case TimeframeWeekend:
		// Next Saturday 00:00 through the following Monday 00:00. On a
		// Saturday afternoon the weekend after next is used instead.
		daysUntilSaturday := int((time.Saturday - now.Weekday() + 7) % 7)
		if daysUntilSaturday == 0 && now.Hour() >= 12 {
			daysUntilSaturday = 7
		}
		start := truncateToDay(now.AddDate(0, 0, daysUntilSaturday))
		end := start.AddDate(0, 0, 2)
		matches = func(t time.Time) bool {
			return !t.Before(start) && t.Before(end)
		}

	default:
		// next_3_days and anything unrecognized: everything up to 72h out.
		end := now.Add(72 * time.Hour)
		matches = func(t time.Time) bool {
			return !t.After(end)
		}
	}

	var filtered []weather.ForecastEntry
	for _, entry := range entries {
		if matches(time.Unix(entry.Dt, 0).UTC()) {
			filtered = append(filtered, entry)
		}
	}
	return filtered
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func normalizeEntry(entry weather.ForecastEntry, tempUnit string) map[string]any {
	condition := weather.Condition{}
	if len(entry.Weather) > 0 {
		condition = entry.Weather[0]
	}

	precipitationProb := 0.0
	if entry.Pop != nil {
		precipitationProb = *entry.Pop * 100
	}

	return map[string]any{
		"datetime":           time.Unix(entry.Dt, 0).UTC().Format("2006-01-02T15:04:05"),
		"timestamp":          entry.Dt,
		"temp":               floatOrNil(entry.Main.Temp),
		"temp_unit":          tempUnit,
		"feels_like":         floatOrNil(entry.Main.FeelsLike),
		"temp_min":           floatOrNil(entry.Main.TempMin),
		"temp_max":           floatOrNil(entry.Main.TempMax),
		"condition":          utils.GetOrDefault(condition.Main, "Unknown"),
		"description":        condition.Description,
		"precipitation_prob": precipitationProb,
		"wind_speed":         floatOrNil(entry.Wind.Speed),
		"humidity":           floatOrNil(entry.Main.Humidity),
		"clouds":             floatOrNil(entry.Clouds.All),
	}
}

func forecastError(message, timeframe string) map[string]any {
	return map[string]any{
		"error":     message,
		"timeframe": timeframe,
		"entries":   []map[string]any{},
		"count":     0,
	}
}
