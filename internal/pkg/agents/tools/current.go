package tools

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mitchellh/mapstructure"
	"github.com/nimbuslab/nimbus/internal/pkg/utils"
	"github.com/nimbuslab/nimbus/internal/pkg/weather"
)

// CurrentConditionsTool fetches and normalizes current weather for a
// coordinate pair.
type CurrentConditionsTool struct {
	client       *weather.Client
	defaultUnits string
}

func NewCurrentConditionsTool(client *weather.Client, units string) *CurrentConditionsTool {
	return &CurrentConditionsTool{
		client:       client,
		defaultUnits: utils.GetOrDefault(units, defaultUnits),
	}
}

func (t *CurrentConditionsTool) Name() string {
	return "current_conditions"
}

func (t *CurrentConditionsTool) Description() string {
	return "Get current weather conditions for specific coordinates, including temperature, feels-like, condition, wind, humidity and cloud cover."
}

func (t *CurrentConditionsTool) Parameters() Parameters {
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
			"units": {
				Type:        "string",
				Description: `Unit system - "metric" (Celsius), "imperial" (Fahrenheit), or "standard" (Kelvin)`,
				Enum:        []string{"metric", "imperial", "standard"},
			},
		},
		Required: []string{"lat", "lon"},
	}
}

type currentArgs struct {
	Lat   float64 `mapstructure:"lat"`
	Lon   float64 `mapstructure:"lon"`
	Units string  `mapstructure:"units"`
}

func (t *CurrentConditionsTool) Execute(ctx context.Context, args map[string]any) map[string]any {
	var in currentArgs
	if err := mapstructure.Decode(args, &in); err != nil {
		return currentError(fmt.Sprintf("Invalid arguments: %v", err))
	}
	units := utils.GetOrDefault(in.Units, t.defaultUnits)

	raw, err := t.client.CurrentWeather(ctx, in.Lat, in.Lon, units, "")
	if err != nil {
		slog.Error("Current conditions tool: fetch failed", "lat", in.Lat, "lon", in.Lon, "error", err)
		return currentError(fmt.Sprintf("Failed to fetch weather data: %v", err))
	}

	condition := weather.Condition{}
	if len(raw.Weather) > 0 {
		condition = raw.Weather[0]
	}
	tempUnit, windUnit := unitSuffixes(units)

	return map[string]any{
		"temp":        floatOrNil(raw.Main.Temp),
		"temp_unit":   tempUnit,
		"feels_like":  floatOrNil(raw.Main.FeelsLike),
		"condition":   utils.GetOrDefault(condition.Main, "Unknown"),
		"description": condition.Description,
		"wind_speed":  floatOrNil(raw.Wind.Speed),
		"wind_unit":   windUnit,
		"wind_deg":    floatOrNil(raw.Wind.Deg),
		"humidity":    floatOrNil(raw.Main.Humidity),
		"clouds":      floatOrNil(raw.Clouds.All),
		"pressure":    floatOrNil(raw.Main.Pressure),
		"visibility":  floatOrNil(raw.Visibility),
	}
}

func currentError(message string) map[string]any {
	return map[string]any{
		"error":       message,
		"temp":        nil,
		"feels_like":  nil,
		"condition":   nil,
		"description": nil,
		"wind_speed":  nil,
		"humidity":    nil,
		"clouds":      nil,
	}
}
