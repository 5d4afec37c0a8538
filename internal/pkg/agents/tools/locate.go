package tools

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mitchellh/mapstructure"
	"github.com/nimbuslab/nimbus/internal/pkg/weather"
)

// LocateTool resolves a city name into coordinates via OpenWeather direct
// geocoding.
type LocateTool struct {
	client *weather.Client
}

func NewLocateTool(client *weather.Client) *LocateTool {
	return &LocateTool{client: client}
}

func (t *LocateTool) Name() string {
	return "locate"
}

func (t *LocateTool) Description() string {
	return "Convert a city name to geographic coordinates. Returns lat, lon and a normalized place name."
}

func (t *LocateTool) Parameters() Parameters {
	return Parameters{
		Type: "object",
		Properties: map[string]Property{
			"city": {
				Type:        "string",
				Description: `The name of the city to geocode (e.g., "Paris", "New York, US", "Tokyo, Japan")`,
			},
		},
		Required: []string{"city"},
	}
}

type locateArgs struct {
	City string `mapstructure:"city"`
}

func (t *LocateTool) Execute(ctx context.Context, args map[string]any) map[string]any {
	var in locateArgs
	if err := mapstructure.Decode(args, &in); err != nil {
		return locateError(fmt.Sprintf("Invalid arguments: %v", err))
	}

	results, err := t.client.GeocodeDirect(ctx, in.City, 1, "")
	if err != nil {
		slog.Error("Locate tool: geocoding failed", "city", in.City, "error", err)
		return locateError(fmt.Sprintf("Failed to look up '%s': %v", in.City, err))
	}
	if len(results) == 0 {
		return locateError(fmt.Sprintf("Could not find coordinates for '%s'", in.City))
	}

	place := results[0]
	normalizedName := place.Name
	if place.State != "" {
		normalizedName += ", " + place.State
	}
	if place.Country != "" {
		normalizedName += ", " + place.Country
	}

	return map[string]any{
		"lat":             place.Lat,
		"lon":             place.Lon,
		"normalized_name": normalizedName,
	}
}

func locateError(message string) map[string]any {
	return map[string]any{
		"error":           message,
		"lat":             nil,
		"lon":             nil,
		"normalized_name": nil,
	}
}
