package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nimbuslab/nimbus/internal/pkg/weather"
)

// WeatherController exposes thin raw-JSON proxies to the upstream provider,
// mainly for debugging what the tools see.
type WeatherController struct {
	client *weather.Client
}

func NewWeatherController(client *weather.Client) *WeatherController {
	return &WeatherController{client: client}
}

// Geocode godoc
//	@Summary		Direct geocoding lookup
//	@Description	Proxies the OpenWeather direct geocoding endpoint; returns the raw JSON list
//	@Tags			weather
//	@Produce		json
//	@Param			q		query	string	true	"Place name to resolve"
//	@Param			limit	query	int		false	"Maximum candidates"	default(1)
//	@Param			lang	query	string	false	"Response language"
//	@Success		200	{array}		map[string]any	"Raw candidate list"
//	@Failure		400	{object}	map[string]string	"Bad request"
//	@Failure		502	{object}	map[string]string	"Upstream transport error"
//	@Router			/api/v1/geocode [get]
func (wc *WeatherController) Geocode(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required query parameter: q"})
		return
	}
	limit := 1
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
			return
		}
		limit = parsed
	}

	body, err := wc.client.GeocodeDirectRaw(c.Request.Context(), q, limit, c.Query("lang"))
	if err != nil {
		wc.renderUpstreamError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", body)
}

// CurrentWeather godoc
//	@Summary		Current weather lookup
//	@Description	Proxies the OpenWeather current weather endpoint; returns the raw JSON object
//	@Tags			weather
//	@Produce		json
//	@Param			lat		query	number	true	"Latitude"
//	@Param			lon		query	number	true	"Longitude"
//	@Param			units	query	string	false	"Unit system"	default(metric)
//	@Param			lang	query	string	false	"Response language"
//	@Success		200	{object}	map[string]any	"Raw current weather"
//	@Failure		400	{object}	map[string]string	"Bad request"
//	@Failure		502	{object}	map[string]string	"Upstream transport error"
//	@Router			/api/v1/weather/current [get]
func (wc *WeatherController) CurrentWeather(c *gin.Context) {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat must be a number"})
		return
	}
	lon, err := strconv.ParseFloat(c.Query("lon"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lon must be a number"})
		return
	}
	units := c.DefaultQuery("units", "metric")

	body, err := wc.client.CurrentWeatherRaw(c.Request.Context(), lat, lon, units, c.Query("lang"))
	if err != nil {
		wc.renderUpstreamError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", body)
}

// Upstream status errors keep their status code; transport failures map to
// 502.
func (wc *WeatherController) renderUpstreamError(c *gin.Context, err error) {
	var statusErr *weather.StatusError
	if errors.As(err, &statusErr) {
		c.JSON(statusErr.StatusCode, gin.H{"error": statusErr.Body})
		return
	}
	c.JSON(http.StatusBadGateway, gin.H{"error": fmt.Sprintf("upstream error: %v", err)})
}
