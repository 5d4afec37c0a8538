package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/nimbuslab/nimbus/internal/pkg/utils"
)

const (
	DefaultBaseURL       = "https://api.openweathermap.org"
	DefaultTimeout       = 10 * time.Second
	DefaultMaxRetries    = 3
	DefaultBackoffFactor = 500 * time.Millisecond

	userAgent = "nimbus/0.1"
)

type Config struct {
	APIKey        string
	BaseURL       string
	Timeout       time.Duration
	MaxRetries    int
	BackoffFactor time.Duration
	DefaultLang   string
}

// StatusError is returned for non-2xx upstream responses that the retry
// policy did not recover.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("openweather: upstream returned %d: %s", e.StatusCode, e.Body)
}

// Client is a long-lived OpenWeather HTTP client. It owns a pooled
// http.Client and is safe for concurrent use; create one at startup and
// Close it at shutdown.
type Client struct {
	apiKey        string
	baseURL       string
	maxRetries    int
	backoffFactor time.Duration
	defaultLang   string
	httpClient    *http.Client
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openweather: API key not configured")
	}
	maxRetries := utils.GetOrDefault(cfg.MaxRetries, DefaultMaxRetries)
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &Client{
		apiKey:        cfg.APIKey,
		baseURL:       utils.GetOrDefault(cfg.BaseURL, DefaultBaseURL),
		maxRetries:    maxRetries,
		backoffFactor: utils.GetOrDefault(cfg.BackoffFactor, DefaultBackoffFactor),
		defaultLang:   cfg.DefaultLang,
		httpClient: &http.Client{
			Timeout: utils.GetOrDefault(cfg.Timeout, DefaultTimeout),
		},
	}, nil
}

// Close releases the pooled connections. The client must not be used after.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// get performs a GET against the OpenWeather API with the configured retry
// policy. 429 and 5xx responses and transport failures are retried with
// exponential backoff; other non-2xx statuses fail immediately.
func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	query := url.Values{}
	for key, values := range params {
		for _, value := range values {
			query.Add(key, value)
		}
	}
	query.Set("appid", c.apiKey)
	endpoint := c.baseURL + path + "?" + query.Encode()

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("openweather: building request: %w", err)
		}
		req.Header.Set("User-Agent", userAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			slog.Warn("OpenWeather request failed", "path", path, "attempt", attempt, "error", err)
			if attempt < c.maxRetries {
				if err := c.sleep(ctx, c.computeDelay(attempt, nil)); err != nil {
					return nil, err
				}
				continue
			}
			return nil, fmt.Errorf("openweather: request failed: %w", lastErr)
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			slog.Warn("OpenWeather response read failed", "path", path, "attempt", attempt, "error", readErr)
			if attempt < c.maxRetries {
				if err := c.sleep(ctx, c.computeDelay(attempt, nil)); err != nil {
					return nil, err
				}
				continue
			}
			return nil, fmt.Errorf("openweather: reading response: %w", lastErr)
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			lastErr = &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
			slog.Warn("OpenWeather transient status", "path", path, "attempt", attempt, "status", resp.StatusCode)
			if attempt < c.maxRetries {
				if err := c.sleep(ctx, c.computeDelay(attempt, resp)); err != nil {
					return nil, err
				}
				continue
			}
			return nil, lastErr
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			// Caller errors (e.g. 400/401/404) are not transient; fail now.
			return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
		}

		return body, nil
	}

	return nil, lastErr
}

// computeDelay returns backoffFactor * 2^(attempt-1). A numeric Retry-After
// header on a 429 response wins when it is larger; a non-numeric header is
// ignored.
func (c *Client) computeDelay(attempt int, resp *http.Response) time.Duration {
	delay := time.Duration(float64(c.backoffFactor) * math.Pow(2, float64(attempt-1)))
	if resp != nil && resp.StatusCode == http.StatusTooManyRequests {
		if header := resp.Header.Get("Retry-After"); header != "" {
			if seconds, err := strconv.ParseFloat(header, 64); err == nil {
				if hinted := time.Duration(seconds * float64(time.Second)); hinted > delay {
					return hinted
				}
			}
		}
	}
	return delay
}

func (c *Client) sleep(ctx context.Context, delay time.Duration) error {
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (c *Client) lang(lang string) string {
	return utils.GetOrDefault(lang, c.defaultLang)
}

func geocodeQuery(q string, limit int, lang string) url.Values {
	params := url.Values{}
	params.Set("q", q)
	params.Set("limit", strconv.Itoa(limit))
	if lang != "" {
		params.Set("lang", lang)
	}
	return params
}

func coordQuery(lat, lon float64, units, lang string) url.Values {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("units", units)
	if lang != "" {
		params.Set("lang", lang)
	}
	return params
}

// GeocodeDirect resolves a free-form place name into candidate coordinates.
func (c *Client) GeocodeDirect(ctx context.Context, q string, limit int, lang string) ([]GeocodeResult, error) {
	body, err := c.get(ctx, "/geo/1.0/direct", geocodeQuery(q, limit, c.lang(lang)))
	if err != nil {
		return nil, err
	}
	var results []GeocodeResult
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, fmt.Errorf("openweather: decoding geocode response: %w", err)
	}
	return results, nil
}

// GeocodeDirectRaw returns the untouched upstream geocoding payload.
func (c *Client) GeocodeDirectRaw(ctx context.Context, q string, limit int, lang string) (json.RawMessage, error) {
	return c.get(ctx, "/geo/1.0/direct", geocodeQuery(q, limit, c.lang(lang)))
}

// CurrentWeather fetches current conditions for a coordinate pair.
func (c *Client) CurrentWeather(ctx context.Context, lat, lon float64, units, lang string) (*CurrentWeather, error) {
	body, err := c.get(ctx, "/data/2.5/weather", coordQuery(lat, lon, units, c.lang(lang)))
	if err != nil {
		return nil, err
	}
	var current CurrentWeather
	if err := json.Unmarshal(body, &current); err != nil {
		return nil, fmt.Errorf("openweather: decoding current weather response: %w", err)
	}
	return &current, nil
}

// CurrentWeatherRaw returns the untouched upstream current weather payload.
func (c *Client) CurrentWeatherRaw(ctx context.Context, lat, lon float64, units, lang string) (json.RawMessage, error) {
	return c.get(ctx, "/data/2.5/weather", coordQuery(lat, lon, units, c.lang(lang)))
}

// Forecast5Day fetches the 5-day/3-hour forecast for a coordinate pair.
func (c *Client) Forecast5Day(ctx context.Context, lat, lon float64, units, lang string) (*Forecast, error) {
	body, err := c.get(ctx, "/data/2.5/forecast", coordQuery(lat, lon, units, c.lang(lang)))
	if err != nil {
		return nil, err
	}
	var forecast Forecast
	if err := json.Unmarshal(body, &forecast); err != nil {
		return nil, fmt.Errorf("openweather: decoding forecast response: %w", err)
	}
	return &forecast, nil
}
