// Package weather fetches daily forecasts for the weather bar from Open-Meteo.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/abelbrown/bantin/internal/model"
)

// DefaultEndpoint is the Open-Meteo forecast API.
const DefaultEndpoint = "https://api.open-meteo.com/v1/forecast"

// ErrInvalidData is returned when the response lacks a field the bar needs.
var ErrInvalidData = errors.New("invalid weather data")

// Client fetches forecasts. Safe for concurrent use.
type Client struct {
	endpoint string
	timezone string
	client   *http.Client
	limiter  *rate.Limiter
}

// NewClient creates a client. Empty endpoint and timezone use the defaults.
func NewClient(endpoint, timezone string) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if timezone == "" {
		timezone = "Asia/Ho_Chi_Minh"
	}
	return &Client{
		endpoint: endpoint,
		timezone: timezone,
		client:   &http.Client{Timeout: 10 * time.Second},
		limiter:  rate.NewLimiter(rate.Every(time.Second), 2),
	}
}

type forecastResponse struct {
	Daily struct {
		TempMax    []float64 `json:"temperature_2m_max"`
		TempMin    []float64 `json:"temperature_2m_min"`
		RainChance []float64 `json:"precipitation_probability_max"`
		Code       []int     `json:"weather_code"`
	} `json:"daily"`
	Current struct {
		Humidity *float64 `json:"relative_humidity_2m"`
	} `json:"current"`
}

// Fetch returns today's forecast for city. Values are rounded to whole units.
func (c *Client) Fetch(ctx context.Context, city model.City) (*model.WeatherData, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(city.Lat, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(city.Lon, 'f', -1, 64))
	q.Set("daily", "temperature_2m_max,temperature_2m_min,precipitation_probability_max,weather_code")
	q.Set("current", "relative_humidity_2m")
	q.Set("timezone", c.timezone)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch weather for %s: %w", city.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error: %d for %s", resp.StatusCode, city.Name)
	}

	var data forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode weather for %s: %w", city.Name, err)
	}

	d := data.Daily
	if len(d.TempMax) == 0 || len(d.TempMin) == 0 || len(d.RainChance) == 0 || len(d.Code) == 0 || data.Current.Humidity == nil {
		return nil, fmt.Errorf("%w for %s", ErrInvalidData, city.Name)
	}

	return &model.WeatherData{
		City:        city.Name,
		TempMin:     round(d.TempMin[0]),
		TempMax:     round(d.TempMax[0]),
		Humidity:    round(*data.Current.Humidity),
		RainChance:  round(d.RainChance[0]),
		WeatherCode: d.Code[0],
	}, nil
}

func round(f float64) int {
	return int(math.Round(f))
}
