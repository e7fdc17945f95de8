package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// ErrCityNotFound is returned when the upstream reports an unknown city.
var ErrCityNotFound = errors.New("city not found")

// Client talks to an OpenWeatherMap-compatible upstream.
type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
}

// NewClient creates a Client for the given upstream base URL and key.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpc:   &http.Client{Timeout: 10 * time.Second},
	}
}

type conditionPayload struct {
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type mainPayload struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	Humidity  int     `json:"humidity"`
	Pressure  int     `json:"pressure"`
}

type windPayload struct {
	Speed float64 `json:"speed"`
}

type currentPayload struct {
	Name string `json:"name"`
	Sys  struct {
		Country string `json:"country"`
	} `json:"sys"`
	Main    mainPayload        `json:"main"`
	Weather []conditionPayload `json:"weather"`
	Wind    windPayload        `json:"wind"`
}

type forecastEntry struct {
	Dt      int64              `json:"dt"`
	Main    mainPayload        `json:"main"`
	Weather []conditionPayload `json:"weather"`
	Wind    windPayload        `json:"wind"`
}

type forecastPayload struct {
	City struct {
		Name    string `json:"name"`
		Country string `json:"country"`
	} `json:"city"`
	List []forecastEntry `json:"list"`
}

// FetchCurrent requests current conditions for a city in metric units.
func (c *Client) FetchCurrent(ctx context.Context, city string) (*currentPayload, error) {
	params := url.Values{}
	params.Set("q", city)
	params.Set("appid", c.apiKey)
	params.Set("units", "metric")

	var payload currentPayload
	if err := c.get(ctx, "/weather", params, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// FetchForecast requests cnt three-hour forecast intervals for a city.
func (c *Client) FetchForecast(ctx context.Context, city string, cnt int) (*forecastPayload, error) {
	params := url.Values{}
	params.Set("q", city)
	params.Set("appid", c.apiKey)
	params.Set("units", "metric")
	params.Set("cnt", strconv.Itoa(cnt))

	var payload forecastPayload
	if err := c.get(ctx, "/forecast", params, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrCityNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("upstream returned status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
