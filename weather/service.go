package weather

import (
	"context"
	"fmt"
	"sort"
	"time"

	"contenthub/utils"
)

// DefaultForecastDays is used when no day count is requested.
const DefaultForecastDays = 5

// intervalsPerDay is how many three-hour entries the upstream returns
// per calendar day.
const intervalsPerDay = 8

// CurrentWeather is the normalized current-conditions shape.
type CurrentWeather struct {
	City        string    `json:"city"`
	Country     string    `json:"country"`
	Temperature float64   `json:"temperature"`
	FeelsLike   float64   `json:"feels_like"`
	Humidity    int       `json:"humidity"`
	Pressure    int       `json:"pressure"`
	Weather     string    `json:"weather"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	WindSpeed   float64   `json:"wind_speed"`
	Timestamp   time.Time `json:"timestamp"`
}

// ForecastInterval is one three-hour slot inside a forecast day.
type ForecastInterval struct {
	Time        string  `json:"time"`
	Temperature float64 `json:"temperature"`
	FeelsLike   float64 `json:"feels_like"`
	Weather     string  `json:"weather"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
	WindSpeed   float64 `json:"wind_speed"`
	Humidity    int     `json:"humidity"`
	Pressure    int     `json:"pressure"`
}

// ForecastDay buckets the intervals of one calendar date.
type ForecastDay struct {
	Date      string             `json:"date"`
	Intervals []ForecastInterval `json:"intervals"`
}

// Forecast is the normalized multi-day forecast shape.
type Forecast struct {
	City      string        `json:"city"`
	Country   string        `json:"country"`
	Forecast  []ForecastDay `json:"forecast"`
	Timestamp time.Time     `json:"timestamp"`
}

// Service fetches weather from the upstream API through a shared
// process-wide TTL cache. Cached entries are immutable; concurrent
// misses for one key may each fetch upstream, which is harmless because
// results are idempotent.
type Service struct {
	client *Client
	cache  *utils.TTLCache
	now    func() time.Time
}

// NewService creates a Service around an owned cache instance.
func NewService(client *Client, cache *utils.TTLCache) *Service {
	return &Service{client: client, cache: cache, now: time.Now}
}

// NewServiceWithClock creates a Service with a caller-supplied clock.
func NewServiceWithClock(client *Client, cache *utils.TTLCache, now func() time.Time) *Service {
	return &Service{client: client, cache: cache, now: now}
}

// Current returns current conditions for a city, served from cache when
// fresh.
func (s *Service) Current(ctx context.Context, city string) (*CurrentWeather, error) {
	key := "weather_" + city
	if cached, ok := s.cache.Get(key); ok {
		utils.Sugar.Debugf("returning cached weather data for %s", city)
		return cached.(*CurrentWeather), nil
	}

	utils.Sugar.Infof("fetching weather data for city: %s", city)
	payload, err := s.client.FetchCurrent(ctx, city)
	if err != nil {
		return nil, mapUpstreamError(err)
	}

	data := &CurrentWeather{
		City:        payload.Name,
		Country:     payload.Sys.Country,
		Temperature: payload.Main.Temp,
		FeelsLike:   payload.Main.FeelsLike,
		Humidity:    payload.Main.Humidity,
		Pressure:    payload.Main.Pressure,
		WindSpeed:   payload.Wind.Speed,
		Timestamp:   s.now(),
	}
	if len(payload.Weather) > 0 {
		data.Weather = payload.Weather[0].Main
		data.Description = payload.Weather[0].Description
		data.Icon = payload.Weather[0].Icon
	}

	s.cache.Set(key, data)
	return data, nil
}

// GetForecast returns a days-long forecast for a city, served from
// cache when fresh. Intervals are grouped by UTC calendar date, dates
// sorted ascending and truncated to the requested count.
func (s *Service) GetForecast(ctx context.Context, city string, days int) (*Forecast, error) {
	if days < 1 {
		days = DefaultForecastDays
	}
	if days > 16 {
		days = 16
	}

	key := fmt.Sprintf("forecast_%s_%d", city, days)
	if cached, ok := s.cache.Get(key); ok {
		utils.Sugar.Debugf("returning cached forecast data for %s", city)
		return cached.(*Forecast), nil
	}

	utils.Sugar.Infof("fetching %d-day forecast for city: %s", days, city)
	payload, err := s.client.FetchForecast(ctx, city, days*intervalsPerDay)
	if err != nil {
		return nil, mapUpstreamError(err)
	}

	data := &Forecast{
		City:      payload.City.Name,
		Country:   payload.City.Country,
		Forecast:  bucketByDay(payload.List, days),
		Timestamp: s.now(),
	}

	s.cache.Set(key, data)
	return data, nil
}

// bucketByDay groups three-hour entries by calendar date derived from
// each entry's epoch timestamp.
func bucketByDay(entries []forecastEntry, days int) []ForecastDay {
	byDate := map[string][]ForecastInterval{}
	for _, e := range entries {
		ts := time.Unix(e.Dt, 0).UTC()
		date := ts.Format("2006-01-02")

		interval := ForecastInterval{
			Time:        ts.Format(time.RFC3339),
			Temperature: e.Main.Temp,
			FeelsLike:   e.Main.FeelsLike,
			WindSpeed:   e.Wind.Speed,
			Humidity:    e.Main.Humidity,
			Pressure:    e.Main.Pressure,
		}
		if len(e.Weather) > 0 {
			interval.Weather = e.Weather[0].Main
			interval.Description = e.Weather[0].Description
			interval.Icon = e.Weather[0].Icon
		}
		byDate[date] = append(byDate[date], interval)
	}

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	if len(dates) > days {
		dates = dates[:days]
	}

	result := make([]ForecastDay, 0, len(dates))
	for _, d := range dates {
		result = append(result, ForecastDay{Date: d, Intervals: byDate[d]})
	}
	return result
}

func mapUpstreamError(err error) error {
	if err == ErrCityNotFound {
		return utils.NewNotFoundError("City not found")
	}
	utils.Sugar.Errorf("error fetching weather data: %v", err)
	return utils.NewUpstreamError(err.Error())
}
