package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"contenthub/utils"
	"contenthub/weather"
)

// WeatherController exposes the cached weather lookups.
type WeatherController struct {
	svc *weather.Service
}

// NewWeatherController creates a WeatherController.
func NewWeatherController(svc *weather.Service) *WeatherController {
	return &WeatherController{svc: svc}
}

// Current returns current conditions for a city.
func (w *WeatherController) Current(ctx *gin.Context) {
	city := strings.TrimSpace(ctx.Param("city"))
	if city == "" {
		_ = ctx.Error(utils.NewValidationError("city is required"))
		return
	}

	data, err := w.svc.Current(ctx.Request.Context(), city)
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	utils.Success(ctx, http.StatusOK, data)
}

// Forecast returns a multi-day forecast for a city.
func (w *WeatherController) Forecast(ctx *gin.Context) {
	city := strings.TrimSpace(ctx.Param("city"))
	if city == "" {
		_ = ctx.Error(utils.NewValidationError("city is required"))
		return
	}
	days := queryInt(ctx, "days", weather.DefaultForecastDays)

	data, err := w.svc.GetForecast(ctx.Request.Context(), city, days)
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	utils.Success(ctx, http.StatusOK, data)
}
