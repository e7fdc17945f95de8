package main

import (
	"time"

	"contenthub/config"
	"contenthub/models"
	"contenthub/routes"
	"contenthub/utils"
	"contenthub/weather"
)

func main() {
	cfg := config.Load()

	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(&models.User{}, &models.Post{}, &models.Comment{}, &models.PostLike{})

	// The weather cache is owned here and handed to the service; it is
	// the only process-wide mutable state outside the database.
	weatherCache := utils.NewTTLCache(time.Duration(cfg.WeatherCacheTTLSec) * time.Second)
	weatherClient := weather.NewClient(cfg.WeatherAPIURL, cfg.WeatherAPIKey)
	weatherSvc := weather.NewService(weatherClient, weatherCache)

	r := routes.SetupRouter(db, weatherSvc)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
