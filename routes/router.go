package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"contenthub/config"
	"contenthub/controllers"
	"contenthub/middleware"
	"contenthub/models"
	"contenthub/services"
	"contenthub/utils"
	"contenthub/weather"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB, weatherSvc *weather.Service) *gin.Engine {
	cfg := config.Get()
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(utils.Ginzap(utils.Logger))
	r.Use(utils.RecoveryWithZap(utils.Logger))
	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		MaxAge:           12 * time.Hour,
	}))

	userService := services.NewUserService(db)
	postService := services.NewPostService(db, cfg.UploadDir)

	authController := controllers.NewAuthController(userService)
	userController := controllers.NewUserController(userService, cfg.UploadDir)
	postController := controllers.NewPostController(postService, cfg.UploadDir)
	weatherController := controllers.NewWeatherController(weatherSvc)

	r.Static("/uploads", cfg.UploadDir)

	r.GET("/", func(ctx *gin.Context) {
		utils.Success(ctx, http.StatusOK, gin.H{"message": "Welcome to the contenthub API"})
	})
	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.Use(middleware.RateLimit(time.Duration(cfg.RateLimitWindowMin)*time.Minute, cfg.RateLimitMax))
	api.Use(middleware.ErrorHandler())

	auth := api.Group("/auth")
	auth.POST("/register", authController.Register)
	auth.POST("/login", authController.Login)
	auth.GET("/me", middleware.AuthRequired(), authController.Me)
	auth.POST("/logout", middleware.AuthRequired(), authController.Logout)

	users := api.Group("/users")
	users.Use(middleware.AuthRequired())
	users.GET("", middleware.RequireRoles(models.RoleAdmin), userController.List)
	users.POST("", middleware.RequireRoles(models.RoleAdmin), userController.Create)
	users.GET("/:id", userController.Get)
	users.PUT("/:id", userController.Update)
	users.DELETE("/:id", middleware.RequireRoles(models.RoleAdmin), userController.Delete)
	users.PUT("/:id/profile-image", userController.UpdateProfileImage)

	posts := api.Group("/posts")
	posts.GET("", postController.List)
	posts.GET("/:id", postController.Get)
	posts.POST("", middleware.AuthRequired(), postController.Create)
	posts.PUT("/:id", middleware.AuthRequired(), postController.Update)
	posts.DELETE("/:id", middleware.AuthRequired(), postController.Delete)
	posts.POST("/:id/comments", middleware.AuthRequired(), postController.AddComment)
	posts.PUT("/:id/like", middleware.AuthRequired(), postController.ToggleLike)

	weatherGroup := api.Group("/weather")
	weatherGroup.GET("/current/:city", weatherController.Current)
	weatherGroup.GET("/forecast/:city", weatherController.Forecast)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Fail(ctx, http.StatusNotFound, "Route not found: "+ctx.Request.URL.Path, nil)
	})

	return r
}
