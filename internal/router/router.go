package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/comfortbites/backend/internal/api"
	"github.com/comfortbites/backend/internal/database"
	"github.com/comfortbites/backend/internal/middleware"
)

// SetupRouter configures the application routes
func SetupRouter(
	db *gorm.DB,
	sessions middleware.SessionResolver,
	authHandler *api.AuthHandler,
	recipeHandler *api.RecipeHandler,
	allowedOrigins []string,
	uploadsDir string,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	router.Use(middleware.CORS(allowedOrigins))
	router.Use(middleware.Session(sessions))

	router.GET("/health", func(c *gin.Context) {
		if err := database.HealthCheck(c.Request.Context(), db); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Disk-stored recipe images are served statically; with S3 storage the
	// image URLs point at the bucket instead and uploadsDir is empty.
	if uploadsDir != "" {
		router.Static("/uploads", uploadsDir)
	}

	apiGroup := router.Group("/api")
	authHandler.RegisterRoutes(apiGroup)
	recipeHandler.RegisterRoutes(apiGroup)

	return router
}
