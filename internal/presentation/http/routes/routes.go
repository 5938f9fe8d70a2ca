// Package routes provides HTTP route configuration for the presentation layer.
package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/studio-one/portfolio-api/internal/application/container"
	"github.com/studio-one/portfolio-api/internal/presentation/http/handlers"
	"github.com/studio-one/portfolio-api/internal/presentation/http/middleware"
)

// SetupRoutes configures all HTTP routes and middleware with dependency injection.
func SetupRoutes(container *container.Container) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.CORSMiddleware())

	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method Not Allowed"})
	})
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not Found"})
	})

	// Initialize handlers
	authHandlers := handlers.NewAuthHandlers(container.AuthService, container.Logger, container.PerfTracker)
	dangerHandlers := handlers.NewDangerZoneHandlers(container.DeletionService, container.Logger, container.PerfTracker)
	activityHandlers := handlers.NewActivityHandlers(container.ActivityService, container.Logger, container.PerfTracker)
	storageHandlers := handlers.NewStorageHandlers(container.StorageMetricsService, container.Logger, container.PerfTracker)
	contactHandlers := handlers.NewContactHandlers(container.ContactService, container.Logger, container.PerfTracker)
	systemHandlers := handlers.NewSystemHandlers(container.DB, container.Logger, container.PerfTracker)

	api := r.Group("/api/v1")
	{
		api.GET("/health", systemHandlers.GetHealth)
		api.POST("/auth/login", authHandlers.PostLogin)

		admin := api.Group("/admin")
		admin.Use(middleware.AdminAuthMiddleware(container.AuthService, container.Logger, container.PerfTracker))
		{
			admin.POST("/danger/delete", dangerHandlers.PostDelete)
			admin.GET("/danger/sections", dangerHandlers.GetSections)

			admin.GET("/activity", activityHandlers.GetActivity)
			admin.DELETE("/activity", activityHandlers.DeleteActivity)

			admin.GET("/storage-metrics", storageHandlers.GetStorageMetrics)
			admin.POST("/contact/reply", contactHandlers.PostReply)

			admin.GET("/system/logs/levels", systemHandlers.GetLogLevels)
			admin.POST("/system/logs/levels", systemHandlers.SetLogLevel)
			admin.GET("/system/performance", systemHandlers.GetPerformance)
		}
	}

	return r
}
