package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORSMiddleware answers preflight requests and tags every response for the
// admin dashboard, which may be served from any origin.
func CORSMiddleware() gin.HandlerFunc {
	config := cors.Config{
		AllowAllOrigins: true,
		AllowMethods: []string{
			"POST", "GET", "DELETE", "OPTIONS",
		},
		AllowHeaders: []string{
			"authorization", "x-client-info", "apikey", "content-type",
		},
		ExposeHeaders: []string{
			RequestIDHeader,
		},
		MaxAge: 12 * time.Hour,
	}

	return cors.New(config)
}
