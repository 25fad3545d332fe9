package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/mr1hm/go-air-alerts/internal/status"
)

// NewRouter builds the status API engine with recovery, CORS and a global
// rate limit of rps requests per second.
func NewRouter(tracker *status.Tracker, rps float64) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
	}))
	router.Use(RateLimitMiddleware(rps, int(rps)))

	NewHandler(tracker).RegisterRoutes(router)
	return router
}
