package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/contentintel/internal/middleware"
)

type RouterDeps struct {
	Content   *ContentHandler
	Search    *SearchHandler
	Status    *StatusHandler
	JWTSecret []byte
	RateLimit time.Duration
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	api.GET("/status", deps.Status.Get)

	authGroup := api.Group("")
	authGroup.Use(middleware.JWTAuth(deps.JWTSecret))
	authGroup.POST("/search/enhance", deps.Search.Enhance)
	authGroup.GET("/search/similar", deps.Search.Similar)

	contentGroup := authGroup.Group("/content")
	contentGroup.Use(middleware.RateLimit(deps.RateLimit))
	contentGroup.POST("/summary", deps.Content.Summary)
	contentGroup.POST("/excerpt", deps.Content.Excerpt)
	contentGroup.POST("/reading-time", deps.Content.ReadingTime)
	contentGroup.POST("/sentiment", deps.Content.Sentiment)
	contentGroup.POST("/tags", deps.Content.Tags)
	contentGroup.POST("/analyze", deps.Content.Analyze)
}
