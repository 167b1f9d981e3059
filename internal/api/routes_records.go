package api

import (
	"github.com/gin-gonic/gin"

	"github.com/avereen/studylog/internal/handlers"
)

type recordRouteDeps struct {
	RecordHandler *handlers.RecordHandler
	StatsHandler  *handlers.StatsHandler
}

func registerRecordRoutes(api *gin.RouterGroup, deps recordRouteDeps) {
	records := api.Group("/records")
	{
		records.GET("", deps.RecordHandler.List)
		records.POST("", deps.RecordHandler.Create)
		records.DELETE("/:id", deps.RecordHandler.Delete)
	}

	api.GET("/stats", deps.StatsHandler.Summary)
}
