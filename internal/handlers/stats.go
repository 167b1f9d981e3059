package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avereen/studylog/internal/middleware"
	"github.com/avereen/studylog/internal/services"
	"github.com/avereen/studylog/pkg/errors"
	"github.com/avereen/studylog/pkg/response"
)

// StatsHandler serves the aggregate study statistics views.
type StatsHandler struct {
	stats *services.StatsService
}

func NewStatsHandler(stats *services.StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// GET /api/stats
func (h *StatsHandler) Summary(c *gin.Context) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	summary, err := h.stats.Summary(c.Request.Context(), accountID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, summary)
}
