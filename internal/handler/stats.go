package handler

import (
	"net/http"

	"taskboard/internal/service"
	apperrors "taskboard/pkg/errors"
	"taskboard/pkg/logger"

	"github.com/gin-gonic/gin"
)

type StatsHandler struct {
	statsService service.StatsService
	log          logger.Logger
}

func NewStatsHandler(statsService service.StatsService, log logger.Logger) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
		log:          log,
	}
}

func (h *StatsHandler) Dashboard(c *gin.Context) {
	user, ok := userFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	stats, err := h.statsService.GetDashboard(c.Request.Context(), user.ID)
	if err != nil {
		h.log.Error("Failed to build dashboard", "error", err, "user_id", user.ID)
		c.JSON(apperrors.HTTPStatusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, stats)
}
