package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/courseapi/internal/app/models/dto"
	"github.com/yigit/courseapi/internal/middleware"
	"github.com/yigit/courseapi/internal/pkg/logger"
)

// Pinger reports whether a backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthController serves the liveness endpoint
type HealthController struct {
	db Pinger
}

// NewHealthController creates a new HealthController
func NewHealthController(db Pinger) *HealthController {
	return &HealthController{db: db}
}

// Health reports service health
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.HealthResponse} "Service is healthy"
// @Failure 503 {object} dto.APIResponse{data=dto.HealthResponse} "Database unavailable"
// @Router /health [get]
func (c *HealthController) Health(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	if err := c.db.Ping(pingCtx); err != nil {
		logger.Warn().Err(err).Msg("Health check failed to reach the database")
		middleware.RespondWithError(ctx, http.StatusServiceUnavailable, "Database unavailable", dto.HealthResponse{Status: "unavailable"})
		return
	}

	middleware.RespondWithSuccess(ctx, http.StatusOK, "Service is healthy", dto.HealthResponse{Status: "ok"})
}
