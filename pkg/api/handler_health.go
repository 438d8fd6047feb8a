package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/novelenchant/enchant/pkg/database"
	"github.com/novelenchant/enchant/pkg/version"
)

// healthHandler handles GET /health: database connectivity plus the
// scheduler's worker pool status, escalating overall status from
// healthy to degraded to unhealthy.
func (s *Server) healthHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]HealthCheck)
	status := "healthy"

	dbHealth, err := database.Health(ctx, s.dbClient.DB())
	if err != nil {
		checks["database"] = HealthCheck{Status: "unhealthy", Message: err.Error()}
		status = "unhealthy"
	} else {
		checks["database"] = HealthCheck{Status: dbHealth.Status}
		if dbHealth.Status == "degraded" && status == "healthy" {
			status = "degraded"
		}
	}

	poolHealth := s.scheduler.Health(ctx)
	if !poolHealth.IsHealthy {
		checks["scheduler"] = HealthCheck{Status: "degraded", Message: poolHealth.DBError}
		if status == "healthy" {
			status = "degraded"
		}
	} else {
		checks["scheduler"] = HealthCheck{Status: "healthy"}
	}

	httpStatus := http.StatusOK
	if status == "unhealthy" {
		httpStatus = http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, HealthResponse{Status: status, Version: version.Full(), Checks: checks})
}
