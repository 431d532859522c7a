package server

import (
	"context"
	"net/http"
	"time"

	"sehub/internal/api"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthChecks ping the backing stores. A nil check is skipped.
type HealthChecks struct {
	Database func(ctx context.Context) error
	Redis    func(ctx context.Context) error
}

func probe(ctx context.Context, check func(context.Context) error) (string, bool) {
	if check == nil {
		return "", true
	}
	if err := check(ctx); err != nil {
		return "down", false
	}
	return "ok", true
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200 {object} api.HealthResponse
// @Failure      503 {object} api.HealthResponse
// @Router       /health [get]
func Health(checks HealthChecks) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		dbStatus, dbOK := probe(ctx, checks.Database)
		redisStatus, redisOK := probe(ctx, checks.Redis)

		resp := api.HealthResponse{Status: "ok", Database: dbStatus, Redis: redisStatus}
		// The queue only carries e-mail; deposits are still credited without it.
		if !dbOK {
			resp.Status = "unavailable"
			c.JSON(http.StatusServiceUnavailable, resp)
			return
		}
		if !redisOK {
			resp.Status = "degraded"
		}
		c.JSON(http.StatusOK, resp)
	}
}

// @Summary      Prometheus metrics
// @Description  Exposes Prometheus metrics in text format
// @Tags         system
// @Produce      text/plain
// @Success      200 {string} string
// @Router       /metrics [get]
func Metrics() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
