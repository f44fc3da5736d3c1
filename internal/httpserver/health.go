package httpserver

import (
	"taskmaster-bot/pkg/response"

	"github.com/gin-gonic/gin"
)

// Health response constants (single source for version and service identity).
const (
	HealthVersion = "1.0.0"
	ServiceName   = "taskmaster-bot"
)

// healthCheck handles health check requests
// @Summary Health Check
// @Description Check if the API is healthy
// @Tags Health
// @Produce json
// @Success 200 {object} response.Resp "API is healthy"
// @Router /health [get]
func (srv *HTTPServer) healthCheck(c *gin.Context) {
	response.OK(c, srv.status("healthy"))
}

// readyCheck reports ready once the configured dependency check passes.
// @Summary Readiness Check
// @Description Check if the API and its task store are ready to serve traffic
// @Tags Health
// @Produce json
// @Success 200 {object} response.Resp "API is ready"
// @Failure 503 {object} response.Resp "Task store unavailable"
// @Router /ready [get]
func (srv *HTTPServer) readyCheck(c *gin.Context) {
	if srv.readiness != nil {
		if err := srv.readiness(c.Request.Context()); err != nil {
			srv.l.Warnf(c.Request.Context(), "internal.httpserver.readyCheck: %v", err)
			response.ServiceUnavailable(c, err)
			return
		}
	}
	response.OK(c, srv.status("ready"))
}

// liveCheck handles liveness check requests
// @Summary Liveness Check
// @Description Check if the API is alive
// @Tags Health
// @Produce json
// @Success 200 {object} response.Resp "API is alive"
// @Router /live [get]
func (srv *HTTPServer) liveCheck(c *gin.Context) {
	response.OK(c, srv.status("alive"))
}

func (srv *HTTPServer) status(state string) gin.H {
	return gin.H{
		"status":      state,
		"version":     HealthVersion,
		"service":     ServiceName,
		"environment": srv.environment,
	}
}
