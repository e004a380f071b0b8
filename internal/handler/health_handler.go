package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/olagu/console/internal/common"
)

// ConnectionTester probes the remote console API
type ConnectionTester interface {
	TestConnection(ctx context.Context) (map[string]interface{}, error)
}

// Pinger is any dependency with a liveness check
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler liveness and upstream reachability
type HealthHandler struct {
	remote ConnectionTester
	deps   map[string]Pinger
}

// NewHealthHandler creates a new HealthHandler. deps are reported by name in /health.
func NewHealthHandler(remote ConnectionTester, deps map[string]Pinger) *HealthHandler {
	return &HealthHandler{remote: remote, deps: deps}
}

// Health godoc
// @Summary      Health check
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]interface{}
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := gin.H{}
	for name, dep := range h.deps {
		if dep == nil {
			continue
		}
		if err := dep.Ping(ctx); err != nil {
			checks[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	state := "ok"
	if status != http.StatusOK {
		state = "degraded"
	}
	c.JSON(status, gin.H{"status": state, "checks": checks, "time": time.Now().Unix()})
}

// TestConnection godoc
// @Summary      Probe the remote console API
// @Tags         health
// @Produce      json
// @Success      200  {object}  common.V2Response
// @Failure      502  {object}  common.V2Response
// @Failure      504  {object}  common.V2Response
// @Router       /test-connection [get]
func (h *HealthHandler) TestConnection(c *gin.Context) {
	res, err := h.remote.TestConnection(c.Request.Context())
	if err != nil {
		common.HandleError(c, err, "Remote service unreachable")
		return
	}
	common.V2Success(c, res)
}
