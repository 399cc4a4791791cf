// Package handlers exposes the monitor's own local HTTP surface: health,
// status and prometheus metrics. This is the client's introspection
// endpoint, not the solar backend.
package handlers

import (
	"net/http"
	"time"

	"solarsync/internal/chart"
	"solarsync/internal/logger"
	"solarsync/internal/telemetry"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// StatusSource reports the current websocket connection status.
type StatusSource interface {
	Status() telemetry.Status
}

// Handler wires the local HTTP layer to the running components.
type Handler struct {
	status    StatusSource
	charts    *chart.Manager
	log       *logger.Logger
	startedAt time.Time
}

// NewHandler constructs the local status handler.
func NewHandler(status StatusSource, charts *chart.Manager, log *logger.Logger) *Handler {
	return &Handler{status: status, charts: charts, log: log, startedAt: time.Now()}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", h.health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.GET("/status", h.apiStatus)
		api.GET("/series", h.apiSeries)
	}

	return router
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) apiStatus(c *gin.Context) {
	st := h.status.Status()
	c.JSON(http.StatusOK, gin.H{
		"status":   "operational",
		"uptime_s": int(time.Since(h.startedAt).Seconds()),
		"connection": gin.H{
			"state":    st.State.String(),
			"attempt":  st.Attempt,
			"delay_ms": st.Delay.Milliseconds(),
		},
		"charts": gin.H{
			"paused": h.charts.Paused(),
		},
	})
}

func (h *Handler) apiSeries(c *gin.Context) {
	snapshot := h.charts.Snapshot()
	out := make(gin.H, len(snapshot))
	for key, s := range snapshot {
		out[key] = gin.H{"labels": s.Labels, "values": s.Values}
	}
	c.JSON(http.StatusOK, out)
}
