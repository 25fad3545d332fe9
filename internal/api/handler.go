package api

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mr1hm/go-air-alerts/internal/models"
	"github.com/mr1hm/go-air-alerts/internal/status"
)

const (
	defaultCycleLimit = 20
	maxCycleLimit     = 100
)

type Handler struct {
	tracker *status.Tracker
}

func NewHandler(tracker *status.Tracker) *Handler {
	return &Handler{
		tracker: tracker,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/api/cycles", h.getCycles)
	r.GET("/api/cycles/latest", h.getLatestCycle)
	r.GET("/api/cycles/stream", h.streamCycles)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) getCycles(c *gin.Context) {
	limit := defaultCycleLimit
	if l := c.Query("limit"); l != "" {
		if lim, err := strconv.Atoi(l); err == nil && lim > 0 && lim <= maxCycleLimit {
			limit = lim
		}
	}

	c.JSON(http.StatusOK, RecentReports{Cycles: h.tracker.Recent(limit)})
}

func (h *Handler) getLatestCycle(c *gin.Context) {
	report, ok := h.tracker.Latest()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "no cycle has completed yet",
		})
		return
	}
	c.JSON(http.StatusOK, report)
}

// streamCycles pushes each new cycle report as a server-sent event until the
// client disconnects or the tracker is closed.
func (h *Handler) streamCycles(c *gin.Context) {
	id, reports := h.tracker.Subscribe()
	defer h.tracker.Unsubscribe(id)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Writer.Flush()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case r, ok := <-reports:
			if !ok {
				return false
			}
			c.SSEvent("cycle", r)
			return true
		}
	})
}

// RecentReports is the payload of GET /api/cycles.
type RecentReports struct {
	Cycles []models.CycleReport `json:"cycles"`
}
