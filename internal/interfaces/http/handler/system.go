package handler

import (
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
)

// PollerStatus reports whether the background synchronizer is active
type PollerStatus interface {
	IsRunning() bool
}

// SystemHandler handles system-related API endpoints
type SystemHandler struct {
	BaseHandler
	startTime time.Time
	poller    PollerStatus
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(poller PollerStatus) *SystemHandler {
	return &SystemHandler{
		startTime: time.Now(),
		poller:    poller,
	}
}

// RegisterRoutes registers system routes
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	system := rg.Group("/system")
	{
		system.GET("/info", h.GetSystemInfo)
		system.GET("/ping", h.Ping)
	}
}

// SystemInfoResponse represents the system information response
type SystemInfoResponse struct {
	Name          string `json:"name"`
	Version       string `json:"version"`
	GoVersion     string `json:"go_version"`
	Uptime        string `json:"uptime"`
	PollerRunning bool   `json:"poller_running"`
}

// GetSystemInfo returns basic system information including version,
// uptime, and synchronizer state
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	info := SystemInfoResponse{
		Name:          "Transfers Agent API",
		Version:       "1.0.0",
		GoVersion:     runtime.Version(),
		Uptime:        time.Since(h.startTime).Round(time.Second).String(),
		PollerRunning: h.poller != nil && h.poller.IsRunning(),
	}

	h.Success(c, info)
}

// PingResponse represents the ping response
type PingResponse struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// Ping is a simple endpoint to check if the API is responsive
func (h *SystemHandler) Ping(c *gin.Context) {
	response := PingResponse{
		Message:   "pong",
		Timestamp: time.Now().Format(time.RFC3339),
	}

	h.Success(c, response)
}
