package handler

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/bobibcgroup/safespace/config"

	"github.com/gin-gonic/gin"
)

type HealthCheckResponse struct {
	Status    string                   `json:"status"`
	Timestamp time.Time                `json:"timestamp"`
	Version   string                   `json:"version"`
	Uptime    string                   `json:"uptime"`
	Services  map[string]ServiceStatus `json:"services"`
	System    SystemInfo               `json:"system"`
}

type ServiceStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

type SystemInfo struct {
	GoVersion    string `json:"go_version"`
	Architecture string `json:"architecture"`
	OS           string `json:"os"`
	NumCPU       int    `json:"num_cpu"`
	MemoryUsage  string `json:"memory_usage"`
}

var startTime = time.Now()

// HealthCheckHandler reports database connectivity plus which optional
// integrations are configured.
func HealthCheckHandler(c *gin.Context) {
	response := HealthCheckResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   "1.0.0",
		Uptime:    time.Since(startTime).String(),
		Services:  make(map[string]ServiceStatus),
		System:    getSystemInfo(),
	}

	dbStatus := checkDatabase()
	response.Services["database"] = dbStatus
	if dbStatus.Status != "healthy" {
		response.Status = "unhealthy"
	}

	response.Services["openai"] = configuredStatus(config.AppCfg.OpenAIKey != "")
	response.Services["telegram"] = configuredStatus(config.AppCfg.TelegramBotToken != "")

	statusCode := http.StatusOK
	if response.Status == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, response)
}

// PingHandler simple ping endpoint
func PingHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":   "pong",
		"timestamp": time.Now(),
	})
}

func checkDatabase() ServiceStatus {
	start := time.Now()

	var result int
	err := config.Db.Raw("SELECT 1").Scan(&result).Error

	latency := time.Since(start)

	if err != nil {
		return ServiceStatus{
			Status:  "unhealthy",
			Message: err.Error(),
		}
	}

	return ServiceStatus{
		Status:  "healthy",
		Latency: latency.String(),
	}
}

// configuredStatus marks optional integrations. A missing key degrades the
// feature, not the service, so it never flips the overall status.
func configuredStatus(configured bool) ServiceStatus {
	if configured {
		return ServiceStatus{Status: "healthy"}
	}
	return ServiceStatus{
		Status:  "healthy",
		Message: "not configured",
	}
}

func getSystemInfo() SystemInfo {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return SystemInfo{
		GoVersion:    runtime.Version(),
		Architecture: runtime.GOARCH,
		OS:           runtime.GOOS,
		NumCPU:       runtime.NumCPU(),
		MemoryUsage:  formatBytes(m.Alloc),
	}
}

func formatBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := uint64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
