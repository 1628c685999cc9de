package http

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
)

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

type HealthController struct {
	storageRoot string
	version     string
}

func NewHealthController(storageRoot, version string) *HealthController {
	return &HealthController{
		storageRoot: storageRoot,
		version:     version,
	}
}

func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	// Check the storage root is present and a directory
	if info, err := os.Stat(h.storageRoot); err != nil {
		checks["storage"] = "error: " + err.Error()
		status = "unhealthy"
	} else if !info.IsDir() {
		checks["storage"] = "error: storage root is not a directory"
		status = "unhealthy"
	} else {
		checks["storage"] = "ok"
	}

	health := HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	}

	statusCode := http.StatusOK
	if status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, health)
}
