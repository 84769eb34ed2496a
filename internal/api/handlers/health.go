package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"ytaudiobot/internal/services/storage"
	"ytaudiobot/internal/services/telegram"
	"ytaudiobot/internal/utils"
)

type HealthHandler struct {
	chat    telegram.ChatClient
	storage storage.StorageInterface
}

type HealthResponse struct {
	Status    string                   `json:"status"`
	Timestamp string                   `json:"timestamp"`
	Version   string                   `json:"version"`
	Services  map[string]ServiceHealth `json:"services"`
}

type ServiceHealth struct {
	Status       string `json:"status"`
	ResponseTime string `json:"response_time,omitempty"`
	Error        string `json:"error,omitempty"`
}

func NewHealthHandler(chat telegram.ChatClient, storage storage.StorageInterface) *HealthHandler {
	return &HealthHandler{
		chat:    chat,
		storage: storage,
	}
}

// Health checks the service and its external dependencies.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx := c.Request.Context()

	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().Format(time.RFC3339),
		Version:   "1.0.0",
		Services:  make(map[string]ServiceHealth),
	}

	response.Services["telegram"] = h.check(ctx, "telegram", h.chat.Ping)
	response.Services[h.storage.Backend()] = h.check(ctx, h.storage.Backend(), h.storage.Ping)

	for _, service := range response.Services {
		if service.Status != "healthy" {
			response.Status = "unhealthy"
			c.JSON(http.StatusServiceUnavailable, response)
			return
		}
	}

	c.JSON(http.StatusOK, response)
}

// Readiness reports whether the bot can accept messages.
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx := c.Request.Context()

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	ready := true
	checks := make(map[string]interface{})

	if err := h.chat.Ping(checkCtx); err != nil {
		ready = false
		checks["telegram"] = map[string]interface{}{
			"ready": false,
			"error": err.Error(),
		}
	} else {
		checks["telegram"] = map[string]interface{}{
			"ready": true,
		}
	}

	response := map[string]interface{}{
		"ready":     ready,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	}

	if ready {
		c.JSON(http.StatusOK, response)
	} else {
		c.JSON(http.StatusServiceUnavailable, response)
	}
}

// Liveness responds as long as the process is alive.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, map[string]interface{}{
		"alive":     true,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (h *HealthHandler) check(ctx context.Context, name string, ping func(context.Context) error) ServiceHealth {
	start := time.Now()

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := ping(checkCtx)
	responseTime := time.Since(start).String()

	if err != nil {
		utils.LogError(ctx, "Health check failed", err, utils.Fields{
			"service": name,
		})
		return ServiceHealth{
			Status:       "unhealthy",
			ResponseTime: responseTime,
			Error:        err.Error(),
		}
	}

	return ServiceHealth{
		Status:       "healthy",
		ResponseTime: responseTime,
	}
}
