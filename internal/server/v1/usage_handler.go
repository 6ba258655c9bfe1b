package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/taleniq/ai-gateway/internal/analytics"
	"github.com/taleniq/ai-gateway/pkg/api"
)

type UsageHandler struct {
	service analytics.Service
}

func NewUsageHandler(service analytics.Service) *UsageHandler {
	return &UsageHandler{service: service}
}

// Overview returns daily request/error/latency aggregates per provider and
// capability. days defaults to 7.
func (h *UsageHandler) Overview(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "7"))

	stats, err := h.service.GetUsageOverview(c.Request.Context(), days)
	if err != nil {
		_ = c.Error(api.InternalError("Failed to load usage stats", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": stats})
}
