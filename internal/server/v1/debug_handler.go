package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/taleniq/ai-gateway/internal/catalog"
	"github.com/taleniq/ai-gateway/internal/platform/logger"
)

// DebugHandler exposes a sanitized view of the resolved provider catalog.
// Secrets are masked to their last 4 characters; the raw values never leave
// the process.
type DebugHandler struct {
	catalog *catalog.Store
	logger  *zap.Logger
}

func NewDebugHandler(store *catalog.Store, log *zap.Logger) *DebugHandler {
	return &DebugHandler{catalog: store, logger: log}
}

type debugModel struct {
	ModelKey     string   `json:"modelKey"`
	Endpoint     string   `json:"endpoint"`
	Capabilities []string `json:"capabilities"`
	IsDefault    bool     `json:"isDefault"`
}

type debugProvider struct {
	Name              string       `json:"name"`
	IsActive          bool         `json:"isActive"`
	SupportsStreaming bool         `json:"supportsStreaming"`
	APIKey            string       `json:"apiKey,omitempty"`
	GroupID           string       `json:"groupId,omitempty"`
	WebhookURL        string       `json:"webhookUrl,omitempty"`
	Models            []debugModel `json:"models"`
}

// Diagnostics clears the catalog cache and reports what a fresh fetch
// resolves, so a misconfigured provider can be spotted without reading logs.
func (h *DebugHandler) Diagnostics(c *gin.Context) {
	ctx := c.Request.Context()
	h.catalog.ClearCache(ctx)

	providers := h.catalog.Providers(ctx, authToken(c))

	out := make([]debugProvider, 0, len(providers))
	for i := range providers {
		p := &providers[i]
		settings := catalog.SettingsFromParameters(p)

		dp := debugProvider{
			Name:              p.Name,
			IsActive:          p.IsActive,
			SupportsStreaming: p.SupportsStreaming,
			APIKey:            logger.Mask(settings.APIKey),
			GroupID:           settings.GroupID,
			WebhookURL:        logger.RedactURL(settings.WebhookURL),
		}
		for _, m := range p.Models {
			caps := make([]string, 0, len(m.Capabilities))
			for _, capability := range m.Capabilities {
				caps = append(caps, string(capability))
			}
			dp.Models = append(dp.Models, debugModel{
				ModelKey:     m.ModelKey,
				Endpoint:     logger.RedactURL(m.Endpoint),
				Capabilities: caps,
				IsDefault:    m.IsDefault,
			})
		}
		out = append(out, dp)
	}

	h.logger.Info("Catalog diagnostics requested", zap.Int("providers", len(out)))

	c.JSON(http.StatusOK, gin.H{
		"cacheCleared": true,
		"providers":    out,
	})
}
