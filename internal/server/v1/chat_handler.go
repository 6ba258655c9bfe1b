package v1

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/taleniq/ai-gateway/internal/analytics"
	"github.com/taleniq/ai-gateway/internal/catalog"
	"github.com/taleniq/ai-gateway/internal/server/validator"
	"github.com/taleniq/ai-gateway/internal/sse"
	"github.com/taleniq/ai-gateway/internal/vendors/gemini"
	"github.com/taleniq/ai-gateway/internal/vendors/minimax"
	"github.com/taleniq/ai-gateway/internal/vendors/openai"
	"github.com/taleniq/ai-gateway/pkg/api"
)

const capabilityChat = "chat"

type ChatHandler struct {
	resolver *catalog.Resolver
	openai   *openai.Client
	gemini   *gemini.Client
	minimax  *minimax.Client
	logger   *zap.Logger
	recorder
}

func NewChatHandler(resolver *catalog.Resolver, oc *openai.Client, gc *gemini.Client, mc *minimax.Client, ingestor analytics.Ingestor, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		resolver: resolver,
		openai:   oc,
		gemini:   gc,
		minimax:  mc,
		logger:   logger,
		recorder: recorder{ingestor: ingestor},
	}
}

func (h *ChatHandler) bind(c *gin.Context) (*api.ChatRequest, bool) {
	var req api.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(api.ValidationFieldsError(validator.ParseValidationError(err)))
		return nil, false
	}
	return &req, true
}

func (h *ChatHandler) resolve(c *gin.Context, provider, vendor string, req *api.ChatRequest) (catalog.ResolvedModelConfig, bool) {
	resolved := h.resolver.ModelConfig(c.Request.Context(), provider, req.Model, authToken(c))
	if resolved.Model == nil || resolved.Endpoint == "" {
		_ = c.Error(api.ConfigError(vendor, "model endpoint"))
		return resolved, false
	}
	if resolved.APIKey == "" {
		_ = c.Error(api.ConfigError(vendor, "API key"))
		return resolved, false
	}
	return resolved, true
}

// OpenAIChat proxies a chat completion to OpenAI, streaming when asked.
func (h *ChatHandler) OpenAIChat(c *gin.Context) {
	req, ok := h.bind(c)
	if !ok {
		return
	}
	resolved, ok := h.resolve(c, catalog.ProviderOpenAI, openai.VendorName, req)
	if !ok {
		return
	}
	started := time.Now()

	if req.Stream {
		open := func(ctx context.Context) (io.ReadCloser, error) {
			return h.openai.OpenChatStream(ctx, resolved.Endpoint, resolved.APIKey, req, resolved.Model.ModelKey)
		}
		h.relayStream(c, catalog.ProviderOpenAI, openai.VendorName, resolved.Model.ModelKey, started, open, nil)
		return
	}

	resp, err := h.openai.Chat(c.Request.Context(), resolved.Endpoint, resolved.APIKey, req, resolved.Model.ModelKey)
	if err != nil {
		_ = c.Error(vendorError(openai.VendorName, err))
		return
	}
	h.record(catalog.ProviderOpenAI, capabilityChat, resolved.Model.ModelKey, false, http.StatusOK, started)
	c.JSON(http.StatusOK, resp)
}

// GeminiChat proxies a chat completion to Google AI.
func (h *ChatHandler) GeminiChat(c *gin.Context) {
	req, ok := h.bind(c)
	if !ok {
		return
	}
	resolved, ok := h.resolve(c, catalog.ProviderGoogleAI, gemini.VendorName, req)
	if !ok {
		return
	}
	started := time.Now()

	if req.Stream {
		open := func(ctx context.Context) (io.ReadCloser, error) {
			return h.gemini.OpenChatStream(ctx, resolved.Endpoint, resolved.APIKey, req, resolved.Model.ModelKey)
		}
		h.relayStream(c, catalog.ProviderGoogleAI, gemini.VendorName, resolved.Model.ModelKey, started, open, nil)
		return
	}

	resp, err := h.gemini.Chat(c.Request.Context(), resolved.Endpoint, resolved.APIKey, req, resolved.Model.ModelKey)
	if err != nil {
		_ = c.Error(vendorError(gemini.VendorName, err))
		return
	}
	h.record(catalog.ProviderGoogleAI, capabilityChat, resolved.Model.ModelKey, false, http.StatusOK, started)
	c.JSON(http.StatusOK, resp)
}

// MiniMaxChat proxies a chat completion to MiniMax. A request-level group_id
// overrides the provider setting, and streamed frames are sniffed for in-band
// errors without ever being altered.
func (h *ChatHandler) MiniMaxChat(c *gin.Context) {
	req, ok := h.bind(c)
	if !ok {
		return
	}
	resolved, ok := h.resolve(c, catalog.ProviderMiniMax, minimax.VendorName, req)
	if !ok {
		return
	}

	groupID := resolved.GroupID
	if req.GroupID != "" {
		groupID = req.GroupID
	}
	started := time.Now()

	if req.Stream {
		open := func(ctx context.Context) (io.ReadCloser, error) {
			return h.minimax.OpenChatStream(ctx, resolved.Endpoint, resolved.APIKey, groupID, req, resolved.Model.ModelKey)
		}
		h.relayStream(c, catalog.ProviderMiniMax, minimax.VendorName, resolved.Model.ModelKey, started, open, h.minimax.StreamInspector())
		return
	}

	resp, err := h.minimax.Chat(c.Request.Context(), resolved.Endpoint, resolved.APIKey, groupID, req, resolved.Model.ModelKey)
	if err != nil {
		_ = c.Error(vendorError(minimax.VendorName, err))
		return
	}
	h.record(catalog.ProviderMiniMax, capabilityChat, resolved.Model.ModelKey, false, http.StatusOK, started)
	c.JSON(http.StatusOK, resp)
}

// relayStream opens the vendor stream and pipes it through untouched. A
// client that disconnects mid-stream is not an error.
func (h *ChatHandler) relayStream(c *gin.Context, provider, vendor, modelKey string, started time.Time, open func(ctx context.Context) (io.ReadCloser, error), inspect sse.Inspector) {
	body, err := open(c.Request.Context())
	if err != nil {
		_ = c.Error(vendorError(vendor, err))
		return
	}
	defer body.Close()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Writer.WriteHeader(http.StatusOK)
	c.Writer.Flush()

	if err := sse.Relay(c.Writer, body, inspect); err != nil {
		h.logger.Debug("Stream relay ended early",
			zap.String("vendor", vendor),
			zap.Error(err),
		)
	}

	h.record(provider, capabilityChat, modelKey, true, http.StatusOK, started)
}
