package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/taleniq/ai-gateway/internal/analytics"
	"github.com/taleniq/ai-gateway/internal/catalog"
	"github.com/taleniq/ai-gateway/internal/server/validator"
	"github.com/taleniq/ai-gateway/internal/vendors/minimax"
	"github.com/taleniq/ai-gateway/internal/vendors/openai"
	"github.com/taleniq/ai-gateway/internal/vendors/proprietary"
	"github.com/taleniq/ai-gateway/pkg/api"
)

const capabilityImage = "image"

type ImageHandler struct {
	resolver    *catalog.Resolver
	openai      *openai.Client
	minimax     *minimax.Client
	proprietary *proprietary.Client
	logger      *zap.Logger
	recorder
}

func NewImageHandler(resolver *catalog.Resolver, oc *openai.Client, mc *minimax.Client, pc *proprietary.Client, ingestor analytics.Ingestor, logger *zap.Logger) *ImageHandler {
	return &ImageHandler{
		resolver:    resolver,
		openai:      oc,
		minimax:     mc,
		proprietary: pc,
		logger:      logger,
		recorder:    recorder{ingestor: ingestor},
	}
}

func (h *ImageHandler) bind(c *gin.Context) (*api.ImageRequest, bool) {
	var req api.ImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(api.ValidationFieldsError(validator.ParseValidationError(err)))
		return nil, false
	}
	return &req, true
}

// resolveImage picks the first image-capable model for the provider. Missing
// models and missing keys get distinct configuration errors.
func (h *ImageHandler) resolveImage(c *gin.Context, provider, vendor string) (catalog.ResolvedModelConfig, bool) {
	resolved := h.resolver.ModelByCapability(c.Request.Context(), provider, catalog.CapabilityImage, authToken(c))
	if resolved.Model == nil || resolved.Endpoint == "" {
		_ = c.Error(api.ConfigError(vendor, "image model"))
		return resolved, false
	}
	if resolved.APIKey == "" {
		_ = c.Error(api.ConfigError(vendor, "API key"))
		return resolved, false
	}
	return resolved, true
}

func (h *ImageHandler) OpenAIImage(c *gin.Context) {
	req, ok := h.bind(c)
	if !ok {
		return
	}
	resolved, ok := h.resolveImage(c, catalog.ProviderOpenAI, openai.VendorName)
	if !ok {
		return
	}
	started := time.Now()

	modelKey := req.Model
	if modelKey == "" {
		modelKey = resolved.Model.ModelKey
	}

	resp, err := h.openai.GenerateImage(c.Request.Context(), resolved.Endpoint, resolved.APIKey, req, modelKey)
	if err != nil {
		_ = c.Error(vendorError(openai.VendorName, err))
		return
	}
	h.record(catalog.ProviderOpenAI, capabilityImage, modelKey, false, http.StatusOK, started)
	c.JSON(http.StatusOK, resp)
}

func (h *ImageHandler) MiniMaxImage(c *gin.Context) {
	req, ok := h.bind(c)
	if !ok {
		return
	}
	resolved, ok := h.resolveImage(c, catalog.ProviderMiniMax, minimax.VendorName)
	if !ok {
		return
	}
	started := time.Now()

	modelKey := req.Model
	if modelKey == "" {
		modelKey = resolved.Model.ModelKey
	}

	resp, err := h.minimax.GenerateImage(c.Request.Context(), resolved.Endpoint, resolved.APIKey, req, modelKey)
	if err != nil {
		_ = c.Error(vendorError(minimax.VendorName, err))
		return
	}
	h.record(catalog.ProviderMiniMax, capabilityImage, modelKey, false, http.StatusOK, started)
	c.JSON(http.StatusOK, resp)
}

// ProprietaryImage answers with a base64 envelope because the upstream
// returns raw image bytes.
func (h *ImageHandler) ProprietaryImage(c *gin.Context) {
	req, ok := h.bind(c)
	if !ok {
		return
	}
	// The proprietary endpoint authenticates per deployment; the key is
	// optional, only the endpoint is required.
	resolved := h.resolver.ModelByCapability(c.Request.Context(), catalog.ProviderProprietary, catalog.CapabilityImage, authToken(c))
	if resolved.Model == nil || resolved.Endpoint == "" {
		_ = c.Error(api.ConfigError(proprietary.VendorName, "image model"))
		return
	}
	started := time.Now()

	modelKey := req.Model
	if modelKey == "" {
		modelKey = resolved.Model.ModelKey
	}

	resp, err := h.proprietary.GenerateImage(c.Request.Context(), resolved.Endpoint, resolved.APIKey, req, modelKey)
	if err != nil {
		_ = c.Error(vendorError(proprietary.VendorName, err))
		return
	}
	h.record(catalog.ProviderProprietary, capabilityImage, modelKey, false, http.StatusOK, started)
	c.JSON(http.StatusOK, resp)
}
