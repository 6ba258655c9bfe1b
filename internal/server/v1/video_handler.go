package v1

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/taleniq/ai-gateway/internal/analytics"
	"github.com/taleniq/ai-gateway/internal/catalog"
	"github.com/taleniq/ai-gateway/internal/jobs"
	"github.com/taleniq/ai-gateway/internal/server/validator"
	"github.com/taleniq/ai-gateway/internal/vendors/minimax"
	"github.com/taleniq/ai-gateway/internal/vendors/openai"
	"github.com/taleniq/ai-gateway/internal/vendors/proprietary"
	"github.com/taleniq/ai-gateway/pkg/api"
)

const capabilityVideo = "video"

type VideoHandler struct {
	resolver    *catalog.Resolver
	catalog     *catalog.Store
	poller      *jobs.Poller
	openai      *openai.Client
	minimax     *minimax.Client
	proprietary *proprietary.Client
	logger      *zap.Logger
	recorder
}

func NewVideoHandler(resolver *catalog.Resolver, store *catalog.Store, poller *jobs.Poller, oc *openai.Client, mc *minimax.Client, pc *proprietary.Client, ingestor analytics.Ingestor, logger *zap.Logger) *VideoHandler {
	return &VideoHandler{
		resolver:    resolver,
		catalog:     store,
		poller:      poller,
		openai:      oc,
		minimax:     mc,
		proprietary: pc,
		logger:      logger,
		recorder:    recorder{ingestor: ingestor},
	}
}

func (h *VideoHandler) resolveVideo(c *gin.Context, provider, vendor string) (catalog.ResolvedModelConfig, bool) {
	resolved := h.resolver.ModelByCapability(c.Request.Context(), provider, catalog.CapabilityVideo, authToken(c))
	if resolved.Model == nil || resolved.Endpoint == "" {
		_ = c.Error(api.ConfigError(vendor, "video model"))
		return resolved, false
	}
	if resolved.APIKey == "" {
		_ = c.Error(api.ConfigError(vendor, "API key"))
		return resolved, false
	}
	return resolved, true
}

// OpenAISubmit starts a Sora job and returns the job id without waiting.
func (h *VideoHandler) OpenAISubmit(c *gin.Context) {
	var req api.VideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(api.ValidationFieldsError(validator.ParseValidationError(err)))
		return
	}
	resolved, ok := h.resolveVideo(c, catalog.ProviderOpenAI, openai.VendorName)
	if !ok {
		return
	}
	started := time.Now()

	modelKey := req.Model
	if modelKey == "" {
		modelKey = resolved.Model.ModelKey
	}

	resp, err := h.openai.SubmitVideo(c.Request.Context(), resolved.Endpoint, resolved.APIKey, &req, modelKey)
	if err != nil {
		_ = c.Error(vendorError(openai.VendorName, err))
		return
	}
	h.record(catalog.ProviderOpenAI, capabilityVideo, modelKey, false, http.StatusOK, started)
	c.JSON(http.StatusOK, resp)
}

// OpenAIStatus reports a submitted Sora job's progress.
func (h *VideoHandler) OpenAIStatus(c *gin.Context) {
	videoID := c.Query("videoId")
	if videoID == "" {
		_ = c.Error(api.ValidationError("videoId query parameter is required"))
		return
	}
	resolved, ok := h.resolveVideo(c, catalog.ProviderOpenAI, openai.VendorName)
	if !ok {
		return
	}

	resp, err := h.openai.VideoStatus(c.Request.Context(), resolved.Endpoint, resolved.APIKey, videoID)
	if err != nil {
		_ = c.Error(vendorError(openai.VendorName, err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// OpenAIDownload proxies the finished video as a base64 envelope.
func (h *VideoHandler) OpenAIDownload(c *gin.Context) {
	videoID := c.Query("videoId")
	if videoID == "" {
		_ = c.Error(api.ValidationError("videoId query parameter is required"))
		return
	}
	resolved, ok := h.resolveVideo(c, catalog.ProviderOpenAI, openai.VendorName)
	if !ok {
		return
	}

	resp, err := h.openai.DownloadVideo(c.Request.Context(), resolved.Endpoint, resolved.APIKey, videoID)
	if err != nil {
		_ = c.Error(vendorError(openai.VendorName, err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// MiniMaxGenerate submits the job and blocks on the poll loop until the video
// is ready, failed, or the attempt budget runs out. An exhausted budget maps
// to 408 with the task id so the caller can resume out-of-band.
func (h *VideoHandler) MiniMaxGenerate(c *gin.Context) {
	var req api.VideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(api.ValidationFieldsError(validator.ParseValidationError(err)))
		return
	}
	resolved, ok := h.resolveVideo(c, catalog.ProviderMiniMax, minimax.VendorName)
	if !ok {
		return
	}
	started := time.Now()

	modelKey := req.Model
	if modelKey == "" {
		modelKey = resolved.Model.ModelKey
	}

	ctx := c.Request.Context()
	taskID, err := h.minimax.SubmitVideo(ctx, resolved.Endpoint, resolved.APIKey, &req, modelKey)
	if err != nil {
		_ = c.Error(vendorError(minimax.VendorName, err))
		return
	}

	h.logger.Info("MiniMax video job submitted",
		zap.String("task_id", taskID),
		zap.String("model", modelKey),
	)

	var fileID string
	check := func(ctx context.Context) (string, json.RawMessage, error) {
		status, fid, raw, err := h.minimax.QueryStatus(ctx, resolved.Endpoint, resolved.APIKey, taskID)
		if fid != "" {
			fileID = fid
		}
		return status, raw, err
	}

	if _, err := h.poller.Await(ctx, taskID, check); err != nil {
		switch {
		case errors.Is(err, jobs.ErrExhausted):
			_ = c.Error(api.TimeoutError(taskID))
		case ctx.Err() != nil:
			// client went away, nothing to answer
		default:
			var failed *jobs.FailedError
			if errors.As(err, &failed) {
				_ = c.Error(api.VendorError(minimax.VendorName, http.StatusInternalServerError, "Video generation failed: "+string(failed.Payload), failed))
			} else {
				_ = c.Error(api.InternalError("Video generation failed", err))
			}
		}
		return
	}

	if fileID == "" {
		_ = c.Error(api.InternalError("Video finished without a file id", nil))
		return
	}

	h.record(catalog.ProviderMiniMax, capabilityVideo, modelKey, false, http.StatusOK, started)
	c.JSON(http.StatusOK, api.VideoResponse{
		VideoID: taskID,
		URL:     "/v1/minimax/video/download?fileId=" + fileID,
		Status:  jobs.StatusSuccess,
		Model:   modelKey,
	})
}

// MiniMaxDownload exchanges the file id for the vendor URL and streams the
// bytes back, so the browser never touches MiniMax directly.
func (h *VideoHandler) MiniMaxDownload(c *gin.Context) {
	fileID := c.Query("fileId")
	if fileID == "" {
		_ = c.Error(api.ValidationError("fileId query parameter is required"))
		return
	}
	resolved, ok := h.resolveVideo(c, catalog.ProviderMiniMax, minimax.VendorName)
	if !ok {
		return
	}

	downloadURL, err := h.minimax.RetrieveFile(c.Request.Context(), resolved.Endpoint, resolved.APIKey, fileID)
	if err != nil {
		_ = c.Error(vendorError(minimax.VendorName, err))
		return
	}

	data, contentType, err := h.minimax.DownloadFile(c.Request.Context(), downloadURL)
	if err != nil {
		_ = c.Error(vendorError(minimax.VendorName, err))
		return
	}

	c.Data(http.StatusOK, contentType, data)
}

// ProprietaryGenerate posts to the N8N webhook pipeline. Scene bounds are
// validated before any network call.
func (h *VideoHandler) ProprietaryGenerate(c *gin.Context) {
	var req api.WebhookVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(api.ValidationFieldsError(validator.ParseValidationError(err)))
		return
	}

	cfg := h.catalog.Config(c.Request.Context(), catalog.ProviderProprietary, authToken(c))
	if cfg.Provider == nil || cfg.Settings.WebhookURL == "" {
		_ = c.Error(api.ConfigError(proprietary.VendorName, "webhook URL"))
		return
	}
	started := time.Now()

	if err := proprietary.NormalizeVideoRequest(&req); err != nil {
		_ = c.Error(api.ValidationError(err.Error()))
		return
	}

	resp, err := h.proprietary.GenerateVideo(c.Request.Context(), cfg.Settings.WebhookURL, &req)
	if err != nil {
		_ = c.Error(vendorError(proprietary.VendorName, err))
		return
	}
	h.record(catalog.ProviderProprietary, capabilityVideo, "", false, http.StatusOK, started)
	c.JSON(http.StatusOK, resp)
}

// ProprietaryStatus queries JSON2Video for a project's render state.
func (h *VideoHandler) ProprietaryStatus(c *gin.Context) {
	project := c.Query("project")
	if project == "" {
		_ = c.Error(api.ValidationError("project query parameter is required"))
		return
	}

	cfg := h.catalog.Config(c.Request.Context(), catalog.ProviderProprietary, authToken(c))
	if cfg.Provider == nil || cfg.Settings.JSON2VideoWebhookURL == "" {
		_ = c.Error(api.ConfigError(proprietary.VendorName, "JSON2Video webhook URL"))
		return
	}
	if cfg.Settings.JSON2VideoAPIKey == "" {
		_ = c.Error(api.ConfigError(proprietary.VendorName, "JSON2Video API key"))
		return
	}

	resp, err := h.proprietary.VideoStatus(c.Request.Context(), cfg.Settings.JSON2VideoWebhookURL, cfg.Settings.JSON2VideoAPIKey, project)
	if err != nil {
		_ = c.Error(vendorError(proprietary.VendorName, err))
		return
	}
	c.JSON(http.StatusOK, resp)
}
