package proprietary

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/taleniq/ai-gateway/internal/httpclient"
	"github.com/taleniq/ai-gateway/pkg/api"
)

const VendorName = "Propietario"

// Scene defaults for the N8N video generator.
const (
	defaultSceneDuration = 4
	defaultSceneCount    = 5

	videoGeneratePath = "/ai-video-generator"
)

type Client struct {
	http   httpclient.HTTPClient
	logger *zap.Logger
}

func NewClient(logger *zap.Logger) *Client {
	return &Client{
		http:   &http.Client{Timeout: 120 * time.Second},
		logger: logger,
	}
}

// WithHTTPClient overrides the transport. Test hook.
func (c *Client) WithHTTPClient(h httpclient.HTTPClient) *Client {
	c.http = h
	return c
}

// GenerateImage posts the prompt to the proprietary endpoint, which answers
// with raw image bytes rather than JSON. The payload is base64-encoded here
// so the browser receives a JSON envelope like every other vendor.
func (c *Client) GenerateImage(ctx context.Context, endpoint, apiKey string, req *api.ImageRequest, modelKey string) (*api.BinaryImageResponse, error) {
	headers := map[string]string{}
	if apiKey != "" {
		headers["Authorization"] = "Bearer " + apiKey
	}

	payload := map[string]interface{}{
		"prompt": req.Prompt,
	}
	if modelKey != "" {
		payload["model"] = modelKey
	}

	data, contentType, err := httpclient.FetchBinary(ctx, c.http, "POST", endpoint, headers, payload)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("proprietary image endpoint returned an empty body")
	}
	if contentType == "" {
		contentType = "image/png"
	}

	return &api.BinaryImageResponse{
		Base64:      base64.StdEncoding.EncodeToString(data),
		ContentType: contentType,
		FileName:    imageFileName(contentType),
		Size:        len(data),
	}, nil
}

func imageFileName(contentType string) string {
	ext := ".png"
	if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
		ext = exts[len(exts)-1]
	}
	return "ai-image-" + uuid.NewString() + ext
}

// NormalizeVideoRequest applies scene defaults and validates bounds before
// any webhook call.
func NormalizeVideoRequest(req *api.WebhookVideoRequest) error {
	if strings.TrimSpace(req.UserPrompt) == "" {
		return fmt.Errorf("user_prompt is required")
	}
	if req.DurationScenes == 0 {
		req.DurationScenes = defaultSceneDuration
	}
	if req.DurationScenes != 4 && req.DurationScenes != 6 && req.DurationScenes != 12 {
		return fmt.Errorf("duration_scences must be 4, 6 or 12")
	}
	if req.ScenesNumber == 0 {
		req.ScenesNumber = defaultSceneCount
	}
	if req.ScenesNumber < 1 || req.ScenesNumber > 20 {
		return fmt.Errorf("scences_number must be between 1 and 20")
	}
	return nil
}

// GenerateVideo posts the validated request to the N8N webhook pipeline and
// relays whatever JSON the workflow answers with.
func (c *Client) GenerateVideo(ctx context.Context, webhookURL string, req *api.WebhookVideoRequest) (map[string]interface{}, error) {
	if err := NormalizeVideoRequest(req); err != nil {
		return nil, err
	}

	target := strings.TrimRight(webhookURL, "/") + videoGeneratePath
	payload := map[string]interface{}{
		"user_prompt":      req.UserPrompt,
		"duration_scences": req.DurationScenes,
		"scences_number":   req.ScenesNumber,
	}

	var resp map[string]interface{}
	if err := httpclient.SendRequest(ctx, c.http, "POST", target, nil, payload, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// VideoStatus queries the JSON2Video webhook for a project's render state.
// Both the webhook URL and its x-api-key are required settings.
func (c *Client) VideoStatus(ctx context.Context, webhookURL, apiKey, project string) (map[string]interface{}, error) {
	sep := "?"
	if strings.Contains(webhookURL, "?") {
		sep = "&"
	}
	target := webhookURL + sep + "project=" + url.QueryEscape(project)

	headers := map[string]string{"x-api-key": apiKey}

	var resp map[string]interface{}
	if err := httpclient.SendRequest(ctx, c.http, "GET", target, headers, nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}
