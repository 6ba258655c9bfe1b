package minimax

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/taleniq/ai-gateway/internal/httpclient"
	"github.com/taleniq/ai-gateway/internal/sse"
	"github.com/taleniq/ai-gateway/pkg/api"
)

const VendorName = "MiniMax"

const (
	defaultMaxTokens = 8192

	// Fixed video parameters; the vendor only renders these.
	videoResolution = "1080P"
	videoFPS        = 25
	videoMode       = "video_01_live"
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

func authHeader(apiKey string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + apiKey}
}

// ChatURL appends the GroupId query parameter unless the stored endpoint
// already carries one.
func ChatURL(endpoint, groupID string) string {
	if groupID == "" || strings.Contains(endpoint, "GroupId=") {
		return endpoint
	}
	sep := "?"
	if strings.Contains(endpoint, "?") {
		sep = "&"
	}
	return endpoint + sep + "GroupId=" + url.QueryEscape(groupID)
}

// BuildChatPayload maps the inbound request onto MiniMax's chat format.
// max_tokens defaults to 8192 when unset.
func BuildChatPayload(req *api.ChatRequest, modelKey string, stream bool) map[string]interface{} {
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	payload := map[string]interface{}{
		"model":      modelKey,
		"messages":   req.Messages,
		"stream":     stream,
		"max_tokens": maxTokens,
	}
	if req.Temperature != nil {
		payload["temperature"] = *req.Temperature
	}
	if req.TopP != nil {
		payload["top_p"] = *req.TopP
	}
	return payload
}

type baseResp struct {
	StatusCode int    `json:"status_code"`
	StatusMsg  string `json:"status_msg"`
}

func (b baseResp) ok() bool {
	return b.StatusCode == 0 || b.StatusCode == 1000
}

// Chat performs a non-streaming completion and returns MiniMax's envelope
// untouched.
func (c *Client) Chat(ctx context.Context, endpoint, apiKey, groupID string, req *api.ChatRequest, modelKey string) (map[string]interface{}, error) {
	payload := BuildChatPayload(req, modelKey, false)
	target := ChatURL(endpoint, groupID)

	var resp map[string]interface{}
	if err := httpclient.SendRequest(ctx, c.http, "POST", target, authHeader(apiKey), payload, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// OpenChatStream starts a streaming completion; the caller relays the body.
func (c *Client) OpenChatStream(ctx context.Context, endpoint, apiKey, groupID string, req *api.ChatRequest, modelKey string) (io.ReadCloser, error) {
	payload := BuildChatPayload(req, modelKey, true)
	target := ChatURL(endpoint, groupID)
	return httpclient.OpenStream(ctx, c.http, "POST", target, authHeader(apiKey), payload)
}

// StreamInspector detects in-band errors that MiniMax embeds in otherwise
// well-formed SSE frames (base_resp.status_code outside {0,1000}). The
// pass-through is never interrupted; the condition is only logged.
func (c *Client) StreamInspector() sse.Inspector {
	return func(data []byte) {
		var frame struct {
			BaseResp baseResp `json:"base_resp"`
		}
		if err := json.Unmarshal(data, &frame); err != nil {
			return
		}
		if frame.BaseResp.StatusCode != 0 && !frame.BaseResp.ok() {
			c.logger.Error("MiniMax in-band stream error",
				zap.Int("status_code", frame.BaseResp.StatusCode),
				zap.String("status_msg", frame.BaseResp.StatusMsg),
			)
		}
	}
}

// AspectRatio maps the OpenAI-style size string onto MiniMax's ratio enum.
func AspectRatio(size string) string {
	switch size {
	case "1792x1024":
		return "16:9"
	case "1024x1792":
		return "9:16"
	case "1024x1024":
		return "1:1"
	default:
		return "1:1"
	}
}

type imageEnvelope struct {
	Data struct {
		ImageURLs []string `json:"image_urls"`
		Images    []struct {
			URL string `json:"url"`
		} `json:"images"`
	} `json:"data"`
	BaseResp baseResp `json:"base_resp"`
}

// imageURL resolves the generated image location. MiniMax has shipped more
// than one response shape; the fallback order is deliberate:
// data.image_urls[0], then data.images[0].url.
func (e *imageEnvelope) imageURL() string {
	if len(e.Data.ImageURLs) > 0 {
		return e.Data.ImageURLs[0]
	}
	if len(e.Data.Images) > 0 {
		return e.Data.Images[0].URL
	}
	return ""
}

// GenerateImage renders a single image. num_images and prompt_optimizer are
// fixed by the product.
func (c *Client) GenerateImage(ctx context.Context, endpoint, apiKey string, req *api.ImageRequest, modelKey string) (*api.ImageResponse, error) {
	payload := map[string]interface{}{
		"model":            modelKey,
		"prompt":           req.Prompt,
		"aspect_ratio":     AspectRatio(req.Size),
		"num_images":       1,
		"prompt_optimizer": true,
	}

	var envelope imageEnvelope
	if err := httpclient.SendRequest(ctx, c.http, "POST", endpoint, authHeader(apiKey), payload, &envelope); err != nil {
		return nil, err
	}

	if !envelope.BaseResp.ok() {
		return nil, fmt.Errorf("minimax image error %d: %s", envelope.BaseResp.StatusCode, envelope.BaseResp.StatusMsg)
	}

	imgURL := envelope.imageURL()
	if imgURL == "" {
		return nil, fmt.Errorf("minimax image response contained no image url")
	}

	return &api.ImageResponse{URL: imgURL}, nil
}

// SnapDuration maps requested seconds onto the only durations the video
// model renders: 6 and 10. Anything from 8 up rounds to 10, everything else
// (including unset) to 6.
func SnapDuration(seconds int) int {
	if seconds >= 8 {
		return 10
	}
	return 6
}

type submitEnvelope struct {
	TaskID   string   `json:"task_id"`
	BaseResp baseResp `json:"base_resp"`
}

// SubmitVideo starts an asynchronous generation job and returns the task id.
func (c *Client) SubmitVideo(ctx context.Context, endpoint, apiKey string, req *api.VideoRequest, modelKey string) (string, error) {
	payload := map[string]interface{}{
		"model":      modelKey,
		"prompt":     req.Prompt,
		"duration":   SnapDuration(req.Seconds),
		"resolution": videoResolution,
		"fps":        videoFPS,
		"mode":       videoMode,
	}

	var envelope submitEnvelope
	if err := httpclient.SendRequest(ctx, c.http, "POST", endpoint, authHeader(apiKey), payload, &envelope); err != nil {
		return "", err
	}

	if !envelope.BaseResp.ok() {
		return "", fmt.Errorf("minimax video submission error %d: %s", envelope.BaseResp.StatusCode, envelope.BaseResp.StatusMsg)
	}
	if envelope.TaskID == "" {
		return "", fmt.Errorf("minimax video submission returned no task id")
	}

	return envelope.TaskID, nil
}

// apiBase strips the last path segment from the submit endpoint; status and
// file-retrieval URLs hang off the same base.
func apiBase(endpoint string) string {
	trimmed := strings.TrimRight(endpoint, "/")
	if idx := strings.LastIndex(trimmed, "/"); idx > 0 {
		return trimmed[:idx]
	}
	return trimmed
}

// StatusURL derives the poll target for a task.
func StatusURL(endpoint, taskID string) string {
	return apiBase(endpoint) + "/query/video_generation?task_id=" + url.QueryEscape(taskID)
}

// RetrieveURL derives the file-retrieval target for a finished task.
func RetrieveURL(endpoint, fileID string) string {
	return apiBase(endpoint) + "/files/retrieve?file_id=" + url.QueryEscape(fileID)
}

type statusEnvelope struct {
	TaskID   string   `json:"task_id"`
	Status   string   `json:"status"`
	FileID   string   `json:"file_id"`
	BaseResp baseResp `json:"base_resp"`
}

// QueryStatus performs one poll probe and returns the vendor status plus the
// raw payload for error reporting.
func (c *Client) QueryStatus(ctx context.Context, endpoint, apiKey, taskID string) (status, fileID string, raw json.RawMessage, err error) {
	target := StatusURL(endpoint, taskID)

	var rawBody json.RawMessage
	if err := httpclient.SendRequest(ctx, c.http, "GET", target, authHeader(apiKey), nil, &rawBody); err != nil {
		return "", "", nil, err
	}

	var envelope statusEnvelope
	if err := json.Unmarshal(rawBody, &envelope); err != nil {
		return "", "", rawBody, fmt.Errorf("minimax status payload malformed: %w", err)
	}

	return envelope.Status, envelope.FileID, rawBody, nil
}

type fileEnvelope struct {
	File struct {
		DownloadURL string `json:"download_url"`
	} `json:"file"`
	BaseResp baseResp `json:"base_resp"`
}

// RetrieveFile exchanges a file id for its download URL.
func (c *Client) RetrieveFile(ctx context.Context, endpoint, apiKey, fileID string) (string, error) {
	target := RetrieveURL(endpoint, fileID)

	var envelope fileEnvelope
	if err := httpclient.SendRequest(ctx, c.http, "GET", target, authHeader(apiKey), nil, &envelope); err != nil {
		return "", err
	}

	if envelope.File.DownloadURL == "" {
		return "", fmt.Errorf("minimax file retrieval returned no download url")
	}

	return envelope.File.DownloadURL, nil
}

// DownloadFile proxies the final video bytes so the browser never touches
// the vendor URL.
func (c *Client) DownloadFile(ctx context.Context, downloadURL string) ([]byte, string, error) {
	data, contentType, err := httpclient.FetchBinary(ctx, c.http, "GET", downloadURL, nil, nil)
	if err != nil {
		return nil, "", err
	}
	if contentType == "" {
		contentType = "video/mp4"
	}
	return data, contentType, nil
}
