package openai

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/taleniq/ai-gateway/internal/httpclient"
	"github.com/taleniq/ai-gateway/pkg/api"
)

const VendorName = "OpenAI"

// Image defaults applied when the caller omits them.
const (
	defaultImageSize    = "1024x1024"
	defaultImageQuality = "standard"
	defaultImageStyle   = "vivid"
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

// BuildChatPayload maps the inbound request onto OpenAI's wire format.
// Two quirks are load-bearing: the token limit field is
// max_completion_tokens (not max_tokens), and temperature is emitted only
// when the caller passed exactly 1 — newer models reject other values.
func BuildChatPayload(req *api.ChatRequest, modelKey string, stream bool) map[string]interface{} {
	payload := map[string]interface{}{
		"model":    modelKey,
		"messages": req.Messages,
		"stream":   stream,
	}

	maxTokens := req.MaxCompletionTokens
	if maxTokens == 0 {
		maxTokens = req.MaxTokens
	}
	if maxTokens > 0 {
		payload["max_completion_tokens"] = maxTokens
	}

	if req.Temperature != nil && *req.Temperature == 1 {
		payload["temperature"] = 1
	}
	if req.TopP != nil {
		payload["top_p"] = *req.TopP
	}
	if req.FrequencyPenalty != nil {
		payload["frequency_penalty"] = *req.FrequencyPenalty
	}
	if req.PresencePenalty != nil {
		payload["presence_penalty"] = *req.PresencePenalty
	}

	return payload
}

// Chat performs a non-streaming completion and returns the vendor's JSON
// envelope untouched.
func (c *Client) Chat(ctx context.Context, endpoint, apiKey string, req *api.ChatRequest, modelKey string) (map[string]interface{}, error) {
	payload := BuildChatPayload(req, modelKey, false)

	var resp map[string]interface{}
	if err := httpclient.SendRequest(ctx, c.http, "POST", endpoint, authHeader(apiKey), payload, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// OpenChatStream starts a streaming completion; the caller relays the body.
func (c *Client) OpenChatStream(ctx context.Context, endpoint, apiKey string, req *api.ChatRequest, modelKey string) (io.ReadCloser, error) {
	payload := BuildChatPayload(req, modelKey, true)
	return httpclient.OpenStream(ctx, c.http, "POST", endpoint, authHeader(apiKey), payload)
}

type imageEnvelope struct {
	Data []struct {
		URL           string `json:"url"`
		RevisedPrompt string `json:"revised_prompt"`
	} `json:"data"`
}

// GenerateImage calls the image endpoint with defaulted size/quality/style
// and extracts data[0].url plus the revised prompt.
func (c *Client) GenerateImage(ctx context.Context, endpoint, apiKey string, req *api.ImageRequest, modelKey string) (*api.ImageResponse, error) {
	size := req.Size
	if size == "" {
		size = defaultImageSize
	}
	quality := req.Quality
	if quality == "" {
		quality = defaultImageQuality
	}
	style := req.Style
	if style == "" {
		style = defaultImageStyle
	}
	n := req.N
	if n == 0 {
		n = 1
	}

	payload := map[string]interface{}{
		"model":   modelKey,
		"prompt":  req.Prompt,
		"size":    size,
		"quality": quality,
		"style":   style,
		"n":       n,
	}

	var envelope imageEnvelope
	if err := httpclient.SendRequest(ctx, c.http, "POST", endpoint, authHeader(apiKey), payload, &envelope); err != nil {
		return nil, err
	}

	if len(envelope.Data) == 0 {
		return nil, fmt.Errorf("openai image response contained no data")
	}

	return &api.ImageResponse{
		URL:           envelope.Data[0].URL,
		RevisedPrompt: envelope.Data[0].RevisedPrompt,
	}, nil
}

type videoJob struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	Progress int    `json:"progress"`
	Model    string `json:"model"`
}

// SubmitVideo starts a Sora generation job. The endpoint takes multipart
// form fields, not JSON.
func (c *Client) SubmitVideo(ctx context.Context, endpoint, apiKey string, req *api.VideoRequest, modelKey string) (*api.VideoResponse, error) {
	fields := map[string]string{
		"model":  modelKey,
		"prompt": req.Prompt,
	}
	if req.Seconds > 0 {
		fields["seconds"] = strconv.Itoa(req.Seconds)
	}
	if req.Size != "" {
		fields["size"] = req.Size
	}

	var job videoJob
	if err := httpclient.SendForm(ctx, c.http, endpoint, authHeader(apiKey), fields, &job); err != nil {
		return nil, err
	}

	return &api.VideoResponse{
		VideoID:  job.ID,
		Status:   job.Status,
		Progress: job.Progress,
		Model:    modelKey,
	}, nil
}

// VideoStatus polls a submitted job by id.
func (c *Client) VideoStatus(ctx context.Context, endpoint, apiKey, videoID string) (*api.VideoResponse, error) {
	url := strings.TrimRight(endpoint, "/") + "/" + videoID

	var job videoJob
	if err := httpclient.SendRequest(ctx, c.http, "GET", url, authHeader(apiKey), nil, &job); err != nil {
		return nil, err
	}

	return &api.VideoResponse{
		VideoID:  job.ID,
		Status:   job.Status,
		Progress: job.Progress,
		Model:    job.Model,
	}, nil
}

// DownloadVideo fetches the finished job's binary content and base64-encodes
// it so the browser never talks to the vendor directly.
func (c *Client) DownloadVideo(ctx context.Context, endpoint, apiKey, videoID string) (*api.DownloadResponse, error) {
	url := strings.TrimRight(endpoint, "/") + "/" + videoID + "/content"

	data, contentType, err := httpclient.FetchBinary(ctx, c.http, "GET", url, authHeader(apiKey), nil)
	if err != nil {
		return nil, err
	}
	if contentType == "" {
		contentType = "video/mp4"
	}

	c.logger.Debug("Downloaded video content",
		zap.String("video_id", videoID),
		zap.Int("bytes", len(data)),
	)

	return &api.DownloadResponse{
		Base64:      base64.StdEncoding.EncodeToString(data),
		ContentType: contentType,
	}, nil
}
