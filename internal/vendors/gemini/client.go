package gemini

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/taleniq/ai-gateway/internal/httpclient"
	"github.com/taleniq/ai-gateway/pkg/api"
)

const VendorName = "Gemini"

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

type Part struct {
	Text string `json:"text"`
}

type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

type GenerationConfig struct {
	Temperature     *float64 `json:"temperature,omitempty"`
	MaxOutputTokens int      `json:"maxOutputTokens,omitempty"`
	TopP            *float64 `json:"topP,omitempty"`
}

type Request struct {
	Contents         []Content         `json:"contents"`
	GenerationConfig *GenerationConfig `json:"generationConfig,omitempty"`
}

// BuildPayload reshapes the OpenAI-style request entirely: messages become
// contents/parts and the assistant role is renamed to "model".
func BuildPayload(req *api.ChatRequest) Request {
	out := Request{}
	for _, m := range req.Messages {
		role := m.Role
		if role == string(api.Assistant) {
			role = string(api.ModelAssistant)
		}
		out.Contents = append(out.Contents, Content{
			Role:  role,
			Parts: []Part{{Text: m.Content}},
		})
	}

	if req.Temperature != nil || req.MaxTokens > 0 || req.TopP != nil {
		out.GenerationConfig = &GenerationConfig{
			Temperature:     req.Temperature,
			MaxOutputTokens: req.MaxTokens,
			TopP:            req.TopP,
		}
	}

	return out
}

// BuildURL substitutes the {model} placeholder and appends the key (and
// alt=sse for streaming) as query parameters, which is how Gemini
// authenticates.
func BuildURL(endpoint, modelKey, apiKey string, stream bool) string {
	resolved := strings.ReplaceAll(endpoint, "{model}", modelKey)

	params := url.Values{}
	if stream {
		params.Set("alt", "sse")
	}
	params.Set("key", apiKey)

	sep := "?"
	if strings.Contains(resolved, "?") {
		sep = "&"
	}
	return resolved + sep + params.Encode()
}

// Chat performs a non-streaming generation and returns Gemini's JSON
// envelope untouched.
func (c *Client) Chat(ctx context.Context, endpoint, apiKey string, req *api.ChatRequest, modelKey string) (map[string]interface{}, error) {
	payload := BuildPayload(req)
	target := BuildURL(endpoint, modelKey, apiKey, false)

	var resp map[string]interface{}
	if err := httpclient.SendRequest(ctx, c.http, "POST", target, nil, payload, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// OpenChatStream starts a streaming generation; the caller relays the body.
func (c *Client) OpenChatStream(ctx context.Context, endpoint, apiKey string, req *api.ChatRequest, modelKey string) (io.ReadCloser, error) {
	payload := BuildPayload(req)
	target := BuildURL(endpoint, modelKey, apiKey, true)
	return httpclient.OpenStream(ctx, c.http, "POST", target, nil, payload)
}
