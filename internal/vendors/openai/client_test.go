package openai_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/taleniq/ai-gateway/internal/vendors/openai"
	"github.com/taleniq/ai-gateway/pkg/api"
)

func floatPtr(f float64) *float64 { return &f }

func TestBuildChatPayloadTokenField(t *testing.T) {
	req := &api.ChatRequest{
		Messages:  []api.ChatMessage{{Role: "user", Content: "hi"}},
		MaxTokens: 500,
	}

	payload := openai.BuildChatPayload(req, "gpt-4o", false)

	// the modern field name, never max_tokens
	assert.Equal(t, 500, payload["max_completion_tokens"])
	assert.NotContains(t, payload, "max_tokens")

	// max_completion_tokens wins when both are present
	req.MaxCompletionTokens = 900
	payload = openai.BuildChatPayload(req, "gpt-4o", false)
	assert.Equal(t, 900, payload["max_completion_tokens"])
}

func TestBuildChatPayloadTemperature(t *testing.T) {
	req := &api.ChatRequest{
		Messages:    []api.ChatMessage{{Role: "user", Content: "hi"}},
		Temperature: floatPtr(0.7),
	}

	payload := openai.BuildChatPayload(req, "gpt-4o", false)
	assert.NotContains(t, payload, "temperature", "only temperature == 1 is forwarded")

	req.Temperature = floatPtr(1)
	payload = openai.BuildChatPayload(req, "gpt-4o", false)
	assert.Equal(t, 1, payload["temperature"])
}

func TestBuildChatPayloadSamplingParams(t *testing.T) {
	req := &api.ChatRequest{
		Messages:         []api.ChatMessage{{Role: "user", Content: "hi"}},
		TopP:             floatPtr(0.9),
		FrequencyPenalty: floatPtr(0.5),
		PresencePenalty:  floatPtr(0),
	}

	payload := openai.BuildChatPayload(req, "gpt-4o", true)

	assert.Equal(t, 0.9, payload["top_p"])
	assert.Equal(t, 0.5, payload["frequency_penalty"])
	assert.Equal(t, 0.0, payload["presence_penalty"], "explicit zero is forwarded")
	assert.Equal(t, true, payload["stream"])
}

func TestChatSendsBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"id":"cmpl-1"}`))
	}))
	defer srv.Close()

	client := openai.NewClient(zap.NewNop())
	resp, err := client.Chat(context.Background(), srv.URL, "sk-secret", &api.ChatRequest{
		Messages: []api.ChatMessage{{Role: "user", Content: "hi"}},
	}, "gpt-4o")

	require.NoError(t, err)
	assert.Equal(t, "Bearer sk-secret", gotAuth)
	assert.Equal(t, "cmpl-1", resp["id"])
}

func TestGenerateImageDefaults(t *testing.T) {
	var gotPayload map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotPayload)
		w.Write([]byte(`{"data":[{"url":"https://img.example/1.png","revised_prompt":"a better cat"}]}`))
	}))
	defer srv.Close()

	client := openai.NewClient(zap.NewNop())
	resp, err := client.GenerateImage(context.Background(), srv.URL, "sk-x", &api.ImageRequest{
		Prompt: "a cat",
	}, "dall-e-3")

	require.NoError(t, err)
	assert.Equal(t, "1024x1024", gotPayload["size"])
	assert.Equal(t, "standard", gotPayload["quality"])
	assert.Equal(t, "vivid", gotPayload["style"])
	assert.Equal(t, float64(1), gotPayload["n"])

	assert.Equal(t, "https://img.example/1.png", resp.URL)
	assert.Equal(t, "a better cat", resp.RevisedPrompt)
}

func TestGenerateImageEmptyData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	client := openai.NewClient(zap.NewNop())
	_, err := client.GenerateImage(context.Background(), srv.URL, "sk-x", &api.ImageRequest{Prompt: "a cat"}, "dall-e-3")
	assert.Error(t, err)
}

func TestSubmitVideoMultipart(t *testing.T) {
	var gotModel, gotPrompt, gotSeconds string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotModel = r.FormValue("model")
		gotPrompt = r.FormValue("prompt")
		gotSeconds = r.FormValue("seconds")
		w.Write([]byte(`{"id":"video_123","status":"queued","progress":0}`))
	}))
	defer srv.Close()

	client := openai.NewClient(zap.NewNop())
	resp, err := client.SubmitVideo(context.Background(), srv.URL, "sk-x", &api.VideoRequest{
		Prompt:  "a dog in space",
		Seconds: 8,
	}, "sora-2")

	require.NoError(t, err)
	assert.Equal(t, "sora-2", gotModel)
	assert.Equal(t, "a dog in space", gotPrompt)
	assert.Equal(t, "8", gotSeconds)
	assert.Equal(t, "video_123", resp.VideoID)
	assert.Equal(t, "queued", resp.Status)
}

func TestVideoStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/videos/video_123", r.URL.Path)
		w.Write([]byte(`{"id":"video_123","status":"in_progress","progress":42}`))
	}))
	defer srv.Close()

	client := openai.NewClient(zap.NewNop())
	resp, err := client.VideoStatus(context.Background(), srv.URL+"/videos", "sk-x", "video_123")

	require.NoError(t, err)
	assert.Equal(t, "in_progress", resp.Status)
	assert.Equal(t, 42, resp.Progress)
}

func TestDownloadVideo(t *testing.T) {
	content := []byte("binary-video-data")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/videos/video_123/content", r.URL.Path)
		w.Write(content)
	}))
	defer srv.Close()

	client := openai.NewClient(zap.NewNop())
	resp, err := client.DownloadVideo(context.Background(), srv.URL+"/videos", "sk-x", "video_123")

	require.NoError(t, err)
	decoded, err := base64.StdEncoding.DecodeString(resp.Base64)
	require.NoError(t, err)
	assert.Equal(t, content, decoded)
}
