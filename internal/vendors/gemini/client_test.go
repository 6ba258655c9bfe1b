package gemini_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/taleniq/ai-gateway/internal/vendors/gemini"
	"github.com/taleniq/ai-gateway/pkg/api"
)

func floatPtr(f float64) *float64 { return &f }

func TestBuildPayloadReshapesMessages(t *testing.T) {
	req := &api.ChatRequest{
		Messages: []api.ChatMessage{
			{Role: "user", Content: "question"},
			{Role: "assistant", Content: "answer"},
			{Role: "user", Content: "followup"},
		},
	}

	payload := gemini.BuildPayload(req)

	require.Len(t, payload.Contents, 3)
	assert.Equal(t, "user", payload.Contents[0].Role)
	assert.Equal(t, "model", payload.Contents[1].Role, "assistant becomes model")
	assert.Equal(t, "answer", payload.Contents[1].Parts[0].Text)
	assert.Nil(t, payload.GenerationConfig, "no config block when nothing was set")
}

func TestBuildPayloadGenerationConfig(t *testing.T) {
	req := &api.ChatRequest{
		Messages:    []api.ChatMessage{{Role: "user", Content: "hi"}},
		Temperature: floatPtr(0.2),
		MaxTokens:   1024,
	}

	payload := gemini.BuildPayload(req)

	require.NotNil(t, payload.GenerationConfig)
	assert.Equal(t, 0.2, *payload.GenerationConfig.Temperature)
	assert.Equal(t, 1024, payload.GenerationConfig.MaxOutputTokens)
	assert.Nil(t, payload.GenerationConfig.TopP)
}

func TestBuildURL(t *testing.T) {
	endpoint := "https://generativelanguage.googleapis.com/v1beta/models/{model}:generateContent"

	unary := gemini.BuildURL(endpoint, "gemini-pro", "secret-key", false)
	assert.Contains(t, unary, "models/gemini-pro:generateContent")
	assert.Contains(t, unary, "key=secret-key")
	assert.NotContains(t, unary, "alt=sse")

	streaming := gemini.BuildURL(endpoint, "gemini-pro", "secret-key", true)
	assert.Contains(t, streaming, "alt=sse")
	assert.Contains(t, streaming, "key=secret-key")
}

func TestBuildURLExistingQuery(t *testing.T) {
	got := gemini.BuildURL("https://example.com/path?x=1", "m", "k", false)
	assert.Contains(t, got, "?x=1&")
}

func TestChatAuthInQueryNotHeader(t *testing.T) {
	var gotAuth, gotKey string
	var gotBody gemini.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotKey = r.URL.Query().Get("key")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"hello"}]}}]}`))
	}))
	defer srv.Close()

	client := gemini.NewClient(zap.NewNop())
	resp, err := client.Chat(context.Background(), srv.URL+"/models/{model}:generateContent", "g-key", &api.ChatRequest{
		Messages: []api.ChatMessage{{Role: "user", Content: "hi"}},
	}, "gemini-pro")

	require.NoError(t, err)
	assert.Empty(t, gotAuth, "Gemini authenticates via query parameter")
	assert.Equal(t, "g-key", gotKey)
	require.Len(t, gotBody.Contents, 1)
	assert.NotNil(t, resp["candidates"])
}
