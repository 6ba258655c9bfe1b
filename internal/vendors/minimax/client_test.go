package minimax_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/taleniq/ai-gateway/internal/vendors/minimax"
	"github.com/taleniq/ai-gateway/pkg/api"
)

func TestChatURL(t *testing.T) {
	assert.Equal(t,
		"https://api.minimax.chat/v1/chat?GroupId=g1",
		minimax.ChatURL("https://api.minimax.chat/v1/chat", "g1"),
	)
	assert.Equal(t,
		"https://api.minimax.chat/v1/chat?x=1&GroupId=g1",
		minimax.ChatURL("https://api.minimax.chat/v1/chat?x=1", "g1"),
	)

	// endpoint already pinned to a group is left alone
	pinned := "https://api.minimax.chat/v1/chat?GroupId=other"
	assert.Equal(t, pinned, minimax.ChatURL(pinned, "g1"))

	// no group, no change
	plain := "https://api.minimax.chat/v1/chat"
	assert.Equal(t, plain, minimax.ChatURL(plain, ""))
}

func TestBuildChatPayloadDefaultMaxTokens(t *testing.T) {
	req := &api.ChatRequest{Messages: []api.ChatMessage{{Role: "user", Content: "hi"}}}

	payload := minimax.BuildChatPayload(req, "abab6.5", false)
	assert.Equal(t, 8192, payload["max_tokens"])

	req.MaxTokens = 100
	payload = minimax.BuildChatPayload(req, "abab6.5", false)
	assert.Equal(t, 100, payload["max_tokens"])
}

func TestAspectRatio(t *testing.T) {
	assert.Equal(t, "16:9", minimax.AspectRatio("1792x1024"))
	assert.Equal(t, "9:16", minimax.AspectRatio("1024x1792"))
	assert.Equal(t, "1:1", minimax.AspectRatio("1024x1024"))
	assert.Equal(t, "1:1", minimax.AspectRatio(""))
	assert.Equal(t, "1:1", minimax.AspectRatio("640x480"))
}

func TestSnapDuration(t *testing.T) {
	assert.Equal(t, 6, minimax.SnapDuration(0))
	assert.Equal(t, 6, minimax.SnapDuration(5))
	assert.Equal(t, 6, minimax.SnapDuration(7))
	assert.Equal(t, 10, minimax.SnapDuration(8))
	assert.Equal(t, 10, minimax.SnapDuration(30))
}

func TestGenerateImageFixedParams(t *testing.T) {
	var gotPayload map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotPayload)
		w.Write([]byte(`{"data":{"image_urls":["https://img.example/a.png"]},"base_resp":{"status_code":0}}`))
	}))
	defer srv.Close()

	client := minimax.NewClient(zap.NewNop())
	resp, err := client.GenerateImage(context.Background(), srv.URL, "k", &api.ImageRequest{
		Prompt: "a fox",
		Size:   "1792x1024",
	}, "image-01")

	require.NoError(t, err)
	assert.Equal(t, "16:9", gotPayload["aspect_ratio"])
	assert.Equal(t, float64(1), gotPayload["num_images"])
	assert.Equal(t, true, gotPayload["prompt_optimizer"])
	assert.Equal(t, "https://img.example/a.png", resp.URL)
}

func TestGenerateImageFallbackShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"images":[{"url":"https://img.example/b.png"}]},"base_resp":{"status_code":1000}}`))
	}))
	defer srv.Close()

	client := minimax.NewClient(zap.NewNop())
	resp, err := client.GenerateImage(context.Background(), srv.URL, "k", &api.ImageRequest{Prompt: "x"}, "image-01")

	require.NoError(t, err)
	assert.Equal(t, "https://img.example/b.png", resp.URL)
}

func TestGenerateImageInBandError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{},"base_resp":{"status_code":1008,"status_msg":"insufficient balance"}}`))
	}))
	defer srv.Close()

	client := minimax.NewClient(zap.NewNop())
	_, err := client.GenerateImage(context.Background(), srv.URL, "k", &api.ImageRequest{Prompt: "x"}, "image-01")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "insufficient balance")
}

func TestStatusAndRetrieveURLs(t *testing.T) {
	endpoint := "https://api.minimax.chat/v1/video_generation"

	assert.Equal(t,
		"https://api.minimax.chat/v1/query/video_generation?task_id=t-1",
		minimax.StatusURL(endpoint, "t-1"),
	)
	assert.Equal(t,
		"https://api.minimax.chat/v1/files/retrieve?file_id=f-1",
		minimax.RetrieveURL(endpoint, "f-1"),
	)
}

func TestSubmitVideoFixedRenderParams(t *testing.T) {
	var gotPayload map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotPayload)
		w.Write([]byte(`{"task_id":"t-9","base_resp":{"status_code":0}}`))
	}))
	defer srv.Close()

	client := minimax.NewClient(zap.NewNop())
	taskID, err := client.SubmitVideo(context.Background(), srv.URL, "k", &api.VideoRequest{
		Prompt:  "a city at night",
		Seconds: 9,
	}, "video-01")

	require.NoError(t, err)
	assert.Equal(t, "t-9", taskID)
	assert.Equal(t, float64(10), gotPayload["duration"], "9 seconds snaps up to 10")
	assert.Equal(t, "1080P", gotPayload["resolution"])
	assert.Equal(t, float64(25), gotPayload["fps"])
	assert.Equal(t, "video_01_live", gotPayload["mode"])
}

func TestSubmitVideoNoTaskID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"base_resp":{"status_code":0}}`))
	}))
	defer srv.Close()

	client := minimax.NewClient(zap.NewNop())
	_, err := client.SubmitVideo(context.Background(), srv.URL, "k", &api.VideoRequest{Prompt: "x"}, "video-01")
	assert.Error(t, err)
}

func TestQueryStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "t-1", r.URL.Query().Get("task_id"))
		w.Write([]byte(`{"task_id":"t-1","status":"Success","file_id":"f-1","base_resp":{"status_code":0}}`))
	}))
	defer srv.Close()

	client := minimax.NewClient(zap.NewNop())
	status, fileID, raw, err := client.QueryStatus(context.Background(), srv.URL+"/v1/video_generation", "k", "t-1")

	require.NoError(t, err)
	assert.Equal(t, "Success", status)
	assert.Equal(t, "f-1", fileID)
	assert.NotEmpty(t, raw)
}

func TestRetrieveFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "f-1", r.URL.Query().Get("file_id"))
		w.Write([]byte(`{"file":{"download_url":"https://cdn.example/v.mp4"},"base_resp":{"status_code":0}}`))
	}))
	defer srv.Close()

	client := minimax.NewClient(zap.NewNop())
	url, err := client.RetrieveFile(context.Background(), srv.URL+"/v1/video_generation", "k", "f-1")

	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/v.mp4", url)
}

func TestStreamInspectorToleratesAnyFrame(t *testing.T) {
	client := minimax.NewClient(zap.NewNop())
	inspect := client.StreamInspector()

	// none of these may panic or alter anything
	inspect([]byte(`{"base_resp":{"status_code":1008,"status_msg":"insufficient balance"}}`))
	inspect([]byte(`{"base_resp":{"status_code":0}}`))
	inspect([]byte(`{"choices":[{"delta":{"content":"ok"}}]}`))
	inspect([]byte(`not json at all`))
}
