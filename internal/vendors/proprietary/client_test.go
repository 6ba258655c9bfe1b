package proprietary_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/taleniq/ai-gateway/internal/vendors/proprietary"
	"github.com/taleniq/ai-gateway/pkg/api"
)

func TestNormalizeVideoRequestDefaults(t *testing.T) {
	req := &api.WebhookVideoRequest{UserPrompt: "a story"}

	require.NoError(t, proprietary.NormalizeVideoRequest(req))
	assert.Equal(t, 4, req.DurationScenes)
	assert.Equal(t, 5, req.ScenesNumber)
}

func TestNormalizeVideoRequestBounds(t *testing.T) {
	cases := []struct {
		name string
		req  api.WebhookVideoRequest
	}{
		{"empty prompt", api.WebhookVideoRequest{UserPrompt: "   "}},
		{"bad scene duration", api.WebhookVideoRequest{UserPrompt: "x", DurationScenes: 7}},
		{"too many scenes", api.WebhookVideoRequest{UserPrompt: "x", ScenesNumber: 21}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := tc.req
			assert.Error(t, proprietary.NormalizeVideoRequest(&req))
		})
	}
}

func TestNormalizeVideoRequestValidValues(t *testing.T) {
	for _, d := range []int{4, 6, 12} {
		req := &api.WebhookVideoRequest{UserPrompt: "x", DurationScenes: d, ScenesNumber: 20}
		assert.NoError(t, proprietary.NormalizeVideoRequest(req))
	}
}

func TestGenerateImageBinaryEnvelope(t *testing.T) {
	raw := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(raw)
	}))
	defer srv.Close()

	client := proprietary.NewClient(zap.NewNop())
	resp, err := client.GenerateImage(context.Background(), srv.URL, "", &api.ImageRequest{Prompt: "a cat"}, "")

	require.NoError(t, err)
	decoded, err := base64.StdEncoding.DecodeString(resp.Base64)
	require.NoError(t, err)
	assert.Equal(t, raw, decoded)
	assert.Equal(t, "image/png", resp.ContentType)
	assert.True(t, strings.HasPrefix(resp.FileName, "ai-image-"))
	assert.True(t, strings.HasSuffix(resp.FileName, ".png"))
	assert.Equal(t, len(raw), resp.Size)
}

func TestGenerateImageEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	client := proprietary.NewClient(zap.NewNop())
	_, err := client.GenerateImage(context.Background(), srv.URL, "", &api.ImageRequest{Prompt: "x"}, "")
	assert.Error(t, err)
}

func TestGenerateVideoWebhookPath(t *testing.T) {
	var gotPath string
	var gotPayload map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotPayload)
		w.Write([]byte(`{"project":"proj-1","status":"started"}`))
	}))
	defer srv.Close()

	client := proprietary.NewClient(zap.NewNop())
	resp, err := client.GenerateVideo(context.Background(), srv.URL+"/", &api.WebhookVideoRequest{
		UserPrompt: "a travel vlog",
	})

	require.NoError(t, err)
	assert.Equal(t, "/ai-video-generator", gotPath)
	assert.Equal(t, "a travel vlog", gotPayload["user_prompt"])
	assert.Equal(t, float64(4), gotPayload["duration_scences"])
	assert.Equal(t, float64(5), gotPayload["scences_number"])
	assert.Equal(t, "proj-1", resp["project"])
}

func TestVideoStatusHeaders(t *testing.T) {
	var gotKey, gotProject string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-api-key")
		gotProject = r.URL.Query().Get("project")
		w.Write([]byte(`{"status":"done","url":"https://cdn.example/final.mp4"}`))
	}))
	defer srv.Close()

	client := proprietary.NewClient(zap.NewNop())
	resp, err := client.VideoStatus(context.Background(), srv.URL, "j2v-key", "proj-1")

	require.NoError(t, err)
	assert.Equal(t, "j2v-key", gotKey)
	assert.Equal(t, "proj-1", gotProject)
	assert.Equal(t, "done", resp["status"])
}
