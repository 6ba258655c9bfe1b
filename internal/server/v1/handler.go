package v1

import (
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/taleniq/ai-gateway/internal/analytics"
	"github.com/taleniq/ai-gateway/internal/httpclient"
	"github.com/taleniq/ai-gateway/internal/server/middleware"
	"github.com/taleniq/ai-gateway/internal/store/model"
	"github.com/taleniq/ai-gateway/pkg/api"
)

// vendorError converts a transport failure into the client-facing error shape.
// Upstream answers keep the vendor's own status code and message; everything
// else collapses to a 500.
func vendorError(vendor string, err error) *api.Error {
	var upstream *httpclient.UpstreamError
	if errors.As(err, &upstream) {
		return api.VendorError(vendor, upstream.StatusCode, upstream.Message(), err)
	}
	return api.InternalError(fmt.Sprintf("Failed to call %s API", vendor), err)
}

// authToken pulls the optional bearer token extracted by the auth middleware.
// It is forwarded to the backend catalog fetch only.
func authToken(c *gin.Context) string {
	return middleware.Token(c)
}

// recorder emits one accounting row per finished generation.
type recorder struct {
	ingestor analytics.Ingestor
}

func (r *recorder) record(provider, capability, modelKey string, streamed bool, status int, started time.Time) {
	if r.ingestor == nil {
		return
	}
	r.ingestor.Log(&model.GenerationLog{
		ID:         uuid.NewString(),
		Provider:   provider,
		Capability: capability,
		ModelKey:   modelKey,
		Streamed:   streamed,
		StatusCode: status,
		LatencyMS:  time.Since(started).Milliseconds(),
		CreatedAt:  time.Now().UTC(),
	})
}
