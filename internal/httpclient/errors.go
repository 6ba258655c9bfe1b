package httpclient

import (
	"encoding/json"
	"fmt"
)

// UpstreamError represents a non-2xx answer from a vendor API. Body is kept
// raw so callers can extract the vendor's own error envelope.
type UpstreamError struct {
	StatusCode int
	Body       []byte
	URL        string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream error: status %d from %s", e.StatusCode, e.URL)
}

// Message digs a human-readable message out of the vendor's error body.
// Vendors disagree on envelope shape, so the lookup order is declared here:
// error.message, then message, then the raw body text.
func (e *UpstreamError) Message() string {
	var envelope struct {
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(e.Body, &envelope); err == nil {
		if envelope.Error != nil && envelope.Error.Message != "" {
			return envelope.Error.Message
		}
		if envelope.Message != "" {
			return envelope.Message
		}
	}
	return string(e.Body)
}
