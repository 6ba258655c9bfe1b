package api

// ChatResponse is the OpenAI-compatible completion envelope relayed for
// non-streaming chat calls. Streaming calls pipe the vendor's SSE body
// through untouched, so no chunk type is defined here.
type ChatResponse struct {
	ID      string         `json:"id,omitempty"`
	Object  string         `json:"object,omitempty"`
	Created int64          `json:"created,omitempty"`
	Model   string         `json:"model,omitempty"`
	Choices []Choice       `json:"choices"`
	Usage   *ResponseUsage `json:"usage,omitempty"`

	Error *ErrorBody `json:"error,omitempty"`
}

type Choice struct {
	Index        int          `json:"index"`
	Message      *ChatMessage `json:"message,omitempty"`
	FinishReason string       `json:"finish_reason,omitempty"`
}

type ResponseUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ImageResponse is returned by URL-based image vendors (OpenAI, MiniMax).
type ImageResponse struct {
	URL           string `json:"url"`
	RevisedPrompt string `json:"revisedPrompt,omitempty"`
}

// BinaryImageResponse is returned when the vendor answers with raw image
// bytes (proprietary pipeline); the payload is base64-encoded server side.
type BinaryImageResponse struct {
	Base64      string `json:"base64"`
	ContentType string `json:"contentType"`
	FileName    string `json:"fileName"`
	Size        int    `json:"size"`
}

// VideoResponse covers both synchronous results (URL present) and async
// submissions (VideoID present, poll for status).
type VideoResponse struct {
	VideoID       string `json:"videoId,omitempty"`
	URL           string `json:"url,omitempty"`
	Status        string `json:"status,omitempty"`
	Progress      int    `json:"progress,omitempty"`
	Model         string `json:"model,omitempty"`
	RevisedPrompt string `json:"revisedPrompt,omitempty"`
}

// DownloadResponse carries vendor binary content to the browser without the
// client ever talking to the vendor directly.
type DownloadResponse struct {
	Base64      string `json:"base64"`
	ContentType string `json:"contentType"`
}

type ErrorBody struct {
	Code    interface{} `json:"code,omitempty"`
	Message string      `json:"message"`
}
