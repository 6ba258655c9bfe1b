package api

// ChatRequest is the inbound shape for every chat route. Vendor clients are
// responsible for translating it into their own wire format.
type ChatRequest struct {
	Messages []ChatMessage `json:"messages" binding:"required,min=1,dive"`

	// Optional vendor model key; when empty the provider's default model is used.
	Model string `json:"model,omitempty"`

	// Enable streaming, defaults to `false` (empty)
	Stream bool `json:"stream,omitempty"`

	// LLM parameters. Pointers distinguish "not sent" from zero values, which
	// matters for vendors that reject or reinterpret explicit zeroes.
	Temperature         *float64 `json:"temperature,omitempty"`
	MaxTokens           int      `json:"max_tokens,omitempty"`
	MaxCompletionTokens int      `json:"max_completion_tokens,omitempty"`
	TopP                *float64 `json:"top_p,omitempty"`
	FrequencyPenalty    *float64 `json:"frequency_penalty,omitempty"`
	PresencePenalty     *float64 `json:"presence_penalty,omitempty"`

	// MiniMax group override; normally sourced from provider settings.
	GroupID string `json:"group_id,omitempty"`
}

type ChatMessage struct {
	Role    string `json:"role" binding:"required,oneof=user assistant system"`
	Content string `json:"content" binding:"required"`
}

// ImageRequest is the inbound shape for image generation routes.
type ImageRequest struct {
	Prompt  string `json:"prompt" binding:"required"`
	Model   string `json:"model,omitempty"`
	Size    string `json:"size,omitempty"`
	Quality string `json:"quality,omitempty"`
	Style   string `json:"style,omitempty"`
	N       int    `json:"n,omitempty" binding:"omitempty,min=1,max=10"`
}

// VideoRequest is the inbound shape for OpenAI and MiniMax video routes.
type VideoRequest struct {
	Prompt  string `json:"prompt" binding:"required"`
	Model   string `json:"model,omitempty"`
	Seconds int    `json:"seconds,omitempty" binding:"omitempty,min=1,max=60"`
	Size    string `json:"size,omitempty"`
}

// WebhookVideoRequest is the inbound shape for the proprietary N8N video flow.
// Scene duration and count bounds are enforced before any webhook call.
type WebhookVideoRequest struct {
	UserPrompt     string `json:"user_prompt" binding:"required"`
	DurationScenes int    `json:"duration_scences,omitempty" binding:"omitempty,oneof=4 6 12"`
	ScenesNumber   int    `json:"scences_number,omitempty" binding:"omitempty,min=1,max=20"`
}

type Role string

const (
	User      Role = "user"
	Assistant Role = "assistant"
	System    Role = "system"

	// Gemini uses "model" where everyone else says "assistant".
	ModelAssistant Role = "model"
)
