package sse

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
)

const (
	// DataPrefix marks payload-bearing SSE lines.
	DataPrefix = "data: "
	// DoneSentinel terminates OpenAI-compatible streams.
	DoneSentinel = "[DONE]"
)

// Extractor pulls the incremental text delta out of one SSE data payload.
// ok=false means the frame carries no text (keep-alive, terminal marker,
// malformed JSON) and must be skipped silently.
type Extractor func(data []byte) (delta string, ok bool)

type chatCompletionChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// ChatCompletionDelta handles the OpenAI/MiniMax chat-completions chunk
// shape: choices[0].delta.content. A content-less frame whose finish_reason
// is "stop" is a terminal marker, not text.
func ChatCompletionDelta(data []byte) (string, bool) {
	var chunk chatCompletionChunk
	if err := json.Unmarshal(data, &chunk); err != nil {
		return "", false
	}
	if len(chunk.Choices) == 0 {
		return "", false
	}
	// terminal "stop" frames arrive content-less and fall out here
	choice := chunk.Choices[0]
	if choice.Delta.Content == "" {
		return "", false
	}
	return choice.Delta.Content, true
}

type geminiChunk struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// GeminiDelta handles the Gemini streaming shape:
// candidates[0].content.parts[0].text.
func GeminiDelta(data []byte) (string, bool) {
	var chunk geminiChunk
	if err := json.Unmarshal(data, &chunk); err != nil {
		return "", false
	}
	if len(chunk.Candidates) == 0 || len(chunk.Candidates[0].Content.Parts) == 0 {
		return "", false
	}
	text := chunk.Candidates[0].Content.Parts[0].Text
	return text, text != ""
}

// GenericDelta is the fallback for unknown frames: a top-level "text" or
// "content" field.
func GenericDelta(data []byte) (string, bool) {
	var chunk struct {
		Text    string `json:"text"`
		Content string `json:"content"`
	}
	if err := json.Unmarshal(data, &chunk); err != nil {
		return "", false
	}
	if chunk.Text != "" {
		return chunk.Text, true
	}
	if chunk.Content != "" {
		return chunk.Content, true
	}
	return "", false
}

// Accumulate reads an SSE stream to completion and returns the concatenation
// of all text deltas in arrival order. Malformed or partial lines are skipped
// silently. Context cancellation is a normal termination path: whatever text
// accumulated so far is returned with a nil error.
func Accumulate(ctx context.Context, r io.Reader, extract Extractor) (string, error) {
	var sb strings.Builder

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return sb.String(), nil
		}

		line := scanner.Text()
		if !strings.HasPrefix(line, DataPrefix) {
			continue
		}

		payload := strings.TrimPrefix(line, DataPrefix)
		if payload == DoneSentinel {
			continue
		}

		if delta, ok := extract([]byte(payload)); ok {
			sb.WriteString(delta)
		}
	}

	if err := scanner.Err(); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return sb.String(), nil
		}
		return sb.String(), err
	}

	return sb.String(), nil
}
