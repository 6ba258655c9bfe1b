package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMask(t *testing.T) {
	assert.Equal(t, "", Mask(""))
	assert.Equal(t, "****", Mask("abc"))
	assert.Equal(t, "****6789", Mask("sk-123456789"))
}

func TestRedactURL(t *testing.T) {
	in := "https://api.minimax.io/v1/text/chatcompletion_v2?GroupId=g1&key=sk-secret-value&alt=sse"
	out := RedactURL(in)
	assert.NotContains(t, out, "sk-secret-value")
	assert.Contains(t, out, "GroupId=g1")
	assert.Contains(t, out, "key=****")

	in = "https://generativelanguage.googleapis.com/v1beta/models/gemini:streamGenerateContent?alt=sse&api_key=topsecret"
	out = RedactURL(in)
	assert.NotContains(t, out, "topsecret")
}
