package sse

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRelay_PassThroughUnchanged(t *testing.T) {
	stream := "data: {\"choices\":[{\"delta\":{\"content\":\"a\"}}]}\n\n" +
		"data: {\"choices\":[{\"delta\":{\"content\":\"b\"}}]}\n\n" +
		"data: [DONE]\n\n"

	var out bytes.Buffer
	var seen []string

	err := Relay(&out, strings.NewReader(stream), func(data []byte) {
		seen = append(seen, string(data))
	})

	assert.NoError(t, err)
	assert.Equal(t, stream, out.String(), "relay must not rewrite frames")
	// [DONE] is not handed to the inspector
	assert.Len(t, seen, 2)
	assert.Contains(t, seen[0], `"a"`)
	assert.Contains(t, seen[1], `"b"`)
}

type fragmentedReader struct {
	parts []string
	idx   int
}

func (r *fragmentedReader) Read(p []byte) (int, error) {
	if r.idx >= len(r.parts) {
		return 0, io.EOF
	}
	n := copy(p, r.parts[r.idx])
	r.idx++
	return n, nil
}

func TestRelay_LineSplitAcrossReads(t *testing.T) {
	// one data line arriving in three TCP-ish fragments
	r := &fragmentedReader{parts: []string{
		"data: {\"base_resp\":{\"status_c",
		"ode\":1008,\"status_msg\":\"insufficient balance\"}}",
		"\n\n",
	}}

	var out bytes.Buffer
	var seen []string

	err := Relay(&out, r, func(data []byte) {
		seen = append(seen, string(data))
	})

	assert.NoError(t, err)
	assert.Len(t, seen, 1)
	assert.Contains(t, seen[0], "1008")
	assert.Contains(t, out.String(), "insufficient balance")
}

func TestRelay_NilInspector(t *testing.T) {
	var out bytes.Buffer
	err := Relay(&out, strings.NewReader("data: {\"x\":1}\n\n"), nil)
	assert.NoError(t, err)
	assert.Equal(t, "data: {\"x\":1}\n\n", out.String())
}

func TestRelay_CRLFLines(t *testing.T) {
	var seen []string
	var out bytes.Buffer
	err := Relay(&out, strings.NewReader("data: {\"x\":1}\r\n\r\n"), func(data []byte) {
		seen = append(seen, string(data))
	})
	assert.NoError(t, err)
	assert.Equal(t, []string{`{"x":1}`}, seen)
}

func TestRelay_UnterminatedTrailingLine(t *testing.T) {
	var seen []string
	var out bytes.Buffer
	err := Relay(&out, strings.NewReader("data: {\"x\":2}"), func(data []byte) {
		seen = append(seen, string(data))
	})
	assert.NoError(t, err)
	assert.Equal(t, []string{`{"x":2}`}, seen)
}
