package sse

import (
	"bytes"
	"io"
	"net/http"
)

// Inspector receives the payload of each complete `data:` line seen during a
// relay. It must not block or mutate; the relay never alters the stream.
type Inspector func(data []byte)

// Relay copies src to dst chunk by chunk, preserving frame order, while
// surfacing complete data lines to the inspector. Buffering is limited to the
// carry needed to detect line boundaries; each chunk is written (and flushed
// when dst supports it) before the next read.
func Relay(dst io.Writer, src io.Reader, inspect Inspector) error {
	flusher, _ := dst.(http.Flusher)

	var carry []byte
	buf := make([]byte, 4096)

	for {
		n, readErr := src.Read(buf)
		if n > 0 {
			if _, err := dst.Write(buf[:n]); err != nil {
				return err
			}
			if flusher != nil {
				flusher.Flush()
			}

			if inspect != nil {
				carry = append(carry, buf[:n]...)
				carry = scanLines(carry, inspect)
			}
		}

		if readErr != nil {
			if readErr == io.EOF {
				if inspect != nil && len(carry) > 0 {
					emitLine(carry, inspect)
				}
				return nil
			}
			return readErr
		}
	}
}

// scanLines feeds every complete line in carry to the inspector and returns
// the unterminated remainder.
func scanLines(carry []byte, inspect Inspector) []byte {
	for {
		idx := bytes.IndexByte(carry, '\n')
		if idx < 0 {
			return carry
		}
		emitLine(carry[:idx], inspect)
		carry = carry[idx+1:]
	}
}

func emitLine(line []byte, inspect Inspector) {
	line = bytes.TrimSuffix(line, []byte("\r"))
	if !bytes.HasPrefix(line, []byte(DataPrefix)) {
		return
	}
	payload := bytes.TrimPrefix(line, []byte(DataPrefix))
	if bytes.Equal(payload, []byte(DoneSentinel)) {
		return
	}
	inspect(payload)
}
