package logger

import (
	"regexp"

	"go.uber.org/zap"
)

// Credentials must never land in logs verbatim. Secret masks a key down to
// its last four characters; RedactURL scrubs key-bearing query parameters.

var keyParamPattern = regexp.MustCompile(`(?i)((?:api[_-]?key|key|token|authorization)=)[^&\s]+`)

// Secret returns a zap field with the value masked.
func Secret(name, value string) zap.Field {
	return zap.String(name, Mask(value))
}

// Mask hides all but the last four characters of a secret.
func Mask(value string) string {
	if value == "" {
		return ""
	}
	if len(value) <= 4 {
		return "****"
	}
	return "****" + value[len(value)-4:]
}

// RedactURL strips credential query parameters from a URL before logging.
func RedactURL(raw string) string {
	return keyParamPattern.ReplaceAllString(raw, "${1}****")
}
