package model

import "time"

// GenerationLog captures one completed proxy call, whatever its capability.
type GenerationLog struct {
	ID         string    `db:"id" json:"id"`
	Provider   string    `db:"provider" json:"provider"`
	Capability string    `db:"capability" json:"capability"` // chat, image, video
	ModelKey   string    `db:"model_key" json:"model_key"`
	Streamed   bool      `db:"streamed" json:"streamed"`
	StatusCode int       `db:"status_code" json:"status_code"`
	LatencyMS  int64     `db:"latency_ms" json:"latency_ms"`
	ErrorText  string    `db:"error_text" json:"error_text,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// DailyStats is one aggregated usage row.
type DailyStats struct {
	Day          string  `db:"day" json:"day"`
	Provider     string  `db:"provider" json:"provider"`
	Capability   string  `db:"capability" json:"capability"`
	Requests     int     `db:"requests" json:"requests"`
	Errors       int     `db:"errors" json:"errors"`
	AvgLatencyMS float64 `db:"avg_latency_ms" json:"avg_latency_ms"`
}
