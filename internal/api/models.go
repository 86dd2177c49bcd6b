package api

import "github.com/phrazzld/richtext-api/internal/richtext"

// ConvertResponse is the body of a successful conversion.
type ConvertResponse struct {
	Success  bool               `json:"success"`
	RichText *richtext.Document `json:"richText"`
}

// HealthResponse is the body returned by the health check.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}
