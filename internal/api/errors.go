package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/richtext-api/internal/api/shared"
)

// Errors raised while handling a conversion request.
var (
	// ErrInvalidJSON is returned when the request body is not valid JSON.
	ErrInvalidJSON = errors.New("invalid JSON in request body")

	// ErrMissingMarkdown is returned when no extractor finds Markdown.
	ErrMissingMarkdown = errors.New("missing markdown field in request body")

	// ErrReadBody is returned when the body cannot be read at all.
	ErrReadBody = errors.New("failed to read request body")

	// ErrConversion wraps every failure reported by the converter.
	ErrConversion = errors.New("conversion failed")
)

// MapErrorToStatusCode maps handler errors to HTTP status codes.
// Anything unrecognized is an internal server error.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, shared.ErrBodyTooLarge):
		return http.StatusRequestEntityTooLarge

	case errors.Is(err, ErrInvalidJSON),
		errors.Is(err, ErrMissingMarkdown),
		errors.Is(err, ErrReadBody):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}
