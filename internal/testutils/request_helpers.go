package testutils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// RequestOption is a function that configures an HTTP request.
type RequestOption func(*http.Request)

// WithHeader adds a header to the request.
func WithHeader(key, value string) RequestOption {
	return func(req *http.Request) {
		req.Header.Set(key, value)
	}
}

// WithContentType sets the Content-Type header.
func WithContentType(contentType string) RequestOption {
	return WithHeader("Content-Type", contentType)
}

// WithAuth adds an Authorization header carrying token. The Bearer scheme is
// added unless token already names one.
func WithAuth(token string) RequestOption {
	return func(req *http.Request) {
		if token == "" {
			return
		}
		if !strings.Contains(token, " ") {
			token = "Bearer " + token
		}
		req.Header.Set("Authorization", token)
	}
}

// MarkdownPayload returns the canonical {"markdown": ...} request body.
func MarkdownPayload(markdown string) map[string]interface{} {
	return map[string]interface{}{"markdown": markdown}
}

// ExecuteRequest sends an HTTP request to the given server.
// The response body is closed when the test completes.
func ExecuteRequest(
	t *testing.T,
	server *httptest.Server,
	method string,
	path string,
	body io.Reader,
	options ...RequestOption,
) (*http.Response, error) {
	t.Helper()

	req, err := http.NewRequest(method, server.URL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for _, option := range options {
		option(req)
	}

	if body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := server.Client().Do(req)
	if err == nil && resp != nil {
		t.Cleanup(func() {
			if err := resp.Body.Close(); err != nil {
				t.Logf("Failed to close response body: %v", err)
			}
		})
	}

	return resp, err
}

// ExecuteJSONRequest sends payload encoded as JSON. A string payload is sent
// as a bare JSON string.
func ExecuteJSONRequest(
	t *testing.T,
	server *httptest.Server,
	method string,
	path string,
	payload interface{},
	options ...RequestOption,
) (*http.Response, error) {
	t.Helper()

	var bodyReader io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal JSON payload: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	options = append(options, WithContentType("application/json"))
	return ExecuteRequest(t, server, method, path, bodyReader, options...)
}

// ExecuteRawRequest sends body verbatim, for payloads that are not valid JSON.
func ExecuteRawRequest(
	t *testing.T,
	server *httptest.Server,
	method string,
	path string,
	body string,
	options ...RequestOption,
) (*http.Response, error) {
	t.Helper()
	return ExecuteRequest(t, server, method, path, strings.NewReader(body), options...)
}
