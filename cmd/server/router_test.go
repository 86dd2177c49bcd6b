package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/richtext-api/internal/config"
	"github.com/phrazzld/richtext-api/internal/platform/logger"
)

const testAPIKey = "test-secret"

func testConfig(mode string) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:                0,
			LogLevel:            "debug",
			MaxBodyBytes:        1024,
			ReadTimeoutSeconds:  5,
			WriteTimeoutSeconds: 5,
		},
		Auth:      config.AuthConfig{APIKey: testAPIKey},
		Handler:   config.HandlerConfig{Mode: mode},
		Converter: config.ConverterConfig{Extensions: []string{"gfm"}},
	}
}

func newTestApplication(t *testing.T, mode string) *application {
	t.Helper()

	l, _ := logger.GetTestLogger(t)
	app, err := newApplication(testConfig(mode), l)
	require.NoError(t, err)
	return app
}

func doRequest(t *testing.T, h http.Handler, method, path, auth, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestRouterHealth(t *testing.T) {
	router := newTestApplication(t, config.ModeLenient).setupRouter()

	for _, auth := range []string{"", "Bearer wrong", "Bearer " + testAPIKey} {
		rr := doRequest(t, router, http.MethodGet, "/health", auth, "")

		require.Equal(t, http.StatusOK, rr.Code, "auth=%q", auth)
		var response map[string]string
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
		assert.Equal(t, "ok", response["status"])
		_, err := time.Parse(time.RFC3339Nano, response["timestamp"])
		assert.NoError(t, err)
	}
}

func TestRouterConvertRequiresAuth(t *testing.T) {
	router := newTestApplication(t, config.ModeLenient).setupRouter()

	tests := []struct {
		name string
		auth string
		body string
	}{
		{name: "missing header", body: `{"markdown":"# Hi"}`},
		{name: "wrong token", auth: "Bearer wrong", body: `{"markdown":"# Hi"}`},
		{name: "wrong scheme", auth: "Basic " + testAPIKey, body: `{"markdown":"# Hi"}`},
		{name: "bare token", auth: testAPIKey, body: `{"markdown":"# Hi"}`},
		{name: "invalid body still unauthorized", auth: "Bearer wrong", body: `not valid json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doRequest(t, router, http.MethodPost, "/convert", tt.auth, tt.body)

			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			assert.JSONEq(t, `{"success":false,"error":"Unauthorized"}`, rr.Body.String())
			assert.NotEmpty(t, rr.Header().Get("WWW-Authenticate"))
		})
	}
}

func TestRouterConvert(t *testing.T) {
	router := newTestApplication(t, config.ModeLenient).setupRouter()
	auth := "Bearer " + testAPIKey

	t.Run("success", func(t *testing.T) {
		rr := doRequest(t, router, http.MethodPost, "/convert", auth, `{"markdown":"# Hello\n\nSome **bold** text"}`)

		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.NotEmpty(t, rr.Header().Get("X-Trace-ID"))
		assert.JSONEq(t, `{
			"success": true,
			"richText": {
				"nodeType": "document",
				"data": {},
				"content": [
					{
						"nodeType": "heading-1",
						"data": {},
						"content": [{"nodeType": "text", "value": "Hello", "marks": [], "data": {}}]
					},
					{
						"nodeType": "paragraph",
						"data": {},
						"content": [
							{"nodeType": "text", "value": "Some ", "marks": [], "data": {}},
							{"nodeType": "text", "value": "bold", "marks": [{"type": "bold"}], "data": {}},
							{"nodeType": "text", "value": " text", "marks": [], "data": {}}
						]
					}
				]
			}
		}`, rr.Body.String())
	})

	t.Run("nested and bare payloads match top level", func(t *testing.T) {
		top := doRequest(t, router, http.MethodPost, "/convert", auth, `{"markdown":"- a\n- b"}`)
		nested := doRequest(t, router, http.MethodPost, "/convert", auth, `{"body":{"markdown":"- a\n- b"}}`)
		bare := doRequest(t, router, http.MethodPost, "/convert", auth, `"- a\n- b"`)

		require.Equal(t, http.StatusOK, top.Code)
		assert.JSONEq(t, top.Body.String(), nested.Body.String())
		assert.JSONEq(t, top.Body.String(), bare.Body.String())
	})

	t.Run("invalid json", func(t *testing.T) {
		rr := doRequest(t, router, http.MethodPost, "/convert", auth, `not valid json`)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.JSONEq(t,
			`{"success":false,"error":"Invalid JSON in request body. Received: not valid json"}`,
			rr.Body.String())
	})

	t.Run("missing markdown", func(t *testing.T) {
		rr := doRequest(t, router, http.MethodPost, "/convert", auth, `{"foo":1}`)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.JSONEq(t,
			`{"success":false,"error":"Missing markdown field in request body. Received structure: [\"foo\"]"}`,
			rr.Body.String())
	})

	t.Run("body too large", func(t *testing.T) {
		body := `{"markdown":"` + strings.Repeat("x", 4096) + `"}`
		rr := doRequest(t, router, http.MethodPost, "/convert", auth, body)

		assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
	})

	t.Run("wrong method", func(t *testing.T) {
		rr := doRequest(t, router, http.MethodGet, "/convert", auth, "")

		assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
		assert.JSONEq(t, `{"success":false,"error":"Method not allowed"}`, rr.Body.String())
	})

	t.Run("unknown path", func(t *testing.T) {
		rr := doRequest(t, router, http.MethodGet, "/missing", "", "")

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"success":false,"error":"Not found"}`, rr.Body.String())
	})

	t.Run("repeated requests are identical", func(t *testing.T) {
		body := `{"markdown":"| a | b |\n|---|---|\n| 1 | 2 |\n\n> quote"}`
		first := doRequest(t, router, http.MethodPost, "/convert", auth, body)
		second := doRequest(t, router, http.MethodPost, "/convert", auth, body)

		require.Equal(t, http.StatusOK, first.Code, first.Body.String())
		assert.Equal(t, first.Body.String(), second.Body.String())
	})
}

func TestRouterStrictMode(t *testing.T) {
	router := newTestApplication(t, config.ModeStrict).setupRouter()
	auth := "Bearer " + testAPIKey

	rr := doRequest(t, router, http.MethodPost, "/convert", auth, `not valid json`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"success":false,"error":"Invalid JSON in request body"}`, rr.Body.String())

	rr = doRequest(t, router, http.MethodPost, "/convert", auth, `{"body":{"markdown":"# Hi"}}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"success":false,"error":"Missing markdown field in request body"}`, rr.Body.String())
}

func TestNewApplicationRejectsUnknownExtension(t *testing.T) {
	cfg := testConfig(config.ModeLenient)
	cfg.Converter.Extensions = []string{"footnotes"}

	l, _ := logger.GetTestLogger(t)
	app, err := newApplication(cfg, l)
	assert.Error(t, err)
	assert.Nil(t, app)
}
