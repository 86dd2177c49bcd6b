package testutils

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echoServer reflects the received Authorization header, content type and body.
func echoServer(t *testing.T) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"authorization": r.Header.Get("Authorization"),
			"content_type":  r.Header.Get("Content-Type"),
			"body":          string(body),
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestWithAuth(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  string
	}{
		{name: "adds bearer scheme", token: "secret", want: "Bearer secret"},
		{name: "keeps explicit scheme", token: "Basic abc", want: "Basic abc"},
		{name: "empty token sets nothing", token: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			WithAuth(tt.token)(req)
			assert.Equal(t, tt.want, req.Header.Get("Authorization"))
		})
	}
}

func TestExecuteJSONRequest(t *testing.T) {
	srv := echoServer(t)

	resp, err := ExecuteJSONRequest(t, srv, http.MethodPost, "/", MarkdownPayload("# Hi"), WithAuth("secret"))
	require.NoError(t, err)

	var echoed map[string]string
	AssertJSONResponse(t, resp, http.StatusOK, &echoed)
	assert.Equal(t, "Bearer secret", echoed["authorization"])
	assert.Equal(t, "application/json", echoed["content_type"])
	assert.JSONEq(t, `{"markdown":"# Hi"}`, echoed["body"])
}

func TestExecuteRawRequest(t *testing.T) {
	srv := echoServer(t)

	resp, err := ExecuteRawRequest(t, srv, http.MethodPost, "/", "not valid json",
		WithContentType("text/plain"))
	require.NoError(t, err)

	var echoed map[string]string
	AssertJSONResponse(t, resp, http.StatusOK, &echoed)
	assert.Equal(t, "text/plain", echoed["content_type"])
	assert.Equal(t, "not valid json", echoed["body"])
	assert.Empty(t, echoed["authorization"])
}
