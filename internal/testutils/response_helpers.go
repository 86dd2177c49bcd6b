package testutils

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertJSONResponse checks the status code and content type, then decodes
// the body into result.
func AssertJSONResponse(t *testing.T, resp *http.Response, expectedStatus int, result interface{}) {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "Failed to read response body")

	require.Equal(t, expectedStatus, resp.StatusCode, "unexpected status, body: %s", body)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	if result != nil {
		require.NoError(t, json.Unmarshal(body, result), "Failed to decode response body: %s", body)
	}
}

// AssertErrorResponse checks a {success:false, error} envelope with exactly
// the expected message.
func AssertErrorResponse(t *testing.T, resp *http.Response, expectedStatus int, expectedMessage string) {
	t.Helper()

	var envelope map[string]interface{}
	AssertJSONResponse(t, resp, expectedStatus, &envelope)

	assert.Equal(t, false, envelope["success"])
	assert.Equal(t, expectedMessage, envelope["error"])
	assert.NotContains(t, envelope, "richText", "error responses carry no document")
}

// AssertRichTextResponse checks a {success:true, richText} envelope and
// returns the document as generic JSON.
func AssertRichTextResponse(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()

	var envelope struct {
		Success  bool                   `json:"success"`
		Error    *string                `json:"error"`
		RichText map[string]interface{} `json:"richText"`
	}
	AssertJSONResponse(t, resp, http.StatusOK, &envelope)

	assert.True(t, envelope.Success)
	assert.Nil(t, envelope.Error, "success responses carry no error")
	require.NotNil(t, envelope.RichText)
	assert.Equal(t, "document", envelope.RichText["nodeType"])
	return envelope.RichText
}
