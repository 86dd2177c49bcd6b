// Package testutils provides HTTP testing utilities for the richtext API.
//
// It covers request construction with functional options, execution against
// an httptest.Server, and assertions on the JSON envelopes the API returns:
//
//	srv := httptest.NewServer(router)
//	resp, err := testutils.ExecuteJSONRequest(t, srv, http.MethodPost, "/convert",
//		testutils.MarkdownPayload("# Hi"), testutils.WithAuth("secret"))
//	testutils.AssertRichTextResponse(t, resp)
package testutils
