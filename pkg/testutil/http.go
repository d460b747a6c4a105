// Package testutil holds request builders and response assertions for tests
// that drive the employee routes end to end.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"employee-api/pkg/platform/httputil"
)

// NewJSONRequest builds a request whose body is body encoded as JSON.
// A nil body sends no payload.
func NewJSONRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err, "marshal request body")
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// NewRequest builds a request without a body.
func NewRequest(t *testing.T, method, path string) *http.Request {
	t.Helper()
	return httptest.NewRequest(method, path, nil)
}

// NewRequestWithBody builds a JSON request from a raw, possibly malformed, body.
func NewRequestWithBody(t *testing.T, method, path string, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// DoRequest serves req with handler and returns the recorded response.
func DoRequest(handler http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

// DecodeJSON decodes the response body into a T, failing the test when the
// body is not valid JSON for T.
func DecodeJSON[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), "decode response body %q", rr.Body.String())
	return out
}

// AssertStatus asserts the response status code.
func AssertStatus(t *testing.T, rr *httptest.ResponseRecorder, expected int) {
	t.Helper()
	assert.Equal(t, expected, rr.Code, "unexpected status code")
}

// AssertBadRequest asserts a 400 carrying the bad_request code and message.
// Validation failures and duplicate emails both render this way.
func AssertBadRequest(t *testing.T, rr *httptest.ResponseRecorder, message string) {
	t.Helper()
	require.Equal(t, http.StatusBadRequest, rr.Code, "unexpected status code")
	assert.Equal(t, httputil.ErrorResponse{Error: "bad_request", Message: message},
		DecodeJSON[httputil.ErrorResponse](t, rr))
}

// AssertInternalError asserts a 500 whose body keeps the underlying message.
func AssertInternalError(t *testing.T, rr *httptest.ResponseRecorder, message string) {
	t.Helper()
	require.Equal(t, http.StatusInternalServerError, rr.Code, "unexpected status code")
	assert.Equal(t, httputil.ErrorResponse{Error: "Internal Server Error", Message: message},
		DecodeJSON[httputil.ErrorResponse](t, rr))
}

// AssertNotFound asserts a 404 with an empty body.
func AssertNotFound(t *testing.T, rr *httptest.ResponseRecorder) {
	t.Helper()
	assert.Equal(t, http.StatusNotFound, rr.Code, "unexpected status code")
	assert.Zero(t, rr.Body.Len(), "not found must not carry a body")
}
