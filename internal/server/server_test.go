package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/hotspotmap/pkg/cache"
	"github.com/matzehuels/hotspotmap/pkg/errors"
	"github.com/matzehuels/hotspotmap/pkg/observability"
	"github.com/matzehuels/hotspotmap/pkg/pipeline"
)

const testdata = "../../pkg/pipeline/testdata/"

func newTestServer(t *testing.T) *Server {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	return New(pipeline.NewRunner(nil, nil, logger), logger, Config{})
}

// multipartRequest builds a POST /render request uploading the named
// testdata files.
func multipartRequest(t *testing.T, query string, files map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for field, name := range files {
		data, err := os.ReadFile(testdata + name)
		require.NoError(t, err)
		fw, err := mw.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/render"+query, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer(t).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])

	_, err := uuid.Parse(rec.Header().Get(requestIDHeader))
	assert.NoError(t, err, "every response carries a request ID")
}

func TestRequestIDIsKept(t *testing.T) {
	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, id)
	rec := httptest.NewRecorder()
	newTestServer(t).Handler().ServeHTTP(rec, req)
	assert.Equal(t, id, rec.Header().Get(requestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "not-a-uuid")
	rec = httptest.NewRecorder()
	newTestServer(t).Handler().ServeHTTP(rec, req)
	assert.NotEqual(t, "not-a-uuid", rec.Header().Get(requestIDHeader))
}

func TestRender(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		files       map[string]string
		contentType string
		contains    string
	}{
		{
			name:        "floor-plan",
			files:       map[string]string{"flp": "quad.flp"},
			contentType: "image/svg+xml",
			contains:    `id="unit-A"`,
		},
		{
			name:        "steady",
			files:       map[string]string{"flp": "quad.flp", "temperature": "quad.steady"},
			contentType: "image/svg+xml",
			contains:    "360.5K",
		},
		{
			name:        "grid json",
			query:       "?format=json&rows=2&cols=2",
			files:       map[string]string{"flp": "quad.flp", "temperature": "quad.grid.steady"},
			contentType: "application/json",
			contains:    `"mode": "grid-steady"`,
		},
		{
			name:        "native pdf",
			query:       "?format=pdf",
			files:       map[string]string{"flp": "quad.flp", "temperature": "quad.steady"},
			contentType: "application/pdf",
			contains:    "%PDF-",
		},
	}
	srv := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, multipartRequest(t, tt.query, tt.files))

			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, tt.contentType, rec.Header().Get("Content-Type"))
			assert.Contains(t, rec.Body.String(), tt.contains)
		})
	}
}

func TestRenderErrors(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		files  map[string]string
		status int
		code   errors.Code
	}{
		{"no floor-plan", "", map[string]string{"temperature": "quad.steady"}, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"bad format", "?format=gif", map[string]string{"flp": "quad.flp"}, http.StatusBadRequest, errors.ErrCodeInvalidFormat},
		{"bad rows", "?rows=two", map[string]string{"flp": "quad.flp"}, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"unit mismatch", "", map[string]string{"flp": "tim.flp", "temperature": "quad.steady"}, http.StatusBadRequest, errors.ErrCodeTemperatureMismatch},
		{"grid size", "?rows=3&cols=3", map[string]string{"flp": "quad.flp", "temperature": "quad.grid.steady"}, http.StatusBadRequest, errors.ErrCodeInvalidTemperature},
		{"html without temperatures", "?format=html", map[string]string{"flp": "quad.flp"}, http.StatusBadRequest, errors.ErrCodeInvalidFormat},
	}
	srv := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, multipartRequest(t, tt.query, tt.files))

			assert.Equal(t, tt.status, rec.Code)
			var body errorBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, string(tt.code), body.Code)
			assert.NotEmpty(t, body.Error)
			assert.Equal(t, rec.Header().Get(requestIDHeader), body.RequestID)
		})
	}
}

func TestRenderCachesConversions(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	logger := log.NewWithOptions(io.Discard, log.Options{})
	srv := New(pipeline.NewRunner(fc, nil, logger), logger, Config{})

	var first []byte
	for i := range 2 {
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, multipartRequest(t, "?format=eps", map[string]string{"flp": "quad.flp"}))
		require.Equal(t, http.StatusOK, rec.Code)
		if i == 0 {
			first = rec.Body.Bytes()
			continue
		}
		assert.Equal(t, first, rec.Body.Bytes())
	}
}

type recordingHTTPHooks struct {
	observability.NoopHTTPHooks
	mu       sync.Mutex
	statuses []int
}

func (h *recordingHTTPHooks) OnResponse(_ context.Context, _, _, _ string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.statuses = append(h.statuses, status)
}

func TestHTTPHooks(t *testing.T) {
	h := &recordingHTTPHooks{}
	observability.SetHTTPHooks(h)
	t.Cleanup(observability.Reset)

	srv := newTestServer(t)
	srv.Handler().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	srv.Handler().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, []int{http.StatusOK, http.StatusNotFound}, h.statuses)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadGateway, statusFor(errors.New(errors.ErrCodeExternalTool, "rsvg-convert failed")))
	assert.Equal(t, http.StatusServiceUnavailable, statusFor(context.DeadlineExceeded))
	assert.Equal(t, http.StatusInternalServerError, statusFor(errors.New(errors.ErrCodeInternal, "boom")))
}
