package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/medcards-api/internal/api/shared"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 4, 2, 10, 0, 0, 0, time.UTC)

func testClock() time.Time { return testNow }

// request describes one call against a handler mounted on pattern.
type request struct {
	method  string
	pattern string
	path    string
	body    any // string bodies are sent verbatim, anything else as JSON
	userID  uuid.UUID
	header  http.Header
}

// serve mounts handler on a chi router so URL parameters resolve, injects
// the user ID (unless nil) and returns the recorded response.
func serve(t *testing.T, handler http.HandlerFunc, req request) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader
	switch b := req.body.(type) {
	case nil:
	case string:
		body = bytes.NewBufferString(b)
	case io.Reader:
		body = b
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, hr *http.Request) {
			ctx := shared.SetTraceID(hr.Context())
			if req.userID != uuid.Nil {
				ctx = shared.WithUserID(ctx, req.userID)
			}
			next.ServeHTTP(w, hr.WithContext(ctx))
		})
	})
	r.MethodFunc(req.method, req.pattern, handler)

	httpReq := httptest.NewRequest(req.method, req.path, body)
	for k, v := range req.header {
		httpReq.Header[k] = v
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httpReq)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) shared.ErrorResponse {
	t.Helper()
	body := decode[shared.ErrorResponse](t, rec)
	require.NotEmpty(t, body.TraceID, "error responses carry the trace ID")
	return body
}
