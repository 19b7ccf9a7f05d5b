package interfaces

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sebuszqo/PocketLedger/internal/auth"
	"github.com/stretchr/testify/require"
)

const testUser = "user-1"

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// newRequest builds an authenticated request. pathValues alternate name and value.
func newRequest(method, target, body string, pathValues ...string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	for i := 0; i+1 < len(pathValues); i += 2 {
		req.SetPathValue(pathValues[i], pathValues[i+1])
	}
	return req.WithContext(auth.WithUserID(req.Context(), testUser))
}

func decodeResponse(t *testing.T, res *http.Response) map[string]interface{} {
	t.Helper()
	defer res.Body.Close()
	var response map[string]interface{}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&response))
	return response
}

func serve(h http.Handler, req *http.Request) *http.Response {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w.Result()
}
