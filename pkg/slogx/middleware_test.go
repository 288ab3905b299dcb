package slogx_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aussiebroadwan/identity/pkg/idx"
	"github.com/aussiebroadwan/identity/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func TestHTTPMiddleware_CorrelationID(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"correlation header wins", map[string]string{"X-Correlation-ID": "corr-1", "X-Request-ID": "req-1"}, "corr-1"},
		{"falls back to request id", map[string]string{"X-Request-ID": "req-2"}, "req-2"},
		{"generates when absent", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slogx.New(slogx.Config{Service: "test", Format: "json", Output: &buf})

			var seen string
			h := slogx.HTTPMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = slogx.CorrelationID(r.Context())
				w.WriteHeader(http.StatusTeapot)
			}))

			req := httptest.NewRequest(http.MethodGet, "/livez", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			echoed := rec.Header().Get(slogx.HeaderCorrelationID)
			require.Equal(t, seen, echoed)
			if tt.want != "" {
				require.Equal(t, tt.want, echoed)
			} else {
				_, err := idx.Parse(echoed)
				require.NoError(t, err)
			}

			var line map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
			require.Equal(t, "http_request", line["msg"])
			require.Equal(t, echoed, line["correlation_id"])
			require.EqualValues(t, http.StatusTeapot, line["status"])
		})
	}
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, "DEBUG", slogx.ParseLevel("debug").String())
	require.Equal(t, "WARN", slogx.ParseLevel("warning").String())
	require.Equal(t, "ERROR", slogx.ParseLevel("ERROR").String())
	require.Equal(t, "INFO", slogx.ParseLevel("nonsense").String())
}
