package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dc311rn/api/pkg/common/logger"
	"github.com/dc311rn/api/pkg/common/requestid"
	"github.com/dc311rn/api/pkg/observability/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchJSONDecodesBody(t *testing.T) {
	var gotUA, gotReqID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotReqID = r.Header.Get(requestid.Header)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"features":[{"attributes":{"OBJECTID":42}}]}`))
	}))
	defer srv.Close()

	var logs bytes.Buffer
	logger.SetOutput(&logs)

	reg := metrics.NewRegistry()
	client := NewClient(New(time.Second), reg)
	ctx := requestid.With(context.Background(), "req-9")

	var out map[string]interface{}
	require.NoError(t, client.FetchJSON(ctx, srv.URL+"/query", &out))

	features := out["features"].([]interface{})
	attrs := features[0].(map[string]interface{})["attributes"].(map[string]interface{})
	assert.Equal(t, json.Number("42"), attrs["OBJECTID"])
	assert.Equal(t, "api.dc311rn.com request_id='req-9'", gotUA)
	assert.Equal(t, "req-9", gotReqID)

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(logs.Bytes(), &line))
	assert.Equal(t, srv.URL+"/query", line["url"])
	assert.Equal(t, float64(200), line["status"])
	assert.Equal(t, "req-9", line["request_id"])
	assert.Contains(t, line, "duration_in_ms")

	host := srv.Listener.Addr().String()
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.UpstreamRequests.WithLabelValues(host, "200")))
}

func TestFetchJSONFailures(t *testing.T) {
	logger.SetOutput(&bytes.Buffer{})

	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "non-2xx status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte(`{"error":"down"}`))
			},
		},
		{
			name: "malformed json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`<html>oops</html>`))
			},
		},
		{
			name: "timeout",
			handler: func(w http.ResponseWriter, r *http.Request) {
				time.Sleep(200 * time.Millisecond)
				w.Write([]byte(`{}`))
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()

			client := NewClient(New(50*time.Millisecond), nil)
			var out map[string]interface{}
			err := client.FetchJSON(context.Background(), srv.URL, &out)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrUnavailable)
		})
	}
}

func TestFetchJSONConnectionRefused(t *testing.T) {
	logger.SetOutput(&bytes.Buffer{})

	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	client := NewClient(New(time.Second), nil)
	var out interface{}
	err := client.FetchJSON(context.Background(), addr, &out)
	assert.ErrorIs(t, err, ErrUnavailable)
}
