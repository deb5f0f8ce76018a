package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dc311rn/api/pkg/common/logger"
	"github.com/dc311rn/api/pkg/gateway/httpclient"
	"github.com/dc311rn/api/pkg/observability/metrics"
	"github.com/dc311rn/api/pkg/servicerequest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUpstream serves both the catalog and the per-year query endpoints.
func fakeUpstream(t *testing.T, catalogStatus int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/services.json", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(catalogStatus)
		w.Write([]byte(`[{"service_code":"S0311","service_name":"Pothole","agency":"DDOT","description":"Repair","long_external_description":"Tell us where","sla":"3","sla_type":"BD"}]`))
	})
	mux.HandleFunc("/MapServer/11/query", func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Query().Get("where"), "20-12345678") {
			w.Write([]byte(`{"features":[]}`))
			return
		}
		w.Write([]byte(`{"features":[{"attributes":{"OBJECTID":1,"SERVICEREQUESTID":"20-12345678","SERVICECODE":"S0311","SERVICECODEDESCRIPTION":"Pothole","ORGANIZATIONACRONYM":"DDOT","ADDDATE":1600000000000,"WARD":"6"}}]}`))
	})
	return httptest.NewServer(mux)
}

func newIntegrationRouter(upstreamURL string) http.Handler {
	logger.SetOutput(&bytes.Buffer{})
	reg := metrics.NewRegistry()
	client := httpclient.NewClient(httpclient.New(2*time.Second), reg)
	resolver := servicerequest.NewResolver(upstreamURL + "/MapServer")
	normalizer := servicerequest.NewNormalizer(resolver, "https://api.example.test", "https://locator.example.test/find")
	svc := servicerequest.NewService(client, resolver, normalizer, upstreamURL+"/services.json",
		servicerequest.WithBackfillObserver(reg))

	return NewRouter(RouterConfig{
		Finder:             svc,
		ServiceRequestsURL: normalizer.ServiceRequestsURL(),
		Metrics:            reg,
	})
}

func TestIntegrationFindByID(t *testing.T) {
	upstream := fakeUpstream(t, http.StatusOK)
	defer upstream.Close()

	rec := do(t, newIntegrationRouter(upstream.URL), http.MethodGet, "/service_requests/20-12345678")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "20-12345678", got["service_request_id"])
	assert.Equal(t, "https://api.example.test/service_requests/20-12345678", got["service_request_url"])
	assert.Equal(t, "2020-09-13T12:26:40Z", got["added_at"])
	assert.Nil(t, got["resolved_at"])

	order := got["service_order"].(map[string]interface{})
	service := order["service"].(map[string]interface{})
	assert.Equal(t, "S0311", service["service_code"])
	assert.Equal(t, "Tell us where", service["instructions"])
	assert.Equal(t, float64(3), service["sla"])

	location := got["location"].(map[string]interface{})
	assert.Equal(t, float64(6), location["ward"])

	source := got["source"].(map[string]interface{})
	assert.Equal(t, upstream.URL+"/MapServer/11/query?f=json&outFields=*&objectIds=1", source["object_url"])
}

func TestIntegrationNotFound(t *testing.T) {
	upstream := fakeUpstream(t, http.StatusOK)
	defer upstream.Close()

	rec := do(t, newIntegrationRouter(upstream.URL), http.MethodGet, "/service_requests/20-00000000")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NotFound", decodeError(t, rec).Type)
}

func TestIntegrationCatalogDown(t *testing.T) {
	upstream := fakeUpstream(t, http.StatusBadGateway)
	defer upstream.Close()

	rec := do(t, newIntegrationRouter(upstream.URL), http.MethodGet, "/service_requests/20-12345678")
	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
	assert.Equal(t, "UpstreamUnavailable", decodeError(t, rec).Type)
}
