package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds the collectors exported on /metrics.
type Registry struct {
	reg *prometheus.Registry

	UpstreamRequests *prometheus.CounterVec
	UpstreamLatency  *prometheus.HistogramVec
	HTTPRequests     *prometheus.CounterVec
	HTTPLatency      *prometheus.HistogramVec
	Backfills        prometheus.Counter
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()

	upstreamRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dc311_upstream_requests_total",
		Help: "Upstream fetches by host and outcome.",
	}, []string{"host", "status"})
	upstreamLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dc311_upstream_request_duration_seconds",
		Help:    "Latency of upstream fetches.",
		Buckets: prometheus.DefBuckets,
	}, []string{"host"})
	httpRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dc311_http_requests_total",
		Help: "Served HTTP requests by route and status code.",
	}, []string{"route", "code"})
	httpLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dc311_http_request_duration_seconds",
		Help:    "Latency of served HTTP requests.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	backfills := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dc311_list_backfill_total",
		Help: "Supplementary fetches issued by the recent-requests listing.",
	})

	r.MustRegister(upstreamRequests, upstreamLatency, httpRequests, httpLatency, backfills)
	return &Registry{
		reg:              r,
		UpstreamRequests: upstreamRequests,
		UpstreamLatency:  upstreamLatency,
		HTTPRequests:     httpRequests,
		HTTPLatency:      httpLatency,
		Backfills:        backfills,
	}
}

// ObserveUpstream records one upstream call. status is the HTTP status code,
// or 0 when no response was received.
func (r *Registry) ObserveUpstream(host string, status int, elapsed time.Duration) {
	if r == nil {
		return
	}
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	r.UpstreamRequests.WithLabelValues(host, label).Inc()
	r.UpstreamLatency.WithLabelValues(host).Observe(elapsed.Seconds())
}

func (r *Registry) ObserveHTTP(route string, code int, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.HTTPRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	r.HTTPLatency.WithLabelValues(route).Observe(elapsed.Seconds())
}

func (r *Registry) ObserveBackfill() {
	if r == nil {
		return
	}
	r.Backfills.Inc()
}

func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
