package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/dc311rn/api/pkg/common/logger"
	"github.com/dc311rn/api/pkg/common/requestid"
	"github.com/dc311rn/api/pkg/observability/metrics"
	"github.com/sirupsen/logrus"
)

// ErrUnavailable marks every failure to obtain a JSON document from upstream.
var ErrUnavailable = errors.New("upstream unavailable")

const userAgentPrefix = "api.dc311rn.com"

// New creates an HTTP client tuned for outbound calls to the open-data services.
func New(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

// Client performs single, logged JSON GETs. It keeps no per-request state.
type Client struct {
	http    *http.Client
	metrics *metrics.Registry
}

func NewClient(hc *http.Client, reg *metrics.Registry) *Client {
	if hc == nil {
		hc = New(10 * time.Second)
	}
	return &Client{http: hc, metrics: reg}
}

// FetchJSON issues a GET to rawURL and decodes the body into out. Numbers are
// decoded as json.Number when out holds interface{} values.
func (c *Client) FetchJSON(ctx context.Context, rawURL string, out interface{}) error {
	reqID := requestid.From(ctx)
	started := time.Now()
	status := 0

	defer func() {
		elapsed := time.Since(started)
		c.metrics.ObserveUpstream(hostOf(rawURL), status, elapsed)
		logger.FromContext(ctx).WithFields(logrus.Fields{
			"url":            rawURL,
			"status":         status,
			"duration_in_ms": elapsed.Milliseconds(),
		}).Info("upstream fetch")
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", ErrUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", fmt.Sprintf("%s request_id='%s'", userAgentPrefix, reqID))
	if reqID != "" {
		req.Header.Set(requestid.Header, reqID)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	status = resp.StatusCode

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%w: %s returned %s", ErrUnavailable, hostOf(rawURL), resp.Status)
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("%w: invalid json from %s: %v", ErrUnavailable, hostOf(rawURL), err)
	}
	return nil
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "unknown"
	}
	return u.Host
}
