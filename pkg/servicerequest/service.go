package servicerequest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/dc311rn/api/pkg/common/logger"
	"github.com/dc311rn/api/pkg/common/models"
	"golang.org/x/sync/errgroup"
)

// PageSize is the maximum number of requests returned by ListRecent and the
// threshold below which a supplementary fetch is made.
const PageSize = 100

// Fetcher retrieves and decodes one upstream JSON document.
type Fetcher interface {
	FetchJSON(ctx context.Context, url string, out interface{}) error
}

// BackfillObserver is notified each time ListRecent issues a supplementary
// fetch.
type BackfillObserver interface {
	ObserveBackfill()
}

type Service struct {
	fetcher    Fetcher
	resolver   Resolver
	normalizer *Normalizer
	catalogURL string
	now        func() time.Time
	backfills  BackfillObserver
}

type Option func(*Service)

// WithClock overrides the clock used to pick the current partition.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithBackfillObserver(o BackfillObserver) Option {
	return func(s *Service) { s.backfills = o }
}

func NewService(fetcher Fetcher, resolver Resolver, normalizer *Normalizer, catalogURL string, opts ...Option) *Service {
	s := &Service{
		fetcher:    fetcher,
		resolver:   resolver,
		normalizer: normalizer,
		catalogURL: catalogURL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FindByID returns the single request identified by id.
func (s *Service) FindByID(ctx context.Context, id string) (*models.NormalizedServiceRequest, error) {
	if _, err := ParseID(id); err != nil {
		return nil, err
	}

	query := url.Values{
		"where":     {fmt.Sprintf("SERVICEREQUESTID = '%s'", id)},
		"outFields": {"*"},
		"outSR":     {"4326"},
		"f":         {"json"},
	}
	queryURL := s.resolver.QueryURL(s.resolver.EndpointForID(id), query)

	catalog, resp, err := s.fetchWithCatalog(ctx, queryURL)
	if err != nil {
		return nil, err
	}

	switch n := len(resp.Features); {
	case n == 0:
		return nil, NotFound(id)
	case n > 1:
		logger.FromContext(ctx).WithField("service_request_id", id).
			WithField("count", n).Warn("ambiguous service request id upstream")
		return nil, AmbiguousIdentifier(id, n)
	}

	record := s.normalizer.Normalize(resp.Features[0].Attributes, catalog)
	return &record, nil
}

// ListRecent returns up to PageSize requests from the current year's
// partition, newest first.
func (s *Service) ListRecent(ctx context.Context) ([]models.NormalizedServiceRequest, error) {
	endpoint := s.resolver.EndpointForYear(s.now().Year())
	query := recentQuery()

	catalog, resp, err := s.fetchWithCatalog(ctx, s.resolver.QueryURL(endpoint, query))
	if err != nil {
		return nil, err
	}
	features := resp.Features

	if len(features) < PageSize {
		if s.backfills != nil {
			s.backfills.ObserveBackfill()
		}
		more, err := s.fetchNextPage(ctx, endpoint, len(features))
		if err != nil {
			return nil, err
		}
		features = mergeFeatures(features, more)
		logger.FromContext(ctx).WithField("first_page", len(resp.Features)).
			WithField("merged", len(features)).Debug("backfilled recent service requests")
	}

	if len(features) > PageSize {
		features = features[:PageSize]
	}

	out := make([]models.NormalizedServiceRequest, 0, len(features))
	for _, f := range features {
		out = append(out, s.normalizer.Normalize(f.Attributes, catalog))
	}
	return out, nil
}

// fetchWithCatalog fetches the service catalog and queryURL concurrently.
// Both must succeed, and the query must not carry an error member.
func (s *Service) fetchWithCatalog(ctx context.Context, queryURL string) ([]models.ServiceCatalogEntry, models.QueryResponse, error) {
	var (
		rows []json.RawMessage
		resp models.QueryResponse
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.fetcher.FetchJSON(gctx, s.catalogURL, &rows); err != nil {
			return UpstreamUnavailable(err)
		}
		return nil
	})
	g.Go(func() error {
		if err := s.fetcher.FetchJSON(gctx, queryURL, &resp); err != nil {
			return UpstreamUnavailable(err)
		}
		if resp.Error != nil {
			return UpstreamUnavailable(fmt.Errorf("query failed upstream: code %d: %s", resp.Error.Code, resp.Error.Message))
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, models.QueryResponse{}, err
	}
	return decodeCatalog(ctx, rows), resp, nil
}

// decodeCatalog decodes each catalog row on its own; rows that are not
// objects are dropped since the join is best-effort.
func decodeCatalog(ctx context.Context, rows []json.RawMessage) []models.ServiceCatalogEntry {
	catalog := make([]models.ServiceCatalogEntry, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		dec := json.NewDecoder(bytes.NewReader(row))
		dec.UseNumber()

		var entry models.ServiceCatalogEntry
		if err := dec.Decode(&entry); err != nil {
			skipped++
			continue
		}
		catalog = append(catalog, entry)
	}
	if skipped > 0 {
		logger.FromContext(ctx).WithField("skipped", skipped).Warn("ignored malformed service catalog rows")
	}
	return catalog
}

// fetchNextPage asks the same partition for the features following offset.
func (s *Service) fetchNextPage(ctx context.Context, endpoint string, offset int) ([]models.Feature, error) {
	query := recentQuery()
	query.Set("resultOffset", strconv.Itoa(offset))

	var resp models.QueryResponse
	if err := s.fetcher.FetchJSON(ctx, s.resolver.QueryURL(endpoint, query), &resp); err != nil {
		return nil, UpstreamUnavailable(err)
	}
	return resp.Features, nil
}

func recentQuery() url.Values {
	return url.Values{
		"where":         {"1=1"},
		"orderByFields": {"ADDDATE desc"},
		"outFields":     {"*"},
		"outSR":         {"4326"},
		"f":             {"json"},
	}
}

// mergeFeatures appends the features of more whose SERVICEREQUESTID is not
// already in base. Features without attributes are skipped.
func mergeFeatures(base, more []models.Feature) []models.Feature {
	seen := make(map[string]struct{}, len(base))
	for _, f := range base {
		if id, ok := lookupString(f.Attributes, fieldServiceRequestID); ok {
			seen[id] = struct{}{}
		}
	}

	merged := base
	for _, f := range more {
		if f.Attributes == nil {
			continue
		}
		if id, ok := lookupString(f.Attributes, fieldServiceRequestID); ok {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
		}
		merged = append(merged, f)
	}
	return merged
}
