package servicerequest

import (
	"fmt"
	"net/url"
	"strings"
)

// FirstPartitionYear is the year stored in partition 0 upstream; each later
// year has its own layer index.
const FirstPartitionYear = 2009

// Resolver maps years and ids onto the per-year query endpoints.
type Resolver struct {
	baseURL string
}

func NewResolver(baseURL string) Resolver {
	return Resolver{baseURL: strings.TrimRight(baseURL, "/")}
}

func (r Resolver) EndpointForYear(year int) string {
	return fmt.Sprintf("%s/%d", r.baseURL, year-FirstPartitionYear)
}

// EndpointForID requires id to be valid.
func (r Resolver) EndpointForID(id string) string {
	return r.EndpointForYear(YearOf(id))
}

// QueryURL builds the query URL for endpoint with the given parameters.
func (r Resolver) QueryURL(endpoint string, params url.Values) string {
	return endpoint + "/query?" + params.Encode()
}

// ObjectURL links to the single upstream feature backing a record.
func (r Resolver) ObjectURL(id string, objectID int64) string {
	return fmt.Sprintf("%s/query?f=json&outFields=*&objectIds=%d", r.EndpointForID(id), objectID)
}
