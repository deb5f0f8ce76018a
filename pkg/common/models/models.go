package models

import (
	"time"
)

// Upstream data models

// Attributes is one raw feature's attribute map as returned by the
// per-year query endpoints. Keys are the upstream column names.
type Attributes map[string]interface{}

type Feature struct {
	Attributes Attributes `json:"attributes"`
}

// QueryError is the error member a query endpoint returns, with HTTP 200,
// when it cannot answer.
type QueryError struct {
	Code    int      `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details"`
}

type QueryResponse struct {
	Features []Feature   `json:"features"`
	Error    *QueryError `json:"error,omitempty"`
}

// ServiceCatalogEntry describes one service type. Fields are kept as decoded
// JSON scalars since the catalog mixes strings and numbers.
type ServiceCatalogEntry struct {
	ServiceCode             interface{} `json:"service_code"`
	ServiceName             interface{} `json:"service_name"`
	Agency                  interface{} `json:"agency"`
	Description             interface{} `json:"description"`
	LongExternalDescription interface{} `json:"long_external_description"`
	SLA                     interface{} `json:"sla"`
	SLAType                 interface{} `json:"sla_type"`
}

// Public models

type NormalizedServiceRequest struct {
	ServiceRequestID  string     `json:"service_request_id"`
	ServiceRequestURL string     `json:"service_request_url"`
	StatusCode        *string    `json:"status_code"`
	Priority          *string    `json:"priority"`
	Details           *string    `json:"details"`
	CallCount         *int64     `json:"call_count"`
	AddedAt           *time.Time `json:"added_at"`
	ResolvedAt        *time.Time `json:"resolved_at"`

	Source       Source       `json:"source"`
	ServiceOrder ServiceOrder `json:"service_order"`
	Location     Location     `json:"location"`
	Inspection   Inspection   `json:"inspection"`
}

type Source struct {
	ObjectID  *int64  `json:"object_id"`
	ObjectURL *string `json:"object_url"`
}

type ServiceOrder struct {
	OrderedAt *time.Time `json:"ordered_at"`
	Status    *string    `json:"status"`
	DueAt     *time.Time `json:"due_at"`
	Service   Service    `json:"service"`
}

type Service struct {
	ServiceCode  *string  `json:"service_code"`
	ServiceName  *string  `json:"service_name"`
	Agency       *string  `json:"agency"`
	Department   *string  `json:"department"`
	Description  *string  `json:"description"`
	Instructions *string  `json:"instructions"`
	SLA          *float64 `json:"sla"`
	SLAType      *string  `json:"sla_type"`
}

type Location struct {
	StreetAddress           *string  `json:"street_address"`
	City                    *string  `json:"city"`
	State                   *string  `json:"state"`
	ZipCode                 *string  `json:"zip_code"`
	MapAddressRepositoryID  *string  `json:"map_address_repository_id"`
	MapAddressRepositoryURL *string  `json:"map_address_repository_url"`
	Latitude                *float64 `json:"latitude"`
	Longitude               *float64 `json:"longitude"`
	Ward                    *float64 `json:"ward"`
}

type Inspection struct {
	InspectedAt    *time.Time `json:"inspected_at"`
	InspectionFlag *string    `json:"inspection_flag"`
	InspectorName  *string    `json:"inspector_name"`
}

// Index is the document served at the API root.
type Index struct {
	ServiceRequestsURL string `json:"service_requests_url"`
}

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Type          string `json:"type"`
	Message       string `json:"message"`
	RequestID     string `json:"request_id,omitempty"`
	SourceCodeURL string `json:"source_code_url,omitempty"`
}
