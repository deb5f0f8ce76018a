package servicerequest

import (
	"net/url"
	"strings"

	"github.com/dc311rn/api/pkg/common/models"
)

// Upstream attribute names.
const (
	fieldObjectID             = "OBJECTID"
	fieldServiceCode          = "SERVICECODE"
	fieldServiceCodeDesc      = "SERVICECODEDESCRIPTION"
	fieldServiceTypeCodeDesc  = "SERVICETYPECODEDESCRIPTION"
	fieldOrganizationAcronym  = "ORGANIZATIONACRONYM"
	fieldServiceCallCount     = "SERVICECALLCOUNT"
	fieldAddDate              = "ADDDATE"
	fieldResolutionDate       = "RESOLUTIONDATE"
	fieldServiceDueDate       = "SERVICEDUEDATE"
	fieldServiceOrderDate     = "SERVICEORDERDATE"
	fieldInspectionFlag       = "INSPECTIONFLAG"
	fieldInspectionDate       = "INSPECTIONDATE"
	fieldInspectorName        = "INSPECTORNAME"
	fieldServiceOrderStatus   = "SERVICEORDERSTATUS"
	fieldStatusCode           = "STATUS_CODE"
	fieldServiceRequestID     = "SERVICEREQUESTID"
	fieldPriority             = "PRIORITY"
	fieldStreetAddress        = "STREETADDRESS"
	fieldLatitude             = "LATITUDE"
	fieldLongitude            = "LONGITUDE"
	fieldCity                 = "CITY"
	fieldState                = "STATE"
	fieldZipCode              = "ZIPCODE"
	fieldMarAddressRepository = "MARADDRESSREPOSITORYID"
	fieldWard                 = "WARD"
	fieldDetails              = "DETAILS"
)

// Normalizer reshapes raw upstream features into the public schema. It does
// no I/O and holds only immutable link templates.
type Normalizer struct {
	resolver            Resolver
	publicBaseURL       string
	locationVerifierURL string
}

func NewNormalizer(resolver Resolver, publicBaseURL, locationVerifierURL string) *Normalizer {
	return &Normalizer{
		resolver:            resolver,
		publicBaseURL:       strings.TrimRight(publicBaseURL, "/"),
		locationVerifierURL: locationVerifierURL,
	}
}

// ServiceRequestsURL is the public collection URL.
func (n *Normalizer) ServiceRequestsURL() string {
	return n.publicBaseURL + "/service_requests"
}

// ServiceRequestURL is the public URL of one request.
func (n *Normalizer) ServiceRequestURL(id string) string {
	return n.ServiceRequestsURL() + "/" + id
}

// Normalize joins raw with its catalog entry and maps it onto the public
// schema. Missing fields come out as nil; it never fails.
func (n *Normalizer) Normalize(raw models.Attributes, catalog []models.ServiceCatalogEntry) models.NormalizedServiceRequest {
	if raw == nil {
		raw = models.Attributes{}
	}
	id, _ := lookupString(raw, fieldServiceRequestID)
	objectID := optionalInt(raw[fieldObjectID])
	entry := LookupCatalog(raw, catalog)

	out := models.NormalizedServiceRequest{
		ServiceRequestID:  id,
		ServiceRequestURL: n.ServiceRequestURL(id),
		StatusCode:        optionalString(raw[fieldStatusCode]),
		Priority:          optionalString(raw[fieldPriority]),
		Details:           optionalString(raw[fieldDetails]),
		CallCount:         optionalInt(raw[fieldServiceCallCount]),
		AddedAt:           optionalTime(raw[fieldAddDate]),
		ResolvedAt:        optionalTime(raw[fieldResolutionDate]),
	}

	out.Source = models.Source{ObjectID: objectID}
	if objectID != nil && IsValidID(id) {
		u := n.resolver.ObjectURL(id, *objectID)
		out.Source.ObjectURL = &u
	}

	out.ServiceOrder = models.ServiceOrder{
		OrderedAt: optionalTime(raw[fieldServiceOrderDate]),
		Status:    optionalString(raw[fieldServiceOrderStatus]),
		DueAt:     optionalTime(raw[fieldServiceDueDate]),
		Service: models.Service{
			ServiceCode:  optionalString(raw[fieldServiceCode]),
			ServiceName:  optionalString(raw[fieldServiceCodeDesc]),
			Agency:       optionalString(raw[fieldOrganizationAcronym]),
			Department:   optionalString(raw[fieldServiceTypeCodeDesc]),
			Description:  optionalString(entry.Description),
			Instructions: optionalString(entry.LongExternalDescription),
			SLA:          optionalNumber(entry.SLA),
			SLAType:      optionalString(entry.SLAType),
		},
	}

	marID := optionalString(raw[fieldMarAddressRepository])
	out.Location = models.Location{
		StreetAddress:          optionalString(raw[fieldStreetAddress]),
		City:                   optionalString(raw[fieldCity]),
		State:                  optionalString(raw[fieldState]),
		ZipCode:                optionalString(raw[fieldZipCode]),
		MapAddressRepositoryID: marID,
		Latitude:               optionalNumber(raw[fieldLatitude]),
		Longitude:              optionalNumber(raw[fieldLongitude]),
		Ward:                   optionalNumber(raw[fieldWard]),
	}
	if marID != nil && *marID != "" {
		u := n.locationVerifierURL + "?f=json&str=" + url.QueryEscape(*marID)
		out.Location.MapAddressRepositoryURL = &u
	}

	out.Inspection = models.Inspection{
		InspectedAt:    optionalTime(raw[fieldInspectionDate]),
		InspectionFlag: optionalString(raw[fieldInspectionFlag]),
		InspectorName:  optionalString(raw[fieldInspectorName]),
	}

	return out
}

// LookupCatalog returns the first catalog entry whose code, name and agency
// equal the record's, or the zero entry. A join key missing from raw never
// matches.
func LookupCatalog(raw models.Attributes, catalog []models.ServiceCatalogEntry) models.ServiceCatalogEntry {
	code, ok1 := lookupString(raw, fieldServiceCode)
	name, ok2 := lookupString(raw, fieldServiceCodeDesc)
	agency, ok3 := lookupString(raw, fieldOrganizationAcronym)
	if !ok1 || !ok2 || !ok3 {
		return models.ServiceCatalogEntry{}
	}

	for _, entry := range catalog {
		if sameKey(entry.ServiceCode, code) && sameKey(entry.ServiceName, name) && sameKey(entry.Agency, agency) {
			return entry
		}
	}
	return models.ServiceCatalogEntry{}
}

func sameKey(v interface{}, want string) bool {
	s := optionalString(v)
	return s != nil && *s == want
}
