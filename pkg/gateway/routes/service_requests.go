package routes

import (
	"context"
	"net/http"

	"github.com/dc311rn/api/pkg/common/models"
	"github.com/dc311rn/api/pkg/servicerequest"
	"github.com/gorilla/mux"
)

// Finder is the read side the handlers depend on.
type Finder interface {
	FindByID(ctx context.Context, id string) (*models.NormalizedServiceRequest, error)
	ListRecent(ctx context.Context) ([]models.NormalizedServiceRequest, error)
}

type ServiceRequestHandler struct {
	finder             Finder
	errors             ErrorWriter
	serviceRequestsURL string
}

func NewServiceRequestHandler(finder Finder, errors ErrorWriter, serviceRequestsURL string) *ServiceRequestHandler {
	return &ServiceRequestHandler{
		finder:             finder,
		errors:             errors,
		serviceRequestsURL: serviceRequestsURL,
	}
}

func (h *ServiceRequestHandler) Register(r *mux.Router) {
	r.HandleFunc("/", h.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/service_requests", h.handleList).Methods(http.MethodGet)
	r.HandleFunc("/service_requests/{id}", h.handleGet).Methods(http.MethodGet)
}

func (h *ServiceRequestHandler) handleIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.Index{ServiceRequestsURL: h.serviceRequestsURL})
}

func (h *ServiceRequestHandler) handleList(w http.ResponseWriter, r *http.Request) {
	records, err := h.finder.ListRecent(r.Context())
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *ServiceRequestHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, err := servicerequest.ParseID(id); err != nil {
		h.errors.Write(w, r, err)
		return
	}

	record, err := h.finder.FindByID(r.Context(), id)
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}
