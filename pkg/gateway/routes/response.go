package routes

import (
	"encoding/json"
	"net/http"

	"github.com/dc311rn/api/pkg/common/logger"
	"github.com/dc311rn/api/pkg/common/models"
	"github.com/dc311rn/api/pkg/common/requestid"
	"github.com/dc311rn/api/pkg/servicerequest"
)

const contentType = "application/json; charset=utf-8"

// StatusFor maps an error's kind onto the HTTP status code returned for it.
func StatusFor(err error) int {
	switch servicerequest.KindOf(err) {
	case servicerequest.KindInvalidIdentifier:
		return http.StatusBadRequest
	case servicerequest.KindNotFound:
		return http.StatusNotFound
	case servicerequest.KindAmbiguousIdentifier:
		return http.StatusBadGateway
	case servicerequest.KindUpstreamUnavailable:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		logger.Log.WithError(err).Error("failed to encode response")
	}
}

// ErrorWriter renders typed errors as JSON error bodies.
type ErrorWriter struct {
	SourceCodeURL string
}

func (ew ErrorWriter) Write(w http.ResponseWriter, r *http.Request, err error) {
	e := servicerequest.Classify(err)
	status := StatusFor(e)

	entry := logger.FromContext(r.Context()).WithError(err).WithField("type", string(e.Kind))
	if status >= http.StatusInternalServerError {
		entry.Error("request failed")
	} else {
		entry.Info("request rejected")
	}

	writeJSON(w, status, models.ErrorBody{
		Type:          string(e.Kind),
		Message:       e.Message,
		RequestID:     requestid.From(r.Context()),
		SourceCodeURL: ew.SourceCodeURL,
	})
}

// NoRoute answers requests that match no registered route.
func (ew ErrorWriter) NoRoute(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, models.ErrorBody{
		Type:          string(servicerequest.KindNotFound),
		Message:       "No route matches " + r.Method + " " + r.URL.Path + ".",
		RequestID:     requestid.From(r.Context()),
		SourceCodeURL: ew.SourceCodeURL,
	})
}
