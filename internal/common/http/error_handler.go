package http

import (
	"net/http"
	"strconv"

	commonerrors "github.com/envirosync/envirosync-backend/internal/common/errors"
	"github.com/envirosync/envirosync-backend/internal/common/logger"
	"github.com/envirosync/envirosync-backend/internal/observability/metrics"
)

// HandleError translates any error escaping a handler into one of the
// service's response shapes. Domain errors carry their own status and message;
// everything else is a 500 with the detail kept server-side.
func HandleError(w http.ResponseWriter, r *http.Request, err error, log *logger.Logger) {
	if err == nil {
		return
	}

	if traceID := TraceIDFromContext(r.Context()); traceID != "" {
		w.Header().Set(traceIDHeader, traceID)
	}

	if domainErr, ok := commonerrors.AsDomainError(err); ok {
		status := domainErr.HTTPStatus()

		if log.ShouldLog(logger.DEBUG) {
			log.WithFields(r.Context(), logger.Fields{
				"error_code": domainErr.Code(),
				"category":   string(domainErr.Category()),
				"status":     status,
				"path":       r.URL.Path,
			}).Debugf("domain error: %s", domainErr.Error())
		}

		metrics.HTTPErrorsTotal.WithLabelValues(strconv.Itoa(status), r.Method).Inc()
		WriteError(w, status, domainErr.Message())
		return
	}

	log.WithFields(r.Context(), logger.Fields{
		"error": err.Error(),
		"path":  r.URL.Path,
	}).Error("unhandled error")

	metrics.HTTPErrorsTotal.WithLabelValues(
		strconv.Itoa(http.StatusInternalServerError),
		r.Method,
	).Inc()

	WriteError(w, http.StatusInternalServerError, "Internal server error")
}
