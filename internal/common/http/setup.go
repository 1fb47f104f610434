package http

import (
	"net/http"

	"github.com/envirosync/envirosync-backend/internal/common/httpmetrics"
	"github.com/envirosync/envirosync-backend/internal/common/logger"
)

// BuildBaseHandler wraps a handler in the ambient middleware chain. The gate is
// not part of this chain; it sits inside, so health and metrics stay reachable.
func BuildBaseHandler(log *logger.Logger, handler http.Handler) http.Handler {
	recovery := RecoveryMiddleware(log)
	maxRequestSize := MaxRequestSizeMiddleware(DefaultMaxRequestSize)

	return SecurityHeadersMiddleware(recovery(TraceIDMiddleware(maxRequestSize(httpmetrics.Wrap(handler)))))
}
