package gate

import (
	"context"
	"net/http"
	"strings"

	"github.com/envirosync/envirosync-backend/internal/common/config"
	commonhttp "github.com/envirosync/envirosync-backend/internal/common/http"
	"github.com/envirosync/envirosync-backend/internal/common/logger"
	"github.com/envirosync/envirosync-backend/internal/observability/metrics"
	userdomain "github.com/envirosync/envirosync-backend/internal/user/domain"
)

// Outcome is the gate's terminal classification of one request.
type Outcome int

const (
	// OutcomeProceed passes the request to the downstream handler.
	OutcomeProceed Outcome = iota
	// OutcomeUnauthorized terminates with 401 and a JSON error body.
	OutcomeUnauthorized
	// OutcomeRedirectLogin terminates with a 303 to the login page.
	OutcomeRedirectLogin
	// OutcomeRedirectRoot terminates with a 303 to the application root.
	OutcomeRedirectRoot
)

func (o Outcome) String() string {
	switch o {
	case OutcomeProceed:
		return "proceed"
	case OutcomeUnauthorized:
		return "unauthorized"
	case OutcomeRedirectLogin:
		return "redirect_login"
	case OutcomeRedirectRoot:
		return "redirect_root"
	default:
		return "unknown"
	}
}

// SessionValidator resolves a bearer token to an identity; nil identity with a
// nil error is the ordinary anonymous case.
type SessionValidator interface {
	ValidateSession(ctx context.Context, token string) (*userdomain.Identity, error)
}

// Gate classifies every inbound request before any protected handler runs.
// It holds no per-request state; each request is decided from its cookie alone.
type Gate struct {
	sessions SessionValidator
	cfg      config.GateConfig
	log      *logger.Logger
}

func New(sessions SessionValidator, cfg config.GateConfig, log *logger.Logger) *Gate {
	return &Gate{
		sessions: sessions,
		cfg:      cfg,
		log:      log,
	}
}

// Decide is the pure decision function over identity, path and the API/page
// classification. Anonymous requests to non-public paths are rejected (401 for
// API paths, login redirect for pages); an authenticated user never sees the
// login page; everything else proceeds.
func (g *Gate) Decide(authenticated bool, path string) Outcome {
	if !authenticated {
		if g.isPublicPath(path) {
			return OutcomeProceed
		}
		if strings.HasPrefix(path, g.cfg.APIPathPrefix) {
			return OutcomeUnauthorized
		}
		return OutcomeRedirectLogin
	}

	if path == g.cfg.LoginPagePath {
		return OutcomeRedirectRoot
	}
	return OutcomeProceed
}

func (g *Gate) isPublicPath(path string) bool {
	for _, p := range g.cfg.PublicPaths {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// Middleware resolves the session cookie and renders the decision. A store
// failure during resolution is a 500, not an anonymous pass-through: serving a
// protected page on a failed lookup would be the wrong default.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var token string
		if cookie, err := r.Cookie(g.cfg.CookieName); err == nil {
			token = cookie.Value
		}

		identity, err := g.sessions.ValidateSession(r.Context(), token)
		if err != nil {
			commonhttp.HandleError(w, r, err, g.log)
			return
		}

		outcome := g.Decide(identity != nil, r.URL.Path)
		metrics.GateDecisionsTotal.WithLabelValues(outcome.String()).Inc()

		switch outcome {
		case OutcomeUnauthorized:
			commonhttp.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		case OutcomeRedirectLogin:
			http.Redirect(w, r, g.cfg.LoginPagePath, http.StatusSeeOther)
		case OutcomeRedirectRoot:
			http.Redirect(w, r, g.cfg.RootPath, http.StatusSeeOther)
		default:
			if identity != nil {
				r = r.WithContext(withIdentity(r.Context(), *identity))
			}
			next.ServeHTTP(w, r)
		}
	})
}
