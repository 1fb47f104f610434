package authapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/envirosync/envirosync-backend/internal/common/config"
	commonerrors "github.com/envirosync/envirosync-backend/internal/common/errors"
	commonhttp "github.com/envirosync/envirosync-backend/internal/common/http"
	"github.com/envirosync/envirosync-backend/internal/common/logger"
	"github.com/envirosync/envirosync-backend/internal/gate"
	"github.com/envirosync/envirosync-backend/internal/observability/metrics"
	sessionservice "github.com/envirosync/envirosync-backend/internal/session/service"
	userdomain "github.com/envirosync/envirosync-backend/internal/user/domain"
	userservice "github.com/envirosync/envirosync-backend/internal/user/service"
)

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type createUserRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type updatePasswordRequest struct {
	UserID      string `json:"userId" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required"`
}

type userEntry struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

type Handler struct {
	users    *userservice.UserService
	sessions *sessionservice.SessionService
	cfg      config.Config
	validate *validator.Validate
	log      *logger.Logger
}

func NewHandler(
	users *userservice.UserService,
	sessions *sessionservice.SessionService,
	cfg config.Config,
	log *logger.Logger,
) *Handler {
	return &Handler{
		users:    users,
		sessions: sessions,
		cfg:      cfg,
		validate: validator.New(),
		log:      log,
	}
}

const defaultStoreTimeout = 5 * time.Second

// storeContext bounds every store call with the configured request timeout,
// so a stalled database connection fails the request instead of pinning it.
func (h *Handler) storeContext(r *http.Request) (context.Context, context.CancelFunc) {
	timeout := h.cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultStoreTimeout
	}
	return context.WithTimeout(r.Context(), timeout)
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/auth/login", h.login)
	mux.HandleFunc("/api/auth/logout", h.logout)
	mux.HandleFunc("/api/auth/session", h.session)
	mux.HandleFunc("/api/auth/users", h.handleUsers)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		commonhttp.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req loginRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		commonhttp.WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		commonhttp.WriteError(w, http.StatusBadRequest, commonerrors.ErrMissingFields.Message())
		return
	}

	ctx, cancel := h.storeContext(r)
	defer cancel()

	identity, err := h.users.VerifyCredentials(ctx, req.Username, req.Password)
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("failure").Inc()
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	token, expiresAt, err := h.sessions.CreateSession(ctx, identity.ID)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	h.setSessionCookie(w, r, token, expiresAt)
	commonhttp.WriteJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"username": identity.Username,
	})
}

// logout is idempotent: an absent or unknown cookie still gets a cleared
// cookie and a success body.
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		commonhttp.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	if cookie, err := r.Cookie(h.cfg.Gate.CookieName); err == nil && cookie.Value != "" {
		ctx, cancel := h.storeContext(r)
		defer cancel()
		if err := h.sessions.DeleteSession(ctx, cookie.Value); err != nil {
			h.log.Errorf("logout: failed to delete session: %v", err)
		}
	}

	h.clearSessionCookie(w, r)
	commonhttp.WriteJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		commonhttp.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	identity, ok := gate.IdentityFromContext(r.Context())
	if !ok {
		commonhttp.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, map[string]any{
		"user": map[string]any{
			"id":       string(identity.ID),
			"username": identity.Username,
		},
	})
}

// handleUsers dispatches the administration surface. The gate guarantees every
// request here carries an authenticated identity; any logged-in user may
// administer users (flat trust model).
func (h *Handler) handleUsers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listUsers(w, r)
	case http.MethodPost:
		h.createUser(w, r)
	case http.MethodPut:
		h.updatePassword(w, r)
	case http.MethodDelete:
		h.deleteUser(w, r)
	default:
		commonhttp.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.storeContext(r)
	defer cancel()

	users, err := h.users.ListUsers(ctx)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	entries := make([]userEntry, 0, len(users))
	for _, u := range users {
		entries = append(entries, userEntry{
			ID:        string(u.ID),
			Username:  u.Username,
			CreatedAt: u.CreatedAt,
		})
	}

	commonhttp.WriteJSON(w, http.StatusOK, map[string]any{"users": entries})
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		commonhttp.WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		commonhttp.WriteError(w, http.StatusBadRequest, commonerrors.ErrMissingFields.Message())
		return
	}

	ctx, cancel := h.storeContext(r)
	defer cancel()

	if _, err := h.users.CreateUser(ctx, req.Username, req.Password); err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handler) updatePassword(w http.ResponseWriter, r *http.Request) {
	var req updatePasswordRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		commonhttp.WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		commonhttp.WriteError(w, http.StatusBadRequest, "User ID and new password are required")
		return
	}

	ctx, cancel := h.storeContext(r)
	defer cancel()

	if err := h.users.UpdatePassword(ctx, userdomain.ID(req.UserID), req.NewPassword); err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		commonhttp.WriteError(w, http.StatusBadRequest, "User ID is required")
		return
	}

	ctx, cancel := h.storeContext(r)
	defer cancel()

	if err := h.users.DeleteUser(ctx, userdomain.ID(userID)); err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, r *http.Request, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cfg.Gate.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   int(h.cfg.SessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cfg.Gate.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
	})
}
