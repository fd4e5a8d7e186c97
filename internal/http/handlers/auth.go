package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"gatekeeper/internal/config"
	"gatekeeper/internal/domain/user"
	"gatekeeper/internal/http/middlewares"
	"gatekeeper/internal/observability"
	"gatekeeper/internal/repo/postgres"
	"gatekeeper/internal/security"
	"github.com/gin-gonic/gin"
)

type UserReader interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
}

type UserWriter interface {
	Create(ctx context.Context, email, passwordHash string) (user.User, error)
}

// SessionManager is the capability handlers get over the request's
// session context. The session identifier itself is owned by the
// manager's cookie transport and never surfaces here.
type SessionManager interface {
	Current(c *gin.Context) (user.Identity, bool)
	Establish(c *gin.Context, id user.Identity) error
	Destroy(c *gin.Context) error
}

type AuthHandler struct {
	users      UserReader
	userWriter UserWriter
	sessions   SessionManager
	metrics    *observability.Prom
}

func NewAuthHandler(users UserReader, userWriter UserWriter, sessions SessionManager, metrics *observability.Prom) *AuthHandler {
	return &AuthHandler{
		users:      users,
		userWriter: userWriter,
		sessions:   sessions,
		metrics:    metrics,
	}
}

type SignupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Signup registers a new account and logs it in. The duplicate-email
// answer keeps the historical 401 surface rather than a 409; clients
// depend on it.
func (h *AuthHandler) Signup(ctx *gin.Context) {
	var req SignupRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	// advisory existence check; the store's unique constraint is the
	// real arbiter
	_, err := h.users.GetByEmail(cctx, req.Email)

	if err == nil {
		h.countSignup("exists")
		RespondUnAuthorized(ctx, "user_exists", "User already exists")
		return
	}

	if !errors.Is(err, postgres.ErrUserNotFound) {
		h.countSignup("failed")
		RespondUnavailable(ctx, "Service temporarily unavailable")
		return
	}

	hash, err := security.HashPassword(req.Password)

	if err != nil {
		h.countSignup("failed")
		RespondInternal(ctx, "Could not create user")
		return
	}

	u, err := h.userWriter.Create(cctx, req.Email, hash)

	if err != nil {
		if errors.Is(err, postgres.ErrEmailAlreadyUsed) {
			h.countSignup("exists")
			RespondUnAuthorized(ctx, "user_exists", "User already exists")
			return
		}

		h.countSignup("failed")
		RespondUnavailable(ctx, "Service temporarily unavailable")
		return
	}

	if err := h.sessions.Establish(ctx, u.Identity()); err != nil {
		slog.Default().ErrorContext(ctx.Request.Context(), "session establish failed", "err", err)
		h.countSignup("failed")
		RespondInternal(ctx, "Could not create session")
		return
	}

	h.countSignup("created")
	h.countSessionEstablished()

	ctx.JSON(http.StatusOK, u.Identity())
}

// Login authenticates credentials and establishes a session. Unknown
// email and wrong password answer identically so the response does not
// reveal which half was wrong.
func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	foundUser, err := h.users.GetByEmail(cctx, req.Email)

	if err != nil {
		if errors.Is(err, postgres.ErrUserNotFound) {
			h.countLogin("denied")
			RespondUnAuthorized(ctx, "invalid_credentials", "Incorrect login credentials. Please try again.")
			return
		}

		h.countLogin("failed")
		RespondUnavailable(ctx, "Service temporarily unavailable")
		return
	}

	err = security.CheckPassword(foundUser.PasswordHash, req.Password)

	if err != nil {
		h.countLogin("denied")
		RespondUnAuthorized(ctx, "invalid_credentials", "Incorrect login credentials. Please try again.")
		return
	}

	if err := h.sessions.Establish(ctx, foundUser.Identity()); err != nil {
		slog.Default().ErrorContext(ctx.Request.Context(), "session establish failed", "err", err)
		h.countLogin("failed")
		RespondInternal(ctx, "Could not create session")
		return
	}

	h.countLogin("ok")
	h.countSessionEstablished()

	ctx.JSON(http.StatusOK, foundUser.Identity())
}

// Logout destroys the current session. Destroying an absent session is
// fine, so the answer is always a bare 200.
func (h *AuthHandler) Logout(ctx *gin.Context) {
	if err := h.sessions.Destroy(ctx); err != nil {
		// the cookie is cleared either way; the orphaned server-side
		// entry will lapse at its TTL
		slog.Default().WarnContext(ctx.Request.Context(), "session destroy failed", "err", err)
	}

	if h.metrics != nil {
		h.metrics.SessionsDestroyed.Inc()
	}

	ctx.Status(http.StatusOK)
}

// Me reports the identity on the active session. The route is guarded
// by the session middleware, which owns the 401 answer.
func (h *AuthHandler) Me(ctx *gin.Context) {
	id, ok := middlewares.IdentityFromContext(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Please log in")
		return
	}

	ctx.JSON(http.StatusOK, id)
}

func (h *AuthHandler) countSignup(result string) {
	if h.metrics != nil {
		h.metrics.SignupsTotal.WithLabelValues(result).Inc()
	}
}

func (h *AuthHandler) countLogin(result string) {
	if h.metrics != nil {
		h.metrics.LoginsTotal.WithLabelValues(result).Inc()
	}
}

func (h *AuthHandler) countSessionEstablished() {
	if h.metrics != nil {
		h.metrics.SessionsEstablished.Inc()
	}
}
