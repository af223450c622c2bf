package public

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sngm3741/feedback-forms/api/internal/auth"
	"github.com/sngm3741/feedback-forms/api/internal/domain"
	publicapp "github.com/sngm3741/feedback-forms/api/internal/public/application"
)

// Authenticator is the part of the auth service the public endpoints use.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*auth.Session, error)
	Logout(ctx context.Context, tokenID string, expiresAt time.Time) error
	CurrentUser(ctx context.Context, userID string) (*domain.User, error)
}

// Handler wires respondent and sign-in endpoints to application services.
type Handler struct {
	logger      *zap.SugaredLogger
	submissions publicapp.SubmissionService
	auth        Authenticator
}

// Config defines dependencies required by Handler.
type Config struct {
	Logger      *zap.SugaredLogger
	Submissions publicapp.SubmissionService
	Auth        Authenticator
}

// NewHandler constructs a public HTTP handler set.
func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Handler{
		logger:      logger,
		submissions: cfg.Submissions,
		auth:        cfg.Auth,
	}
}

// Register mounts all public routes onto the router. authMiddleware guards
// the session endpoints.
func (h *Handler) Register(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Get("/forms/{id}", h.formDetailHandler())
	r.Post("/feedbacks", h.feedbackCreateHandler())
	r.Post("/auth/login", h.loginHandler())
	r.With(authMiddleware).Get("/auth/me", h.meHandler())
	r.With(authMiddleware).Post("/auth/logout", h.logoutHandler())
	r.Get("/form/*", h.formPageHandler())
	r.Post("/form/*", h.formPageSubmitHandler())
}
