package admin

import (
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	adminapp "github.com/sngm3741/feedback-forms/api/internal/admin/application"
)

// Handler wires dashboard HTTP endpoints to application services.
type Handler struct {
	logger    *zap.SugaredLogger
	forms     adminapp.FormService
	feedbacks adminapp.FeedbackService
	location  *time.Location
	now       func() time.Time
}

// Config provides dependencies for Handler.
type Config struct {
	Logger    *zap.SugaredLogger
	Forms     adminapp.FormService
	Feedbacks adminapp.FeedbackService
	Location  *time.Location
}

// NewHandler constructs a dashboard HTTP handler set.
func NewHandler(cfg Config) *Handler {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Handler{
		logger:    logger,
		forms:     cfg.Forms,
		feedbacks: cfg.Feedbacks,
		location:  loc,
		now:       time.Now,
	}
}

// Register mounts dashboard routes onto router. The caller is responsible
// for placing them behind authentication.
func (h *Handler) Register(r chi.Router) {
	r.Get("/forms", h.formListHandler())
	r.Post("/forms", h.formCreateHandler())
	r.Get("/forms/counts", h.formCountsHandler())
	r.Patch("/forms/{id}", h.formUpdateHandler())
	r.Delete("/forms/{id}", h.formDeleteHandler())
	r.Get("/feedbacks", h.feedbackListHandler())
	r.Get("/feedbacks/export", h.feedbackExportHandler())
	r.Get("/analytics", h.analyticsHandler())
}
