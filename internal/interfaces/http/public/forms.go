package public

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sngm3741/feedback-forms/api/internal/interfaces/http/common"
	publicapp "github.com/sngm3741/feedback-forms/api/internal/public/application"
)

func (h *Handler) formDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "id"))

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		form, err := h.submissions.Form(ctx, id)
		if err != nil {
			common.WriteDomainError(h.logger, w, err, "failed to load form", "form", id)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, formToResponse(*form))
	}
}

func (h *Handler) feedbackCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createFeedbackRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.WriteDomainError(h.logger, w, err, "invalid request")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		feedback, err := h.submissions.Submit(ctx, publicapp.SubmitFeedbackCommand{
			FormID:    strings.TrimSpace(req.FormID),
			Responses: req.Responses,
		})
		if err != nil {
			common.WriteDomainError(h.logger, w, err, "failed to submit feedback", "form", req.FormID)
			return
		}
		h.logger.Infow("feedback submitted", "form", feedback.FormID, "feedback", feedback.ID, "rating", feedback.Rating)
		common.WriteJSON(h.logger, w, http.StatusCreated, feedbackToResponse(*feedback))
	}
}
