package admin

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	adminapp "github.com/sngm3741/feedback-forms/api/internal/admin/application"
	"github.com/sngm3741/feedback-forms/api/internal/domain"
	"github.com/sngm3741/feedback-forms/api/internal/interfaces/http/common"
)

func (h *Handler) formListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		forms, err := h.forms.List(ctx)
		if err != nil {
			common.WriteDomainError(h.logger, w, err, "failed to load forms")
			return
		}
		items := make([]formResponse, 0, len(forms))
		for _, form := range forms {
			items = append(items, formToResponse(form))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, items)
	}
}

func (h *Handler) formCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := common.UserFromContext(r.Context())
		if !ok {
			common.WriteError(h.logger, w, http.StatusUnauthorized, "authentication required")
			return
		}

		var req createFormRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.WriteDomainError(h.logger, w, err, "invalid request")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		form, err := h.forms.Create(ctx, adminapp.CreateFormCommand{
			Title:       req.Title,
			Description: req.Description,
			IsActive:    req.IsActive,
			Fields:      mapFieldPayloads(req.Fields),
			CreatedBy:   user.ID,
		})
		if err != nil {
			common.WriteDomainError(h.logger, w, err, "failed to create form", "user", user.ID)
			return
		}
		h.logger.Infow("form created", "form", form.ID, "user", user.ID)
		common.WriteJSON(h.logger, w, http.StatusCreated, formToResponse(*form))
	}
}

func (h *Handler) formUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "id"))
		if id == "" {
			common.WriteError(h.logger, w, http.StatusBadRequest, "form id is required")
			return
		}

		var req updateFormRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.WriteDomainError(h.logger, w, err, "invalid request")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		updated, err := h.forms.Update(ctx, id, domain.FormPatch{
			Title:       req.Title,
			Description: req.Description,
			IsActive:    req.IsActive,
			Fields:      mapFieldPayloads(req.Fields),
		})
		if err != nil {
			common.WriteDomainError(h.logger, w, err, "failed to update form", "form", id)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, formToResponse(*updated))
	}
}

func (h *Handler) formDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "id"))

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		result, err := h.forms.Delete(ctx, id)
		if err != nil {
			common.WriteDomainError(h.logger, w, err, "failed to delete form", "form", id)
			return
		}
		h.logger.Infow("form deleted", "form", id, "formRemoved", result.FormDeleted, "feedbacksRemoved", result.FeedbacksDeleted)
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *Handler) formCountsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		counts, err := h.feedbacks.CountByForm(ctx)
		if err != nil {
			common.WriteDomainError(h.logger, w, err, "failed to count responses")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, counts)
	}
}
