package public

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/sngm3741/feedback-forms/api/internal/domain"
	"github.com/sngm3741/feedback-forms/api/internal/interfaces/http/common"
	publicapp "github.com/sngm3741/feedback-forms/api/internal/public/application"
	"github.com/sngm3741/feedback-forms/api/internal/render"
	"github.com/sngm3741/feedback-forms/api/internal/route"
)

func formPagePath(id string) string {
	return "/form/" + url.PathEscape(id)
}

func (h *Handler) formPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := route.FormID(r.URL.Path)
		if !ok {
			h.writePage(w, http.StatusNotFound, render.NewFormPage(nil, nil, nil))
			return
		}

		if r.URL.Query().Get("submitted") == "1" {
			h.writePage(w, http.StatusOK, render.Page{
				State:  render.StateThankYou,
				Notice: render.MessageThankYou,
				Action: formPagePath(id),
			})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		form, err := h.submissions.Form(ctx, id)
		if err != nil {
			status := http.StatusNotFound
			if !errors.Is(err, domain.ErrFormNotFound) {
				h.logger.Errorw("load form page", "form", id, "error", err)
				status = http.StatusInternalServerError
			}
			h.writePage(w, status, render.NewFormPage(nil, nil, nil))
			return
		}

		page := render.NewFormPage(form, nil, nil)
		page.Action = formPagePath(id)
		h.writePage(w, http.StatusOK, page)
	}
}

func (h *Handler) formPageSubmitHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := route.FormID(r.URL.Path)
		if !ok {
			h.writePage(w, http.StatusNotFound, render.NewFormPage(nil, nil, nil))
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, common.MaxRequestBody)
		if err := r.ParseForm(); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, "malformed form submission")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		form, err := h.submissions.Form(ctx, id)
		if err != nil {
			status := http.StatusNotFound
			if !errors.Is(err, domain.ErrFormNotFound) {
				h.logger.Errorw("load form page", "form", id, "error", err)
				status = http.StatusInternalServerError
			}
			h.writePage(w, status, render.NewFormPage(nil, nil, nil))
			return
		}
		if !form.IsActive {
			h.writePage(w, http.StatusConflict, render.NewFormPage(form, nil, nil))
			return
		}

		responses := render.CollectResponses(form.Fields, r.PostForm)
		_, err = h.submissions.Submit(ctx, publicapp.SubmitFeedbackCommand{FormID: form.ID, Responses: responses})
		if err == nil {
			http.Redirect(w, r, formPagePath(id)+"?submitted=1", http.StatusSeeOther)
			return
		}

		var verr *domain.ValidationError
		switch {
		case errors.As(err, &verr):
			page := render.NewFormPage(form, responses, verr.Problems)
			page.Action = formPagePath(id)
			h.writePage(w, http.StatusBadRequest, page)
		case errors.Is(err, domain.ErrFormInactive):
			h.writePage(w, http.StatusConflict, render.NewFormPage(&domain.FeedbackForm{Title: form.Title}, nil, nil))
		default:
			h.logger.Errorw("submit form page", "form", id, "error", err)
			page := render.NewFormPage(form, responses, []string{render.MessageSubmitFailed})
			page.Action = formPagePath(id)
			h.writePage(w, http.StatusInternalServerError, page)
		}
	}
}

func (h *Handler) writePage(w http.ResponseWriter, status int, page render.Page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := render.Write(w, page); err != nil {
		h.logger.Warnw("render form page", "error", err)
	}
}
