package admin

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/sngm3741/feedback-forms/api/internal/domain"
	"github.com/sngm3741/feedback-forms/api/internal/export"
	"github.com/sngm3741/feedback-forms/api/internal/interfaces/http/common"
)

// parseFeedbackFilter reads formId, rating and search from the query.
// Absent parameters and the "all" sentinel mean no filter.
func parseFeedbackFilter(query url.Values) (domain.FeedbackFilter, error) {
	filter := domain.FeedbackFilter{
		Search: strings.TrimSpace(query.Get("search")),
		FormID: strings.TrimSpace(query.Get("formId")),
	}
	if raw := strings.TrimSpace(query.Get("rating")); raw != "" && !strings.EqualFold(raw, domain.AllFormsID) {
		rating, err := strconv.Atoi(raw)
		if err != nil || rating < domain.MinRating || rating > domain.MaxRating {
			return domain.FeedbackFilter{}, domain.NewValidationError(
				fmt.Sprintf("rating must be between %d and %d", domain.MinRating, domain.MaxRating))
		}
		filter.Rating = rating
	}
	return filter.Normalized(), nil
}

func (h *Handler) feedbackListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := parseFeedbackFilter(r.URL.Query())
		if err != nil {
			common.WriteDomainError(h.logger, w, err, "invalid filter")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		feedbacks, err := h.feedbacks.List(ctx, filter)
		if err != nil {
			common.WriteDomainError(h.logger, w, err, "failed to load feedbacks")
			return
		}
		items := make([]feedbackResponse, 0, len(feedbacks))
		for _, fb := range feedbacks {
			items = append(items, feedbackToResponse(fb))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, items)
	}
}

func (h *Handler) feedbackExportHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := parseFeedbackFilter(r.URL.Query())
		if err != nil {
			common.WriteDomainError(h.logger, w, err, "invalid filter")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		csv, err := h.feedbacks.ExportCSV(ctx, filter, h.location)
		if err != nil {
			common.WriteDomainError(h.logger, w, err, "failed to export feedbacks")
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(h.now())))
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(csv)); err != nil {
			h.logger.Warnw("write csv export", "error", err)
		}
	}
}

func (h *Handler) analyticsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formID := strings.TrimSpace(r.URL.Query().Get("formId"))

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		analytics, err := h.feedbacks.Analytics(ctx, formID)
		if err != nil {
			common.WriteDomainError(h.logger, w, err, "failed to compute analytics", "form", formID)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, analyticsToResponse(analytics))
	}
}
