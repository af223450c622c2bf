package client

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/sngm3741/feedback-forms/api/internal/domain"
)

// FeedbackQuery is the dashboard filter as sent to GET /feedbacks.
type FeedbackQuery struct {
	Search string
	Rating int
	FormID string
}

// Values omits every criterion left at "all": empty search, rating 0 and an
// empty or "all" form id.
func (q FeedbackQuery) Values() url.Values {
	values := url.Values{}
	if search := strings.TrimSpace(q.Search); search != "" {
		values.Set("search", search)
	}
	if q.Rating != 0 {
		values.Set("rating", strconv.Itoa(q.Rating))
	}
	if formID := strings.TrimSpace(q.FormID); formID != "" && formID != domain.AllFormsID {
		values.Set("formId", formID)
	}
	return values
}

// AnalyticsValues shapes the GET /analytics query.
func AnalyticsValues(formID string) url.Values {
	values := url.Values{}
	if formID = strings.TrimSpace(formID); formID != "" && formID != domain.AllFormsID {
		values.Set("formId", formID)
	}
	return values
}
