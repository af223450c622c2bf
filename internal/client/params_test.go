package client

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sngm3741/feedback-forms/api/internal/domain"
)

func TestFeedbackQueryValues(t *testing.T) {
	tests := []struct {
		name  string
		query FeedbackQuery
		want  url.Values
	}{
		{name: "everything all", query: FeedbackQuery{FormID: "all"}, want: url.Values{}},
		{name: "blank search", query: FeedbackQuery{Search: "  "}, want: url.Values{}},
		{
			name:  "all criteria",
			query: FeedbackQuery{Search: "late", Rating: 2, FormID: "f1"},
			want:  url.Values{"search": {"late"}, "rating": {"2"}, "formId": {"f1"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.query.Values())
		})
	}
}

func TestAnalyticsValues(t *testing.T) {
	assert.Empty(t, AnalyticsValues(""))
	assert.Empty(t, AnalyticsValues(domain.AllFormsID))
	assert.Equal(t, "formId=f1", AnalyticsValues("f1").Encode())
}

func TestBuildSubmission(t *testing.T) {
	form := Form{ID: "f1", Fields: []Field{
		{ID: "q1", Label: "NAME", Type: "text"},
		{ID: "q2", Label: "Contact", Type: "email"},
		{ID: "q3", Label: "Stars", Type: "rating"},
	}}
	got := BuildSubmission(form, domain.Responses{
		"q1": domain.TextValue("Ann"),
		"q2": domain.TextValue("ann@x.io"),
		"q3": domain.NumberValue(3),
	})
	assert.Equal(t, "f1", got.FormID)
	assert.Equal(t, "Ann", got.Name)
	assert.Equal(t, "ann@x.io", got.Email)
	assert.Empty(t, got.Message)
	assert.Equal(t, 3, got.Rating)
	assert.Len(t, got.Responses, 3)
}
