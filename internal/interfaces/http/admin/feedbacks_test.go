package admin

import (
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sngm3741/feedback-forms/api/internal/domain"
)

func TestParseFeedbackFilter(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  domain.FeedbackFilter
	}{
		{name: "empty", query: "", want: domain.FeedbackFilter{}},
		{name: "all sentinels", query: "formId=all&rating=all", want: domain.FeedbackFilter{}},
		{name: "sentinel case", query: "rating=ALL", want: domain.FeedbackFilter{}},
		{name: "criteria", query: "formId=f1&rating=4&search=+slow+", want: domain.FeedbackFilter{FormID: "f1", Rating: 4, Search: "slow"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			require.NoError(t, err)
			got, err := parseFeedbackFilter(values)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFeedbackFilterRejectsBadRating(t *testing.T) {
	for _, raw := range []string{"0", "6", "four", "allx"} {
		_, err := parseFeedbackFilter(url.Values{"rating": {raw}})
		var verr *domain.ValidationError
		assert.True(t, errors.As(err, &verr), raw)
	}
}
