package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFeedbackFilterMatches(t *testing.T) {
	ann := Feedback{FormID: "F1", Name: "Ann", Email: "ann@x.io", Message: "Nice", Rating: 5}
	joanna := Feedback{FormID: "F1", Name: "Bob", Email: "joanna@x.io", Message: "ok", Rating: 3}
	other := Feedback{FormID: "F2", Name: "Annie", Email: "a@x.io", Message: "", Rating: 5}

	filter := FeedbackFilter{Search: "ANN", Rating: 5, FormID: "F1"}
	assert.True(t, filter.Matches(ann))
	assert.False(t, filter.Matches(joanna))
	assert.False(t, filter.Matches(other))

	all := FeedbackFilter{FormID: "all"}
	assert.True(t, all.AllForms())
	for _, fb := range []Feedback{ann, joanna, other} {
		assert.True(t, all.Matches(fb))
	}

	assert.True(t, FeedbackFilter{Search: "nice"}.Matches(ann))
}

func TestCountByForm(t *testing.T) {
	counts := CountByForm([]Feedback{{FormID: "F1"}, {FormID: "F1"}, {FormID: "F2"}})
	assert.Equal(t, map[string]int{"F1": 2, "F2": 1}, counts)
}
