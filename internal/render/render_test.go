package render

import (
	"bytes"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sngm3741/feedback-forms/api/internal/domain"
)

func testForm(active bool) *domain.FeedbackForm {
	return &domain.FeedbackForm{
		ID:          "abc123",
		Title:       "Product survey",
		Description: "Tell us",
		IsActive:    active,
		Fields:      domain.AssignFieldIDs(domain.DefaultFields()),
	}
}

func TestControlsPreserveOrderAndKinds(t *testing.T) {
	controls := Controls(*testForm(true), nil)
	require.Len(t, controls, 4)

	assert.Equal(t, ControlInput, controls[0].Kind)
	assert.Equal(t, "text", controls[0].InputType)
	assert.Equal(t, "Enter your name", controls[0].Placeholder)
	assert.True(t, controls[0].Required)

	assert.Equal(t, "email", controls[1].InputType)
	assert.Equal(t, ControlTextArea, controls[2].Kind)

	rating := controls[3]
	assert.Equal(t, ControlRating, rating.Kind)
	require.Len(t, rating.Options, 5)
	for i, opt := range rating.Options {
		assert.Equal(t, i+1, opt.Value)
		assert.False(t, opt.Selected)
	}
}

func TestControlsPrefill(t *testing.T) {
	values := domain.Responses{"field-1": domain.TextValue("Ann"), "field-4": domain.NumberValue(4)}
	controls := Controls(*testForm(true), values)
	assert.Equal(t, "Ann", controls[0].Value)
	assert.True(t, controls[3].Options[3].Selected)
	assert.Equal(t, "4", controls[3].Value)
}

func TestCollectResponses(t *testing.T) {
	form := testForm(true)
	posted := url.Values{
		"field-1": {"Ann"},
		"field-2": {"ann@x.io"},
		"field-4": {"5"},
		"extra":   {"ignored"},
	}
	responses := CollectResponses(form.Fields, posted)
	assert.Len(t, responses, 4)
	assert.Equal(t, domain.TextValue("Ann"), responses["field-1"])
	assert.Equal(t, domain.TextValue(""), responses["field-3"])
	assert.Equal(t, domain.NumberValue(5), responses["field-4"])

	unrated := CollectResponses(form.Fields, url.Values{"field-4": {"x"}})
	assert.Equal(t, domain.NumberValue(0), unrated["field-4"])
}

func TestWritePageStates(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, NewFormPage(testForm(true), nil, []string{"Name is required"})))
	html := buf.String()
	assert.Contains(t, html, "Product survey")
	assert.Contains(t, html, `type="submit"`)
	assert.Contains(t, html, "Name is required")
	assert.Equal(t, 5, strings.Count(html, `type="radio"`))

	buf.Reset()
	inactive := NewFormPage(testForm(false), nil, nil)
	assert.False(t, inactive.CanSubmit())
	require.NoError(t, Write(&buf, inactive))
	assert.Contains(t, buf.String(), MessageInactive)
	assert.NotContains(t, buf.String(), `type="submit"`)

	buf.Reset()
	require.NoError(t, Write(&buf, NewFormPage(nil, nil, nil)))
	assert.Contains(t, buf.String(), MessageNotFound)

	buf.Reset()
	require.NoError(t, Write(&buf, Page{State: StateThankYou, Notice: MessageThankYou, Action: "/form/abc123"}))
	assert.Contains(t, buf.String(), ActionSubmitAnother)
}
