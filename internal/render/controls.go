// Package render turns form definitions into input controls and renders the
// public form page.
package render

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/sngm3741/feedback-forms/api/internal/domain"
)

// ControlKind is the widget a field is presented with.
type ControlKind string

const (
	ControlInput    ControlKind = "input"
	ControlTextArea ControlKind = "textarea"
	ControlRating   ControlKind = "rating"
)

// RatingOption is one selectable star of a rating control.
type RatingOption struct {
	Value    int
	Selected bool
}

// Control is the render model of one field.
type Control struct {
	FieldID     string
	Label       string
	Kind        ControlKind
	InputType   string
	Required    bool
	Placeholder string
	Value       string
	Options     []RatingOption
}

// Controls maps each field, in order, to its control. values pre-fills the
// controls, for example after a failed submission.
func Controls(form domain.FeedbackForm, values domain.Responses) []Control {
	controls := make([]Control, 0, len(form.Fields))
	for _, field := range form.Fields {
		control := Control{
			FieldID:  field.ID,
			Label:    field.Label,
			Required: field.Required,
		}
		value, hasValue := values[field.ID]
		switch field.Type {
		case domain.FieldRating:
			control.Kind = ControlRating
			selected := 0
			if n, ok := value.Number(); hasValue && ok {
				selected = int(n)
			}
			control.Options = make([]RatingOption, 0, domain.MaxRating-domain.MinRating+1)
			for r := domain.MinRating; r <= domain.MaxRating; r++ {
				control.Options = append(control.Options, RatingOption{Value: r, Selected: r == selected})
			}
			if selected != 0 {
				control.Value = strconv.Itoa(selected)
			}
		case domain.FieldTextarea:
			control.Kind = ControlTextArea
			control.Placeholder = field.Placeholder
		default:
			control.Kind = ControlInput
			control.InputType = "text"
			if field.Type == domain.FieldEmail {
				control.InputType = "email"
			}
			control.Placeholder = field.Placeholder
		}
		if hasValue && control.Kind != ControlRating {
			control.Value = value.String()
		}
		controls = append(controls, control)
	}
	return controls
}

// CollectResponses reads posted values into a field-id mapping. Rating
// fields become numbers; an unselected or unparsable rating is 0.
func CollectResponses(fields []domain.FormField, posted url.Values) domain.Responses {
	responses := make(domain.Responses, len(fields))
	for _, field := range fields {
		raw := posted.Get(field.ID)
		if field.Type == domain.FieldRating {
			rating, err := strconv.Atoi(strings.TrimSpace(raw))
			if err != nil {
				rating = 0
			}
			responses[field.ID] = domain.NumberValue(float64(rating))
			continue
		}
		responses[field.ID] = domain.TextValue(raw)
	}
	return responses
}
