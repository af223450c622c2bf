package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"net/mail"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ResponseValue is a respondent's raw answer: either a string or a number.
type ResponseValue struct {
	text    string
	number  float64
	numeric bool
}

// TextValue wraps a string answer.
func TextValue(s string) ResponseValue {
	return ResponseValue{text: s}
}

// NumberValue wraps a numeric answer.
func NumberValue(n float64) ResponseValue {
	return ResponseValue{number: n, numeric: true}
}

// ResponseValueOf converts a decoded JSON/BSON scalar into a ResponseValue.
func ResponseValueOf(v any) (ResponseValue, error) {
	switch value := v.(type) {
	case nil:
		return TextValue(""), nil
	case string:
		return TextValue(value), nil
	case float64:
		return NumberValue(value), nil
	case float32:
		return NumberValue(float64(value)), nil
	case int:
		return NumberValue(float64(value)), nil
	case int32:
		return NumberValue(float64(value)), nil
	case int64:
		return NumberValue(float64(value)), nil
	case json.Number:
		f, err := value.Float64()
		if err != nil {
			return ResponseValue{}, fmt.Errorf("invalid number %q: %w", value, err)
		}
		return NumberValue(f), nil
	case ResponseValue:
		return value, nil
	default:
		return ResponseValue{}, fmt.Errorf("unsupported response value type %T", v)
	}
}

func (v ResponseValue) IsNumber() bool {
	return v.numeric
}

// String renders the value as text. Integral numbers have no decimal part.
func (v ResponseValue) String() string {
	if v.numeric {
		return strconv.FormatFloat(v.number, 'f', -1, 64)
	}
	return v.text
}

// Number returns the numeric value. Strings holding a number are parsed.
func (v ResponseValue) Number() (float64, bool) {
	if v.numeric {
		return v.number, true
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v.text), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// IsZero reports an empty string or a zero number.
func (v ResponseValue) IsZero() bool {
	if v.numeric {
		return v.number == 0
	}
	return v.text == ""
}

// Interface returns the plain Go value (string or float64).
func (v ResponseValue) Interface() any {
	if v.numeric {
		return v.number
	}
	return v.text
}

func (v ResponseValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

func (v *ResponseValue) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case bytes.Equal(trimmed, []byte("null")):
		*v = TextValue("")
		return nil
	case len(trimmed) > 0 && trimmed[0] == '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*v = TextValue(s)
		return nil
	default:
		var f float64
		if err := json.Unmarshal(trimmed, &f); err != nil {
			return fmt.Errorf("response value must be a string or a number")
		}
		*v = NumberValue(f)
		return nil
	}
}

// Responses maps field ids to raw answers.
type Responses map[string]ResponseValue

// IDs returns the field ids in sorted order.
func (r Responses) IDs() []string {
	ids := make([]string, 0, len(r))
	for id := range r {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Feedback is one respondent's submission against a form.
type Feedback struct {
	ID        string
	FormID    string
	Name      string
	Email     string
	Message   string
	Rating    int
	CreatedAt time.Time
	Responses Responses
}

// CanonicalAttributes are the convenience values derived from raw responses.
type CanonicalAttributes struct {
	Name    string
	Email   string
	Message string
	Rating  int
}

// DeriveCanonical locates the canonical attributes in a submission. The name
// comes from the first field labelled "name" (any case); email, message and
// rating come from the first field of type email, textarea and rating.
// Absent fields or values yield "" and 0.
func DeriveCanonical(fields []FormField, responses Responses) CanonicalAttributes {
	var attrs CanonicalAttributes
	if field, ok := firstField(fields, func(f FormField) bool { return strings.ToLower(f.Label) == "name" }); ok {
		attrs.Name = textOf(responses, field.ID)
	}
	if field, ok := firstField(fields, func(f FormField) bool { return f.Type == FieldEmail }); ok {
		attrs.Email = textOf(responses, field.ID)
	}
	if field, ok := firstField(fields, func(f FormField) bool { return f.Type == FieldTextarea }); ok {
		attrs.Message = textOf(responses, field.ID)
	}
	if field, ok := firstField(fields, func(f FormField) bool { return f.Type == FieldRating }); ok {
		attrs.Rating = ratingOf(responses, field.ID)
	}
	return attrs
}

func firstField(fields []FormField, match func(FormField) bool) (FormField, bool) {
	for _, field := range fields {
		if match(field) {
			return field, true
		}
	}
	return FormField{}, false
}

func textOf(responses Responses, id string) string {
	value, ok := responses[id]
	if !ok || value.IsZero() {
		return ""
	}
	return value.String()
}

func ratingOf(responses Responses, id string) int {
	value, ok := responses[id]
	if !ok {
		return 0
	}
	n, ok := value.Number()
	if !ok || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return int(n)
}

// NewFeedback builds a feedback record for form from raw responses.
func NewFeedback(form FeedbackForm, responses Responses, createdAt time.Time) Feedback {
	attrs := DeriveCanonical(form.Fields, responses)
	return Feedback{
		FormID:    form.ID,
		Name:      attrs.Name,
		Email:     attrs.Email,
		Message:   attrs.Message,
		Rating:    attrs.Rating,
		CreatedAt: createdAt,
		Responses: responses,
	}
}

// NormalizeResponses returns a mapping holding exactly the ids of fields.
// Unknown ids are rejected; missing ids get "" or 0 for rating fields.
func NormalizeResponses(fields []FormField, responses Responses) (Responses, error) {
	known := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		known[field.ID] = struct{}{}
	}
	unknown := make([]string, 0)
	for _, id := range responses.IDs() {
		if _, ok := known[id]; !ok {
			unknown = append(unknown, fmt.Sprintf("unknown field %q", id))
		}
	}
	if len(unknown) > 0 {
		return nil, &ValidationError{Problems: unknown}
	}

	normalized := make(Responses, len(fields))
	for _, field := range fields {
		if value, ok := responses[field.ID]; ok {
			normalized[field.ID] = value
			continue
		}
		if field.Type == FieldRating {
			normalized[field.ID] = NumberValue(0)
		} else {
			normalized[field.ID] = TextValue("")
		}
	}
	return normalized, nil
}

// ValidateResponses enforces required fields, email syntax and rating range.
func ValidateResponses(fields []FormField, responses Responses) error {
	problems := make([]string, 0)
	for _, field := range fields {
		value, present := responses[field.ID]
		switch field.Type {
		case FieldRating:
			rating, ok := value.Number()
			if !present || value.IsZero() || (ok && rating == 0) {
				if field.Required {
					problems = append(problems, fmt.Sprintf("%s: please select a rating", field.Label))
				}
				continue
			}
			if !ok || rating != math.Trunc(rating) || rating < MinRating || rating > MaxRating {
				problems = append(problems, fmt.Sprintf("%s: rating must be a whole number between %d and %d", field.Label, MinRating, MaxRating))
			}
		default:
			text := strings.TrimSpace(value.String())
			if !present || text == "" {
				if field.Required {
					problems = append(problems, fmt.Sprintf("%s is required", field.Label))
				}
				continue
			}
			if field.Type == FieldEmail {
				if _, err := mail.ParseAddress(text); err != nil {
					problems = append(problems, fmt.Sprintf("%s: invalid email address", field.Label))
				}
			}
		}
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
