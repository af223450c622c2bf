package domain

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleForm() FeedbackForm {
	return FeedbackForm{
		ID:       "F1",
		Title:    "Product survey",
		IsActive: true,
		Fields: []FormField{
			{ID: "a", Label: "Name", Type: FieldText, Required: true},
			{ID: "b", Label: "Work Email", Type: FieldEmail, Required: true},
			{ID: "c", Label: "Thoughts", Type: FieldTextarea},
			{ID: "d", Label: "Score", Type: FieldRating, Required: true},
		},
	}
}

func TestDeriveCanonical(t *testing.T) {
	form := sampleForm()

	t.Run("maps by label and type", func(t *testing.T) {
		responses := Responses{
			"a": TextValue("Ann"),
			"b": TextValue("a@x.io"),
			"c": TextValue("Great"),
			"d": NumberValue(5),
		}
		attrs := DeriveCanonical(form.Fields, responses)
		assert.Equal(t, CanonicalAttributes{Name: "Ann", Email: "a@x.io", Message: "Great", Rating: 5}, attrs)
	})

	t.Run("name is matched on label only", func(t *testing.T) {
		fields := []FormField{
			{ID: "x", Label: "Full name", Type: FieldText},
			{ID: "y", Label: "NAME", Type: FieldTextarea},
		}
		attrs := DeriveCanonical(fields, Responses{"x": TextValue("Bob"), "y": TextValue("Ann")})
		assert.Equal(t, "Ann", attrs.Name)
		assert.Equal(t, "Ann", attrs.Message)
	})

	t.Run("form without rating field", func(t *testing.T) {
		fields := []FormField{{ID: "a", Label: "Name", Type: FieldText}}
		attrs := DeriveCanonical(fields, Responses{"a": TextValue("Ann")})
		assert.Equal(t, 0, attrs.Rating)
		assert.Empty(t, attrs.Email)
		assert.Empty(t, attrs.Message)
	})

	t.Run("numeric string rating", func(t *testing.T) {
		attrs := DeriveCanonical(form.Fields, Responses{"d": TextValue("4")})
		assert.Equal(t, 4, attrs.Rating)

		attrs = DeriveCanonical(form.Fields, Responses{"d": TextValue("great")})
		assert.Equal(t, 0, attrs.Rating)
	})
}

func TestNormalizeResponses(t *testing.T) {
	form := sampleForm()

	normalized, err := NormalizeResponses(form.Fields, Responses{"a": TextValue("Ann")})
	require.NoError(t, err)
	assert.Len(t, normalized, 4)
	assert.Equal(t, TextValue(""), normalized["b"])
	assert.Equal(t, NumberValue(0), normalized["d"])

	_, err = NormalizeResponses(form.Fields, Responses{"zzz": TextValue("?")})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Problems[0], "zzz")
}

func TestValidateResponses(t *testing.T) {
	form := sampleForm()

	valid := Responses{
		"a": TextValue("Ann"),
		"b": TextValue("ann@example.com"),
		"d": NumberValue(3),
	}
	require.NoError(t, ValidateResponses(form.Fields, valid))

	tests := []struct {
		name      string
		responses Responses
		problem   string
	}{
		{"blank required text", Responses{"a": TextValue("   "), "b": TextValue("a@b.io"), "d": NumberValue(2)}, "Name is required"},
		{"bad email", Responses{"a": TextValue("Ann"), "b": TextValue("nope"), "d": NumberValue(2)}, "invalid email"},
		{"missing rating", Responses{"a": TextValue("Ann"), "b": TextValue("a@b.io")}, "please select a rating"},
		{"zero rating", Responses{"a": TextValue("Ann"), "b": TextValue("a@b.io"), "d": NumberValue(0)}, "please select a rating"},
		{"out of range", Responses{"a": TextValue("Ann"), "b": TextValue("a@b.io"), "d": NumberValue(6)}, "between 1 and 5"},
		{"fractional", Responses{"a": TextValue("Ann"), "b": TextValue("a@b.io"), "d": NumberValue(2.5)}, "between 1 and 5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateResponses(form.Fields, tt.responses)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.problem)
		})
	}
}

func TestResponseValueJSON(t *testing.T) {
	var decoded Responses
	require.NoError(t, json.Unmarshal([]byte(`{"a":"Ann","d":4,"n":null}`), &decoded))
	assert.False(t, decoded["a"].IsNumber())
	assert.True(t, decoded["d"].IsNumber())
	assert.Equal(t, "", decoded["n"].String())

	encoded, err := json.Marshal(Responses{"d": NumberValue(4), "a": TextValue("4")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":"4","d":4}`, string(encoded))

	assert.Error(t, json.Unmarshal([]byte(`{"a":true}`), &decoded))
}

func TestNewFeedbackStampsCanonical(t *testing.T) {
	form := sampleForm()
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	fb := NewFeedback(form, Responses{"a": TextValue("Ann"), "d": NumberValue(4)}, now)
	assert.Equal(t, "F1", fb.FormID)
	assert.Equal(t, "Ann", fb.Name)
	assert.Equal(t, 4, fb.Rating)
	assert.Equal(t, now, fb.CreatedAt)
}
