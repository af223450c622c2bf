package domain

import (
	"fmt"
	"strings"
	"time"
)

// FieldType is the declared input kind of a form field.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldEmail    FieldType = "email"
	FieldTextarea FieldType = "textarea"
	FieldRating   FieldType = "rating"
)

// Rating bounds for rating fields.
const (
	MinRating = 1
	MaxRating = 5
)

var fieldTypes = []FieldType{FieldText, FieldEmail, FieldTextarea, FieldRating}

// NewFieldType validates a raw type string.
func NewFieldType(value string) (FieldType, error) {
	trimmed := strings.TrimSpace(value)
	for _, t := range fieldTypes {
		if string(t) == trimmed {
			return t, nil
		}
	}
	return "", fmt.Errorf("invalid field type: %q", value)
}

func (t FieldType) Valid() bool {
	_, err := NewFieldType(string(t))
	return err == nil
}

func (t FieldType) String() string {
	return string(t)
}

// FormField is one input definition inside a form.
type FormField struct {
	ID          string
	Label       string
	Type        FieldType
	Required    bool
	Placeholder string
}

// FeedbackForm is an admin-authored, ordered collection of fields.
type FeedbackForm struct {
	ID          string
	Title       string
	Description string
	CreatedBy   string
	CreatedAt   time.Time
	IsActive    bool
	Fields      []FormField
}

// DefaultFields returns the field set every new form starts with.
func DefaultFields() []FormField {
	return []FormField{
		{Label: "Name", Type: FieldText, Required: true, Placeholder: "Enter your name"},
		{Label: "Email", Type: FieldEmail, Required: true, Placeholder: "your.email@example.com"},
		{Label: "Message", Type: FieldTextarea, Required: true, Placeholder: "Your feedback..."},
		{Label: "Rating", Type: FieldRating, Required: true},
	}
}

// AssignFieldIDs fills empty field ids with their positional id (field-1, field-2, ...).
func AssignFieldIDs(fields []FormField) []FormField {
	result := make([]FormField, len(fields))
	for i, field := range fields {
		field.ID = strings.TrimSpace(field.ID)
		if field.ID == "" {
			field.ID = fmt.Sprintf("field-%d", i+1)
		}
		if field.Type == FieldRating {
			field.Placeholder = ""
		}
		result[i] = field
	}
	return result
}

// Validate reports whether the form can be published.
func (f *FeedbackForm) Validate() error {
	problems := make([]string, 0)
	if strings.TrimSpace(f.Title) == "" {
		problems = append(problems, "title is required")
	}
	if strings.TrimSpace(f.Description) == "" {
		problems = append(problems, "description is required")
	}
	problems = append(problems, validateFields(f.Fields)...)
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

func validateFields(fields []FormField) []string {
	if len(fields) == 0 {
		return []string{"at least one field is required"}
	}
	problems := make([]string, 0)
	seen := make(map[string]struct{}, len(fields))
	for i, field := range fields {
		position := i + 1
		id := strings.TrimSpace(field.ID)
		if id == "" {
			problems = append(problems, fmt.Sprintf("field %d: id is required", position))
		} else if _, ok := seen[id]; ok {
			problems = append(problems, fmt.Sprintf("field %d: duplicate id %q", position, id))
		} else {
			seen[id] = struct{}{}
		}
		if strings.TrimSpace(field.Label) == "" {
			problems = append(problems, fmt.Sprintf("field %d: label is required", position))
		}
		if !field.Type.Valid() {
			problems = append(problems, fmt.Sprintf("field %d: invalid type %q", position, field.Type))
		}
	}
	return problems
}

// Field returns the field with the given id.
func (f *FeedbackForm) Field(id string) (FormField, bool) {
	for _, field := range f.Fields {
		if field.ID == id {
			return field, true
		}
	}
	return FormField{}, false
}

// FormPatch carries a partial update. Nil members are left untouched.
type FormPatch struct {
	Title       *string
	Description *string
	IsActive    *bool
	Fields      []FormField
}

// Empty reports whether the patch changes nothing.
func (p FormPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.IsActive == nil && p.Fields == nil
}

// Apply returns a copy of form with the patch applied. Identity and creation
// metadata are never touched.
func (p FormPatch) Apply(form FeedbackForm) FeedbackForm {
	if p.Title != nil {
		form.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		form.Description = strings.TrimSpace(*p.Description)
	}
	if p.IsActive != nil {
		form.IsActive = *p.IsActive
	}
	if p.Fields != nil {
		form.Fields = AssignFieldIDs(p.Fields)
	}
	return form
}
