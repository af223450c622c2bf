package client

import (
	"time"

	"github.com/sngm3741/feedback-forms/api/internal/domain"
)

type Field struct {
	ID          string `json:"id,omitempty" yaml:"id,omitempty"`
	Label       string `json:"label" yaml:"label"`
	Type        string `json:"type" yaml:"type"`
	Required    bool   `json:"required" yaml:"required"`
	Placeholder string `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
}

type Form struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	IsActive    bool      `json:"isActive"`
	Fields      []Field   `json:"fields"`
}

// Domain converts the wire form into the domain model.
func (f Form) Domain() domain.FeedbackForm {
	fields := make([]domain.FormField, 0, len(f.Fields))
	for _, field := range f.Fields {
		fields = append(fields, domain.FormField{
			ID:          field.ID,
			Label:       field.Label,
			Type:        domain.FieldType(field.Type),
			Required:    field.Required,
			Placeholder: field.Placeholder,
		})
	}
	return domain.FeedbackForm{
		ID:          f.ID,
		Title:       f.Title,
		Description: f.Description,
		CreatedBy:   f.CreatedBy,
		CreatedAt:   f.CreatedAt,
		IsActive:    f.IsActive,
		Fields:      fields,
	}
}

// FormInput creates a form. Nil fields select the default field set.
type FormInput struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	IsActive    *bool   `json:"isActive,omitempty"`
	Fields      []Field `json:"fields,omitempty"`
}

// FormUpdate is a partial update; nil members are not sent.
type FormUpdate struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	IsActive    *bool   `json:"isActive,omitempty"`
	Fields      []Field `json:"fields,omitempty"`
}

type Feedback struct {
	ID        string           `json:"id"`
	FormID    string           `json:"formId"`
	Name      string           `json:"name"`
	Email     string           `json:"email"`
	Message   string           `json:"message"`
	Rating    int              `json:"rating"`
	CreatedAt time.Time        `json:"createdAt"`
	Responses domain.Responses `json:"responses"`
}

func (f Feedback) Domain() domain.Feedback {
	return domain.Feedback{
		ID:        f.ID,
		FormID:    f.FormID,
		Name:      f.Name,
		Email:     f.Email,
		Message:   f.Message,
		Rating:    f.Rating,
		CreatedAt: f.CreatedAt,
		Responses: f.Responses,
	}
}

// DomainFeedbacks converts a listing for the exporter and aggregations.
func DomainFeedbacks(feedbacks []Feedback) []domain.Feedback {
	out := make([]domain.Feedback, 0, len(feedbacks))
	for _, f := range feedbacks {
		out = append(out, f.Domain())
	}
	return out
}

// CountByForm tallies responses per form id.
func CountByForm(feedbacks []Feedback) map[string]int {
	return domain.CountByForm(DomainFeedbacks(feedbacks))
}

type Analytics struct {
	TotalFeedbacks int     `json:"totalFeedbacks"`
	AverageRating  float64 `json:"averageRating"`
	PositiveCount  int     `json:"positiveCount"`
	NegativeCount  int     `json:"negativeCount"`
	NeutralCount   int     `json:"neutralCount"`
}

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      User      `json:"user"`
}
