package admin

import (
	"time"

	"github.com/sngm3741/feedback-forms/api/internal/domain"
)

type formFieldPayload struct {
	ID          string `json:"id"`
	Label       string `json:"label" validate:"required"`
	Type        string `json:"type" validate:"required,oneof=text email textarea rating"`
	Required    bool   `json:"required"`
	Placeholder string `json:"placeholder,omitempty"`
}

// createFormRequest accepts the client's full form body. id, createdAt and
// createdBy are ignored; the caller becomes the author.
type createFormRequest struct {
	Title       string             `json:"title" validate:"required"`
	Description string             `json:"description" validate:"required"`
	IsActive    *bool              `json:"isActive"`
	Fields      []formFieldPayload `json:"fields" validate:"omitempty,dive"`
}

type updateFormRequest struct {
	Title       *string            `json:"title"`
	Description *string            `json:"description"`
	IsActive    *bool              `json:"isActive"`
	Fields      []formFieldPayload `json:"fields" validate:"omitempty,dive"`
}

type formFieldResponse struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Type        string `json:"type"`
	Required    bool   `json:"required"`
	Placeholder string `json:"placeholder,omitempty"`
}

type formResponse struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	CreatedBy   string              `json:"createdBy"`
	CreatedAt   time.Time           `json:"createdAt"`
	IsActive    bool                `json:"isActive"`
	Fields      []formFieldResponse `json:"fields"`
}

type feedbackResponse struct {
	ID        string           `json:"id"`
	FormID    string           `json:"formId"`
	Name      string           `json:"name"`
	Email     string           `json:"email"`
	Message   string           `json:"message"`
	Rating    int              `json:"rating"`
	CreatedAt time.Time        `json:"createdAt"`
	Responses domain.Responses `json:"responses"`
}

type analyticsResponse struct {
	TotalFeedbacks int     `json:"totalFeedbacks"`
	AverageRating  float64 `json:"averageRating"`
	PositiveCount  int     `json:"positiveCount"`
	NegativeCount  int     `json:"negativeCount"`
	NeutralCount   int     `json:"neutralCount"`
}

func mapFieldPayloads(payloads []formFieldPayload) []domain.FormField {
	if payloads == nil {
		return nil
	}
	fields := make([]domain.FormField, 0, len(payloads))
	for _, p := range payloads {
		fields = append(fields, domain.FormField{
			ID:          p.ID,
			Label:       p.Label,
			Type:        domain.FieldType(p.Type),
			Required:    p.Required,
			Placeholder: p.Placeholder,
		})
	}
	return fields
}

func formToResponse(form domain.FeedbackForm) formResponse {
	fields := make([]formFieldResponse, 0, len(form.Fields))
	for _, f := range form.Fields {
		fields = append(fields, formFieldResponse{
			ID:          f.ID,
			Label:       f.Label,
			Type:        f.Type.String(),
			Required:    f.Required,
			Placeholder: f.Placeholder,
		})
	}
	return formResponse{
		ID:          form.ID,
		Title:       form.Title,
		Description: form.Description,
		CreatedBy:   form.CreatedBy,
		CreatedAt:   form.CreatedAt,
		IsActive:    form.IsActive,
		Fields:      fields,
	}
}

func feedbackToResponse(fb domain.Feedback) feedbackResponse {
	responses := fb.Responses
	if responses == nil {
		responses = domain.Responses{}
	}
	return feedbackResponse{
		ID:        fb.ID,
		FormID:    fb.FormID,
		Name:      fb.Name,
		Email:     fb.Email,
		Message:   fb.Message,
		Rating:    fb.Rating,
		CreatedAt: fb.CreatedAt,
		Responses: responses,
	}
}

func analyticsToResponse(a domain.Analytics) analyticsResponse {
	return analyticsResponse{
		TotalFeedbacks: a.TotalFeedbacks,
		AverageRating:  a.AverageRating,
		PositiveCount:  a.PositiveCount,
		NegativeCount:  a.NegativeCount,
		NeutralCount:   a.NeutralCount,
	}
}
