package client

import "github.com/sngm3741/feedback-forms/api/internal/domain"

// Submission is the POST /feedbacks payload.
type Submission struct {
	FormID    string           `json:"formId"`
	Name      string           `json:"name"`
	Email     string           `json:"email"`
	Message   string           `json:"message"`
	Rating    int              `json:"rating"`
	Responses domain.Responses `json:"responses"`
}

// BuildSubmission derives the canonical attributes from the raw responses
// and bundles them with the full mapping.
func BuildSubmission(form Form, responses domain.Responses) Submission {
	if responses == nil {
		responses = domain.Responses{}
	}
	attrs := domain.DeriveCanonical(form.Domain().Fields, responses)
	return Submission{
		FormID:    form.ID,
		Name:      attrs.Name,
		Email:     attrs.Email,
		Message:   attrs.Message,
		Rating:    attrs.Rating,
		Responses: responses,
	}
}
