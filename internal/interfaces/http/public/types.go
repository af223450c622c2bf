package public

import (
	"time"

	"github.com/sngm3741/feedback-forms/api/internal/domain"
)

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

// createFeedbackRequest mirrors what the form page posts. The canonical
// attributes are accepted for compatibility but re-derived server-side.
type createFeedbackRequest struct {
	FormID    string           `json:"formId" validate:"required"`
	Name      string           `json:"name"`
	Email     string           `json:"email"`
	Message   string           `json:"message"`
	Rating    float64          `json:"rating"`
	Responses domain.Responses `json:"responses"`
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

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

type loginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      userResponse `json:"user"`
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
	return feedbackResponse{
		ID:        fb.ID,
		FormID:    fb.FormID,
		Name:      fb.Name,
		Email:     fb.Email,
		Message:   fb.Message,
		Rating:    fb.Rating,
		CreatedAt: fb.CreatedAt,
		Responses: fb.Responses,
	}
}

func userToResponse(user domain.User) userResponse {
	return userResponse{ID: user.ID, Email: user.Email, Name: user.Name, Role: user.Role}
}
