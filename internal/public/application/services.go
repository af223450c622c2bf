package application

import (
	"context"
	"time"

	"github.com/sngm3741/feedback-forms/api/internal/domain"
)

// FormReader abstracts read access to forms from the public side.
type FormReader interface {
	FindByID(ctx context.Context, id string) (*domain.FeedbackForm, error)
}

// FeedbackWriter stores submitted feedback.
type FeedbackWriter interface {
	Create(ctx context.Context, feedback *domain.Feedback) error
}

// SubmissionService describes respondent use-cases.
type SubmissionService interface {
	Form(ctx context.Context, id string) (*domain.FeedbackForm, error)
	Submit(ctx context.Context, cmd SubmitFeedbackCommand) (*domain.Feedback, error)
}

// SubmitFeedbackCommand captures an anonymous submission. Only FormID and
// Responses are authoritative; canonical attributes are re-derived.
type SubmitFeedbackCommand struct {
	FormID    string
	Responses domain.Responses
}

func NewSubmissionService(forms FormReader, feedbacks FeedbackWriter) SubmissionService {
	return &submissionService{forms: forms, feedbacks: feedbacks, now: time.Now}
}
