package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sngm3741/feedback-forms/api/internal/domain"
)

type submissionService struct {
	forms     FormReader
	feedbacks FeedbackWriter
	now       func() time.Time
}

func (s *submissionService) Form(ctx context.Context, id string) (*domain.FeedbackForm, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.ErrFormNotFound
	}
	return s.forms.FindByID(ctx, id)
}

func (s *submissionService) Submit(ctx context.Context, cmd SubmitFeedbackCommand) (*domain.Feedback, error) {
	form, err := s.Form(ctx, cmd.FormID)
	if err != nil {
		return nil, err
	}
	if !form.IsActive {
		return nil, domain.ErrFormInactive
	}

	if err := domain.ValidateResponses(form.Fields, cmd.Responses); err != nil {
		return nil, err
	}
	responses, err := domain.NormalizeResponses(form.Fields, cmd.Responses)
	if err != nil {
		return nil, err
	}

	feedback := domain.NewFeedback(*form, responses, s.now().UTC())
	if err := s.feedbacks.Create(ctx, &feedback); err != nil {
		return nil, fmt.Errorf("store feedback for form %s: %w", form.ID, err)
	}
	return &feedback, nil
}
