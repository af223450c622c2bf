package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sngm3741/feedback-forms/api/internal/domain"
)

type formService struct {
	forms     FormRepository
	feedbacks FeedbackRepository
	now       func() time.Time
}

func NewFormService(forms FormRepository, feedbacks FeedbackRepository) FormService {
	return &formService{forms: forms, feedbacks: feedbacks, now: time.Now}
}

func (s *formService) List(ctx context.Context) ([]domain.FeedbackForm, error) {
	return s.forms.Find(ctx)
}

func (s *formService) Detail(ctx context.Context, id string) (*domain.FeedbackForm, error) {
	return s.forms.FindByID(ctx, id)
}

func (s *formService) Create(ctx context.Context, cmd CreateFormCommand) (*domain.FeedbackForm, error) {
	fields := cmd.Fields
	if len(fields) == 0 {
		fields = domain.DefaultFields()
	}
	active := true
	if cmd.IsActive != nil {
		active = *cmd.IsActive
	}
	form := &domain.FeedbackForm{
		Title:       strings.TrimSpace(cmd.Title),
		Description: strings.TrimSpace(cmd.Description),
		CreatedBy:   cmd.CreatedBy,
		CreatedAt:   s.now().UTC(),
		IsActive:    active,
		Fields:      domain.AssignFieldIDs(fields),
	}
	if err := form.Validate(); err != nil {
		return nil, err
	}
	if err := s.forms.Create(ctx, form); err != nil {
		return nil, fmt.Errorf("create form: %w", err)
	}
	return form, nil
}

func (s *formService) Update(ctx context.Context, id string, patch domain.FormPatch) (*domain.FeedbackForm, error) {
	current, err := s.forms.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Empty() {
		return current, nil
	}
	updated := patch.Apply(*current)
	if err := updated.Validate(); err != nil {
		return nil, err
	}
	if err := s.forms.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("update form %s: %w", id, err)
	}
	return &updated, nil
}

// Delete removes the form and then every feedback that references it. The
// cascade runs even when the form is already gone so orphans left by an
// interrupted delete are cleaned up on retry.
func (s *formService) Delete(ctx context.Context, id string) (DeleteResult, error) {
	var result DeleteResult
	err := s.forms.Delete(ctx, id)
	switch {
	case err == nil:
		result.FormDeleted = true
	case errors.Is(err, domain.ErrFormNotFound):
	default:
		return result, fmt.Errorf("delete form %s: %w", id, err)
	}

	removed, err := s.feedbacks.DeleteByForm(ctx, id)
	if err != nil {
		return result, fmt.Errorf("delete feedbacks of form %s: %w", id, err)
	}
	result.FeedbacksDeleted = removed
	if !result.FormDeleted && removed == 0 {
		return result, domain.ErrFormNotFound
	}
	return result, nil
}
