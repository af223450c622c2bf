package application

import (
	"context"
	"fmt"
	"time"

	"github.com/sngm3741/feedback-forms/api/internal/domain"
	"github.com/sngm3741/feedback-forms/api/internal/export"
)

type feedbackService struct {
	repo FeedbackRepository
}

func NewFeedbackService(repo FeedbackRepository) FeedbackService {
	return &feedbackService{repo: repo}
}

func (s *feedbackService) List(ctx context.Context, filter domain.FeedbackFilter) ([]domain.Feedback, error) {
	return s.repo.Find(ctx, filter.Normalized())
}

func (s *feedbackService) Analytics(ctx context.Context, formID string) (domain.Analytics, error) {
	filter := domain.FeedbackFilter{FormID: formID}.Normalized()
	return s.repo.Analytics(ctx, filter.FormID)
}

func (s *feedbackService) CountByForm(ctx context.Context) (map[string]int, error) {
	return s.repo.CountByForm(ctx)
}

func (s *feedbackService) ExportCSV(ctx context.Context, filter domain.FeedbackFilter, loc *time.Location) (string, error) {
	feedbacks, err := s.List(ctx, filter)
	if err != nil {
		return "", fmt.Errorf("list feedbacks for export: %w", err)
	}
	return export.CSV(feedbacks, loc), nil
}
