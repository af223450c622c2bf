package application

import (
	"context"
	"time"

	"github.com/sngm3741/feedback-forms/api/internal/domain"
)

// FormRepository exposes admin operations on feedback forms.
type FormRepository interface {
	Find(ctx context.Context) ([]domain.FeedbackForm, error)
	FindByID(ctx context.Context, id string) (*domain.FeedbackForm, error)
	Create(ctx context.Context, form *domain.FeedbackForm) error
	Update(ctx context.Context, form *domain.FeedbackForm) error
	Delete(ctx context.Context, id string) error
}

// FeedbackRepository exposes admin reads and the form cascade on feedbacks.
type FeedbackRepository interface {
	Find(ctx context.Context, filter domain.FeedbackFilter) ([]domain.Feedback, error)
	Analytics(ctx context.Context, formID string) (domain.Analytics, error)
	CountByForm(ctx context.Context) (map[string]int, error)
	DeleteByForm(ctx context.Context, formID string) (int64, error)
}

// FormService describes admin form use-cases.
type FormService interface {
	List(ctx context.Context) ([]domain.FeedbackForm, error)
	Detail(ctx context.Context, id string) (*domain.FeedbackForm, error)
	Create(ctx context.Context, cmd CreateFormCommand) (*domain.FeedbackForm, error)
	Update(ctx context.Context, id string, patch domain.FormPatch) (*domain.FeedbackForm, error)
	Delete(ctx context.Context, id string) (DeleteResult, error)
}

// FeedbackService describes admin feedback use-cases.
type FeedbackService interface {
	List(ctx context.Context, filter domain.FeedbackFilter) ([]domain.Feedback, error)
	Analytics(ctx context.Context, formID string) (domain.Analytics, error)
	CountByForm(ctx context.Context) (map[string]int, error)
	ExportCSV(ctx context.Context, filter domain.FeedbackFilter, loc *time.Location) (string, error)
}

// CreateFormCommand contains inputs for creating a form.
type CreateFormCommand struct {
	Title       string
	Description string
	IsActive    *bool
	Fields      []domain.FormField
	CreatedBy   string
}

// DeleteResult reports what a form deletion removed.
type DeleteResult struct {
	FormDeleted      bool
	FeedbacksDeleted int64
}
