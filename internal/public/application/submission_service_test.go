package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sngm3741/feedback-forms/api/internal/domain"
	"github.com/sngm3741/feedback-forms/api/internal/infrastructure/memory"
)

func newSubmissionFixture(t *testing.T, active bool) (*submissionService, *memory.Store, *domain.FeedbackForm) {
	t.Helper()
	store := memory.NewStore()
	form := &domain.FeedbackForm{
		Title:       "Survey",
		Description: "D",
		IsActive:    active,
		Fields: []domain.FormField{
			{ID: "a", Label: "Name", Type: domain.FieldText, Required: true},
			{ID: "b", Label: "Work Email", Type: domain.FieldEmail, Required: true},
			{ID: "c", Label: "Thoughts", Type: domain.FieldTextarea},
			{ID: "d", Label: "Score", Type: domain.FieldRating, Required: true},
		},
	}
	require.NoError(t, store.Forms().Create(context.Background(), form))
	svc := NewSubmissionService(store.Forms(), store.Feedbacks()).(*submissionService)
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC) }
	return svc, store, form
}

func TestSubmitDerivesCanonicalAttributes(t *testing.T) {
	ctx := context.Background()
	svc, store, form := newSubmissionFixture(t, true)

	feedback, err := svc.Submit(ctx, SubmitFeedbackCommand{
		FormID: form.ID,
		Responses: domain.Responses{
			"a": domain.TextValue("Ann"),
			"b": domain.TextValue("a@x.io"),
			"c": domain.TextValue("Great"),
			"d": domain.NumberValue(5),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Ann", feedback.Name)
	assert.Equal(t, "a@x.io", feedback.Email)
	assert.Equal(t, "Great", feedback.Message)
	assert.Equal(t, 5, feedback.Rating)
	assert.Equal(t, form.ID, feedback.FormID)
	assert.Equal(t, time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC), feedback.CreatedAt)

	stored, err := store.Feedbacks().Find(ctx, domain.FeedbackFilter{FormID: form.ID})
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Len(t, stored[0].Responses, 4)
}

func TestSubmitFillsMissingOptionalFields(t *testing.T) {
	svc, _, form := newSubmissionFixture(t, true)
	feedback, err := svc.Submit(context.Background(), SubmitFeedbackCommand{
		FormID: form.ID,
		Responses: domain.Responses{
			"a": domain.TextValue("Ann"),
			"b": domain.TextValue("a@x.io"),
			"d": domain.NumberValue(2),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "", feedback.Message)
	assert.Equal(t, domain.TextValue(""), feedback.Responses["c"])
}

func TestSubmitRejections(t *testing.T) {
	ctx := context.Background()

	svc, _, form := newSubmissionFixture(t, false)
	_, err := svc.Submit(ctx, SubmitFeedbackCommand{FormID: form.ID})
	assert.ErrorIs(t, err, domain.ErrFormInactive)

	_, err = svc.Submit(ctx, SubmitFeedbackCommand{FormID: "missing"})
	assert.ErrorIs(t, err, domain.ErrFormNotFound)

	_, err = svc.Submit(ctx, SubmitFeedbackCommand{FormID: "  "})
	assert.ErrorIs(t, err, domain.ErrFormNotFound)

	active, store, activeForm := newSubmissionFixture(t, true)
	_, err = active.Submit(ctx, SubmitFeedbackCommand{
		FormID:    activeForm.ID,
		Responses: domain.Responses{"a": domain.TextValue("Ann")},
	})
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Problems, 2)

	stored, err := store.Feedbacks().Find(ctx, domain.FeedbackFilter{})
	require.NoError(t, err)
	assert.Empty(t, stored)
}

// deletingReader returns the form and then removes it with its cascade, as a
// dashboard delete landing between the load and the insert of Submit.
type deletingReader struct {
	store *memory.Store
}

func (r deletingReader) FindByID(ctx context.Context, id string) (*domain.FeedbackForm, error) {
	form, err := r.store.Forms().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.store.Forms().Delete(ctx, id); err != nil {
		return nil, err
	}
	if _, err := r.store.Feedbacks().DeleteByForm(ctx, id); err != nil {
		return nil, err
	}
	return form, nil
}

func TestSubmitRacingFormDeleteLeavesNoOrphan(t *testing.T) {
	ctx := context.Background()
	_, store, form := newSubmissionFixture(t, true)
	svc := NewSubmissionService(deletingReader{store: store}, store.Feedbacks())

	_, err := svc.Submit(ctx, SubmitFeedbackCommand{
		FormID: form.ID,
		Responses: domain.Responses{
			"a": domain.TextValue("Ann"),
			"b": domain.TextValue("a@x.io"),
			"d": domain.NumberValue(4),
		},
	})
	assert.ErrorIs(t, err, domain.ErrFormNotFound)

	_, err = store.Forms().FindByID(ctx, form.ID)
	assert.ErrorIs(t, err, domain.ErrFormNotFound)
	orphans, err := store.Feedbacks().Find(ctx, domain.FeedbackFilter{FormID: form.ID})
	require.NoError(t, err)
	assert.Empty(t, orphans)
}
