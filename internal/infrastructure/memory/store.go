// Package memory provides in-process repositories for local runs and tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/sngm3741/feedback-forms/api/internal/domain"
)

// Store keeps forms, feedbacks and users behind a single lock so a form
// delete and its cascade observe the same state.
type Store struct {
	mu        sync.RWMutex
	forms     map[string]domain.FeedbackForm
	feedbacks map[string]domain.Feedback
	users     map[string]domain.User
}

func NewStore() *Store {
	return &Store{
		forms:     make(map[string]domain.FeedbackForm),
		feedbacks: make(map[string]domain.Feedback),
		users:     make(map[string]domain.User),
	}
}

// Forms returns the form repository view.
func (s *Store) Forms() *FormRepository { return &FormRepository{store: s} }

// Feedbacks returns the feedback repository view.
func (s *Store) Feedbacks() *FeedbackRepository { return &FeedbackRepository{store: s} }

// Users returns the user repository view.
func (s *Store) Users() *UserRepository { return &UserRepository{store: s} }

type FormRepository struct {
	store *Store
}

func (r *FormRepository) Find(_ context.Context) ([]domain.FeedbackForm, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	forms := make([]domain.FeedbackForm, 0, len(r.store.forms))
	for _, form := range r.store.forms {
		forms = append(forms, cloneForm(form))
	}
	sort.SliceStable(forms, func(i, j int) bool {
		if forms[i].CreatedAt.Equal(forms[j].CreatedAt) {
			return forms[i].ID > forms[j].ID
		}
		return forms[i].CreatedAt.After(forms[j].CreatedAt)
	})
	return forms, nil
}

func (r *FormRepository) FindByID(_ context.Context, id string) (*domain.FeedbackForm, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	form, ok := r.store.forms[strings.TrimSpace(id)]
	if !ok {
		return nil, domain.ErrFormNotFound
	}
	out := cloneForm(form)
	return &out, nil
}

func (r *FormRepository) Create(_ context.Context, form *domain.FeedbackForm) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if form.ID == "" {
		form.ID = uuid.NewString()
	}
	r.store.forms[form.ID] = cloneForm(*form)
	return nil
}

func (r *FormRepository) Update(_ context.Context, form *domain.FeedbackForm) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	current, ok := r.store.forms[form.ID]
	if !ok {
		return domain.ErrFormNotFound
	}
	updated := cloneForm(*form)
	updated.CreatedBy = current.CreatedBy
	updated.CreatedAt = current.CreatedAt
	r.store.forms[form.ID] = updated
	return nil
}

func (r *FormRepository) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.forms[id]; !ok {
		return domain.ErrFormNotFound
	}
	delete(r.store.forms, id)
	return nil
}

type FeedbackRepository struct {
	store *Store
}

// Create stores a feedback for an existing form. The form check and the
// insert share the lock taken by form deletes, so a feedback can never
// outlive its form's cascade.
func (r *FeedbackRepository) Create(_ context.Context, feedback *domain.Feedback) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.forms[feedback.FormID]; !ok {
		return domain.ErrFormNotFound
	}
	if feedback.ID == "" {
		feedback.ID = uuid.NewString()
	}
	r.store.feedbacks[feedback.ID] = cloneFeedback(*feedback)
	return nil
}

// Find returns matching feedbacks, newest first.
func (r *FeedbackRepository) Find(_ context.Context, filter domain.FeedbackFilter) ([]domain.Feedback, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.matching(filter), nil
}

func (r *FeedbackRepository) matching(filter domain.FeedbackFilter) []domain.Feedback {
	result := make([]domain.Feedback, 0)
	for _, fb := range r.store.feedbacks {
		if filter.Matches(fb) {
			result = append(result, cloneFeedback(fb))
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

func (r *FeedbackRepository) Analytics(_ context.Context, formID string) (domain.Analytics, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return domain.SummarizeFeedbacks(r.matching(domain.FeedbackFilter{FormID: formID})), nil
}

func (r *FeedbackRepository) CountByForm(_ context.Context) (map[string]int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	all := make([]domain.Feedback, 0, len(r.store.feedbacks))
	for _, fb := range r.store.feedbacks {
		all = append(all, fb)
	}
	return domain.CountByForm(all), nil
}

func (r *FeedbackRepository) DeleteByForm(_ context.Context, formID string) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var removed int64
	for id, fb := range r.store.feedbacks {
		if fb.FormID == formID {
			delete(r.store.feedbacks, id)
			removed++
		}
	}
	return removed, nil
}

type UserRepository struct {
	store *Store
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, user := range r.store.users {
		if user.Email == email {
			out := user
			return &out, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	user, ok := r.store.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &user, nil
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, existing := range r.store.users {
		if existing.Email == user.Email {
			return domain.NewValidationError("email is already registered")
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	r.store.users[user.ID] = *user
	return nil
}

func (r *UserRepository) Count(_ context.Context) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return int64(len(r.store.users)), nil
}

func cloneForm(form domain.FeedbackForm) domain.FeedbackForm {
	form.Fields = append([]domain.FormField(nil), form.Fields...)
	return form
}

func cloneFeedback(fb domain.Feedback) domain.Feedback {
	if fb.Responses != nil {
		responses := make(domain.Responses, len(fb.Responses))
		for k, v := range fb.Responses {
			responses[k] = v
		}
		fb.Responses = responses
	}
	return fb
}
