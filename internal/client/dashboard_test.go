package client

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type stubAPI struct {
	mu        sync.Mutex
	feedbacks []Feedback
	analytics Analytics
	err       error
	queries   []FeedbackQuery
	// gate, when set, blocks Feedbacks until closed.
	gate chan struct{}
}

func (s *stubAPI) Feedbacks(ctx context.Context, query FeedbackQuery) ([]Feedback, error) {
	s.mu.Lock()
	s.queries = append(s.queries, query)
	gate := s.gate
	s.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.feedbacks, nil
}

func (s *stubAPI) Analytics(ctx context.Context, formID string) (Analytics, error) {
	return s.analytics, nil
}

func TestDashboardRefreshAppliesSnapshot(t *testing.T) {
	api := &stubAPI{
		feedbacks: []Feedback{{ID: "a", FormID: "f1", Rating: 5}},
		analytics: Analytics{TotalFeedbacks: 1, AverageRating: 5, PositiveCount: 1},
	}
	d := NewDashboard(api, nil)
	d.SetFilter(FeedbackQuery{FormID: "f1", Rating: 5})

	snapshot, err := d.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, api.feedbacks, snapshot.Feedbacks)
	assert.Equal(t, api.analytics, snapshot.Analytics)
	assert.Equal(t, FeedbackQuery{FormID: "f1", Rating: 5}, snapshot.Filter)
	assert.Equal(t, snapshot, d.Snapshot())
	assert.False(t, d.Loading())
}

func TestDashboardFallsBackOnFailure(t *testing.T) {
	api := &stubAPI{err: errors.New("boom"), analytics: Analytics{TotalFeedbacks: 9}}
	d := NewDashboard(api, nil)

	snapshot, err := d.Refresh(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snapshot.Feedbacks)
	assert.NotNil(t, snapshot.Feedbacks)
	assert.Equal(t, Analytics{}, snapshot.Analytics)
	assert.EqualError(t, snapshot.Err, "boom")
}

func TestDashboardDiscardsStaleRefresh(t *testing.T) {
	api := &stubAPI{gate: make(chan struct{}), feedbacks: []Feedback{{ID: "old"}}}
	d := NewDashboard(api, nil)

	done := make(chan error, 1)
	go func() {
		_, err := d.Refresh(context.Background())
		done <- err
	}()

	require.Eventually(t, d.Loading, time.Second, time.Millisecond)
	d.SetFilter(FeedbackQuery{Search: "new"})
	close(api.gate)

	assert.ErrorIs(t, <-done, ErrStaleSnapshot)
	assert.Empty(t, d.Snapshot().Feedbacks)
	assert.False(t, d.Loading())

	api.mu.Lock()
	api.gate = nil
	api.mu.Unlock()
	snapshot, err := d.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "new", snapshot.Filter.Search)
}
