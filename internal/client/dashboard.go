package client

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrStaleSnapshot is returned by Refresh when the filter changed while the
// fetch was in flight. The result is discarded.
var ErrStaleSnapshot = errors.New("dashboard: filter changed during refresh")

// DashboardAPI is the subset of Client the dashboard reads from.
type DashboardAPI interface {
	Feedbacks(ctx context.Context, query FeedbackQuery) ([]Feedback, error)
	Analytics(ctx context.Context, formID string) (Analytics, error)
}

// Snapshot is a feedback listing and its analytics fetched for one filter.
type Snapshot struct {
	Filter     FeedbackQuery
	Generation uint64
	Feedbacks  []Feedback
	Analytics  Analytics
	// Err holds the fetch failure the snapshot fell back from, if any.
	Err error
}

// Dashboard keeps the list and analytics views in step with the filter.
type Dashboard struct {
	api    DashboardAPI
	logger *zap.SugaredLogger

	mu         sync.Mutex
	filter     FeedbackQuery
	generation uint64
	inflight   int
	current    Snapshot
}

func NewDashboard(api DashboardAPI, logger *zap.SugaredLogger) *Dashboard {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Dashboard{
		api:     api,
		logger:  logger,
		current: Snapshot{Feedbacks: []Feedback{}},
	}
}

func (d *Dashboard) Filter() FeedbackQuery {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.filter
}

// SetFilter replaces the filter and invalidates in-flight refreshes.
func (d *Dashboard) SetFilter(filter FeedbackQuery) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.filter = filter
	d.generation++
	return d.generation
}

// Loading reports whether any refresh is in flight.
func (d *Dashboard) Loading() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.inflight > 0
}

// Snapshot returns the last applied state.
func (d *Dashboard) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current
}

// Refresh fetches the list and analytics for the current filter together and
// applies both only if the filter is unchanged when they arrive. Fetch
// failures fall back to an empty list and zero analytics.
func (d *Dashboard) Refresh(ctx context.Context) (Snapshot, error) {
	d.mu.Lock()
	filter, generation := d.filter, d.generation
	d.inflight++
	d.mu.Unlock()

	var (
		feedbacks []Feedback
		analytics Analytics
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		feedbacks, err = d.api.Feedbacks(gctx, filter)
		return err
	})
	g.Go(func() error {
		var err error
		analytics, err = d.api.Analytics(gctx, filter.FormID)
		return err
	})
	err := g.Wait()

	snapshot := Snapshot{Filter: filter, Generation: generation, Feedbacks: feedbacks, Analytics: analytics}
	if err != nil {
		d.logger.Warnw("dashboard refresh failed", "error", err, "formId", filter.FormID)
		snapshot.Feedbacks = []Feedback{}
		snapshot.Analytics = Analytics{}
		snapshot.Err = err
	}
	if snapshot.Feedbacks == nil {
		snapshot.Feedbacks = []Feedback{}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.inflight--
	if generation != d.generation {
		return Snapshot{}, ErrStaleSnapshot
	}
	d.current = snapshot
	return snapshot, nil
}
