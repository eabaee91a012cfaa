package pubadmin

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/pubadmin/model"
)

func TestStatsCache(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewStatsCache(time.Minute)
	c.now = func() time.Time { return now }

	calls := 0
	fetch := func(context.Context) (model.DashboardStats, error) {
		calls++
		return model.DashboardStats{Blogs: calls}, nil
	}
	ctx := context.Background()

	s, err := c.Get(ctx, fetch)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Blogs)

	s, _ = c.Get(ctx, fetch)
	assert.Equal(t, 1, s.Blogs, "served from cache")

	now = now.Add(2 * time.Minute)
	s, _ = c.Get(ctx, fetch)
	assert.Equal(t, 2, s.Blogs, "expired entry is refetched")

	c.Invalidate()
	s, _ = c.Get(ctx, fetch)
	assert.Equal(t, 3, s.Blogs, "invalidated entry is refetched")
}

func TestStatsCacheDoesNotKeepErrors(t *testing.T) {
	c := NewStatsCache(time.Minute)
	boom := errors.New("boom")
	_, err := c.Get(context.Background(), func(context.Context) (model.DashboardStats, error) {
		return model.DashboardStats{}, boom
	})
	assert.ErrorIs(t, err, boom)

	s, err := c.Get(context.Background(), func(context.Context) (model.DashboardStats, error) {
		return model.DashboardStats{ExamPreps: 4}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 4, s.ExamPreps)
}

func TestStatsCacheSharesSlowFetch(t *testing.T) {
	c := NewStatsCache(time.Minute)
	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	fetch := func(context.Context) (model.DashboardStats, error) {
		if calls.Add(1) == 1 {
			close(started)
		}
		<-release
		return model.DashboardStats{Blogs: 7}, nil
	}

	done := make(chan model.DashboardStats, 1)
	go func() {
		s, _ := c.Get(context.Background(), fetch)
		done <- s
	}()
	<-started

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Get(ctx, fetch)
	assert.ErrorIs(t, err, context.Canceled, "a waiting caller is released by its own context")

	close(release)
	assert.Equal(t, 7, (<-done).Blogs)

	s, err := c.Get(context.Background(), fetch)
	require.NoError(t, err)
	assert.Equal(t, 7, s.Blogs)
	assert.EqualValues(t, 1, calls.Load())
}

func TestStatsCacheDropsFetchAfterInvalidate(t *testing.T) {
	c := NewStatsCache(time.Minute)
	calls := 0
	_, err := c.Get(context.Background(), func(context.Context) (model.DashboardStats, error) {
		calls++
		c.Invalidate()
		return model.DashboardStats{Blogs: 1}, nil
	})
	require.NoError(t, err)

	s, err := c.Get(context.Background(), func(context.Context) (model.DashboardStats, error) {
		calls++
		return model.DashboardStats{Blogs: 2}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, s.Blogs)
	assert.Equal(t, 2, calls)
}
