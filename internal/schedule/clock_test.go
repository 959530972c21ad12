package schedule

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextOccurrence(t *testing.T) {
	loc := time.UTC
	now := time.Date(2024, 3, 1, 10, 30, 0, 0, loc)

	tests := []struct {
		name                 string
		hour, minute, second int
		want                 time.Time
	}{
		{
			name: "later today",
			hour: 18, minute: 0, second: 0,
			want: time.Date(2024, 3, 1, 18, 0, 0, 0, loc),
		},
		{
			name: "already passed rolls to tomorrow",
			hour: 9, minute: 0, second: 0,
			want: time.Date(2024, 3, 2, 9, 0, 0, 0, loc),
		},
		{
			name: "exact moment fires now",
			hour: 10, minute: 30, second: 0,
			want: now,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextOccurrence(now, tt.hour, tt.minute, tt.second)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWaitUntilCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// A target a day away must not block a canceled context.
	err := WaitUntil(ctx, time.Now().Add(-time.Hour).Hour(), 0, 0)
	require.ErrorIs(t, err, context.Canceled)
}

func TestWaitUntilUnblocks(t *testing.T) {
	target := time.Now().Add(1200 * time.Millisecond)

	done := make(chan error, 1)
	go func() {
		done <- WaitUntil(context.Background(), target.Hour(), target.Minute(), target.Second())
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
		assert.False(t, time.Now().Before(target.Truncate(time.Second)))
	case <-time.After(5 * time.Second):
		t.Fatal("WaitUntil never fired")
	}
}

type countingTask struct {
	runs   atomic.Int32
	cancel context.CancelFunc
	err    error
}

func (c *countingTask) Name() string { return "counting" }

func (c *countingTask) Run(context.Context) error {
	if c.runs.Add(1) >= 1 {
		c.cancel()
	}
	return c.err
}

func TestDailyRunsAndStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	task := &countingTask{cancel: cancel}
	target := time.Now().Add(1200 * time.Millisecond)
	daily, err := NewDaily(task, target.Hour(), target.Minute(), target.Second())
	require.NoError(t, err)

	err = daily.Start(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(1), task.runs.Load())
}

func TestDailyKeepsGoingAfterTaskError(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	task := &countingTask{cancel: cancel, err: errors.New("boom")}
	target := time.Now().Add(1200 * time.Millisecond)
	daily, err := NewDaily(task, target.Hour(), target.Minute(), target.Second())
	require.NoError(t, err)

	// The failing run is swallowed; Start only returns on cancellation.
	err = daily.Start(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(1), task.runs.Load())
}

func TestNewDailyValidatesClock(t *testing.T) {
	task := &countingTask{cancel: func() {}}

	_, err := NewDaily(task, 24, 0, 0)
	require.Error(t, err)
	_, err = NewDaily(task, 0, 60, 0)
	require.Error(t, err)
	_, err = NewDaily(task, 0, 0, 60)
	require.Error(t, err)
}
