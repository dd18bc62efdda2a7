package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScheduler_RunOnce_ExecutesAllJobs(t *testing.T) {
	t.Parallel()

	s := NewScheduler()
	var calls int32
	s.AddJob("count", time.Hour, func(ctx context.Context) error {
		atomic.AddInt32(&calls, 1)
		return nil
	})
	s.AddJob("fail", time.Hour, func(ctx context.Context) error {
		atomic.AddInt32(&calls, 1)
		return errors.New("boom")
	})

	s.RunOnce(context.Background())

	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestScheduler_Start_RunsJobImmediately(t *testing.T) {
	t.Parallel()

	s := NewScheduler()
	ran := make(chan struct{}, 1)
	s.AddJob("tick", time.Hour, func(ctx context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	})

	s.Start()
	defer s.Stop()

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("job did not run on start")
	}
}

func TestScheduler_AddJob_RejectedAfterStart(t *testing.T) {
	t.Parallel()

	s := NewScheduler()
	s.Start()
	defer s.Stop()

	var calls int32
	s.AddJob("late", time.Hour, func(ctx context.Context) error {
		atomic.AddInt32(&calls, 1)
		return nil
	})
	s.RunOnce(context.Background())

	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestScheduler_RunOnce_RecoversPanickingJob(t *testing.T) {
	t.Parallel()

	s := NewScheduler()
	s.AddJob("panics", time.Hour, func(ctx context.Context) error {
		panic("boom")
	})

	assert.NotPanics(t, func() { s.RunOnce(context.Background()) })
}
