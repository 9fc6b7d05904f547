package systems

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJobSystemValidation(t *testing.T) {
	_, err := NewJobSystem(0, 1)
	assert.ErrorIs(t, err, ErrNoWorkers)

	_, err = NewJobSystem(1, -1)
	assert.ErrorIs(t, err, ErrNegativeChannelSize)
}

func TestJobSystemRunsJobs(t *testing.T) {
	js, err := NewJobSystem(2, 4)
	require.NoError(t, err)
	defer js.Shutdown()

	f, err := js.Submit(context.Background(), "answer", 7, func(ctx context.Context) (interface{}, error) {
		return 42, nil
	})
	require.NoError(t, err)

	v, err := f.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.EqualValues(t, 7, f.Generation)

	v, ready, err := f.Poll()
	assert.True(t, ready)
	assert.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestJobSystemPropagatesErrors(t *testing.T) {
	js, err := NewJobSystem(1, 0)
	require.NoError(t, err)
	defer js.Shutdown()

	boom := errors.New("boom")
	f, err := js.Submit(context.Background(), "boom", 1, func(ctx context.Context) (interface{}, error) {
		return nil, boom
	})
	require.NoError(t, err)

	<-f.Done()
	_, ready, err := f.Poll()
	assert.True(t, ready)
	assert.ErrorIs(t, err, boom)
}

func TestFuturePollPending(t *testing.T) {
	js, err := NewJobSystem(1, 0)
	require.NoError(t, err)
	defer js.Shutdown()

	release := make(chan struct{})
	f, err := js.Submit(context.Background(), "slow", 1, func(ctx context.Context) (interface{}, error) {
		<-release
		return "done", nil
	})
	require.NoError(t, err)

	_, ready, _ := f.Poll()
	assert.False(t, ready)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = f.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	v, err := f.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "done", v)
}

func TestFutureCancelReachesJob(t *testing.T) {
	js, err := NewJobSystem(1, 0)
	require.NoError(t, err)
	defer js.Shutdown()

	started := make(chan struct{})
	f, err := js.Submit(context.Background(), "cancellable", 1, func(ctx context.Context) (interface{}, error) {
		close(started)
		<-ctx.Done()
		return nil, ctx.Err()
	})
	require.NoError(t, err)

	<-started
	f.Cancel()
	_, err = f.Wait(context.Background())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCancelledQueuedJobIsDropped(t *testing.T) {
	js, err := NewJobSystem(1, 2)
	require.NoError(t, err)
	defer js.Shutdown()

	release := make(chan struct{})
	blocker, err := js.Submit(context.Background(), "blocker", 1, func(ctx context.Context) (interface{}, error) {
		<-release
		return nil, nil
	})
	require.NoError(t, err)

	ran := false
	queued, err := js.Submit(context.Background(), "queued", 2, func(ctx context.Context) (interface{}, error) {
		ran = true
		return nil, nil
	})
	require.NoError(t, err)
	queued.Cancel()
	close(release)

	_, err = queued.Wait(context.Background())
	assert.ErrorIs(t, err, context.Canceled)
	_, err = blocker.Wait(context.Background())
	assert.NoError(t, err)
	assert.False(t, ran)
	assert.NotEqual(t, blocker.RequestID, queued.RequestID)
}

func TestSubmitAfterShutdown(t *testing.T) {
	js, err := NewJobSystem(1, 0)
	require.NoError(t, err)
	require.NoError(t, js.Shutdown())
	require.NoError(t, js.Shutdown())

	_, err = js.Submit(context.Background(), "late", 1, func(ctx context.Context) (interface{}, error) {
		return nil, nil
	})
	assert.ErrorIs(t, err, ErrJobSystemClosed)
}
