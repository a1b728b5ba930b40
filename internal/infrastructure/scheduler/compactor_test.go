package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type FakeLinkPurger struct {
	DeleteExpiredLinksFunc func(ctx context.Context, before time.Time) (int64, error)
}

func (f *FakeLinkPurger) DeleteExpiredLinks(ctx context.Context, before time.Time) (int64, error) {
	if f.DeleteExpiredLinksFunc == nil {
		return 0, errors.New("not used")
	}
	return f.DeleteExpiredLinksFunc(ctx, before)
}

func TestCompactor_compact_UsesGrace(t *testing.T) {
	now := time.Date(2025, 3, 2, 12, 0, 0, 0, time.UTC)

	var got time.Time
	c := NewCompactor(zap.NewNop(), &FakeLinkPurger{
		DeleteExpiredLinksFunc: func(_ context.Context, before time.Time) (int64, error) {
			got = before
			return 2, nil
		},
	}, time.Hour, 24*time.Hour)
	c.now = func() time.Time { return now }

	c.compact(context.Background())

	assert.Equal(t, now.Add(-24*time.Hour), got)
}

func TestCompactor_Run_Disabled(t *testing.T) {
	c := NewCompactor(zap.NewNop(), &FakeLinkPurger{}, 0, time.Hour)
	require.NoError(t, c.Run(context.Background()))
}

func TestCompactor_Run_StopsOnCancel(t *testing.T) {
	var calls atomic.Int32
	c := NewCompactor(zap.NewNop(), &FakeLinkPurger{
		DeleteExpiredLinksFunc: func(_ context.Context, _ time.Time) (int64, error) {
			calls.Add(1)
			return 0, nil
		},
	}, 50*time.Millisecond, 0)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	require.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("compactor did not stop")
	}
}
