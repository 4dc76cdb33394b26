package taskmon_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/irismpc/core/pkg/taskmon"
)

func TestMonitorAbortsSiblingsOnError(t *testing.T) {
	m := taskmon.New(context.Background())

	siblingCancelled := make(chan struct{})
	m.Go(func(ctx context.Context) error {
		<-ctx.Done()
		close(siblingCancelled)
		return ctx.Err()
	})
	m.Go(func(ctx context.Context) error {
		return errors.New("boom")
	})

	err := m.Wait()
	require.Error(t, err)
	require.Contains(t, err.Error(), "boom")

	select {
	case <-siblingCancelled:
	case <-time.After(time.Second):
		t.Fatal("sibling task was not cancelled")
	}
}

func TestMonitorRecoversPanic(t *testing.T) {
	m := taskmon.New(context.Background())
	m.Go(func(ctx context.Context) error {
		panic("unexpected")
	})

	err := m.Wait()
	require.Error(t, err)
	require.Contains(t, err.Error(), "panicked")
}

func TestCheckFinishedDetectsHang(t *testing.T) {
	m := taskmon.New(context.Background())
	blocked := make(chan struct{})
	m.Go(func(ctx context.Context) error {
		<-blocked // ignores cancellation, simulating a hang
		return nil
	})

	err := m.CheckFinished(50 * time.Millisecond)
	require.Error(t, err)
	require.Contains(t, err.Error(), "hung")
	close(blocked)
}
