package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewValidates(t *testing.T) {
	_, err := New(0, func() {}, zap.NewNop())
	require.Error(t, err)

	_, err = New(time.Second, nil, zap.NewNop())
	require.Error(t, err)

	s, err := New(time.Second, func() {}, nil)
	require.NoError(t, err)
	require.NotNil(t, s)
}

func TestRunFiresUntilCancelled(t *testing.T) {
	var ticks atomic.Int64
	s, err := New(5*time.Millisecond, func() { ticks.Add(1) }, zap.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()

	err = s.Run(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Greater(t, ticks.Load(), int64(0))
}
