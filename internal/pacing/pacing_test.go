package pacing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiterPacesSequentialSends(t *testing.T) {
	l := New(10, 1) // 10/s, no burst beyond the first token

	start := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, l.Wait(context.Background()))
	}
	elapsed := time.Since(start)

	// 3 tokens at 10/s with burst 1: first is free, the other two cost
	// ~100ms each, so at least ~200ms should have elapsed.
	assert.GreaterOrEqual(t, elapsed, 180*time.Millisecond)
}

func TestNoPacingNeverBlocks(t *testing.T) {
	l := NoPacing()
	start := time.Now()
	for i := 0; i < 100; i++ {
		require.NoError(t, l.Wait(context.Background()))
	}
	assert.Less(t, time.Since(start), 50*time.Millisecond)
}

func TestLimiterRespectsContextCancellation(t *testing.T) {
	l := New(1, 1)
	require.NoError(t, l.Wait(context.Background())) // consume the only burst token

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := l.Wait(ctx)
	assert.Error(t, err)
}
