package workers

import (
	"chat-hub/observability"
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type countingSampler struct {
	calls atomic.Int32
}

func (c *countingSampler) Refresh() observability.Stats {
	c.calls.Add(1)
	return observability.Stats{OnlineUsers: 2}
}

func TestTelemetryWorker_SamplesEveryInterval(t *testing.T) {
	req := require.New(t)
	sampler := &countingSampler{}
	worker := NewTelemetryWorker(testLogger(), sampler, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()

	req.Eventually(func() bool { return sampler.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		// A canceled telemetry worker is finished, not crashed
		req.NoError(err)
	case <-time.After(time.Second):
		req.Fail("telemetry worker should stop with its context")
	}
}
