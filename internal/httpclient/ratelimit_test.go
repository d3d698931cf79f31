package httpclient

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingDoer struct {
	calls atomic.Int32
}

func (d *countingDoer) Do(req *http.Request) (*http.Response, error) {
	d.calls.Add(1)
	return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody, Request: req}, nil
}

func TestNewRateLimitedDoerDisabled(t *testing.T) {
	next := &countingDoer{}
	assert.Same(t, next, NewRateLimitedDoer(next, 0, 5))
}

func TestRateLimitedDoerPaces(t *testing.T) {
	next := &countingDoer{}
	doer := NewRateLimitedDoer(next, 20, 1)

	start := time.Now()
	for i := 0; i < 3; i++ {
		req, err := http.NewRequest(http.MethodGet, "http://batch.example.com/jobs", nil)
		require.NoError(t, err)
		_, err = doer.Do(req)
		require.NoError(t, err)
	}

	assert.Equal(t, int32(3), next.calls.Load())
	// burst of 1 at 20/s: the second and third requests wait ~50ms each
	assert.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)
}

func TestRateLimitedDoerHonoursContext(t *testing.T) {
	next := &countingDoer{}
	doer := NewRateLimitedDoer(next, 0.001, 1)

	first, err := http.NewRequest(http.MethodGet, "http://batch.example.com/jobs", nil)
	require.NoError(t, err)
	_, err = doer.Do(first)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	second, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://batch.example.com/jobs", nil)
	require.NoError(t, err)

	_, err = doer.Do(second)
	require.Error(t, err)
	assert.Equal(t, int32(1), next.calls.Load())
}
