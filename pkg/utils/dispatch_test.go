package utils

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDispatchPool(t *testing.T) {
	pool := NewDispatchPool()
	pool.Start()
	defer pool.Stop()

	var count int32
	for i := 0; i < 100; i++ {
		pool.SubmitOrRun(func() {
			atomic.AddInt32(&count, 1)
		})
	}

	pool.Wait()
	assert.Equal(t, int32(100), atomic.LoadInt32(&count))
}

func TestDispatchPoolRunsOnSubmitterWhenFull(t *testing.T) {
	// Never started, so the queue fills up and calls overflow
	// to the submitting goroutine.
	pool := NewDispatchPool()
	defer pool.Stop()

	var count int32
	for i := 0; i < 100; i++ {
		pool.SubmitOrRun(func() {
			atomic.AddInt32(&count, 1)
		})
	}

	// Queued calls are never drained, only overflowed calls ran.
	assert.GreaterOrEqual(t, atomic.LoadInt32(&count), int32(1))
}
