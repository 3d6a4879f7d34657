package utils

import (
	"runtime"
	"sync"
)

// A bounded pool of goroutines used to issue calls outside of a lock.
// If all goroutines are busy, the call runs on the submitter instead
// of being queued indefinitely.
type DispatchPool struct {
	dispatcherCount int
	calls           chan func()
	done            chan struct{}
	wg              sync.WaitGroup
}

func NewDispatchPool() *DispatchPool {
	dispatcherCount := runtime.GOMAXPROCS(0)
	return &DispatchPool{
		dispatcherCount: dispatcherCount,
		calls:           make(chan func(), dispatcherCount),
		done:            make(chan struct{}),
	}
}

func (dp *DispatchPool) Start() {
	for i := 0; i < dp.dispatcherCount; i++ {
		go func() {
			for {
				select {
				case call := <-dp.calls:
					call()
					dp.wg.Done()
				case <-dp.done:
					return
				}
			}
		}()
	}
}

func (dp *DispatchPool) SubmitOrRun(call func()) {
	dp.wg.Add(1)
	select {
	case dp.calls <- call:
	case <-dp.done:
		dp.wg.Done()
	default:
		call()
		dp.wg.Done()
	}
}

func (dp *DispatchPool) Stop() {
	close(dp.done)
}

func (dp *DispatchPool) Wait() {
	dp.wg.Wait()
}
