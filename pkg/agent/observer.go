package agent

// Observer of worker record updates. Callbacks are invoked outside of
// the record's critical section and must not block.
type WorkerObserver interface {
	// The worker transitioned to a new lifecycle state.
	WorkerStateChanged(worker *Worker, state WorkerState)

	// An asynchronous send to the worker process completed.
	// err wraps ErrRpcSendFailure on transport failure, nil on success.
	WorkerSendCompleted(worker *Worker, taskId string, err error)
}
