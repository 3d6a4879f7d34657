package agent

import (
	"io"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/srand/gantry/pkg/log"
	"github.com/srand/gantry/pkg/protocol"
	"github.com/srand/gantry/pkg/rpc"
	"github.com/srand/gantry/pkg/utils"
)

type WorkerEventType string

const (
	WorkerEventCreated      WorkerEventType = "created"
	WorkerEventStateChanged WorkerEventType = "state_changed"
	WorkerEventSendDone     WorkerEventType = "send_done"
	WorkerEventDestroyed    WorkerEventType = "destroyed"
)

// An update about a worker record, fanned out to subscribed observers
// such as the scheduler's dispatch path.
type WorkerEvent struct {
	WorkerId string
	Type     WorkerEventType
	State    WorkerState
	TaskId   string
	Err      error
}

// Registry statistics
type RegistryStatistics struct {
	// Number of registered workers
	Workers int64

	// Workers per lifecycle state
	Alive   int64
	Blocked int64
	Dead    int64

	// Number of workers with an assigned task
	AssignedTasks int64

	// Number of workers hosting an actor
	Actors int64

	// Total borrowed CPU across all workers
	BorrowedCpus float64

	// Total number of workers created
	CreatedWorkers int64

	// Total number of workers destroyed
	DestroyedWorkers int64
}

// The registry keeps one record per managed worker process. It is the
// surface the pool manager drives: records are created when a process
// registers with the agent and destroyed only once they are Dead with
// an empty ledger.
type Registry struct {
	sync.RWMutex

	// Map of worker id to record
	workers map[string]*Worker

	// Factory for outbound RPC channels, handed to every record.
	clients rpc.ClientFactory

	// Pool on which records dispatch their RPC sends.
	pool *utils.DispatchPool

	// Fan-out of worker events to subscribers.
	events *utils.Broadcast[*WorkerEvent]

	// Statistics
	numCreated   int64
	numDestroyed int64
}

func NewRegistry(clients rpc.ClientFactory) *Registry {
	pool := utils.NewDispatchPool()
	pool.Start()

	return &Registry{
		workers: map[string]*Worker{},
		clients: clients,
		pool:    pool,
		events:  utils.NewBroadcast[*WorkerEvent](),
	}
}

// Close the registry. Marks all workers dead and stops event delivery.
func (r *Registry) Close() {
	r.Lock()
	workers := make([]*Worker, 0, len(r.workers))
	for _, worker := range r.workers {
		workers = append(workers, worker)
	}
	r.Unlock()

	for _, worker := range workers {
		worker.MarkDead()
	}

	r.pool.Stop()
	r.events.Close()
}

// Create a record for a newly registered worker process.
// An empty id is replaced with a generated one.
func (r *Registry) CreateWorker(id string, language protocol.Language, port int, connection io.Closer) (*Worker, error) {
	if id == "" {
		uuid, _ := uuid.NewRandom()
		id = uuid.String()
	}

	r.Lock()

	if _, ok := r.workers[id]; ok {
		r.Unlock()
		return nil, utils.ErrInvariantViolation
	}

	worker := NewWorker(id, language, port, connection, r.clients, r.pool)
	worker.SetObserver(r)
	r.workers[id] = worker
	atomic.AddInt64(&r.numCreated, 1)
	r.Unlock()

	log.Infof("new - worker - id: %s, language: %s, port: %d", id, language, port)

	r.events.Send(&WorkerEvent{
		WorkerId: id,
		Type:     WorkerEventCreated,
		State:    WorkerStateAlive,
	})

	return worker, nil
}

// Returns the record with the given id.
func (r *Registry) GetWorker(id string) (*Worker, error) {
	r.RLock()
	defer r.RUnlock()

	worker, ok := r.workers[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return worker, nil
}

// Attach a process handle to a registered worker.
func (r *Registry) SetProcess(id string, process Process) error {
	worker, err := r.GetWorker(id)
	if err != nil {
		return err
	}
	return worker.SetProcess(process)
}

// Remove a record. Permitted only once the worker is Dead and no
// ledger resources remain outstanding.
func (r *Registry) DestroyWorker(id string) error {
	r.Lock()

	worker, ok := r.workers[id]
	if !ok {
		r.Unlock()
		return utils.ErrNotFound
	}

	if !worker.IsDead() || !worker.LedgerEmpty() {
		r.Unlock()
		return utils.ErrInvalidState
	}

	delete(r.workers, id)
	atomic.AddInt64(&r.numDestroyed, 1)
	r.Unlock()

	log.Infof("del - worker - id: %s", id)

	r.events.Send(&WorkerEvent{
		WorkerId: id,
		Type:     WorkerEventDestroyed,
		State:    WorkerStateDead,
	})

	return nil
}

// Iterate all records. Return false from the callback to stop.
func (r *Registry) Walk(walker func(*Worker) bool) {
	r.RLock()
	workers := make([]*Worker, 0, len(r.workers))
	for _, worker := range r.workers {
		workers = append(workers, worker)
	}
	r.RUnlock()

	for _, worker := range workers {
		if !walker(worker) {
			return
		}
	}
}

// Subscribe to worker events.
// The consumer must be Close():ed when no longer interested.
func (r *Registry) Subscribe() *utils.BroadcastConsumer[*WorkerEvent] {
	return r.events.NewConsumer()
}

// Registry statistics
func (r *Registry) Statistics() *RegistryStatistics {
	stats := &RegistryStatistics{
		CreatedWorkers:   atomic.LoadInt64(&r.numCreated),
		DestroyedWorkers: atomic.LoadInt64(&r.numDestroyed),
	}

	r.Walk(func(worker *Worker) bool {
		stats.Workers++

		switch worker.State() {
		case WorkerStateAlive:
			stats.Alive++
		case WorkerStateBlocked:
			stats.Blocked++
		case WorkerStateDead:
			stats.Dead++
		}

		if worker.AssignedTaskId() != "" {
			stats.AssignedTasks++
		}

		if worker.ActorId() != "" {
			stats.Actors++
		}

		for _, amount := range worker.BorrowedCpuInstances() {
			stats.BorrowedCpus += amount
		}

		return true
	})

	return stats
}

// Implementation of WorkerObserver interface
func (r *Registry) WorkerStateChanged(worker *Worker, state WorkerState) {
	r.events.Send(&WorkerEvent{
		WorkerId: worker.Id(),
		Type:     WorkerEventStateChanged,
		State:    state,
	})
}

// Implementation of WorkerObserver interface
func (r *Registry) WorkerSendCompleted(worker *Worker, taskId string, err error) {
	r.events.Send(&WorkerEvent{
		WorkerId: worker.Id(),
		Type:     WorkerEventSendDone,
		State:    worker.State(),
		TaskId:   taskId,
		Err:      err,
	})
}
