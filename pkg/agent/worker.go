package agent

import (
	"fmt"
	"io"
	"sync"

	"github.com/srand/gantry/pkg/log"
	"github.com/srand/gantry/pkg/protocol"
	"github.com/srand/gantry/pkg/rpc"
	"github.com/srand/gantry/pkg/utils"
)

// Process is the handle of an OS level worker process.
// Spawning and terminating processes is owned by the pool manager.
type Process interface {
	Pid() int
}

type processHandle int

func (p processHandle) Pid() int {
	return int(p)
}

// NewProcess wraps a pid in a Process handle.
func NewProcess(pid int) Process {
	return processHandle(pid)
}

// ObjectIdSet holds the object references a worker currently keeps live.
type ObjectIdSet map[string]struct{}

// A Worker is the supervisory record for one managed worker process,
// the execution container around a unit of distributed work such as a
// task or an actor. The record owns the process handle, the local
// connection, the resource ledger and the outbound RPC channel.
//
// The record is shared between the pool manager and the scheduler's
// dispatch path. All mutations are serialized by the embedded lock so
// that no two operations on the same record interleave partially.
// Different records are independent. RPC sends are dispatched off the
// critical section, only the local state update is synchronous.
type Worker struct {
	sync.RWMutex

	// The worker's ID. Immutable after construction.
	id string

	// The worker's process. Set exactly once, the process may not yet
	// have been forked when the record is created.
	process Process

	// The language runtime of this worker.
	language protocol.Language

	// Port that this worker listens on.
	// If port <= 0, the worker does not listen on a port.
	port int

	// Connection to the worker. Exclusively owned by the record and
	// closed on the Dead transition.
	connection io.Closer

	// Lifecycle state. Dead is terminal.
	state WorkerState

	// The worker's currently assigned task.
	assignedTaskId string

	// Job ID of the worker's current assignment.
	assignedJobId string

	// The worker's actor ID. Empty unless this worker hosts an actor.
	actorId string

	// Whether the actor's creator may exit without killing this worker.
	detachedActor bool

	// The address of the entity currently holding the lease on this worker.
	ownerAddress *protocol.Address

	// Tasks for which this worker is waiting on a data dependency.
	// A worker may be blocked on more than one nested wait.
	blockedTaskIds map[string]struct{}

	// Object references this worker currently holds live, for the
	// node's distributed reference counting.
	activeObjectIds ObjectIdSet

	// Resource accounting for this worker.
	ledger *ResourceLedger

	// Factory for the outbound RPC channel. Injected at construction
	// so records can be built without a live network stack.
	clients rpc.ClientFactory

	// Pool on which RPC sends are dispatched.
	pool *utils.DispatchPool

	// The channel used to send tasks to this worker. Constructed
	// lazily once the process and a valid port are both known.
	gateway *rpcGateway

	// Observer notified of state changes and send completions.
	observer WorkerObserver
}

// Create a new worker record. The record starts out Alive.
// NOTE: the worker process must be attached separately with SetProcess.
func NewWorker(id string, language protocol.Language, port int, connection io.Closer, clients rpc.ClientFactory, pool *utils.DispatchPool) *Worker {
	return &Worker{
		id:              id,
		language:        language,
		port:            port,
		connection:      connection,
		state:           WorkerStateAlive,
		blockedTaskIds:  map[string]struct{}{},
		activeObjectIds: ObjectIdSet{},
		ledger:          NewResourceLedger(),
		clients:         clients,
		pool:            pool,
	}
}

// Returns the worker's ID.
func (w *Worker) Id() string {
	return w.id
}

func (w *Worker) Language() protocol.Language {
	return w.language
}

func (w *Worker) Port() int {
	w.RLock()
	defer w.RUnlock()
	return w.port
}

// Returns the worker process, or nil if not yet attached.
func (w *Worker) Process() Process {
	w.RLock()
	defer w.RUnlock()
	return w.process
}

// Attach the worker process to the record. Legal exactly once,
// a second attachment is a programming error.
func (w *Worker) SetProcess(process Process) error {
	w.Lock()
	defer w.Unlock()

	if w.state.IsTerminal() {
		return utils.ErrInvalidState
	}

	if w.process != nil {
		return utils.ErrInvariantViolation
	}

	w.process = process
	return w.ensureGatewayNoLock()
}

// Returns the connection owned by the record.
func (w *Worker) Connection() io.Closer {
	return w.connection
}

func (w *Worker) State() WorkerState {
	w.RLock()
	defer w.RUnlock()
	return w.state
}

func (w *Worker) IsDead() bool {
	return w.State() == WorkerStateDead
}

func (w *Worker) IsBlocked() bool {
	return w.State() == WorkerStateBlocked
}

// Mark the worker Dead. Terminal and idempotent. Clears both resource
// pools and tears down the RPC channel and connection exactly once.
func (w *Worker) MarkDead() {
	w.Lock()

	if w.state.IsTerminal() {
		w.Unlock()
		return
	}

	w.state = WorkerStateDead
	w.assignedTaskId = ""
	w.blockedTaskIds = map[string]struct{}{}
	w.ledger.clear()

	gateway := w.gateway
	connection := w.connection
	w.gateway = nil
	w.connection = nil
	observer := w.observer
	w.Unlock()

	if gateway != nil {
		if err := gateway.Close(); err != nil {
			log.Debugf("err - worker - id: %s - gateway close: %v", w.id, err)
		}
	}

	if connection != nil {
		if err := connection.Close(); err != nil {
			log.Debugf("err - worker - id: %s - connection close: %v", w.id, err)
		}
	}

	log.Debugf("del - worker - id: %s", w.id)

	if observer != nil {
		observer.WorkerStateChanged(w, WorkerStateDead)
	}
}

// Mark the worker Blocked on a data dependency of the given task.
// An empty task id blocks on the currently assigned task. Re-entrant,
// a worker already blocked on one task may block on another.
func (w *Worker) MarkBlocked(taskId string) error {
	w.Lock()

	if w.state.IsTerminal() {
		w.Unlock()
		return utils.ErrInvalidState
	}

	if taskId == "" {
		taskId = w.assignedTaskId
	}
	if taskId == "" {
		w.Unlock()
		return utils.ErrInvalidState
	}

	w.blockedTaskIds[taskId] = struct{}{}

	changed := w.state != WorkerStateBlocked
	w.state = WorkerStateBlocked
	observer := w.observer
	w.Unlock()

	if changed && observer != nil {
		observer.WorkerStateChanged(w, WorkerStateBlocked)
	}
	return nil
}

// Remove a blocked task id. The worker returns to Alive when the last
// outstanding id is removed, removing a non-last id keeps it Blocked.
func (w *Worker) MarkUnblocked(taskId string) error {
	w.Lock()

	if w.state.IsTerminal() {
		w.Unlock()
		return utils.ErrInvalidState
	}

	delete(w.blockedTaskIds, taskId)

	changed := false
	if w.state == WorkerStateBlocked && len(w.blockedTaskIds) == 0 {
		w.state = WorkerStateAlive
		changed = true
	}
	observer := w.observer
	w.Unlock()

	if changed && observer != nil {
		observer.WorkerStateChanged(w, WorkerStateAlive)
	}
	return nil
}

// Returns the task ids this worker is currently blocked on.
func (w *Worker) BlockedTaskIds() []string {
	w.RLock()
	defer w.RUnlock()

	ids := make([]string, 0, len(w.blockedTaskIds))
	for id := range w.blockedTaskIds {
		ids = append(ids, id)
	}
	return ids
}

// Assign a task to the worker and forward the payload to the worker
// process. The send is dispatched asynchronously, its outcome is
// reported through the observer. Fails if a task is already assigned
// or if the record has no RPC channel yet.
//
// Assignment while Blocked is permitted so that the scheduler may
// pipeline the next task while a dependency resolves.
func (w *Worker) AssignTask(task *protocol.Task, resourceIds ResourceIdSet, instances ResourceInstances) error {
	w.Lock()

	if w.state.IsTerminal() {
		w.Unlock()
		return utils.ErrInvalidState
	}

	if w.assignedTaskId != "" {
		w.Unlock()
		return utils.ErrAlreadyAssigned
	}

	if w.gateway == nil {
		w.Unlock()
		return utils.ErrInvalidState
	}

	if err := w.ledger.ReserveTask(resourceIds, instances); err != nil {
		w.Unlock()
		return err
	}

	w.assignedTaskId = task.TaskId
	w.assignedJobId = task.JobId

	gateway := w.gateway
	taskId := task.TaskId
	w.Unlock()

	log.Debugf("run - task - id: %s, worker: %s", taskId, w.id)

	gateway.Send(task, func(err error) {
		// The worker may have died while the send was in flight.
		// Resource cleanup happened on that transition, only report.
		if err != nil {
			log.Debugf("err - task - id: %s, worker: %s - %v", taskId, w.id, err)
		}

		w.RLock()
		observer := w.observer
		w.RUnlock()

		if observer != nil {
			observer.WorkerSendCompleted(w, taskId, err)
		}
	})

	return nil
}

// Return and clear the task-scoped reservation and assignment.
// Idempotent, callers on the completion path may race a Dead transition.
func (w *Worker) ReleaseTask() ResourceIdSet {
	w.Lock()
	defer w.Unlock()

	w.assignedTaskId = ""
	return w.ledger.ReleaseTask()
}

func (w *Worker) AssignedTaskId() string {
	w.RLock()
	defer w.RUnlock()
	return w.assignedTaskId
}

func (w *Worker) AssignedJobId() string {
	w.RLock()
	defer w.RUnlock()
	return w.assignedJobId
}

// Assign a job to the worker. Workers are bound to a single job for
// their lifetime.
func (w *Worker) AssignJobId(jobId string) error {
	w.Lock()
	defer w.Unlock()

	if w.assignedJobId != "" && w.assignedJobId != jobId {
		return utils.ErrInvariantViolation
	}

	w.assignedJobId = jobId
	return nil
}

// Assign an actor id to the worker. Conflicting reassignment is a
// programming error.
func (w *Worker) AssignActorId(actorId string) error {
	w.Lock()
	defer w.Unlock()

	if w.state.IsTerminal() {
		return utils.ErrInvalidState
	}

	if actorId == "" {
		return utils.ErrInvariantViolation
	}

	if w.actorId != "" && w.actorId != actorId {
		return utils.ErrInvariantViolation
	}

	w.actorId = actorId
	return nil
}

func (w *Worker) ActorId() string {
	w.RLock()
	defer w.RUnlock()
	return w.actorId
}

// Mark the actor detached, i.e. its creator may exit without killing
// this worker. The flag is sticky.
func (w *Worker) MarkDetachedActor() error {
	w.Lock()
	defer w.Unlock()

	if w.state.IsTerminal() {
		return utils.ErrInvalidState
	}

	w.detachedActor = true
	return nil
}

func (w *Worker) IsDetachedActor() bool {
	w.RLock()
	defer w.RUnlock()
	return w.detachedActor
}

// Reserve resources for the worker's entire lifetime.
// Only legal for actors.
func (w *Worker) ReserveLifetime(resourceIds ResourceIdSet, instances ResourceInstances) error {
	w.Lock()
	defer w.Unlock()

	if w.state.IsTerminal() || w.actorId == "" {
		return utils.ErrInvalidState
	}

	return w.ledger.ReserveLifetime(resourceIds, instances)
}

// Return and clear the lifetime reservation. Idempotent.
func (w *Worker) ReleaseLifetime() ResourceIdSet {
	w.Lock()
	defer w.Unlock()
	return w.ledger.ReleaseLifetime()
}

// Record CPU consumed beyond the reservation while oversubscribed.
func (w *Worker) AcquireCpuBorrow(amounts []float64) error {
	w.Lock()
	defer w.Unlock()

	if w.state.IsTerminal() {
		return utils.ErrInvalidState
	}

	return w.ledger.AcquireCpuBorrow(amounts)
}

// Zero the borrowed CPU tracker and return the prior amounts.
func (w *Worker) ReleaseCpuBorrow() []float64 {
	w.Lock()
	defer w.Unlock()
	return w.ledger.ReleaseCpuBorrow()
}

func (w *Worker) TaskResourceIds() ResourceIdSet {
	w.RLock()
	defer w.RUnlock()
	return w.ledger.TaskResourceIds()
}

func (w *Worker) LifetimeResourceIds() ResourceIdSet {
	w.RLock()
	defer w.RUnlock()
	return w.ledger.LifetimeResourceIds()
}

func (w *Worker) AllocatedInstances() ResourceInstances {
	w.RLock()
	defer w.RUnlock()
	return w.ledger.AllocatedInstances()
}

func (w *Worker) LifetimeAllocatedInstances() ResourceInstances {
	w.RLock()
	defer w.RUnlock()
	return w.ledger.LifetimeAllocatedInstances()
}

func (w *Worker) BorrowedCpuInstances() []float64 {
	w.RLock()
	defer w.RUnlock()
	return w.ledger.BorrowedCpuInstances()
}

// Returns true if the ledger holds no reservations or borrows.
func (w *Worker) LedgerEmpty() bool {
	w.RLock()
	defer w.RUnlock()
	return w.ledger.Empty()
}

// Notify the worker's actor call queue that an awaited argument
// resolved. Forwarded verbatim, no local state mutation. The caller
// must separately unblock the worker if this was the last dependency.
func (w *Worker) DirectActorCallArgWaitComplete(tag int64) error {
	w.RLock()
	gateway := w.gateway
	state := w.state
	w.RUnlock()

	if state.IsTerminal() || gateway == nil {
		return utils.ErrInvalidState
	}

	gateway.Notify(tag, func(err error) {
		if err != nil {
			log.Debugf("err - worker - id: %s - arg wait complete %d: %v", w.id, tag, err)
		}
	})

	return nil
}

// Record that this worker's lease has been handed to the given owner
// and construct the RPC channel if not yet present.
func (w *Worker) WorkerLeaseGranted(address string, port int) error {
	if address == "" {
		return utils.ErrInvalidAddress
	}
	if _, err := utils.ParseGrpcUrl(fmt.Sprintf("tcp://%s:%d", address, port)); err != nil {
		return utils.ErrInvalidAddress
	}

	w.Lock()
	defer w.Unlock()

	if w.state.IsTerminal() {
		return utils.ErrInvalidState
	}

	w.ownerAddress = &protocol.Address{
		Host: address,
		Port: int32(port),
	}

	return w.ensureGatewayNoLock()
}

// Set the address of the entity currently holding the lease.
func (w *Worker) SetOwnerAddress(address *protocol.Address) {
	w.Lock()
	defer w.Unlock()
	w.ownerAddress = address
}

func (w *Worker) OwnerAddress() *protocol.Address {
	w.RLock()
	defer w.RUnlock()
	return w.ownerAddress
}

// Store the set of object references the worker holds live.
// Ownership of the set transfers to the record.
func (w *Worker) SetActiveObjectIds(objectIds ObjectIdSet) {
	w.Lock()
	defer w.Unlock()
	w.activeObjectIds = objectIds
}

func (w *Worker) ActiveObjectIds() ObjectIdSet {
	w.RLock()
	defer w.RUnlock()
	return w.activeObjectIds
}

// Returns the low level RPC client for direct sends bypassing the
// gateway, e.g. for streaming protocols. Nil until the channel exists.
func (w *Worker) RpcClient() rpc.CoreWorker {
	w.RLock()
	defer w.RUnlock()

	if w.gateway == nil {
		return nil
	}
	return w.gateway.Client()
}

// Install the observer notified of record updates.
func (w *Worker) SetObserver(observer WorkerObserver) {
	w.Lock()
	defer w.Unlock()
	w.observer = observer
}

// Construct the RPC channel if the process and a valid port are both
// known. Workers are node local, the channel connects to the loopback
// interface on the worker's listening port.
func (w *Worker) ensureGatewayNoLock() error {
	if w.gateway != nil || w.process == nil || w.port <= 0 {
		return nil
	}

	client, err := w.clients.NewCoreWorker("127.0.0.1", w.port)
	if err != nil {
		return err
	}

	w.gateway = newRpcGateway(client, w.pool)
	return nil
}
