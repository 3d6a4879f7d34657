package agent

import (
	"context"
	"testing"

	"github.com/srand/gantry/pkg/protocol"
	"github.com/srand/gantry/pkg/rpc"
	"github.com/srand/gantry/pkg/utils"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type CoreWorkerMock struct {
	mock.Mock
}

func (m *CoreWorkerMock) PushTask(ctx context.Context, task *protocol.Task) error {
	args := m.Called(task)
	return args.Error(0)
}

func (m *CoreWorkerMock) ArgWaitComplete(ctx context.Context, tag int64) error {
	args := m.Called(tag)
	return args.Error(0)
}

func (m *CoreWorkerMock) Close() error {
	args := m.Called()
	return args.Error(0)
}

type ClientFactoryMock struct {
	mock.Mock
}

func (m *ClientFactoryMock) NewCoreWorker(address string, port int) (rpc.CoreWorker, error) {
	args := m.Called(address, port)
	if client := args.Get(0); client != nil {
		return client.(rpc.CoreWorker), args.Error(1)
	}
	return nil, args.Error(1)
}

type ObserverMock struct {
	mock.Mock
}

func (m *ObserverMock) WorkerStateChanged(worker *Worker, state WorkerState) {
	m.Called(worker, state)
}

func (m *ObserverMock) WorkerSendCompleted(worker *Worker, taskId string, err error) {
	m.Called(worker, taskId, err)
}

type WorkerTestSuite struct {
	suite.Suite
	pool    *utils.DispatchPool
	client  *CoreWorkerMock
	clients *ClientFactoryMock
	worker  *Worker
}

func (suite *WorkerTestSuite) SetupTest() {
	suite.pool = utils.NewDispatchPool()
	suite.pool.Start()

	suite.client = new(CoreWorkerMock)
	suite.clients = new(ClientFactoryMock)
	suite.clients.On("NewCoreWorker", "127.0.0.1", 4000).Return(suite.client, nil)

	suite.worker = NewWorker("worker-1", protocol.Language_PYTHON, 4000, nil, suite.clients, suite.pool)
}

func (suite *WorkerTestSuite) TearDownTest() {
	suite.pool.Stop()
}

func (suite *WorkerTestSuite) attachProcess() {
	err := suite.worker.SetProcess(NewProcess(1234))
	suite.NoError(err)
}

func (suite *WorkerTestSuite) TestStartsAlive() {
	suite.Equal(WorkerStateAlive, suite.worker.State())
	suite.False(suite.worker.IsDead())
	suite.False(suite.worker.IsBlocked())
	suite.True(suite.worker.LedgerEmpty())
	suite.Nil(suite.worker.Process())
	suite.Nil(suite.worker.RpcClient())
}

func (suite *WorkerTestSuite) TestSetProcessOnce() {
	suite.attachProcess()
	suite.Equal(1234, suite.worker.Process().Pid())
	suite.NotNil(suite.worker.RpcClient())

	err := suite.worker.SetProcess(NewProcess(5678))
	suite.ErrorIs(err, utils.ErrInvariantViolation)
	suite.Equal(1234, suite.worker.Process().Pid())
}

func (suite *WorkerTestSuite) TestNoChannelWithoutPort() {
	worker := NewWorker("worker-2", protocol.Language_JAVA, 0, nil, suite.clients, suite.pool)
	err := worker.SetProcess(NewProcess(1))
	suite.NoError(err)
	suite.Nil(worker.RpcClient())
}

func (suite *WorkerTestSuite) TestBlockedOnMultipleTasks() {
	err := suite.worker.MarkBlocked("task-1")
	suite.NoError(err)
	suite.True(suite.worker.IsBlocked())

	err = suite.worker.MarkBlocked("task-2")
	suite.NoError(err)
	suite.ElementsMatch(suite.worker.BlockedTaskIds(), []string{"task-1", "task-2"})

	// Removing one of two dependencies keeps the worker blocked.
	err = suite.worker.MarkUnblocked("task-1")
	suite.NoError(err)
	suite.True(suite.worker.IsBlocked())

	err = suite.worker.MarkUnblocked("task-2")
	suite.NoError(err)
	suite.Equal(WorkerStateAlive, suite.worker.State())
	suite.Empty(suite.worker.BlockedTaskIds())
}

func (suite *WorkerTestSuite) TestBlockedDefaultsToAssignedTask() {
	suite.attachProcess()

	task := &protocol.Task{TaskId: "task-1", JobId: "job-1"}
	suite.client.On("PushTask", task).Return(nil)

	err := suite.worker.AssignTask(task, nil, nil)
	suite.NoError(err)
	suite.pool.Wait()

	err = suite.worker.MarkBlocked("")
	suite.NoError(err)
	suite.Equal([]string{"task-1"}, suite.worker.BlockedTaskIds())
}

func (suite *WorkerTestSuite) TestBlockedWithoutTaskFails() {
	err := suite.worker.MarkBlocked("")
	suite.ErrorIs(err, utils.ErrInvalidState)
	suite.Equal(WorkerStateAlive, suite.worker.State())
}

func (suite *WorkerTestSuite) TestStateChangeObserved() {
	observer := new(ObserverMock)
	suite.worker.SetObserver(observer)

	observer.On("WorkerStateChanged", suite.worker, WorkerStateBlocked).Once()
	observer.On("WorkerStateChanged", suite.worker, WorkerStateAlive).Once()

	suite.worker.MarkBlocked("task-1")
	// A second dependency does not re-announce the Blocked state.
	suite.worker.MarkBlocked("task-2")
	suite.worker.MarkUnblocked("task-1")
	suite.worker.MarkUnblocked("task-2")

	observer.AssertExpectations(suite.T())
}

func (suite *WorkerTestSuite) TestAssignTask() {
	suite.attachProcess()

	observer := new(ObserverMock)
	suite.worker.SetObserver(observer)

	task := &protocol.Task{TaskId: "task-1", JobId: "job-1"}
	ids := ResourceIdSet{"cpu": {"cpu-0"}}
	instances := ResourceInstances{"cpu": {1.0}}

	suite.client.On("PushTask", task).Return(nil)
	observer.On("WorkerSendCompleted", suite.worker, "task-1", nil).Once()

	err := suite.worker.AssignTask(task, ids, instances)
	suite.NoError(err)
	suite.Equal("task-1", suite.worker.AssignedTaskId())
	suite.Equal("job-1", suite.worker.AssignedJobId())
	suite.Equal(ids, suite.worker.TaskResourceIds())

	// A second assignment must be rejected until the first is released.
	err = suite.worker.AssignTask(&protocol.Task{TaskId: "task-2"}, nil, nil)
	suite.ErrorIs(err, utils.ErrAlreadyAssigned)

	suite.pool.Wait()
	observer.AssertExpectations(suite.T())

	released := suite.worker.ReleaseTask()
	suite.Equal(ids, released)
	suite.Empty(suite.worker.AssignedTaskId())
	// The job binding survives task release.
	suite.Equal("job-1", suite.worker.AssignedJobId())
	suite.True(suite.worker.LedgerEmpty())
}

func (suite *WorkerTestSuite) TestAssignTaskSendFailure() {
	suite.attachProcess()

	observer := new(ObserverMock)
	suite.worker.SetObserver(observer)

	task := &protocol.Task{TaskId: "task-1"}
	suite.client.On("PushTask", task).Return(utils.ErrRpcSendFailure)
	observer.On("WorkerSendCompleted", suite.worker, "task-1", mock.MatchedBy(func(err error) bool {
		return err != nil
	})).Once()

	err := suite.worker.AssignTask(task, nil, nil)
	suite.NoError(err)

	suite.pool.Wait()
	observer.AssertExpectations(suite.T())
}

func (suite *WorkerTestSuite) TestAssignTaskWithoutChannel() {
	err := suite.worker.AssignTask(&protocol.Task{TaskId: "task-1"}, nil, nil)
	suite.ErrorIs(err, utils.ErrInvalidState)
}

func (suite *WorkerTestSuite) TestAssignTaskWhileBlocked() {
	suite.attachProcess()

	err := suite.worker.MarkBlocked("task-0")
	suite.NoError(err)

	task := &protocol.Task{TaskId: "task-1"}
	suite.client.On("PushTask", task).Return(nil)

	err = suite.worker.AssignTask(task, nil, nil)
	suite.NoError(err)
	suite.pool.Wait()
}

func (suite *WorkerTestSuite) TestMarkDead() {
	suite.attachProcess()

	task := &protocol.Task{TaskId: "task-1"}
	suite.client.On("PushTask", task).Return(nil)
	suite.client.On("Close").Return(nil).Once()

	suite.NoError(suite.worker.AssignActorId("actor-1"))
	suite.NoError(suite.worker.ReserveLifetime(ResourceIdSet{"gpu": {"gpu-0"}}, nil))

	err := suite.worker.AssignTask(task, ResourceIdSet{"cpu": {"cpu-0"}}, nil)
	suite.NoError(err)
	err = suite.worker.AcquireCpuBorrow([]float64{0.5})
	suite.NoError(err)
	suite.pool.Wait()

	// Both ledgers are cleared in the same transition.
	suite.worker.MarkDead()
	suite.True(suite.worker.IsDead())
	suite.True(suite.worker.LedgerEmpty())
	suite.Empty(suite.worker.TaskResourceIds())
	suite.Empty(suite.worker.LifetimeResourceIds())
	suite.Empty(suite.worker.AssignedTaskId())
	suite.Empty(suite.worker.BlockedTaskIds())
	suite.Nil(suite.worker.RpcClient())

	// Cleanup paths racing the Dead transition see an empty release.
	suite.Empty(suite.worker.ReleaseTask())
	suite.Empty(suite.worker.ReleaseLifetime())

	// Terminal and idempotent, the channel is closed exactly once.
	suite.worker.MarkDead()
	suite.True(suite.worker.IsDead())
	suite.client.AssertExpectations(suite.T())

	suite.ErrorIs(suite.worker.MarkBlocked("task-2"), utils.ErrInvalidState)
	suite.ErrorIs(suite.worker.MarkUnblocked("task-2"), utils.ErrInvalidState)
	suite.ErrorIs(suite.worker.AssignTask(task, nil, nil), utils.ErrInvalidState)
	suite.ErrorIs(suite.worker.AssignActorId("actor-1"), utils.ErrInvalidState)
	suite.ErrorIs(suite.worker.MarkDetachedActor(), utils.ErrInvalidState)
	suite.ErrorIs(suite.worker.AcquireCpuBorrow([]float64{1.0}), utils.ErrInvalidState)
	suite.ErrorIs(suite.worker.SetProcess(NewProcess(1)), utils.ErrInvalidState)
}

func (suite *WorkerTestSuite) TestActorAssignment() {
	err := suite.worker.AssignActorId("")
	suite.ErrorIs(err, utils.ErrInvariantViolation)

	err = suite.worker.AssignActorId("actor-1")
	suite.NoError(err)
	suite.Equal("actor-1", suite.worker.ActorId())

	// Reassigning the same id is a no-op, a different id is an error.
	suite.NoError(suite.worker.AssignActorId("actor-1"))
	suite.ErrorIs(suite.worker.AssignActorId("actor-2"), utils.ErrInvariantViolation)

	suite.False(suite.worker.IsDetachedActor())
	suite.NoError(suite.worker.MarkDetachedActor())
	suite.True(suite.worker.IsDetachedActor())
	suite.NoError(suite.worker.MarkDetachedActor())
	suite.True(suite.worker.IsDetachedActor())
}

func (suite *WorkerTestSuite) TestLifetimeRequiresActor() {
	ids := ResourceIdSet{"cpu": {"cpu-0"}}

	err := suite.worker.ReserveLifetime(ids, nil)
	suite.ErrorIs(err, utils.ErrInvalidState)

	suite.NoError(suite.worker.AssignActorId("actor-1"))

	err = suite.worker.ReserveLifetime(ids, ResourceInstances{"cpu": {1.0}})
	suite.NoError(err)
	suite.Equal(ids, suite.worker.LifetimeResourceIds())

	err = suite.worker.ReserveLifetime(ids, nil)
	suite.ErrorIs(err, utils.ErrInvalidState)

	released := suite.worker.ReleaseLifetime()
	suite.Equal(ids, released)
	suite.True(suite.worker.LedgerEmpty())
}

func (suite *WorkerTestSuite) TestActiveObjectIds() {
	suite.Empty(suite.worker.ActiveObjectIds())

	objects := ObjectIdSet{"object-1": {}, "object-2": {}}
	suite.worker.SetActiveObjectIds(objects)
	suite.Equal(objects, suite.worker.ActiveObjectIds())

	suite.worker.SetActiveObjectIds(ObjectIdSet{})
	suite.Empty(suite.worker.ActiveObjectIds())
}

func (suite *WorkerTestSuite) TestLeaseGranted() {
	err := suite.worker.WorkerLeaseGranted("", 4000)
	suite.ErrorIs(err, utils.ErrInvalidAddress)

	err = suite.worker.WorkerLeaseGranted("10.0.0.1", 4000)
	suite.NoError(err)

	owner := suite.worker.OwnerAddress()
	suite.NotNil(owner)
	suite.Equal("10.0.0.1", owner.Host)
	suite.Equal(int32(4000), owner.Port)

	suite.worker.MarkDead()

	err = suite.worker.WorkerLeaseGranted("10.0.0.1", 4000)
	suite.ErrorIs(err, utils.ErrInvalidState)
}

func (suite *WorkerTestSuite) TestLeaseGrantedCreatesChannel() {
	// No process attached yet, but the lease names a reachable port.
	suite.Nil(suite.worker.RpcClient())

	err := suite.worker.WorkerLeaseGranted("10.0.0.1", 4000)
	suite.NoError(err)
	suite.Nil(suite.worker.RpcClient())

	suite.attachProcess()
	suite.NotNil(suite.worker.RpcClient())
}

func (suite *WorkerTestSuite) TestTaskDependencyRoundTrip() {
	suite.attachProcess()

	task := &protocol.Task{TaskId: "task-1"}
	ids := ResourceIdSet{"cpu": {"cpu-0"}}

	suite.client.On("PushTask", task).Return(nil)
	suite.client.On("ArgWaitComplete", int64(1)).Return(nil)

	suite.NoError(suite.worker.AssignTask(task, ids, ResourceInstances{"cpu": {1.0}}))
	suite.Equal(ids, suite.worker.TaskResourceIds())

	// The task suspends on a dependency, the dependency resolves and
	// the worker resumes.
	suite.NoError(suite.worker.MarkBlocked(""))
	suite.NoError(suite.worker.DirectActorCallArgWaitComplete(1))
	suite.NoError(suite.worker.MarkUnblocked("task-1"))
	suite.Equal(WorkerStateAlive, suite.worker.State())

	released := suite.worker.ReleaseTask()
	suite.Equal(ids, released)
	suite.Empty(suite.worker.TaskResourceIds())
	suite.Empty(suite.worker.AssignedTaskId())

	suite.pool.Wait()
	suite.client.AssertExpectations(suite.T())
}

func (suite *WorkerTestSuite) TestArgWaitComplete() {
	err := suite.worker.DirectActorCallArgWaitComplete(7)
	suite.ErrorIs(err, utils.ErrInvalidState)

	suite.attachProcess()

	suite.client.On("ArgWaitComplete", int64(7)).Return(nil).Once()

	err = suite.worker.DirectActorCallArgWaitComplete(7)
	suite.NoError(err)

	suite.pool.Wait()
	suite.client.AssertExpectations(suite.T())
}

func TestWorkerTestSuite(t *testing.T) {
	suite.Run(t, new(WorkerTestSuite))
}
