// Package protocol contains the wire types exchanged between the node
// agent, its worker processes and control tools. The messages and gRPC
// bindings are maintained by hand, the repository does not vendor a
// protoc toolchain.
package protocol

import "fmt"

// Address of the entity holding the lease on a worker.
type Address struct {
	Host     string `protobuf:"bytes,1,opt,name=host" json:"host,omitempty"`
	Port     int32  `protobuf:"varint,2,opt,name=port" json:"port,omitempty"`
	WorkerId string `protobuf:"bytes,3,opt,name=worker_id" json:"worker_id,omitempty"`
}

func (m *Address) Reset()         { *m = Address{} }
func (m *Address) String() string { return fmt.Sprintf("%s:%d", m.Host, m.Port) }
func (*Address) ProtoMessage()    {}

// A unit of work dispatched to a worker for execution.
type Task struct {
	TaskId            string             `protobuf:"bytes,1,opt,name=task_id" json:"task_id,omitempty"`
	JobId             string             `protobuf:"bytes,2,opt,name=job_id" json:"job_id,omitempty"`
	ActorId           string             `protobuf:"bytes,3,opt,name=actor_id" json:"actor_id,omitempty"`
	Language          Language           `protobuf:"varint,4,opt,name=language" json:"language,omitempty"`
	Payload           []byte             `protobuf:"bytes,5,opt,name=payload" json:"payload,omitempty"`
	RequiredResources map[string]float64 `protobuf:"bytes,6,rep,name=required_resources" json:"required_resources,omitempty" protobuf_key:"bytes,1,opt,name=key" protobuf_val:"fixed64,2,opt,name=value"`
	OwnerAddress      *Address           `protobuf:"bytes,7,opt,name=owner_address" json:"owner_address,omitempty"`
}

func (m *Task) Reset()         { *m = Task{} }
func (m *Task) String() string { return fmt.Sprintf("task %s (job %s)", m.TaskId, m.JobId) }
func (*Task) ProtoMessage()    {}

type PushTaskRequest struct {
	Task *Task `protobuf:"bytes,1,opt,name=task" json:"task,omitempty"`
}

func (m *PushTaskRequest) Reset()         { *m = PushTaskRequest{} }
func (m *PushTaskRequest) String() string { return fmt.Sprintf("push %v", m.Task) }
func (*PushTaskRequest) ProtoMessage()    {}

type PushTaskReply struct{}

func (m *PushTaskReply) Reset()         { *m = PushTaskReply{} }
func (m *PushTaskReply) String() string { return "push reply" }
func (*PushTaskReply) ProtoMessage()    {}

type ArgWaitCompleteRequest struct {
	Tag int64 `protobuf:"varint,1,opt,name=tag" json:"tag,omitempty"`
}

func (m *ArgWaitCompleteRequest) Reset()         { *m = ArgWaitCompleteRequest{} }
func (m *ArgWaitCompleteRequest) String() string { return fmt.Sprintf("arg wait complete %d", m.Tag) }
func (*ArgWaitCompleteRequest) ProtoMessage()    {}

type ArgWaitCompleteReply struct{}

func (m *ArgWaitCompleteReply) Reset()         { *m = ArgWaitCompleteReply{} }
func (m *ArgWaitCompleteReply) String() string { return "arg wait complete reply" }
func (*ArgWaitCompleteReply) ProtoMessage()    {}

type RegisterWorkerRequest struct {
	WorkerId string   `protobuf:"bytes,1,opt,name=worker_id" json:"worker_id,omitempty"`
	Language Language `protobuf:"varint,2,opt,name=language" json:"language,omitempty"`
	Port     int32    `protobuf:"varint,3,opt,name=port" json:"port,omitempty"`
	Pid      int64    `protobuf:"varint,4,opt,name=pid" json:"pid,omitempty"`
}

func (m *RegisterWorkerRequest) Reset()         { *m = RegisterWorkerRequest{} }
func (m *RegisterWorkerRequest) String() string { return fmt.Sprintf("register %s", m.WorkerId) }
func (*RegisterWorkerRequest) ProtoMessage()    {}

type RegisterWorkerReply struct {
	WorkerId string `protobuf:"bytes,1,opt,name=worker_id" json:"worker_id,omitempty"`
}

func (m *RegisterWorkerReply) Reset()         { *m = RegisterWorkerReply{} }
func (m *RegisterWorkerReply) String() string { return fmt.Sprintf("registered %s", m.WorkerId) }
func (*RegisterWorkerReply) ProtoMessage()    {}

type LeaseGrantedRequest struct {
	WorkerId string `protobuf:"bytes,1,opt,name=worker_id" json:"worker_id,omitempty"`
	Address  string `protobuf:"bytes,2,opt,name=address" json:"address,omitempty"`
	Port     int32  `protobuf:"varint,3,opt,name=port" json:"port,omitempty"`
}

func (m *LeaseGrantedRequest) Reset()         { *m = LeaseGrantedRequest{} }
func (m *LeaseGrantedRequest) String() string { return fmt.Sprintf("lease %s -> %s", m.WorkerId, m.Address) }
func (*LeaseGrantedRequest) ProtoMessage()    {}

type KillWorkerRequest struct {
	WorkerId string `protobuf:"bytes,1,opt,name=worker_id" json:"worker_id,omitempty"`
}

func (m *KillWorkerRequest) Reset()         { *m = KillWorkerRequest{} }
func (m *KillWorkerRequest) String() string { return fmt.Sprintf("kill %s", m.WorkerId) }
func (*KillWorkerRequest) ProtoMessage()    {}

type WorkerInfo struct {
	Id             string   `protobuf:"bytes,1,opt,name=id" json:"id,omitempty"`
	Language       Language `protobuf:"varint,2,opt,name=language" json:"language,omitempty"`
	State          string   `protobuf:"bytes,3,opt,name=state" json:"state,omitempty"`
	Pid            int64    `protobuf:"varint,4,opt,name=pid" json:"pid,omitempty"`
	Port           int32    `protobuf:"varint,5,opt,name=port" json:"port,omitempty"`
	TaskId         string   `protobuf:"bytes,6,opt,name=task_id" json:"task_id,omitempty"`
	JobId          string   `protobuf:"bytes,7,opt,name=job_id" json:"job_id,omitempty"`
	ActorId        string   `protobuf:"bytes,8,opt,name=actor_id" json:"actor_id,omitempty"`
	DetachedActor  bool     `protobuf:"varint,9,opt,name=detached_actor" json:"detached_actor,omitempty"`
	BlockedTaskIds []string `protobuf:"bytes,10,rep,name=blocked_task_ids" json:"blocked_task_ids,omitempty"`
	BorrowedCpus   float64  `protobuf:"fixed64,11,opt,name=borrowed_cpus" json:"borrowed_cpus,omitempty"`
}

func (m *WorkerInfo) Reset()         { *m = WorkerInfo{} }
func (m *WorkerInfo) String() string { return fmt.Sprintf("worker %s (%s)", m.Id, m.State) }
func (*WorkerInfo) ProtoMessage()    {}

type ListWorkersReply struct {
	Workers []*WorkerInfo `protobuf:"bytes,1,rep,name=workers" json:"workers,omitempty"`
}

func (m *ListWorkersReply) Reset()         { *m = ListWorkersReply{} }
func (m *ListWorkersReply) String() string { return fmt.Sprintf("%d workers", len(m.Workers)) }
func (*ListWorkersReply) ProtoMessage()    {}
