package agent

import (
	"context"

	"github.com/golang/protobuf/ptypes/empty"
	"github.com/srand/gantry/pkg/log"
	"github.com/srand/gantry/pkg/protocol"
	"github.com/srand/gantry/pkg/utils"
)

type nodeService struct {
	protocol.UnimplementedNodeServer
	registry *Registry
}

func NewNodeService(registry *Registry) *nodeService {
	return &nodeService{
		registry: registry,
	}
}

func (s *nodeService) RegisterWorker(_ context.Context, req *protocol.RegisterWorkerRequest) (*protocol.RegisterWorkerReply, error) {
	worker, err := s.registry.CreateWorker(req.WorkerId, req.Language, int(req.Port), nil)
	if err != nil {
		log.Debug("err - worker - registration denied:", err)
		return nil, utils.GrpcError(err)
	}

	if req.Pid > 0 {
		if err := worker.SetProcess(NewProcess(int(req.Pid))); err != nil {
			return nil, utils.GrpcError(err)
		}
	}

	return &protocol.RegisterWorkerReply{WorkerId: worker.Id()}, nil
}

func (s *nodeService) LeaseGranted(_ context.Context, req *protocol.LeaseGrantedRequest) (*empty.Empty, error) {
	worker, err := s.registry.GetWorker(req.WorkerId)
	if err != nil {
		return nil, utils.GrpcError(err)
	}

	if err := worker.WorkerLeaseGranted(req.Address, int(req.Port)); err != nil {
		return nil, utils.GrpcError(err)
	}

	return &empty.Empty{}, nil
}

func (s *nodeService) KillWorker(_ context.Context, req *protocol.KillWorkerRequest) (*empty.Empty, error) {
	worker, err := s.registry.GetWorker(req.WorkerId)
	if err != nil {
		return nil, utils.GrpcError(err)
	}

	worker.MarkDead()
	return &empty.Empty{}, nil
}

func (s *nodeService) ListWorkers(_ context.Context, _ *empty.Empty) (*protocol.ListWorkersReply, error) {
	reply := &protocol.ListWorkersReply{}

	s.registry.Walk(func(worker *Worker) bool {
		info := &protocol.WorkerInfo{
			Id:             worker.Id(),
			Language:       worker.Language(),
			State:          worker.State().String(),
			Port:           int32(worker.Port()),
			TaskId:         worker.AssignedTaskId(),
			JobId:          worker.AssignedJobId(),
			ActorId:        worker.ActorId(),
			DetachedActor:  worker.IsDetachedActor(),
			BlockedTaskIds: worker.BlockedTaskIds(),
		}

		if process := worker.Process(); process != nil {
			info.Pid = int64(process.Pid())
		}

		for _, amount := range worker.BorrowedCpuInstances() {
			info.BorrowedCpus += amount
		}

		reply.Workers = append(reply.Workers, info)
		return true
	})

	return reply, nil
}
