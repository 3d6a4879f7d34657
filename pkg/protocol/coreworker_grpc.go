package protocol

import (
	"context"

	"google.golang.org/grpc"
)

const (
	CoreWorker_PushTask_FullMethodName        = "/gantry.CoreWorker/PushTask"
	CoreWorker_ArgWaitComplete_FullMethodName = "/gantry.CoreWorker/ArgWaitComplete"
)

// Client API of the service implemented by every worker process.
// The agent pushes tasks and dependency notifications through it.
type CoreWorkerClient interface {
	PushTask(ctx context.Context, in *PushTaskRequest, opts ...grpc.CallOption) (*PushTaskReply, error)
	ArgWaitComplete(ctx context.Context, in *ArgWaitCompleteRequest, opts ...grpc.CallOption) (*ArgWaitCompleteReply, error)
}

type coreWorkerClient struct {
	cc grpc.ClientConnInterface
}

func NewCoreWorkerClient(cc grpc.ClientConnInterface) CoreWorkerClient {
	return &coreWorkerClient{cc}
}

func (c *coreWorkerClient) PushTask(ctx context.Context, in *PushTaskRequest, opts ...grpc.CallOption) (*PushTaskReply, error) {
	out := new(PushTaskReply)
	err := c.cc.Invoke(ctx, CoreWorker_PushTask_FullMethodName, in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *coreWorkerClient) ArgWaitComplete(ctx context.Context, in *ArgWaitCompleteRequest, opts ...grpc.CallOption) (*ArgWaitCompleteReply, error) {
	out := new(ArgWaitCompleteReply)
	err := c.cc.Invoke(ctx, CoreWorker_ArgWaitComplete_FullMethodName, in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}
