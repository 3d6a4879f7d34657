// Package rpc defines the outbound channel from the node agent to its
// worker processes. The factory is an injected capability so that worker
// records can be constructed and tested without a live network stack.
package rpc

import (
	"context"
	"fmt"
	"net"

	"github.com/srand/gantry/pkg/protocol"
	"github.com/srand/gantry/pkg/utils"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// CoreWorker is the channel to a single worker process.
type CoreWorker interface {
	// Push a task payload to the worker for execution.
	PushTask(ctx context.Context, task *protocol.Task) error

	// Notify the worker's actor call queue that an awaited argument resolved.
	ArgWaitComplete(ctx context.Context, tag int64) error

	// Close the channel. Safe to call more than once.
	Close() error
}

// ClientFactory creates CoreWorker channels once a worker's
// address and port are known.
type ClientFactory interface {
	NewCoreWorker(address string, port int) (CoreWorker, error)
}

type grpcClientFactory struct {
	options *utils.GRPCOptions
}

func NewGrpcClientFactory(options *utils.GRPCOptions) ClientFactory {
	return &grpcClientFactory{
		options: options,
	}
}

func (f *grpcClientFactory) NewCoreWorker(address string, port int) (CoreWorker, error) {
	dialOptions := f.options.ToDialOptions()
	dialOptions = append(dialOptions, grpc.WithTransportCredentials(insecure.NewCredentials()))

	conn, err := grpc.Dial(net.JoinHostPort(address, fmt.Sprint(port)), dialOptions...)
	if err != nil {
		return nil, err
	}

	return &grpcCoreWorker{
		conn:   conn,
		client: protocol.NewCoreWorkerClient(conn),
	}, nil
}

type grpcCoreWorker struct {
	conn   *grpc.ClientConn
	client protocol.CoreWorkerClient
}

func (c *grpcCoreWorker) PushTask(ctx context.Context, task *protocol.Task) error {
	_, err := c.client.PushTask(ctx, &protocol.PushTaskRequest{Task: task})
	return err
}

func (c *grpcCoreWorker) ArgWaitComplete(ctx context.Context, tag int64) error {
	_, err := c.client.ArgWaitComplete(ctx, &protocol.ArgWaitCompleteRequest{Tag: tag})
	return err
}

func (c *grpcCoreWorker) Close() error {
	return c.conn.Close()
}
