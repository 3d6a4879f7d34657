package agent

import (
	"context"
	"fmt"

	"github.com/srand/gantry/pkg/protocol"
	"github.com/srand/gantry/pkg/rpc"
	"github.com/srand/gantry/pkg/utils"
)

// Thin ownership wrapper binding a worker record to its outbound RPC
// channel. Owned exclusively by one record and torn down exactly once
// on the Dead transition.
type rpcGateway struct {
	client rpc.CoreWorker
	pool   *utils.DispatchPool
}

func newRpcGateway(client rpc.CoreWorker, pool *utils.DispatchPool) *rpcGateway {
	return &rpcGateway{
		client: client,
		pool:   pool,
	}
}

// Send a task payload to the worker process. Fire and forget, the
// outcome is reported through done and never swallowed. Transport
// failures are wrapped in ErrRpcSendFailure and not retried here,
// retry policy belongs to the scheduler.
func (g *rpcGateway) Send(task *protocol.Task, done func(error)) {
	g.pool.SubmitOrRun(func() {
		err := g.client.PushTask(context.Background(), task)
		if err != nil {
			err = fmt.Errorf("%w: %v", utils.ErrRpcSendFailure, err)
		}
		done(err)
	})
}

// Notify the worker that an awaited actor call argument resolved.
func (g *rpcGateway) Notify(tag int64, done func(error)) {
	g.pool.SubmitOrRun(func() {
		err := g.client.ArgWaitComplete(context.Background(), tag)
		if err != nil {
			err = fmt.Errorf("%w: %v", utils.ErrRpcSendFailure, err)
		}
		done(err)
	})
}

func (g *rpcGateway) Client() rpc.CoreWorker {
	return g.client
}

func (g *rpcGateway) Close() error {
	return g.client.Close()
}
