package protocol

import (
	"context"
	"errors"

	"github.com/golang/protobuf/ptypes/empty"
	"google.golang.org/grpc"
)

const (
	Node_RegisterWorker_FullMethodName = "/gantry.Node/RegisterWorker"
	Node_LeaseGranted_FullMethodName   = "/gantry.Node/LeaseGranted"
	Node_KillWorker_FullMethodName     = "/gantry.Node/KillWorker"
	Node_ListWorkers_FullMethodName    = "/gantry.Node/ListWorkers"
)

// Client API of the node agent control service.
// Used by the pool manager and by control tools.
type NodeClient interface {
	RegisterWorker(ctx context.Context, in *RegisterWorkerRequest, opts ...grpc.CallOption) (*RegisterWorkerReply, error)
	LeaseGranted(ctx context.Context, in *LeaseGrantedRequest, opts ...grpc.CallOption) (*empty.Empty, error)
	KillWorker(ctx context.Context, in *KillWorkerRequest, opts ...grpc.CallOption) (*empty.Empty, error)
	ListWorkers(ctx context.Context, in *empty.Empty, opts ...grpc.CallOption) (*ListWorkersReply, error)
}

type nodeClient struct {
	cc grpc.ClientConnInterface
}

func NewNodeClient(cc grpc.ClientConnInterface) NodeClient {
	return &nodeClient{cc}
}

func (c *nodeClient) RegisterWorker(ctx context.Context, in *RegisterWorkerRequest, opts ...grpc.CallOption) (*RegisterWorkerReply, error) {
	out := new(RegisterWorkerReply)
	err := c.cc.Invoke(ctx, Node_RegisterWorker_FullMethodName, in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *nodeClient) LeaseGranted(ctx context.Context, in *LeaseGrantedRequest, opts ...grpc.CallOption) (*empty.Empty, error) {
	out := new(empty.Empty)
	err := c.cc.Invoke(ctx, Node_LeaseGranted_FullMethodName, in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *nodeClient) KillWorker(ctx context.Context, in *KillWorkerRequest, opts ...grpc.CallOption) (*empty.Empty, error) {
	out := new(empty.Empty)
	err := c.cc.Invoke(ctx, Node_KillWorker_FullMethodName, in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *nodeClient) ListWorkers(ctx context.Context, in *empty.Empty, opts ...grpc.CallOption) (*ListWorkersReply, error) {
	out := new(ListWorkersReply)
	err := c.cc.Invoke(ctx, Node_ListWorkers_FullMethodName, in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Server API of the node agent control service.
type NodeServer interface {
	RegisterWorker(context.Context, *RegisterWorkerRequest) (*RegisterWorkerReply, error)
	LeaseGranted(context.Context, *LeaseGrantedRequest) (*empty.Empty, error)
	KillWorker(context.Context, *KillWorkerRequest) (*empty.Empty, error)
	ListWorkers(context.Context, *empty.Empty) (*ListWorkersReply, error)
}

// UnimplementedNodeServer must be embedded for forward compatibility.
type UnimplementedNodeServer struct{}

func (UnimplementedNodeServer) RegisterWorker(context.Context, *RegisterWorkerRequest) (*RegisterWorkerReply, error) {
	return nil, errors.New("method RegisterWorker not implemented")
}

func (UnimplementedNodeServer) LeaseGranted(context.Context, *LeaseGrantedRequest) (*empty.Empty, error) {
	return nil, errors.New("method LeaseGranted not implemented")
}

func (UnimplementedNodeServer) KillWorker(context.Context, *KillWorkerRequest) (*empty.Empty, error) {
	return nil, errors.New("method KillWorker not implemented")
}

func (UnimplementedNodeServer) ListWorkers(context.Context, *empty.Empty) (*ListWorkersReply, error) {
	return nil, errors.New("method ListWorkers not implemented")
}

func RegisterNodeServer(s grpc.ServiceRegistrar, srv NodeServer) {
	s.RegisterService(&Node_ServiceDesc, srv)
}

func _Node_RegisterWorker_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(RegisterWorkerRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(NodeServer).RegisterWorker(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: Node_RegisterWorker_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(NodeServer).RegisterWorker(ctx, req.(*RegisterWorkerRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Node_LeaseGranted_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(LeaseGrantedRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(NodeServer).LeaseGranted(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: Node_LeaseGranted_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(NodeServer).LeaseGranted(ctx, req.(*LeaseGrantedRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Node_KillWorker_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(KillWorkerRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(NodeServer).KillWorker(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: Node_KillWorker_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(NodeServer).KillWorker(ctx, req.(*KillWorkerRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Node_ListWorkers_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(empty.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(NodeServer).ListWorkers(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: Node_ListWorkers_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(NodeServer).ListWorkers(ctx, req.(*empty.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

var Node_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "gantry.Node",
	HandlerType: (*NodeServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "RegisterWorker",
			Handler:    _Node_RegisterWorker_Handler,
		},
		{
			MethodName: "LeaseGranted",
			Handler:    _Node_LeaseGranted_Handler,
		},
		{
			MethodName: "KillWorker",
			Handler:    _Node_KillWorker_Handler,
		},
		{
			MethodName: "ListWorkers",
			Handler:    _Node_ListWorkers_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "gantry/node.proto",
}
