package main

import (
	"context"
	"log"
	"time"

	"github.com/srand/gantry/pkg/protocol"
	"github.com/srand/gantry/pkg/utils"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

func NewAgentConn() *grpc.ClientConn {
	opts := grpc.WithTransportCredentials(insecure.NewCredentials())

	grpcHost, err := utils.ParseGrpcUrl(configData.AgentUri)
	if err != nil {
		log.Fatal(err)
	}

	conn, err := grpc.Dial(grpcHost, opts)
	if err != nil {
		log.Fatal(err)
	}

	return conn
}

func NewNodeClient() protocol.NodeClient {
	return protocol.NewNodeClient(NewAgentConn())
}

func DefaultDeadlineContext() (context.Context, func()) {
	return context.WithDeadline(context.Background(), time.Now().Add(time.Second*30))
}
