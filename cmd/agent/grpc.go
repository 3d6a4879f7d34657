package main

import (
	"fmt"
	"net"
	"net/url"

	"github.com/srand/gantry/pkg/agent"
	"github.com/srand/gantry/pkg/log"
	"github.com/srand/gantry/pkg/protocol"
	"google.golang.org/grpc"
)

// Sets up a gRPC server on a specific listening address and starts it.
func serveGrpc(registry *agent.Registry, address string) error {
	uri, err := url.Parse(address)
	if err != nil {
		return err
	}

	host := uri.Host

	switch uri.Scheme {
	case "tcp", "tcp4", "tcp6":
		if uri.Port() == "" {
			// Default port is 9090
			host = fmt.Sprintf("%s:9090", uri.Host)
		}
	case "unix":
	default:
		return fmt.Errorf("Unsupported protocol: %s", uri.Scheme)
	}

	socket, err := net.Listen(uri.Scheme, host)
	if err != nil {
		return err
	}

	if uri.Scheme == "unix" {
		socket.(*net.UnixListener).SetUnlinkOnClose(true)
		log.Info("Listening on", uri.Scheme, uri.Path)
	} else {
		log.Info("Listening on", uri.Scheme, socket.Addr())
	}

	opts := config.GRPCOptions.ToServerOptions()

	server := grpc.NewServer(opts...)
	protocol.RegisterNodeServer(server, agent.NewNodeService(registry))
	return server.Serve(socket)
}
