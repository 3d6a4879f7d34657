package main

import (
	"github.com/srand/gantry/pkg/log"
	"github.com/srand/gantry/pkg/utils"
)

type Config struct {
	utils.GRPCOptions `mapstructure:"grpc"`

	// Addresses to listen on for gRPC.
	ListenGrpc []string `mapstructure:"listen_grpc"`
	// Addresses to listen on for HTTP.
	ListenHttp []string `mapstructure:"listen_http"`
	// Directory where worker table snapshots are written.
	SnapshotDir string `mapstructure:"snapshot_dir"`
	// Extra node properties, e.g. "rack=r12".
	NodeProperties []string `mapstructure:"node_properties"`
}

func (c *Config) Log() {
	log.Info("Agent configuration:")
	log.Infof("  gRPC listen addresses: %v", c.ListenGrpc)
	log.Infof("  HTTP listen addresses: %v", c.ListenHttp)
	log.Infof("  Snapshot directory: %s", c.SnapshotDir)
	log.Infof("  Node properties: %v", c.NodeProperties)
	c.GRPCOptions.Log()
}
