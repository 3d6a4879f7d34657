package main

import (
	"github.com/spf13/viper"
	"github.com/srand/gantry/pkg/utils"
)

type ControlConfig struct {
	// URI of the node agent's gRPC service.
	AgentUri string `mapstructure:"agent_uri"`
}

func ParseConfig() (*ControlConfig, error) {
	var config ControlConfig

	if err := utils.UnmarshalConfig(*viper.GetViper(), &config); err != nil {
		return nil, err
	}

	return &config, nil
}
