package agent

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestNodeInfoDefaults(t *testing.T) {
	info := NewNodeInfoWithDefaults()
	assert.NotEmpty(t, info["node.arch"])
	assert.NotEmpty(t, info["node.os"])
	assert.NotEmpty(t, info["node.cpus"])
}

func TestNodeInfoLoadConfig(t *testing.T) {
	viper.Set("node_properties", []string{"rack=r12", "zone=eu"})
	defer viper.Set("node_properties", nil)

	info := NewNodeInfo()
	err := info.LoadConfig()
	assert.NoError(t, err)
	assert.Equal(t, "r12", info["rack"])
	assert.Equal(t, "eu", info["zone"])
}

func TestNodeInfoLoadConfigMalformed(t *testing.T) {
	viper.Set("node_properties", []string{"rack"})
	defer viper.Set("node_properties", nil)

	info := NewNodeInfo()
	assert.Error(t, info.LoadConfig())
}
