package agent

import (
	"bytes"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/denisbrodbeck/machineid"
	"github.com/spf13/viper"
)

// Identity properties of the node the agent runs on, exported in
// worker listings and logged at startup.
type NodeInfo map[string]string

func NewNodeInfo() NodeInfo {
	return NodeInfo{}
}

// NewNodeInfoWithDefaults creates node info with default properties
// like the architecture, operating system, number of cpus and a unique id.
func NewNodeInfoWithDefaults() NodeInfo {
	info := NodeInfo{}
	info.addDefaults()
	return info
}

func (n NodeInfo) addDefaults() {
	n["node.arch"] = runtime.GOARCH
	n["node.os"] = runtime.GOOS
	n["node.cpus"] = fmt.Sprint(runtime.NumCPU())

	if id, err := machineid.ProtectedID("gantry-agent"); err == nil {
		n["node.id"] = id
	}
	if hostname, err := os.Hostname(); err == nil {
		n["node.hostname"] = hostname
	}
}

func (n NodeInfo) AddProperty(key, value string) {
	n[key] = value
}

// LoadConfig loads extra node properties from the viper config.
// The config is a list of key value pairs, e.g. ["rack=r12", "zone=eu"].
func (n NodeInfo) LoadConfig() error {
	for _, property := range viper.GetStringSlice("node_properties") {
		key, value, ok := strings.Cut(property, "=")
		if !ok {
			return fmt.Errorf("Invalid node property: %s", property)
		}

		n[strings.TrimSpace(key)] = value
	}

	return nil
}

// String returns a string representation of the node info.
func (n NodeInfo) String() string {
	data := bytes.Buffer{}
	for key, value := range n {
		fmt.Fprintf(&data, "%s=%s\n", key, value)
	}
	return data.String()
}
