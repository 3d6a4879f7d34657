package agent

import (
	"encoding/json"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/spf13/afero"
	"github.com/srand/gantry/pkg/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotWrite(t *testing.T) {
	clients := new(ClientFactoryMock)
	registry := NewRegistry(clients)
	defer registry.Close()

	worker, err := registry.CreateWorker("worker-1", protocol.Language_PYTHON, 0, nil)
	require.NoError(t, err)

	require.NoError(t, worker.AssignActorId("actor-1"))
	require.NoError(t, worker.MarkDetachedActor())
	require.NoError(t, worker.ReserveLifetime(
		ResourceIdSet{"gpu": {"gpu-0"}},
		ResourceInstances{"gpu": {1.0}}))
	require.NoError(t, worker.MarkBlocked("task-1"))

	node := NewNodeInfo()
	node.AddProperty("node.hostname", "testhost")

	fs := afero.NewMemMapFs()
	writer := NewSnapshotWriter(fs, node)

	path, err := writer.Write(registry)
	require.NoError(t, err)
	assert.Contains(t, path, "workers-")

	file, err := fs.Open(path)
	require.NoError(t, err)
	defer file.Close()

	reader, err := gzip.NewReader(file)
	require.NoError(t, err)

	var snapshot Snapshot
	require.NoError(t, json.NewDecoder(reader).Decode(&snapshot))

	assert.Equal(t, "testhost", snapshot.Node["node.hostname"])
	require.Len(t, snapshot.Workers, 1)

	dump := snapshot.Workers[0]
	assert.Equal(t, "worker-1", dump.Id)
	assert.Equal(t, "python", dump.Language)
	assert.Equal(t, "blocked", dump.State)
	assert.Equal(t, "actor-1", dump.ActorId)
	assert.True(t, dump.DetachedActor)
	assert.Equal(t, []string{"task-1"}, dump.BlockedTaskIds)
	assert.Equal(t, ResourceIdSet{"gpu": {"gpu-0"}}, dump.LifetimeResourceIds)
}
