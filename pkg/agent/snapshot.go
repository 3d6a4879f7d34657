package agent

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/spf13/afero"
	"github.com/srand/gantry/pkg/log"
)

// A point-in-time dump of one worker record, for post-mortem debugging.
type WorkerSnapshot struct {
	Id                         string            `json:"id"`
	Language                   string            `json:"language"`
	State                      string            `json:"state"`
	Pid                        int               `json:"pid,omitempty"`
	Port                       int               `json:"port,omitempty"`
	TaskId                     string            `json:"task_id,omitempty"`
	JobId                      string            `json:"job_id,omitempty"`
	ActorId                    string            `json:"actor_id,omitempty"`
	DetachedActor              bool              `json:"detached_actor,omitempty"`
	BlockedTaskIds             []string          `json:"blocked_task_ids,omitempty"`
	TaskResourceIds            ResourceIdSet     `json:"task_resource_ids,omitempty"`
	LifetimeResourceIds        ResourceIdSet     `json:"lifetime_resource_ids,omitempty"`
	AllocatedInstances         ResourceInstances `json:"allocated_instances,omitempty"`
	LifetimeAllocatedInstances ResourceInstances `json:"lifetime_allocated_instances,omitempty"`
	BorrowedCpuInstances       []float64         `json:"borrowed_cpu_instances,omitempty"`
}

type Snapshot struct {
	Time    time.Time         `json:"time"`
	Node    NodeInfo          `json:"node,omitempty"`
	Workers []*WorkerSnapshot `json:"workers"`
}

// Writes gzip compressed JSON dumps of the worker table to a filesystem.
type SnapshotWriter struct {
	fs   afero.Fs
	node NodeInfo
}

func NewSnapshotWriter(fs afero.Fs, node NodeInfo) *SnapshotWriter {
	return &SnapshotWriter{
		fs:   fs,
		node: node,
	}
}

// Capture the state of one worker record.
func snapshotWorker(worker *Worker) *WorkerSnapshot {
	snapshot := &WorkerSnapshot{
		Id:                         worker.Id(),
		Language:                   worker.Language().String(),
		State:                      worker.State().String(),
		Port:                       worker.Port(),
		TaskId:                     worker.AssignedTaskId(),
		JobId:                      worker.AssignedJobId(),
		ActorId:                    worker.ActorId(),
		DetachedActor:              worker.IsDetachedActor(),
		BlockedTaskIds:             worker.BlockedTaskIds(),
		TaskResourceIds:            worker.TaskResourceIds(),
		LifetimeResourceIds:        worker.LifetimeResourceIds(),
		AllocatedInstances:         worker.AllocatedInstances(),
		LifetimeAllocatedInstances: worker.LifetimeAllocatedInstances(),
		BorrowedCpuInstances:       worker.BorrowedCpuInstances(),
	}

	if process := worker.Process(); process != nil {
		snapshot.Pid = process.Pid()
	}

	return snapshot
}

// Write a snapshot of all registered workers.
// Returns the path of the written file.
func (s *SnapshotWriter) Write(registry *Registry) (string, error) {
	snapshot := &Snapshot{
		Time: time.Now(),
		Node: s.node,
	}

	registry.Walk(func(worker *Worker) bool {
		snapshot.Workers = append(snapshot.Workers, snapshotWorker(worker))
		return true
	})

	path := fmt.Sprintf("workers-%s.json.gz", snapshot.Time.Format("20060102-150405"))

	file, err := s.fs.Create(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	writer := gzip.NewWriter(file)
	defer writer.Close()

	if err := json.NewEncoder(writer).Encode(snapshot); err != nil {
		s.fs.Remove(path)
		return "", err
	}

	log.Infof("new - snapshot - path: %s, workers: %d", path, len(snapshot.Workers))
	return path, nil
}
