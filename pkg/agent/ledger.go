package agent

import (
	"github.com/srand/gantry/pkg/utils"
)

// Per-worker accounting of reserved resources, split into a pool held
// for the worker's entire lifetime (actors only) and a pool held for
// the duration of the currently assigned task. Amounts consumed beyond
// the formal reservation while the node is oversubscribed are tracked
// as borrowed CPU.
//
// The ledger is pure bookkeeping. It never touches process or RPC
// state. It is not synchronized, the owning worker record's lock
// guards all access.
type ResourceLedger struct {
	// Resource unit ids reserved for the worker's lifetime.
	lifetimeResourceIds ResourceIdSet

	// Resource unit ids reserved for the currently assigned task.
	taskResourceIds ResourceIdSet

	// Fractional allocations mirroring the task reservation.
	allocatedInstances ResourceInstances

	// Fractional allocations mirroring the lifetime reservation.
	lifetimeAllocatedInstances ResourceInstances

	// CPU amounts consumed beyond the formal reservation. Accrued when
	// the node is oversubscribed and a blocked worker does not return
	// its CPU share.
	borrowedCpuInstances []float64
}

func NewResourceLedger() *ResourceLedger {
	return &ResourceLedger{
		lifetimeResourceIds: ResourceIdSet{},
		taskResourceIds:     ResourceIdSet{},
	}
}

// Replace the task-scoped reservation wholesale.
// The previous task must have been released first.
func (l *ResourceLedger) ReserveTask(ids ResourceIdSet, instances ResourceInstances) error {
	if !l.taskResourceIds.Empty() {
		return utils.ErrInvalidState
	}

	l.taskResourceIds = ids.Clone()
	l.allocatedInstances = instances.Clone()
	return nil
}

// Return and clear the task-scoped reservation.
// Idempotent, a second call returns an empty set without error since
// callers may race with a Dead transition.
func (l *ResourceLedger) ReleaseTask() ResourceIdSet {
	released := l.taskResourceIds
	l.taskResourceIds = ResourceIdSet{}
	l.allocatedInstances = nil
	return released
}

// Replace the lifetime reservation wholesale.
// The previous reservation must have been released first.
func (l *ResourceLedger) ReserveLifetime(ids ResourceIdSet, instances ResourceInstances) error {
	if !l.lifetimeResourceIds.Empty() {
		return utils.ErrInvalidState
	}

	l.lifetimeResourceIds = ids.Clone()
	l.lifetimeAllocatedInstances = instances.Clone()
	return nil
}

// Return and clear the lifetime reservation. Idempotent.
func (l *ResourceLedger) ReleaseLifetime() ResourceIdSet {
	released := l.lifetimeResourceIds
	l.lifetimeResourceIds = ResourceIdSet{}
	l.lifetimeAllocatedInstances = nil
	return released
}

// Record CPU amounts consumed while oversubscribed.
// Amounts must be non-negative.
func (l *ResourceLedger) AcquireCpuBorrow(amounts []float64) error {
	for _, amount := range amounts {
		if amount < 0 {
			return utils.ErrInvariantViolation
		}
	}

	for i, amount := range amounts {
		if i < len(l.borrowedCpuInstances) {
			l.borrowedCpuInstances[i] += amount
		} else {
			l.borrowedCpuInstances = append(l.borrowedCpuInstances, amount)
		}
	}
	return nil
}

// Zero the borrowed CPU tracker and return the prior amounts.
func (l *ResourceLedger) ReleaseCpuBorrow() []float64 {
	released := l.borrowedCpuInstances
	l.borrowedCpuInstances = nil
	return released
}

func (l *ResourceLedger) TaskResourceIds() ResourceIdSet {
	return l.taskResourceIds.Clone()
}

func (l *ResourceLedger) LifetimeResourceIds() ResourceIdSet {
	return l.lifetimeResourceIds.Clone()
}

func (l *ResourceLedger) AllocatedInstances() ResourceInstances {
	return l.allocatedInstances.Clone()
}

func (l *ResourceLedger) LifetimeAllocatedInstances() ResourceInstances {
	return l.lifetimeAllocatedInstances.Clone()
}

func (l *ResourceLedger) BorrowedCpuInstances() []float64 {
	return append([]float64{}, l.borrowedCpuInstances...)
}

// Total borrowed CPU across all instances.
func (l *ResourceLedger) BorrowedCpuTotal() float64 {
	var total float64
	for _, amount := range l.borrowedCpuInstances {
		total += amount
	}
	return total
}

// Returns true if no reservations or borrows are outstanding.
func (l *ResourceLedger) Empty() bool {
	return l.taskResourceIds.Empty() &&
		l.lifetimeResourceIds.Empty() &&
		len(l.borrowedCpuInstances) == 0
}

// Drop all reservations and borrows. Invoked once, on the transition
// to the Dead state.
func (l *ResourceLedger) clear() {
	l.taskResourceIds = ResourceIdSet{}
	l.lifetimeResourceIds = ResourceIdSet{}
	l.allocatedInstances = nil
	l.lifetimeAllocatedInstances = nil
	l.borrowedCpuInstances = nil
}
