package agent

import (
	"testing"

	"github.com/srand/gantry/pkg/utils"
	"github.com/stretchr/testify/assert"
)

func TestLedgerTaskReservation(t *testing.T) {
	ledger := NewResourceLedger()
	assert.True(t, ledger.Empty())

	ids := ResourceIdSet{"gpu": {"gpu-0", "gpu-2"}}
	instances := ResourceInstances{"gpu": {1.0, 0.5}}

	err := ledger.ReserveTask(ids, instances)
	assert.NoError(t, err)
	assert.False(t, ledger.Empty())
	assert.Equal(t, ids, ledger.TaskResourceIds())
	assert.Equal(t, 1.5, ledger.AllocatedInstances().Total("gpu"))

	// A second reservation without an intervening release must fail.
	err = ledger.ReserveTask(ids, instances)
	assert.ErrorIs(t, err, utils.ErrInvalidState)

	released := ledger.ReleaseTask()
	assert.Equal(t, ids, released)
	assert.True(t, ledger.Empty())

	// Release is idempotent.
	released = ledger.ReleaseTask()
	assert.True(t, released.Empty())
}

func TestLedgerReservationIsCopied(t *testing.T) {
	ledger := NewResourceLedger()

	ids := ResourceIdSet{"gpu": {"gpu-0"}}
	err := ledger.ReserveTask(ids, nil)
	assert.NoError(t, err)

	// Mutating the caller's set must not affect the ledger.
	ids["gpu"][0] = "gpu-1"
	assert.Equal(t, "gpu-0", ledger.TaskResourceIds()["gpu"][0])
}

func TestLedgerLifetimeReservation(t *testing.T) {
	ledger := NewResourceLedger()

	ids := ResourceIdSet{"cpu": {"cpu-0"}}
	instances := ResourceInstances{"cpu": {1.0}}

	err := ledger.ReserveLifetime(ids, instances)
	assert.NoError(t, err)
	assert.Equal(t, ids, ledger.LifetimeResourceIds())
	assert.Equal(t, 1.0, ledger.LifetimeAllocatedInstances().Total("cpu"))

	err = ledger.ReserveLifetime(ids, instances)
	assert.ErrorIs(t, err, utils.ErrInvalidState)

	// Task and lifetime pools are independent.
	err = ledger.ReserveTask(ids, instances)
	assert.NoError(t, err)

	released := ledger.ReleaseLifetime()
	assert.Equal(t, ids, released)
	assert.False(t, ledger.Empty())
}

func TestLedgerCpuBorrow(t *testing.T) {
	ledger := NewResourceLedger()

	err := ledger.AcquireCpuBorrow([]float64{0.5, -1.0})
	assert.ErrorIs(t, err, utils.ErrInvariantViolation)
	assert.True(t, ledger.Empty())

	err = ledger.AcquireCpuBorrow([]float64{0.5, 0.25})
	assert.NoError(t, err)

	err = ledger.AcquireCpuBorrow([]float64{0.5})
	assert.NoError(t, err)

	assert.Equal(t, []float64{1.0, 0.25}, ledger.BorrowedCpuInstances())
	assert.Equal(t, 1.25, ledger.BorrowedCpuTotal())
	assert.False(t, ledger.Empty())

	released := ledger.ReleaseCpuBorrow()
	assert.Equal(t, []float64{1.0, 0.25}, released)
	assert.True(t, ledger.Empty())
	assert.Equal(t, 0.0, ledger.BorrowedCpuTotal())
}
