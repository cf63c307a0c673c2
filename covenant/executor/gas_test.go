package executor

import (
	"testing"

	"github.com/stretchr/testify/require"

	engineerrors "github.com/covenantlabs/covenant/covenant/errors"
)

func TestTrackerConsume(t *testing.T) {
	tracker := NewTracker("exec-1", 1_000)

	require.NoError(t, tracker.Consume(400))
	require.NoError(t, tracker.Consume(600))
	require.Equal(t, uint64(1_000), tracker.Used())
	require.Zero(t, tracker.Remaining())
}

func TestTrackerOutOfGasPinsToLimit(t *testing.T) {
	tracker := NewTracker("exec-1", 1_000)

	require.NoError(t, tracker.Consume(900))

	err := tracker.Consume(200)
	require.Error(t, err)
	require.True(t, engineerrors.IsOutOfGas(err))
	require.Equal(t, tracker.Limit(), tracker.Used())
}

func TestTrackerOutOfGasDetails(t *testing.T) {
	tracker := NewTracker("exec-1", 10)

	err := tracker.Consume(21_000)
	var oog *engineerrors.OutOfGasError
	require.ErrorAs(t, err, &oog)
	require.Equal(t, "exec-1", oog.ExecutionID)
	require.Equal(t, uint64(10), oog.Limit)
	require.Equal(t, uint64(21_000), oog.Requested)
}

func TestDefaultCosts(t *testing.T) {
	costs := DefaultCosts()
	require.Equal(t, uint64(21_000), costs.Base)
	require.Equal(t, uint64(20_000), costs.StorageWrite)
	require.Equal(t, uint64(800), costs.StorageRead)
	require.Equal(t, uint64(3), costs.Computation)
	require.Equal(t, uint64(375), costs.Log)
	require.Equal(t, uint64(10_000_000), costs.MaxGasLimit)
}
