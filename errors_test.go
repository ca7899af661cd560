package stream

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStreamError_UnwrapAndWorkerID(t *testing.T) {
	cause := errors.New("underlying failure")
	err := newStreamError(42, 3, cause)

	var se *StreamError
	require.ErrorAs(t, err, &se)
	require.Equal(t, uint64(42), se.WorkerID())
	require.Equal(t, 3, se.Depth())
	require.ErrorIs(t, err, cause)
}

func TestNewStreamError_NilCauseYieldsNilError(t *testing.T) {
	require.Nil(t, newStreamError(1, 1, nil))
}
