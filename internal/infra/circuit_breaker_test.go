package infra

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errSink = errors.New("smtp down")

func failingCB(t *testing.T, openTimeout time.Duration) *CircuitBreaker {
	t.Helper()
	return NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 3,
		SuccessThreshold: 2,
		OpenTimeout:      openTimeout,
	})
}

func TestCircuitBreakerTripsAfterThreshold(t *testing.T) {
	cb := failingCB(t, time.Minute)

	for i := 0; i < 3; i++ {
		assert.Equal(t, CBClosed, cb.State())
		err := cb.Execute(func() error { return errSink })
		assert.ErrorIs(t, err, errSink)
	}
	assert.Equal(t, CBOpen, cb.State())

	// Open state fast-fails without calling the function.
	called := false
	err := cb.Execute(func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
}

func TestCircuitBreakerSuccessResetsFailureCount(t *testing.T) {
	cb := failingCB(t, time.Minute)

	require.Error(t, cb.Execute(func() error { return errSink }))
	require.Error(t, cb.Execute(func() error { return errSink }))
	require.NoError(t, cb.Execute(func() error { return nil }))

	// Two more failures are not enough: the streak restarted.
	require.Error(t, cb.Execute(func() error { return errSink }))
	require.Error(t, cb.Execute(func() error { return errSink }))
	assert.Equal(t, CBClosed, cb.State())
}

func TestCircuitBreakerHalfOpenRecovery(t *testing.T) {
	cb := failingCB(t, 20*time.Millisecond)

	for i := 0; i < 3; i++ {
		_ = cb.Execute(func() error { return errSink })
	}
	require.Equal(t, CBOpen, cb.State())

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, CBHalfOpen, cb.State())

	// Two consecutive probe successes close the circuit.
	require.NoError(t, cb.Execute(func() error { return nil }))
	require.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, CBClosed, cb.State())
}

func TestCircuitBreakerHalfOpenFailureReopens(t *testing.T) {
	cb := failingCB(t, 20*time.Millisecond)

	for i := 0; i < 3; i++ {
		_ = cb.Execute(func() error { return errSink })
	}
	time.Sleep(30 * time.Millisecond)
	require.Equal(t, CBHalfOpen, cb.State())

	require.Error(t, cb.Execute(func() error { return errSink }))
	assert.Equal(t, CBOpen, cb.State())
}

func TestCircuitBreakerStateString(t *testing.T) {
	assert.Equal(t, "closed", CBClosed.String())
	assert.Equal(t, "open", CBOpen.String())
	assert.Equal(t, "half-open", CBHalfOpen.String())
}
