package pool

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestWorkerPool_RunsAllTasks(t *testing.T) {
	defer goleak.VerifyNone(t)

	var n atomic.Int32
	p := New(3, 2)
	for i := 0; i < 50; i++ {
		p.Submit(func() error {
			n.Add(1)
			return nil
		})
	}
	require.NoError(t, p.Stop())
	assert.EqualValues(t, 50, n.Load())
}

func TestWorkerPool_CollectsErrors(t *testing.T) {
	defer goleak.VerifyNone(t)

	errA := errors.New("a")
	errB := errors.New("b")
	p := New(2, 4)
	p.Submit(func() error { return errA })
	p.Submit(func() error { return nil })
	p.Submit(func() error { return errB })

	err := p.Stop()
	require.Error(t, err)
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
}

func TestWorkerPool_ZeroWorkers(t *testing.T) {
	defer goleak.VerifyNone(t)

	p := New(0, 0)
	done := false
	p.Submit(func() error { done = true; return nil })
	require.NoError(t, p.Stop())
	assert.True(t, done)
}
