package filter

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDebouncer_latestWins(t *testing.T) {
	t.Parallel()

	d := NewDebouncer(30 * time.Millisecond)
	var calls atomic.Int32
	var last atomic.Value

	for _, v := range []string{"e", "ex", "exc"} {
		v := v
		d.Trigger(func() {
			calls.Add(1)
			last.Store(v)
		})
	}
	assert.True(t, d.pending())

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, "exc", last.Load())
	assert.False(t, d.pending())
}

func TestDebouncer_Cancel(t *testing.T) {
	t.Parallel()

	d := NewDebouncer(20 * time.Millisecond)
	var calls atomic.Int32
	d.Trigger(func() { calls.Add(1) })
	d.Cancel()

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())
	assert.False(t, d.pending())
}
