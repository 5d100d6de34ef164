package debounce

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDoCoalescesBurst(t *testing.T) {
	d := New()
	var calls int32

	for i := 0; i < 5; i++ {
		d.Do("cart:1:item:9", 30*time.Millisecond, func() {
			atomic.AddInt32(&calls, 1)
		})
	}

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestDoKeepsKeysIndependent(t *testing.T) {
	d := New()
	var calls int32

	d.Do("a", 20*time.Millisecond, func() { atomic.AddInt32(&calls, 1) })
	d.Do("b", 20*time.Millisecond, func() { atomic.AddInt32(&calls, 1) })

	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestLastWriteWins(t *testing.T) {
	d := New()
	var got int32

	d.Do("k", 20*time.Millisecond, func() { atomic.StoreInt32(&got, 1) })
	d.Do("k", 20*time.Millisecond, func() { atomic.StoreInt32(&got, 2) })

	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, int32(2), atomic.LoadInt32(&got))
}

func TestCancel(t *testing.T) {
	d := New()
	var calls int32

	d.Do("k", 20*time.Millisecond, func() { atomic.AddInt32(&calls, 1) })
	d.Cancel("k")

	time.Sleep(80 * time.Millisecond)
	assert.Zero(t, atomic.LoadInt32(&calls))
	assert.Zero(t, d.Len())
}

func TestCancelPrefix(t *testing.T) {
	d := New()
	var calls int32
	fn := func() { atomic.AddInt32(&calls, 1) }

	d.Do("cart:7:item:1", 20*time.Millisecond, fn)
	d.Do("cart:7:item:2", 20*time.Millisecond, fn)
	d.Do("cart:8:item:1", 20*time.Millisecond, fn)

	d.CancelPrefix("cart:7:")

	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestFlushRunsPendingImmediately(t *testing.T) {
	d := New()
	var calls int32

	d.Do("a", time.Hour, func() { atomic.AddInt32(&calls, 1) })
	d.Do("b", time.Hour, func() { atomic.AddInt32(&calls, 1) })

	d.Flush()

	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	assert.Zero(t, d.Len())
}

// A timer that expires around the same moment as a Flush (or Stop)
// must not run its fn a second time: whoever removes the entry from
// the pending map owns the single call.
func TestExpiredTimerNeverRunsTwice(t *testing.T) {
	var calls int32
	const rounds = 200

	for i := 0; i < rounds; i++ {
		d := New()
		d.Do("k", time.Millisecond, func() { atomic.AddInt32(&calls, 1) })
		time.Sleep(time.Millisecond) // land the flush near timer expiry
		d.Flush()
	}

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(rounds), atomic.LoadInt32(&calls))
}

func TestStopRejectsNewWork(t *testing.T) {
	d := New()
	var calls int32

	d.Stop()
	d.Do("k", time.Millisecond, func() { atomic.AddInt32(&calls, 1) })

	time.Sleep(30 * time.Millisecond)
	assert.Zero(t, atomic.LoadInt32(&calls))
}
