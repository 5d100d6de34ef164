// Package event provides the in-process event dispatcher plus an
// optional Kafka bridge for events other systems care about
// (order.placed feeds fulfilment and analytics).
package event

import (
	"sync"

	"github.com/angotech/angotech/pkg/logger"
	"github.com/angotech/angotech/pkg/workerpool"
)

// Handler is a function that receives an event payload.
type Handler func(payload interface{})

var (
	mu       sync.RWMutex
	handlers = map[string][]Handler{}

	poolMu sync.Mutex
	pool   *workerpool.Pool
)

// Listen registers a handler for the given event name.
func Listen(event string, handler Handler) {
	mu.Lock()
	defer mu.Unlock()
	handlers[event] = append(handlers[event], handler)
}

// Fire dispatches an event synchronously to all registered listeners,
// then hands it to the Kafka bridge if one is configured.
func Fire(event string, payload interface{}) {
	mu.RLock()
	hs := make([]Handler, len(handlers[event]))
	copy(hs, handlers[event])
	mu.RUnlock()

	for _, h := range hs {
		h(payload)
	}

	publish(event, payload)
}

// FireAsync dispatches the event through the worker pool and returns
// immediately. Falls back to a plain goroutine when the pool is full
// so events are never silently dropped.
func FireAsync(event string, payload interface{}) {
	task := func() { Fire(event, payload) }

	poolMu.Lock()
	p := pool
	poolMu.Unlock()

	if p == nil {
		go task()
		return
	}
	if err := p.Submit(task); err != nil {
		logger.Warn("event: pool saturated, running inline goroutine", "event", event, "error", err)
		go task()
	}
}

// UsePool routes FireAsync through the given worker pool.
func UsePool(p *workerpool.Pool) {
	poolMu.Lock()
	pool = p
	poolMu.Unlock()
}

// Flush removes all listeners (useful in tests).
func Flush() {
	mu.Lock()
	defer mu.Unlock()
	handlers = map[string][]Handler{}
}
