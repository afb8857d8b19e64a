package reconciler

import (
	"fmt"
	"sync"
)

// Wakeable is anything a render can wait on. Then registers a listener that
// runs once when the value settles, immediately if it already has.
type Wakeable interface {
	Then(onSettle func())
}

type PromiseStatus uint8

const (
	PromisePending PromiseStatus = iota
	PromiseFulfilled
	PromiseRejected
)

func (s PromiseStatus) String() string {
	switch s {
	case PromisePending:
		return "pending"
	case PromiseFulfilled:
		return "fulfilled"
	case PromiseRejected:
		return "rejected"
	default:
		return fmt.Sprintf("PromiseStatus(%d)", uint8(s))
	}
}

// Promise is a value that becomes available later. Listeners run on the
// goroutine that settles it; settle from the scheduler's goroutine (or
// through Scheduler.Post) when the listeners touch a reconciler.
type Promise[T any] struct {
	mu        sync.Mutex
	status    PromiseStatus
	value     T
	reason    error
	listeners []func()
}

var _ Wakeable = (*Promise[int])(nil)

func NewPromise[T any]() *Promise[T] {
	return &Promise[T]{}
}

// Resolved returns an already fulfilled promise.
func Resolved[T any](v T) *Promise[T] {
	return &Promise[T]{status: PromiseFulfilled, value: v}
}

func (p *Promise[T]) Status() PromiseStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// Resolve fulfils the promise. It reports false if it was already settled.
func (p *Promise[T]) Resolve(v T) bool {
	return p.settle(func() {
		p.status = PromiseFulfilled
		p.value = v
	})
}

// Reject settles the promise with err.
func (p *Promise[T]) Reject(err error) bool {
	return p.settle(func() {
		p.status = PromiseRejected
		p.reason = err
	})
}

func (p *Promise[T]) settle(set func()) bool {
	p.mu.Lock()
	if p.status != PromisePending {
		p.mu.Unlock()
		return false
	}
	set()
	listeners := p.listeners
	p.listeners = nil
	p.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
	return true
}

func (p *Promise[T]) Then(onSettle func()) {
	p.mu.Lock()
	if p.status == PromisePending {
		p.listeners = append(p.listeners, onSettle)
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()
	onSettle()
}

func (p *Promise[T]) result() (T, PromiseStatus, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.value, p.status, p.reason
}
