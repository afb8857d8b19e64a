// Package scheduler is a cooperative, single-threaded task scheduler with
// five priority levels. Tasks run in expiration order, may yield by
// returning a continuation, and can ask ShouldYield whether the current
// time slice is spent.
package scheduler

import (
	"container/heap"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Callback is a unit of scheduled work. Returning a non-nil Callback means
// "not finished": the task stays queued and the continuation runs next.
type Callback func(didTimeout bool) Callback

// Task is a handle to a scheduled callback.
type Task struct {
	id             uint64
	callback       Callback
	priority       Priority
	startTime      time.Time
	expirationTime time.Time
	index          int
}

func (t *Task) Priority() Priority { return t.priority }

// Cancelled reports whether the task was cancelled or already ran to
// completion.
func (t *Task) Cancelled() bool { return t.callback == nil }

var ErrFlushLimit = errors.New("scheduler: flush did not settle")

// maxFlushRounds bounds FlushAll so that a task that keeps rescheduling
// itself surfaces as a panic instead of a hang.
const maxFlushRounds = 100_000

type Scheduler struct {
	log       zerolog.Logger
	clock     Clock
	timeSlice time.Duration

	queue  taskQueue
	taskID uint64

	currentTask      *Task
	currentPriority  Priority
	isPerformingWork bool

	sliceStart time.Time
	yieldEvery int
	yieldLeft  int

	microtasks []func()

	mu    sync.Mutex
	inbox []func()
	wake  chan struct{}
}

func New(opts ...Option) *Scheduler {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return &Scheduler{
		log:             o.logger,
		clock:           o.clock,
		timeSlice:       o.timeSlice,
		currentPriority: NormalPriority,
		yieldEvery:      o.yieldAfter,
		yieldLeft:       o.yieldAfter,
		wake:            make(chan struct{}, 1),
	}
}

func (s *Scheduler) Now() time.Time { return s.clock.Now() }

// ScheduleCallback queues cb at priority p.
func (s *Scheduler) ScheduleCallback(p Priority, cb Callback) *Task {
	if p == NoPriority {
		p = NormalPriority
	}
	now := s.clock.Now()
	s.taskID++
	t := &Task{
		id:             s.taskID,
		callback:       cb,
		priority:       p,
		startTime:      now,
		expirationTime: now.Add(p.timeout()),
	}
	heap.Push(&s.queue, t)
	s.log.Trace().Uint64("task", t.id).Stringer("priority", p).Msg("scheduled")
	return t
}

// CancelCallback drops a task. It is removed lazily when it reaches the
// head of the queue.
func (s *Scheduler) CancelCallback(t *Task) {
	if t == nil {
		return
	}
	t.callback = nil
}

// FirstCallbackNode returns the task at the head of the queue, or nil.
func (s *Scheduler) FirstCallbackNode() *Task {
	return s.queue.peek()
}

// CurrentPriority is the ambient priority: the priority of the running
// task, or of the innermost RunWithPriority.
func (s *Scheduler) CurrentPriority() Priority {
	return s.currentPriority
}

// RunWithPriority runs fn with p as the ambient priority.
func (s *Scheduler) RunWithPriority(p Priority, fn func()) {
	if p == NoPriority {
		p = NormalPriority
	}
	prev := s.currentPriority
	s.currentPriority = p
	defer func() { s.currentPriority = prev }()
	fn()
}

// YieldAfter makes ShouldYield report true after n calls within every
// slice. A negative n turns the countdown off.
func (s *Scheduler) YieldAfter(n int) {
	s.yieldEvery = n
	s.yieldLeft = n
}

// ShouldYield reports whether the running task should hand control back.
func (s *Scheduler) ShouldYield() bool {
	if s.yieldEvery >= 0 {
		if s.yieldLeft <= 0 {
			return true
		}
		s.yieldLeft--
	}
	return s.sliceExpired()
}

func (s *Scheduler) sliceExpired() bool {
	return s.clock.Now().Sub(s.sliceStart) >= s.timeSlice
}

// sliceSpent reports whether the slice ran out of time or of YieldAfter
// budget, without consuming any budget.
func (s *Scheduler) sliceSpent() bool {
	if s.yieldEvery >= 0 && s.yieldLeft <= 0 {
		return true
	}
	return s.sliceExpired()
}

// QueueMicrotask defers fn until the running task (or slice) finishes.
func (s *Scheduler) QueueMicrotask(fn func()) {
	s.microtasks = append(s.microtasks, fn)
}

// FlushMicrotasks runs microtasks until none are left, including any queued
// by the ones being run.
func (s *Scheduler) FlushMicrotasks() {
	for len(s.microtasks) > 0 {
		fn := s.microtasks[0]
		s.microtasks[0] = nil
		s.microtasks = s.microtasks[1:]
		fn()
	}
	s.microtasks = nil
}

// HasPendingWork reports whether any task or microtask is waiting.
func (s *Scheduler) HasPendingWork() bool {
	if len(s.microtasks) > 0 {
		return true
	}
	for _, t := range s.queue {
		if t.callback != nil {
			return true
		}
	}
	return false
}

// FlushSlice runs one time slice of queued tasks followed by microtasks.
// It returns whether work remains.
func (s *Scheduler) FlushSlice() bool {
	s.FlushMicrotasks()
	s.flushWork()
	s.FlushMicrotasks()
	return s.HasPendingWork()
}

// FlushAll runs slices until nothing is queued.
func (s *Scheduler) FlushAll() {
	for i := 0; s.FlushSlice(); i++ {
		if i >= maxFlushRounds {
			panic(fmt.Errorf("%w after %d slices", ErrFlushLimit, i))
		}
	}
}

// Act runs fn and then flushes every task it caused.
func (s *Scheduler) Act(fn func()) {
	fn()
	s.FlushAll()
}

func (s *Scheduler) flushWork() {
	if s.isPerformingWork {
		return
	}
	s.isPerformingWork = true
	prevPriority := s.currentPriority
	defer func() {
		s.currentTask = nil
		s.currentPriority = prevPriority
		s.isPerformingWork = false
	}()

	s.sliceStart = s.clock.Now()
	s.yieldLeft = s.yieldEvery

	now := s.sliceStart
	s.currentTask = s.queue.peek()
	for s.currentTask != nil {
		t := s.currentTask
		if t.expirationTime.After(now) && s.sliceExpired() {
			break
		}
		cb := t.callback
		if cb == nil {
			heap.Pop(&s.queue)
			s.currentTask = s.queue.peek()
			continue
		}

		t.callback = nil
		s.currentPriority = t.priority
		didTimeout := !t.expirationTime.After(now)
		cont := cb(didTimeout)
		now = s.clock.Now()
		if cont != nil {
			t.callback = cont
			if s.sliceSpent() {
				return
			}
			s.currentTask = s.queue.peek()
			continue
		}
		if t.index >= 0 && t == s.queue.peek() {
			heap.Pop(&s.queue)
		}
		s.currentTask = s.queue.peek()
	}
}

// Post hands fn to the goroutine running Run. It is safe to call from any
// goroutine.
func (s *Scheduler) Post(fn func()) {
	s.mu.Lock()
	s.inbox = append(s.inbox, fn)
	s.mu.Unlock()
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Scheduler) drainInbox() bool {
	s.mu.Lock()
	fns := s.inbox
	s.inbox = nil
	s.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
	return len(fns) > 0
}

// Run owns the scheduler until ctx is done: posted functions run between
// slices and queued tasks are flushed as they appear.
func (s *Scheduler) Run(ctx context.Context) error {
	s.log.Debug().Msg("scheduler running")
	defer s.log.Debug().Msg("scheduler stopped")
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.drainInbox()
		if s.FlushSlice() {
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.wake:
		}
	}
}
