// Package reconciler turns element trees into host mutations. It keeps two
// generations of fibers (the committed tree and the one being built),
// renders them lane by lane on a cooperative scheduler, and applies the
// result to a HostConfig in a mutation pass followed by deferred passive
// effects.
package reconciler

import (
	"os"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/delaneyj/fiberparty/element"
	"github.com/delaneyj/fiberparty/scheduler"
	"github.com/rs/zerolog"
)

type rootExitStatus uint8

const (
	RootInProgress rootExitStatus = iota
	RootInComplete
	RootCompleted
	RootDidNotComplete
)

type suspendedReason uint8

const (
	notSuspended suspendedReason = iota
	suspendedOnError
	suspendedOnData
)

// Reconciler owns every piece of render-phase state. It is not safe for
// concurrent use; drive it from the scheduler's goroutine.
type Reconciler struct {
	host    HostConfig
	sched   *scheduler.Scheduler
	log     zerolog.Logger
	onError OnErrorFunc

	// work loop
	wipRoot            *FiberRoot
	wip                *Fiber
	wipRootRenderLane  Lane
	wipRootExitStatus  rootExitStatus
	wipSuspendedReason suspendedReason
	wipThrownValue     error
	interleavedLanes   Lanes

	syncQueue           []func()
	isFlushingSyncQueue bool

	isTransition bool

	render           renderContext
	didReceiveUpdate bool
	lastContextDep   *contextItem

	contextValues map[*element.Context]any
	contextStack  []providerEntry

	suspenseHandlers []*Fiber
}

type options struct {
	logger  zerolog.Logger
	onError OnErrorFunc
}

type Option func(*options)

func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithOnRenderError registers a callback for component errors that abort a
// render pass.
func WithOnRenderError(fn OnErrorFunc) Option {
	return func(o *options) { o.onError = fn }
}

func New(host HostConfig, sched *scheduler.Scheduler, opts ...Option) *Reconciler {
	o := &options{
		logger: zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(zerolog.WarnLevel).
			With().Timestamp().Str("component", "reconciler").
			Logger(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return &Reconciler{
		host:          host,
		sched:         sched,
		log:           o.logger,
		onError:       o.onError,
		contextValues: map[*element.Context]any{},
	}
}

func (r *Reconciler) Scheduler() *scheduler.Scheduler { return r.sched }

// CreateContainer creates the root record for a host container.
func (r *Reconciler) CreateContainer(container any) *FiberRoot {
	hostRootFiber := newFiber(HostRoot, nil, "")
	hostRootFiber.updateQueue = &rootQueue{shared: &sharedQueue{}}
	root := &FiberRoot{
		container: container,
		current:   hostRootFiber,
		pingCache: map[Wakeable]mapset.Set[Lane]{},
	}
	hostRootFiber.stateNode = root
	return root
}

// UpdateContainer schedules el as the new content of root. Root renders
// always use the sync lane.
func (r *Reconciler) UpdateContainer(el any, root *FiberRoot) Lane {
	hostRootFiber := root.current
	lane := SyncLane
	q := hostRootFiber.updateQueue.(*rootQueue)
	enqueueUpdate(q.shared, &update{action: el, lane: lane})
	r.scheduleUpdateOnFiber(hostRootFiber, lane)
	return lane
}

// FlushSync runs fn at the highest priority and then renders whatever sync
// work it produced before returning.
func (r *Reconciler) FlushSync(fn func()) {
	if fn != nil {
		r.sched.RunWithPriority(scheduler.ImmediatePriority, fn)
	}
	r.flushSyncCallbacks()
}

// StartTransition runs fn with every update it dispatches tagged with the
// transition lane.
func (r *Reconciler) StartTransition(fn func()) {
	prev := r.isTransition
	r.isTransition = true
	defer func() { r.isTransition = prev }()
	fn()
}

func (r *Reconciler) requestUpdateLane() Lane {
	if r.isTransition {
		return TransitionLane
	}
	return schedulerPriorityToLane(r.sched.CurrentPriority())
}

// FlushPassiveEffects runs pending passive effects of root now instead of
// waiting for the scheduled task.
func (r *Reconciler) FlushPassiveEffects(root *FiberRoot) bool {
	return r.flushPassiveEffects(&root.pendingPassiveEffects)
}
