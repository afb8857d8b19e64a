package reconciler

import (
	"fmt"

	"github.com/delaneyj/fiberparty/element"
)

// Component renders props into children: an element, text, a slice of
// children, or nil. Returning an error aborts the pass; returning the error
// from Use suspends the nearest Suspense boundary instead.
type Component func(h *Hooks, props element.Props) (any, error)

// Hooks is the handle a component receives for one render. It goes stale
// once that render returns.
type Hooks struct {
	r     *Reconciler
	fiber *Fiber
	done  bool
}

func (h *Hooks) dispatcher() dispatcher {
	if h == nil || h.done || h.r.render.hooks != h {
		panic(ErrInvalidHookCall)
	}
	return h.r.render.dispatcher
}

// renderContext is the scratch state of the one component being rendered.
type renderContext struct {
	fiber       *Fiber
	hooks       *Hooks
	dispatcher  dispatcher
	currentHook *hook
	wipHook     *hook
	renderLane  Lane
}

type hook struct {
	memoizedState any
	updateQueue   *updateQueue
	baseState     any
	baseQueue     *update
	next          *hook
}

type effect struct {
	tag     hookFlags
	create  func() func()
	destroy func()
	deps    []any
	next    *effect
}

// fcUpdateQueue is a function component's update queue: the tail of its
// circular effect list.
type fcUpdateQueue struct {
	lastEffect *effect
}

type memoState struct {
	value any
	deps  []any
}

type dispatcher interface {
	useState(initial any) (any, *updateQueue)
	useEffect(create func() func(), deps []any)
	useMemo(compute func() any, deps []any) any
	useRef(initial any) *element.RefObject
	useTransition() (bool, func(func()))
}

func (r *Reconciler) renderWithHooks(wip *Fiber, component Component, lane Lane) (children any, err error) {
	rc := &r.render
	rc.fiber = wip
	rc.renderLane = lane
	wip.memoizedState = nil
	wip.updateQueue = nil

	current := wip.alternate
	if current != nil {
		rc.dispatcher = updateDispatcher{r}
	} else {
		rc.dispatcher = mountDispatcher{r}
	}
	h := &Hooks{r: r, fiber: wip}
	rc.hooks = h
	defer func() {
		h.done = true
		r.render = renderContext{}
	}()

	children, err = component(h, wip.pendingProps)
	if err == nil && current != nil {
		var unused *hook
		if rc.currentHook != nil {
			unused = rc.currentHook.next
		} else {
			unused, _ = current.memoizedState.(*hook)
		}
		if unused != nil {
			panic(fmt.Errorf("%w: %s", ErrTooFewHooks, element.TypeName(wip.typ)))
		}
	}
	return children, err
}

func (r *Reconciler) mountWorkInProgressHook() *hook {
	rc := &r.render
	h := &hook{}
	if rc.wipHook == nil {
		rc.fiber.memoizedState = h
	} else {
		rc.wipHook.next = h
	}
	rc.wipHook = h
	return h
}

// updateWorkInProgressHook clones the next hook of the committed render.
func (r *Reconciler) updateWorkInProgressHook() *hook {
	rc := &r.render
	var next *hook
	if rc.currentHook == nil {
		if current := rc.fiber.alternate; current != nil {
			next, _ = current.memoizedState.(*hook)
		}
	} else {
		next = rc.currentHook.next
	}
	if next == nil {
		panic(fmt.Errorf("%w: %s", ErrTooManyHooks, element.TypeName(rc.fiber.typ)))
	}
	rc.currentHook = next

	h := &hook{
		memoizedState: next.memoizedState,
		updateQueue:   next.updateQueue,
		baseState:     next.baseState,
		baseQueue:     next.baseQueue,
	}
	if rc.wipHook == nil {
		rc.fiber.memoizedState = h
	} else {
		rc.wipHook.next = h
	}
	rc.wipHook = h
	return h
}

func (r *Reconciler) pushEffect(tag hookFlags, create func() func(), destroy func(), deps []any) *effect {
	e := &effect{tag: tag, create: create, destroy: destroy, deps: deps}
	fiber := r.render.fiber
	q, _ := fiber.updateQueue.(*fcUpdateQueue)
	if q == nil {
		q = &fcUpdateQueue{}
		fiber.updateQueue = q
	}
	if last := q.lastEffect; last == nil {
		e.next = e
	} else {
		e.next = last.next
		last.next = e
	}
	q.lastEffect = e
	return e
}

// areHookInputsEqual compares dependency lists element-wise. A nil list
// never matches.
func areHookInputsEqual(next, prev []any) bool {
	if next == nil || prev == nil || len(next) != len(prev) {
		return false
	}
	for i := range next {
		if !element.Is(next[i], prev[i]) {
			return false
		}
	}
	return true
}

type mountDispatcher struct{ r *Reconciler }

func (d mountDispatcher) useState(initial any) (any, *updateQueue) {
	h := d.r.mountWorkInProgressHook()
	h.memoizedState = initial
	h.baseState = initial
	q := newUpdateQueue()
	q.lastRenderedState = initial
	h.updateQueue = q
	return initial, q
}

func (d mountDispatcher) useEffect(create func() func(), deps []any) {
	h := d.r.mountWorkInProgressHook()
	d.r.render.fiber.flags |= PassiveEffect
	h.memoizedState = d.r.pushEffect(hookPassive|hookHasEffect, create, nil, deps)
}

func (d mountDispatcher) useMemo(compute func() any, deps []any) any {
	h := d.r.mountWorkInProgressHook()
	v := compute()
	h.memoizedState = memoState{value: v, deps: deps}
	return v
}

func (d mountDispatcher) useRef(initial any) *element.RefObject {
	h := d.r.mountWorkInProgressHook()
	ref := &element.RefObject{Current: initial}
	h.memoizedState = ref
	return ref
}

func (d mountDispatcher) useTransition() (bool, func(func())) {
	fiber := d.r.render.fiber
	_, q := d.useState(false)
	h := d.r.mountWorkInProgressHook()
	setPending := func(v bool) { d.r.dispatchSetState(fiber, q, &update{action: v}) }
	start := func(cb func()) { d.r.startTransition(setPending, cb) }
	h.memoizedState = start
	return false, start
}

type updateDispatcher struct{ r *Reconciler }

func (d updateDispatcher) useState(any) (any, *updateQueue) {
	r := d.r
	h := r.updateWorkInProgressHook()
	q := h.updateQueue
	if q == nil {
		panic(fmt.Errorf("%w: hook order changed in %s", ErrInvalidHookCall, element.TypeName(r.render.fiber.typ)))
	}
	current := r.render.currentHook
	fiber := r.render.fiber

	baseQueue := h.baseQueue
	if pending := q.shared.pending; pending != nil {
		baseQueue = mergeQueues(baseQueue, pending)
		// kept on the committed hook so an abandoned pass does not lose it
		current.baseQueue = baseQueue
		q.shared.pending = nil
	}
	if baseQueue != nil {
		prevState := h.memoizedState
		res := processUpdateQueue(h.baseState, baseQueue, r.render.renderLane, func(u *update) {
			fiber.lanes |= u.lane
		})
		if !element.Is(prevState, res.memoizedState) {
			r.didReceiveUpdate = true
		}
		h.memoizedState = res.memoizedState
		h.baseState = res.baseState
		h.baseQueue = res.baseQueue
		q.lastRenderedState = res.memoizedState
	}
	return h.memoizedState, q
}

func (d updateDispatcher) useEffect(create func() func(), deps []any) {
	r := d.r
	h := r.updateWorkInProgressHook()
	var destroy func()
	if prev, ok := r.render.currentHook.memoizedState.(*effect); ok {
		destroy = prev.destroy
		if areHookInputsEqual(deps, prev.deps) {
			h.memoizedState = r.pushEffect(hookPassive, create, destroy, deps)
			return
		}
	}
	r.render.fiber.flags |= PassiveEffect
	h.memoizedState = r.pushEffect(hookPassive|hookHasEffect, create, destroy, deps)
}

func (d updateDispatcher) useMemo(compute func() any, deps []any) any {
	h := d.r.updateWorkInProgressHook()
	if prev, ok := h.memoizedState.(memoState); ok && areHookInputsEqual(deps, prev.deps) {
		return prev.value
	}
	v := compute()
	h.memoizedState = memoState{value: v, deps: deps}
	return v
}

func (d updateDispatcher) useRef(any) *element.RefObject {
	h := d.r.updateWorkInProgressHook()
	ref, _ := h.memoizedState.(*element.RefObject)
	return ref
}

func (d updateDispatcher) useTransition() (bool, func(func())) {
	pending, _ := d.useState(nil)
	h := d.r.updateWorkInProgressHook()
	start, _ := h.memoizedState.(func(func()))
	isPending, _ := pending.(bool)
	return isPending, start
}

func (r *Reconciler) startTransition(setPending func(bool), cb func()) {
	setPending(true)
	prev := r.isTransition
	r.isTransition = true
	defer func() { r.isTransition = prev }()
	cb()
	setPending(false)
}

// dispatchSetState enqueues u on a state hook of fiber and schedules a
// render, unless the eagerly computed state shows nothing would change.
func (r *Reconciler) dispatchSetState(fiber *Fiber, q *updateQueue, u *update) {
	lane := r.requestUpdateLane()
	u.lane = lane

	if fiber.lanes == NoLanes && (fiber.alternate == nil || fiber.alternate.lanes == NoLanes) {
		current := q.lastRenderedState
		eager := u.apply(current)
		u.hasEagerState = true
		u.eagerState = eager
		if element.Is(eager, current) {
			u.lane = NoLane
			enqueueUpdate(q.shared, u)
			r.log.Trace().Str("component", element.TypeName(fiber.typ)).Msg("eager state unchanged")
			return
		}
	}

	enqueueUpdate(q.shared, u)
	r.scheduleUpdateOnFiber(fiber, lane)
}
