package reconciler

import (
	"fmt"

	"github.com/delaneyj/fiberparty/element"
)

// SetState updates one state hook. The same *SetState is returned on every
// render of the component.
type SetState[S any] struct {
	r     *Reconciler
	fiber *Fiber
	queue *updateQueue
}

// Set replaces the state with v.
func (s *SetState[S]) Set(v S) {
	s.r.dispatchSetState(s.fiber, s.queue, &update{action: v})
}

// Update derives the next state from the previous one.
func (s *SetState[S]) Update(fn func(prev S) S) {
	s.r.dispatchSetState(s.fiber, s.queue, &update{fn: func(prev any) any {
		p, _ := prev.(S)
		return fn(p)
	}})
}

func UseState[S any](h *Hooks, initial S) (S, *SetState[S]) {
	state, q := h.dispatcher().useState(initial)
	set, ok := q.dispatch.(*SetState[S])
	if !ok {
		set = &SetState[S]{r: h.r, fiber: h.fiber, queue: q}
		q.dispatch = set
	}
	s, _ := state.(S)
	return s, set
}

// UseEffect runs create after the commit that rendered it, and again after
// any commit where deps changed. The function create returns, if any, runs
// before the next create and on unmount. A nil deps runs after every
// commit; an empty one only once.
func UseEffect(h *Hooks, create func() func(), deps []any) {
	h.dispatcher().useEffect(create, deps)
}

func UseMemo[T any](h *Hooks, compute func() T, deps []any) T {
	v := h.dispatcher().useMemo(func() any { return compute() }, deps)
	t, _ := v.(T)
	return t
}

func UseCallback[F any](h *Hooks, fn F, deps []any) F {
	v := h.dispatcher().useMemo(func() any { return fn }, deps)
	f, _ := v.(F)
	return f
}

// UseRef returns the same box on every render.
func UseRef(h *Hooks, initial any) *element.RefObject {
	return h.dispatcher().useRef(initial)
}

// UseContext reads the value of the nearest provider of ctx above the
// component, or ctx.Default.
func UseContext(h *Hooks, ctx *element.Context) any {
	if h == nil || h.done || h.r.render.hooks != h {
		panic(fmt.Errorf("%w: reading %s", ErrContextOutsideRender, ctx.Name))
	}
	return h.r.readContext(h.fiber, ctx)
}

// UseTransition returns whether a transition started here is pending and
// a function that starts one.
func UseTransition(h *Hooks) (bool, func(func())) {
	return h.dispatcher().useTransition()
}

// Use unwraps p. While p is pending it returns an error matching
// ErrSuspended; the component should return it so the nearest Suspense
// boundary shows its fallback until p settles.
func Use[T any](h *Hooks, p *Promise[T]) (T, error) {
	h.dispatcher()
	v, status, reason := p.result()
	switch status {
	case PromiseFulfilled:
		return v, nil
	case PromiseRejected:
		return v, reason
	default:
		var zero T
		return zero, &SuspenseError{Wakeable: p}
	}
}
