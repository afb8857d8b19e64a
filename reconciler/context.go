package reconciler

import (
	"fmt"

	"github.com/delaneyj/fiberparty/element"
)

type providerEntry struct {
	context *element.Context
	prev    any
	hadPrev bool
}

func (r *Reconciler) pushProvider(ctx *element.Context, value any) {
	prev, had := r.contextValues[ctx]
	r.contextStack = append(r.contextStack, providerEntry{context: ctx, prev: prev, hadPrev: had})
	r.contextValues[ctx] = value
}

func (r *Reconciler) popProvider(ctx *element.Context) {
	last := len(r.contextStack) - 1
	if last < 0 {
		panic(fmt.Sprintf("context stack underflow popping %s", ctx.Name))
	}
	e := r.contextStack[last]
	r.contextStack = r.contextStack[:last]
	if e.hadPrev {
		r.contextValues[ctx] = e.prev
	} else {
		delete(r.contextValues, ctx)
	}
}

func (r *Reconciler) currentContextValue(ctx *element.Context) any {
	if v, ok := r.contextValues[ctx]; ok {
		return v
	}
	return ctx.Default
}

func (r *Reconciler) prepareToReadContext(wip *Fiber, lane Lane) {
	r.lastContextDep = nil
	deps := wip.dependencies
	if deps == nil || deps.firstContext == nil {
		return
	}
	if IncludesSomeLane(deps.lanes, lane) {
		r.didReceiveUpdate = true
	}
	deps.firstContext = nil
}

// readContext returns the nearest provided value of ctx and records the
// read on consumer so a later provider change reaches it.
func (r *Reconciler) readContext(consumer *Fiber, ctx *element.Context) any {
	if consumer == nil {
		panic(fmt.Errorf("%w: reading %s", ErrContextOutsideRender, ctx.Name))
	}
	value := r.currentContextValue(ctx)
	item := &contextItem{context: ctx, memoizedState: value}
	if r.lastContextDep == nil {
		r.lastContextDep = item
		consumer.dependencies = &dependencies{lanes: NoLanes, firstContext: item}
	} else {
		r.lastContextDep.next = item
		r.lastContextDep = item
	}
	return value
}

// propagateContextChange marks every fiber under provider that read ctx
// with lane, and the path back up to provider.
func (r *Reconciler) propagateContextChange(provider *Fiber, ctx *element.Context, lane Lane) {
	fiber := provider.child
	if fiber != nil {
		fiber.parent = provider
	}
	for fiber != nil {
		var next *Fiber
		if deps := fiber.dependencies; deps != nil {
			next = fiber.child
			for item := deps.firstContext; item != nil; item = item.next {
				if item.context != ctx {
					continue
				}
				fiber.lanes |= lane
				if alt := fiber.alternate; alt != nil {
					alt.lanes |= lane
				}
				scheduleContextWorkOnParentPath(fiber.parent, lane, provider)
				deps.lanes |= lane
				break
			}
		} else if fiber.tag == ContextProvider && element.SameType(fiber.typ, provider.typ) {
			// a nested provider of the same context shadows this one
			next = nil
		} else {
			next = fiber.child
		}

		if next != nil {
			next.parent = fiber
		} else {
			next = fiber
			for next != nil {
				if next == provider {
					next = nil
					break
				}
				if sibling := next.sibling; sibling != nil {
					sibling.parent = next.parent
					next = sibling
					break
				}
				next = next.parent
			}
		}
		fiber = next
	}
}

func scheduleContextWorkOnParentPath(from *Fiber, lane Lane, to *Fiber) {
	for node := from; node != nil; node = node.parent {
		alt := node.alternate
		if !IsSubsetOfLanes(node.childLanes, lane) {
			node.childLanes |= lane
			if alt != nil {
				alt.childLanes |= lane
			}
		} else if alt != nil && !IsSubsetOfLanes(alt.childLanes, lane) {
			alt.childLanes |= lane
		}
		if node == to {
			break
		}
	}
}
