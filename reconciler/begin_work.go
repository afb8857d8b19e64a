package reconciler

import (
	"github.com/delaneyj/fiberparty/element"
)

// beginWork renders wip and returns the next fiber to visit, or nil when
// wip has no children to walk. A non-nil error is a component failure or
// a suspension.
func (r *Reconciler) beginWork(wip *Fiber, renderLane Lane) (*Fiber, error) {
	r.didReceiveUpdate = false
	if current := wip.alternate; current != nil {
		if !element.SameProps(current.memoizedProps, wip.pendingProps) || !element.SameType(current.typ, wip.typ) {
			r.didReceiveUpdate = true
		} else if !checkScheduledUpdateOrContext(current, renderLane) && wip.flags&DidCapture == 0 {
			return r.attemptEarlyBailout(wip, renderLane), nil
		}
	}

	wip.lanes = NoLanes

	switch wip.tag {
	case HostRoot:
		return r.updateHostRoot(wip, renderLane), nil
	case HostComponent:
		r.reconcileChildren(wip, wip.pendingProps.Children())
		return wip.child, nil
	case HostText:
		return nil, nil
	case FunctionComponent:
		c, _ := asComponent(wip.typ)
		return r.updateFunctionComponent(wip, c, renderLane)
	case FragmentTag, OffscreenComponent:
		r.reconcileChildren(wip, wip.pendingProps.Children())
		return wip.child, nil
	case ContextProvider:
		return r.updateContextProvider(wip, renderLane), nil
	case SuspenseComponent:
		return r.updateSuspenseComponent(wip), nil
	case MemoComponent:
		return r.updateMemoComponent(wip, renderLane)
	default:
		r.log.Warn().Stringer("tag", wip.tag).Str("type", element.TypeName(wip.typ)).Msg("beginWork: unimplemented tag")
		return nil, nil
	}
}

func checkScheduledUpdateOrContext(current *Fiber, renderLane Lane) bool {
	return IncludesSomeLane(current.lanes, renderLane)
}

// attemptEarlyBailout keeps the stacks balanced for fibers that are skipped
// before their handler runs.
func (r *Reconciler) attemptEarlyBailout(wip *Fiber, renderLane Lane) *Fiber {
	switch wip.tag {
	case ContextProvider:
		r.pushProvider(wip.typ.(*element.ProviderType).Context, wip.memoizedProps["value"])
	case SuspenseComponent:
		if isHiddenOffscreen(wip.child) {
			r.pushSuspenseHandler(r.getSuspenseHandler())
		} else {
			r.pushSuspenseHandler(wip)
		}
	case OffscreenComponent:
		if isHiddenOffscreen(wip) {
			return nil
		}
	}
	return r.bailoutOnAlreadyFinishedWork(wip, renderLane)
}

func (r *Reconciler) bailoutOnAlreadyFinishedWork(wip *Fiber, renderLane Lane) *Fiber {
	if !IncludesSomeLane(wip.childLanes, renderLane) {
		r.log.Trace().Str("type", element.TypeName(wip.typ)).Msg("bailout: subtree skipped")
		return nil
	}
	cloneChildFibers(wip)
	return wip.child
}

func (r *Reconciler) updateHostRoot(wip *Fiber, renderLane Lane) *Fiber {
	committed := wip.updateQueue.(*rootQueue)
	q := &rootQueue{
		shared:    committed.shared,
		baseState: committed.baseState,
		baseQueue: committed.baseQueue,
	}
	if pending := q.shared.pending; pending != nil {
		q.baseQueue = mergeQueues(q.baseQueue, pending)
		committed.baseQueue = q.baseQueue
		q.shared.pending = nil
	}

	prevChildren := wip.memoizedState
	res := processUpdateQueue(q.baseState, q.baseQueue, renderLane, func(u *update) {
		wip.lanes |= u.lane
	})
	q.baseState = res.baseState
	q.baseQueue = res.baseQueue
	wip.updateQueue = q
	wip.memoizedState = res.memoizedState

	nextChildren := res.memoizedState
	if wip.alternate != nil && element.Is(prevChildren, nextChildren) {
		return r.bailoutOnAlreadyFinishedWork(wip, renderLane)
	}
	r.reconcileChildren(wip, nextChildren)
	return wip.child
}

func (r *Reconciler) updateFunctionComponent(wip *Fiber, component Component, renderLane Lane) (*Fiber, error) {
	if component == nil {
		r.log.Warn().Str("type", element.TypeName(wip.typ)).Msg("not a component")
		return nil, nil
	}
	r.prepareToReadContext(wip, renderLane)
	children, err := r.renderWithHooks(wip, component, renderLane)
	if err != nil {
		return nil, err
	}
	if current := wip.alternate; current != nil && !r.didReceiveUpdate {
		bailoutHooks(wip, current, renderLane)
		return r.bailoutOnAlreadyFinishedWork(wip, renderLane), nil
	}
	r.reconcileChildren(wip, children)
	return wip.child, nil
}

func bailoutHooks(wip, current *Fiber, renderLane Lane) {
	wip.updateQueue = current.updateQueue
	wip.flags &^= PassiveEffect | Update
	current.lanes = RemoveLanes(current.lanes, renderLane)
}

func (r *Reconciler) updateMemoComponent(wip *Fiber, renderLane Lane) (*Fiber, error) {
	memo := wip.typ.(*element.MemoType)
	if current := wip.alternate; current != nil && !checkScheduledUpdateOrContext(current, renderLane) {
		compare := memo.Compare
		if compare == nil {
			compare = element.ShallowEqual
		}
		if compare(current.memoizedProps, wip.pendingProps) && element.SameRef(current.ref, wip.ref) {
			r.didReceiveUpdate = false
			wip.pendingProps = current.memoizedProps
			return r.bailoutOnAlreadyFinishedWork(wip, renderLane), nil
		}
	}
	c, _ := asComponent(memo.Type)
	return r.updateFunctionComponent(wip, c, renderLane)
}

func (r *Reconciler) updateContextProvider(wip *Fiber, renderLane Lane) *Fiber {
	ctx := wip.typ.(*element.ProviderType).Context
	newProps := wip.pendingProps
	oldProps := wip.memoizedProps
	newValue := newProps["value"]

	r.pushProvider(ctx, newValue)

	if oldProps != nil {
		if element.Is(oldProps["value"], newValue) {
			if element.Is(oldProps.Children(), newProps.Children()) {
				return r.bailoutOnAlreadyFinishedWork(wip, renderLane)
			}
		} else {
			r.propagateContextChange(wip, ctx, renderLane)
		}
	}
	r.reconcileChildren(wip, newProps.Children())
	return wip.child
}

func (r *Reconciler) updateSuspenseComponent(wip *Fiber) *Fiber {
	current := wip.alternate
	nextProps := wip.pendingProps

	showFallback := false
	if wip.flags&DidCapture != 0 {
		showFallback = true
		wip.flags &^= DidCapture
	}
	primaryChildren := nextProps.Children()
	fallbackChildren := nextProps["fallback"]

	if showFallback {
		// a suspension inside the fallback belongs to the next boundary out
		r.pushSuspenseHandler(r.getSuspenseHandler())
		if current == nil {
			return mountSuspenseFallbackChildren(wip, primaryChildren, fallbackChildren)
		}
		return updateSuspenseFallbackChildren(wip, primaryChildren, fallbackChildren)
	}

	r.pushSuspenseHandler(wip)
	if current == nil {
		return mountSuspensePrimaryChildren(wip, primaryChildren)
	}
	return updateSuspensePrimaryChildren(wip, primaryChildren)
}

func offscreenProps(mode string, children any) element.Props {
	return element.Props{"mode": mode, "children": children}
}

func mountSuspensePrimaryChildren(wip *Fiber, primaryChildren any) *Fiber {
	primary := createFiberFromOffscreen(offscreenProps(offscreenVisible, primaryChildren))
	primary.parent = wip
	wip.child = primary
	return primary
}

// mountSuspenseFallbackChildren builds the hidden primary fiber without its
// subtree; it is rendered when the boundary retries.
func mountSuspenseFallbackChildren(wip *Fiber, primaryChildren, fallbackChildren any) *Fiber {
	primary := createFiberFromOffscreen(offscreenProps(offscreenHidden, primaryChildren))
	primary.memoizedProps = primary.pendingProps
	fallback := createFiberFromFragment(fallbackChildren, "")

	primary.parent = wip
	fallback.parent = wip
	primary.sibling = fallback
	wip.child = primary
	return fallback
}

func updateSuspensePrimaryChildren(wip *Fiber, primaryChildren any) *Fiber {
	current := wip.alternate
	currentPrimary := current.child
	currentFallback := currentPrimary.sibling

	primary := createWorkInProgress(currentPrimary, offscreenProps(offscreenVisible, primaryChildren))
	primary.parent = wip
	primary.sibling = nil
	wip.child = primary

	if currentFallback != nil {
		wip.deletions = append(wip.deletions, currentFallback)
		wip.flags |= ChildDeletion
	}
	return primary
}

// updateSuspenseFallbackChildren keeps the committed primary subtree as is
// (to be hidden) and renders the fallback next to it.
func updateSuspenseFallbackChildren(wip *Fiber, primaryChildren, fallbackChildren any) *Fiber {
	current := wip.alternate
	currentPrimary := current.child
	currentFallback := currentPrimary.sibling

	primary := createWorkInProgress(currentPrimary, offscreenProps(offscreenHidden, primaryChildren))
	primary.memoizedProps = primary.pendingProps

	var fallback *Fiber
	if currentFallback != nil {
		fallback = createWorkInProgress(currentFallback, element.Props{"children": fallbackChildren})
	} else {
		fallback = createFiberFromFragment(fallbackChildren, "")
		fallback.flags |= Placement
	}

	primary.parent = wip
	fallback.parent = wip
	primary.sibling = fallback
	fallback.sibling = nil
	wip.child = primary
	return fallback
}
