package reconciler

// update is one pending state transition. Exactly one of action and fn is
// meaningful: fn, when set, derives the next state from the previous one.
type update struct {
	action any
	fn     func(prev any) any
	lane   Lane

	hasEagerState bool
	eagerState    any

	next *update
}

func (u *update) apply(prev any) any {
	if u.fn != nil {
		return u.fn(prev)
	}
	return u.action
}

// sharedQueue holds the tail of a circular list of pending updates. Both
// twins of a fiber see the same sharedQueue.
type sharedQueue struct {
	pending *update
}

// updateQueue backs a state hook.
type updateQueue struct {
	shared            *sharedQueue
	dispatch          any
	lastRenderedState any
}

func newUpdateQueue() *updateQueue {
	return &updateQueue{shared: &sharedQueue{}}
}

// rootQueue backs the host root. baseState and baseQueue are copied per
// pass so an aborted pass leaves the committed copy intact.
type rootQueue struct {
	shared    *sharedQueue
	baseState any
	baseQueue *update
}

// enqueueUpdate splices u in as the new tail.
func enqueueUpdate(q *sharedQueue, u *update) {
	if pending := q.pending; pending == nil {
		u.next = u
	} else {
		u.next = pending.next
		pending.next = u
	}
	q.pending = u
}

// mergeQueues joins two circular lists given by their tails and returns the
// new tail.
func mergeQueues(baseTail, pendingTail *update) *update {
	if baseTail == nil {
		return pendingTail
	}
	if pendingTail == nil {
		return baseTail
	}
	baseFirst := baseTail.next
	pendingFirst := pendingTail.next
	baseTail.next = pendingFirst
	pendingTail.next = baseFirst
	return pendingTail
}

type processedQueue struct {
	memoizedState any
	baseState     any
	baseQueue     *update
}

// processUpdateQueue folds the circular list ending at tail over baseState.
// Updates outside renderLane are skipped and carried in the returned base
// queue, together with every update after the first skip. onSkip sees each
// skipped update so the caller can keep its lane pending.
func processUpdateQueue(baseState any, tail *update, renderLane Lane, onSkip func(*update)) processedQueue {
	result := processedQueue{memoizedState: baseState, baseState: baseState}
	if tail == nil {
		return result
	}

	newState, newBaseState := baseState, baseState
	var newBaseFirst, newBaseLast *update
	first := tail.next
	pending := first
	for {
		lane := pending.lane
		if !IsSubsetOfLanes(renderLane, lane) {
			clone := &update{action: pending.action, fn: pending.fn, lane: lane}
			if onSkip != nil {
				onSkip(clone)
			}
			if newBaseFirst == nil {
				newBaseFirst, newBaseLast = clone, clone
				newBaseState = newState
			} else {
				newBaseLast.next = clone
				newBaseLast = clone
			}
		} else {
			if newBaseLast != nil {
				clone := &update{action: pending.action, fn: pending.fn, lane: NoLane}
				newBaseLast.next = clone
				newBaseLast = clone
			}
			if pending.hasEagerState {
				newState = pending.eagerState
			} else {
				newState = pending.apply(newState)
			}
		}
		pending = pending.next
		if pending == first {
			break
		}
	}

	if newBaseLast == nil {
		newBaseState = newState
	} else {
		newBaseLast.next = newBaseFirst
	}
	result.memoizedState = newState
	result.baseState = newBaseState
	result.baseQueue = newBaseLast
	return result
}
