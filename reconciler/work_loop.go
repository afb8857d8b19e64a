package reconciler

import (
	"errors"
	"fmt"

	"github.com/delaneyj/fiberparty/element"
	"github.com/delaneyj/fiberparty/scheduler"
)

// scheduleUpdateOnFiber records lane on fiber and its ancestors and makes
// sure the owning root has a render scheduled for it.
func (r *Reconciler) scheduleUpdateOnFiber(fiber *Fiber, lane Lane) {
	root := markUpdateLaneFromFiberToRoot(fiber, lane)
	if root == nil {
		r.log.Warn().Str("type", element.TypeName(fiber.typ)).Msg("update on an unmounted component")
		return
	}
	markRootUpdated(root, lane)
	if root == r.wipRoot && r.wipRootRenderLane != NoLane {
		r.interleavedLanes |= lane
	}
	r.ensureRootIsScheduled(root)
}

func markUpdateLaneFromFiberToRoot(fiber *Fiber, lane Lane) *FiberRoot {
	fiber.lanes |= lane
	if alt := fiber.alternate; alt != nil {
		alt.lanes |= lane
	}
	node := fiber
	for parent := fiber.parent; parent != nil; parent = parent.parent {
		parent.childLanes |= lane
		if alt := parent.alternate; alt != nil {
			alt.childLanes |= lane
		}
		node = parent
	}
	if node.tag != HostRoot {
		return nil
	}
	root, _ := node.stateNode.(*FiberRoot)
	return root
}

// ensureRootIsScheduled keeps exactly one pending callback per root, at the
// priority of its most urgent pending lane.
func (r *Reconciler) ensureRootIsScheduled(root *FiberRoot) {
	lane := getNextLane(root)
	existing := root.callbackNode

	if lane == NoLane {
		if existing != nil {
			r.sched.CancelCallback(existing)
		}
		root.callbackNode = nil
		root.callbackPriority = NoLane
		return
	}
	if lane == root.callbackPriority {
		return
	}
	if existing != nil {
		r.sched.CancelCallback(existing)
	}

	var task *scheduler.Task
	if lane == SyncLane {
		r.log.Debug().Stringer("lane", lane).Msg("scheduling sync render")
		r.scheduleSyncCallback(func() { r.performSyncWorkOnRoot(root) })
		r.host.ScheduleMicrotask(r.flushSyncCallbacks)
	} else {
		p := lanesToSchedulerPriority(lane)
		r.log.Debug().Stringer("lane", lane).Stringer("priority", p).Msg("scheduling concurrent render")
		task = r.sched.ScheduleCallback(p, func(didTimeout bool) scheduler.Callback {
			return r.performConcurrentWorkOnRoot(root, didTimeout)
		})
	}
	root.callbackNode = task
	root.callbackPriority = lane
}

func (r *Reconciler) performSyncWorkOnRoot(root *FiberRoot) {
	r.flushPassiveEffects(&root.pendingPassiveEffects)

	lane := getNextLane(root)
	if lane != SyncLane {
		r.ensureRootIsScheduled(root)
		return
	}
	r.finishRender(root, lane, r.renderRoot(root, lane, false))
}

func (r *Reconciler) performConcurrentWorkOnRoot(root *FiberRoot, didTimeout bool) scheduler.Callback {
	curCallback := root.callbackNode
	if r.flushPassiveEffects(&root.pendingPassiveEffects) && root.callbackNode != curCallback {
		return nil
	}

	lane := getNextLane(root)
	if lane == NoLane {
		return nil
	}
	needSync := lane == SyncLane || didTimeout
	status := r.renderRoot(root, lane, !needSync)

	if status == RootInComplete {
		if root.callbackNode != curCallback {
			return nil
		}
		return func(didTimeout bool) scheduler.Callback {
			return r.performConcurrentWorkOnRoot(root, didTimeout)
		}
	}
	r.finishRender(root, lane, status)
	return nil
}

func (r *Reconciler) finishRender(root *FiberRoot, lane Lane, status rootExitStatus) {
	switch status {
	case RootCompleted:
		root.finishedWork = root.current.alternate
		root.finishedLane = lane
		r.wipRootRenderLane = NoLane
		r.wipRoot = nil
		r.commitRoot(root)
	case RootDidNotComplete:
		r.wipRootRenderLane = NoLane
		r.wipRoot = nil
		r.wip = nil
		markRootSuspended(root, lane)
		r.ensureRootIsScheduled(root)
	default:
		r.log.Error().Uint8("status", uint8(status)).Msg("unexpected render exit status")
	}
}

func (r *Reconciler) prepareFreshStack(root *FiberRoot, lane Lane) {
	root.finishedWork = nil
	root.finishedLane = NoLane
	r.wipRoot = root
	r.wipRootRenderLane = lane
	r.wip = createWorkInProgress(root.current, root.current.memoizedProps)
	r.wipRootExitStatus = RootInProgress
	r.wipSuspendedReason = notSuspended
	r.wipThrownValue = nil
	r.interleavedLanes = NoLanes
	clear(r.contextValues)
	r.contextStack = r.contextStack[:0]
	r.suspenseHandlers = r.suspenseHandlers[:0]
}

func (r *Reconciler) renderRoot(root *FiberRoot, lane Lane, shouldTimeSlice bool) rootExitStatus {
	if r.wipRoot != root || r.wipRootRenderLane != lane {
		r.log.Debug().Stringer("lane", lane).Bool("concurrent", shouldTimeSlice).Msg("render pass start")
		r.prepareFreshStack(root, lane)
	}

	for {
		if r.wipSuspendedReason != notSuspended && r.wip != nil {
			thrown := r.wipThrownValue
			reason := r.wipSuspendedReason
			r.wipSuspendedReason = notSuspended
			r.wipThrownValue = nil
			r.throwAndUnwindWorkLoop(root, r.wip, thrown, reason)
		}

		var err error
		if shouldTimeSlice {
			err = r.workLoopConcurrent()
		} else {
			err = r.workLoopSync()
		}
		if err == nil {
			break
		}
		r.handleThrow(root, err)
	}

	if shouldTimeSlice && r.wip != nil {
		return RootInComplete
	}
	if r.wipRootExitStatus == RootInProgress {
		r.wipRootExitStatus = RootCompleted
	}
	r.log.Debug().Stringer("lane", lane).Uint8("status", uint8(r.wipRootExitStatus)).Msg("render pass finished")
	return r.wipRootExitStatus
}

func (r *Reconciler) workLoopSync() error {
	for r.wip != nil {
		if err := r.performUnitOfWork(r.wip); err != nil {
			return err
		}
	}
	return nil
}

func (r *Reconciler) workLoopConcurrent() error {
	for r.wip != nil && !r.sched.ShouldYield() {
		if err := r.performUnitOfWork(r.wip); err != nil {
			return err
		}
	}
	return nil
}

func (r *Reconciler) performUnitOfWork(fiber *Fiber) error {
	next, err := r.beginWork(fiber, r.wipRootRenderLane)
	if err != nil {
		return err
	}
	fiber.memoizedProps = fiber.pendingProps
	if next == nil {
		r.completeUnitOfWork(fiber)
	} else {
		r.wip = next
	}
	return nil
}

func (r *Reconciler) completeUnitOfWork(fiber *Fiber) {
	node := fiber
	for node != nil {
		r.completeWork(node)
		if sibling := node.sibling; sibling != nil {
			r.wip = sibling
			return
		}
		node = node.parent
		r.wip = node
	}
}

// handleThrow records why the fiber in progress stopped. The unwind itself
// happens at the top of the next work loop iteration.
func (r *Reconciler) handleThrow(root *FiberRoot, err error) {
	var se *SuspenseError
	switch {
	case errors.As(err, &se) && se.Wakeable != nil:
		r.wipSuspendedReason = suspendedOnData
	case errors.Is(err, ErrSuspended):
		r.wipSuspendedReason = suspendedOnError
		err = fmt.Errorf("%w: %w", ErrMissingThenable, err)
	default:
		r.wipSuspendedReason = suspendedOnError
	}
	r.wipThrownValue = err
	r.log.Debug().Err(err).Str("type", element.TypeName(r.wip.typ)).Msg("render interrupted")
}

func (r *Reconciler) flushSyncCallbacks() {
	if r.isFlushingSyncQueue {
		return
	}
	r.isFlushingSyncQueue = true
	defer func() { r.isFlushingSyncQueue = false }()
	for len(r.syncQueue) > 0 {
		queue := r.syncQueue
		r.syncQueue = nil
		for _, cb := range queue {
			cb()
		}
	}
}

func (r *Reconciler) scheduleSyncCallback(cb func()) {
	r.syncQueue = append(r.syncQueue, cb)
}
