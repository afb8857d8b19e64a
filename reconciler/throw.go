package reconciler

import (
	"errors"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/delaneyj/fiberparty/element"
)

func (r *Reconciler) throwAndUnwindWorkLoop(root *FiberRoot, unitOfWork *Fiber, thrown error, reason suspendedReason) {
	if reason == suspendedOnError {
		r.log.Error().Err(thrown).Str("type", element.TypeName(unitOfWork.typ)).Msg("render aborted")
		if r.onError != nil {
			r.onError(root, thrown)
		}
		r.wipRootExitStatus = RootDidNotComplete
		r.wip = nil
		return
	}

	var se *SuspenseError
	if !errors.As(thrown, &se) {
		r.wipRootExitStatus = RootDidNotComplete
		r.wip = nil
		return
	}
	r.throwException(root, se.Wakeable, r.wipRootRenderLane)
	r.unwindUnitOfWork(unitOfWork)
}

// throwException marks the nearest boundary to capture the suspension and
// arranges for the root to retry once wakeable settles.
func (r *Reconciler) throwException(root *FiberRoot, wakeable Wakeable, lane Lane) {
	boundary := r.getSuspenseHandler()
	if boundary != nil {
		boundary.flags |= ShouldCapture
	}
	r.attachPingListener(root, wakeable, lane, boundary)
}

func (r *Reconciler) attachPingListener(root *FiberRoot, wakeable Wakeable, lane Lane, boundary *Fiber) {
	threadIDs, ok := root.pingCache[wakeable]
	if !ok {
		threadIDs = mapset.NewThreadUnsafeSet[Lane]()
		root.pingCache[wakeable] = threadIDs
	}
	if !threadIDs.Add(lane) {
		return
	}
	wakeable.Then(func() {
		delete(root.pingCache, wakeable)
		r.log.Debug().Stringer("lane", lane).Msg("suspended render pinged")
		markRootPinged(root, lane)
		markRootUpdated(root, lane)
		if boundary != nil {
			markUpdateLaneFromFiberToRoot(boundary, lane)
		}
		r.ensureRootIsScheduled(root)
	})
}

// unwindUnitOfWork walks up from a suspended fiber to the boundary that
// captured it, popping every stack entry pushed on the way down.
func (r *Reconciler) unwindUnitOfWork(unitOfWork *Fiber) {
	incomplete := unitOfWork
	for incomplete != nil {
		if next := r.unwindWork(incomplete); next != nil {
			r.wip = next
			return
		}
		if parent := incomplete.parent; parent != nil {
			parent.deletions = nil
			parent.flags &^= ChildDeletion
			parent.subtreeFlags = NoFlags
		}
		incomplete = incomplete.parent
	}
	r.wipRootExitStatus = RootDidNotComplete
	r.wip = nil
}

func (r *Reconciler) unwindWork(wip *Fiber) *Fiber {
	switch wip.tag {
	case SuspenseComponent:
		r.popSuspenseHandler()
		if wip.flags&ShouldCapture != 0 && wip.flags&DidCapture == 0 {
			wip.flags = wip.flags&^ShouldCapture | DidCapture
			return wip
		}
	case ContextProvider:
		r.popProvider(wip.typ.(*element.ProviderType).Context)
	}
	return nil
}
