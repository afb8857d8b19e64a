package reconciler

import (
	"fmt"

	"github.com/delaneyj/fiberparty/element"
	"github.com/delaneyj/fiberparty/scheduler"
)

// commitRoot applies a finished tree to the host in one uninterrupted
// pass, swaps it in as the current tree and schedules its passive effects.
func (r *Reconciler) commitRoot(root *FiberRoot) {
	finished := root.finishedWork
	if finished == nil {
		return
	}
	lane := root.finishedLane
	if lane == NoLane {
		r.log.Warn().Msg("commit without a lane")
	}
	root.finishedWork = nil
	root.finishedLane = NoLane
	root.callbackNode = nil
	root.callbackPriority = NoLane

	markRootFinished(root, lane)
	root.pendingLanes |= r.interleavedLanes
	r.interleavedLanes = NoLanes

	if (finished.flags|finished.subtreeFlags)&PassiveMask != 0 && !root.hasPendingPassiveTask {
		root.hasPendingPassiveTask = true
		r.sched.ScheduleCallback(scheduler.NormalPriority, func(bool) scheduler.Callback {
			root.hasPendingPassiveTask = false
			r.flushPassiveEffects(&root.pendingPassiveEffects)
			return nil
		})
	}

	if (finished.flags|finished.subtreeFlags)&(MutationMask|PassiveMask) != 0 {
		r.commitMutationEffects(finished, root)
	}
	root.current = finished
	if (finished.flags|finished.subtreeFlags)&LayoutMask != 0 {
		r.commitLayoutEffects(finished)
	}

	r.log.Debug().Stringer("lane", lane).Stringer("pending", root.pendingLanes).Msg("committed")
	r.ensureRootIsScheduled(root)
}

func (r *Reconciler) commitMutationEffects(f *Fiber, root *FiberRoot) {
	if f.flags&ChildDeletion != 0 {
		for _, d := range f.deletions {
			r.commitDeletion(d, root)
		}
		f.deletions = nil
		f.flags &^= ChildDeletion
	}
	if f.subtreeFlags&(MutationMask|PassiveMask) != 0 {
		for child := f.child; child != nil; child = child.sibling {
			r.commitMutationEffects(child, root)
		}
	}

	if f.flags&Placement != 0 {
		r.commitPlacement(f)
		f.flags &^= Placement
	}
	if f.flags&Update != 0 {
		r.commitUpdate(f)
		f.flags &^= Update
	}
	if f.flags&PassiveEffect != 0 {
		if q, _ := f.updateQueue.(*fcUpdateQueue); q != nil && q.lastEffect != nil {
			root.pendingPassiveEffects.update = append(root.pendingPassiveEffects.update, q.lastEffect)
		}
		f.flags &^= PassiveEffect
	}
	if f.flags&Ref != 0 && f.tag == HostComponent {
		if current := f.alternate; current != nil && current.ref != nil {
			current.ref.Attach(nil)
		}
	}
	if f.flags&Visibility != 0 && f.tag == OffscreenComponent {
		r.hideOrUnhideAllChildren(f, isHiddenOffscreen(f))
		f.flags &^= Visibility
	}
}

func (r *Reconciler) commitLayoutEffects(f *Fiber) {
	if f.subtreeFlags&LayoutMask != 0 {
		for child := f.child; child != nil; child = child.sibling {
			r.commitLayoutEffects(child)
		}
	}
	if f.flags&Ref != 0 {
		if f.tag == HostComponent && f.ref != nil {
			f.ref.Attach(f.stateNode)
		}
		f.flags &^= Ref
	}
}

func (r *Reconciler) getHostParent(f *Fiber) any {
	for parent := f.parent; parent != nil; parent = parent.parent {
		switch parent.tag {
		case HostComponent:
			return parent.stateNode
		case HostRoot:
			return parent.stateNode.(*FiberRoot).container
		}
	}
	panic(fmt.Sprintf("no host parent for %s", element.TypeName(f.typ)))
}

// getHostSibling finds the first host node after f that is already in
// place, or nil when f goes last in its host parent.
func getHostSibling(f *Fiber) any {
	node := f
findSibling:
	for {
		for node.sibling == nil {
			parent := node.parent
			if parent == nil || parent.tag == HostComponent || parent.tag == HostRoot {
				return nil
			}
			node = parent
		}
		node.sibling.parent = node.parent
		node = node.sibling

		for node.tag != HostComponent && node.tag != HostText {
			if node.flags&Placement != 0 || node.child == nil {
				continue findSibling
			}
			node.child.parent = node
			node = node.child
		}
		if node.flags&Placement == 0 {
			return node.stateNode
		}
	}
}

func (r *Reconciler) commitPlacement(f *Fiber) {
	parent := r.getHostParent(f)
	before := getHostSibling(f)
	r.log.Trace().Str("type", element.TypeName(f.typ)).Bool("insert", before != nil).Msg("placement")
	r.insertOrAppendPlacementNode(f, parent, before)
}

func (r *Reconciler) insertOrAppendPlacementNode(f *Fiber, parent, before any) {
	if f.tag == HostComponent || f.tag == HostText {
		var err error
		if before != nil {
			err = r.host.InsertBefore(parent, f.stateNode, before)
		} else {
			err = r.host.AppendChild(parent, f.stateNode)
		}
		if err != nil {
			panic(fmt.Errorf("commit placement of %s: %w", element.TypeName(f.typ), err))
		}
		return
	}
	for child := f.child; child != nil; child = child.sibling {
		r.insertOrAppendPlacementNode(child, parent, before)
	}
}

func (r *Reconciler) commitUpdate(f *Fiber) {
	current := f.alternate
	switch f.tag {
	case HostText:
		var old string
		if current != nil {
			old, _ = current.memoizedProps["content"].(string)
		}
		text, _ := f.memoizedProps["content"].(string)
		r.host.CommitTextUpdate(f.stateNode, old, text)
	case HostComponent:
		var oldProps element.Props
		if current != nil {
			oldProps = current.memoizedProps
		}
		typ, _ := f.typ.(string)
		r.host.CommitUpdate(f.stateNode, typ, oldProps, f.memoizedProps)
	default:
		r.log.Warn().Stringer("tag", f.tag).Msg("update flag on a non-host fiber")
	}
}

// commitDeletion removes the top-level host nodes of a deleted subtree,
// detaches its refs and queues the passive destroys of its components.
func (r *Reconciler) commitDeletion(childToDelete *Fiber, root *FiberRoot) {
	var hostNodes []any
	var walk func(f *Fiber, underHost bool)
	walk = func(f *Fiber, underHost bool) {
		switch f.tag {
		case HostComponent:
			if !underHost {
				hostNodes = append(hostNodes, f.stateNode)
			}
			if f.ref != nil {
				f.ref.Attach(nil)
			}
			underHost = true
		case HostText:
			if !underHost {
				hostNodes = append(hostNodes, f.stateNode)
			}
			return
		case FunctionComponent, MemoComponent:
			if q, _ := f.updateQueue.(*fcUpdateQueue); q != nil && q.lastEffect != nil {
				root.pendingPassiveEffects.unmount = append(root.pendingPassiveEffects.unmount, q.lastEffect)
			}
		}
		for child := f.child; child != nil; child = child.sibling {
			walk(child, underHost)
		}
	}
	walk(childToDelete, false)

	if len(hostNodes) > 0 {
		hostParent := r.getHostParent(childToDelete)
		for _, node := range hostNodes {
			if err := r.host.RemoveChild(hostParent, node); err != nil {
				panic(fmt.Errorf("commit deletion of %s: %w", element.TypeName(childToDelete.typ), err))
			}
		}
	}

	childToDelete.parent = nil
	childToDelete.child = nil
	if alt := childToDelete.alternate; alt != nil {
		alt.parent = nil
	}
}

// hideOrUnhideAllChildren toggles the top-level host nodes under an
// offscreen fiber. Nested hidden offscreens keep their own state.
func (r *Reconciler) hideOrUnhideAllChildren(f *Fiber, hide bool) {
	for child := f.child; child != nil; child = child.sibling {
		switch {
		case child.tag == HostComponent:
			if hide {
				r.host.HideInstance(child.stateNode)
			} else {
				r.host.UnhideInstance(child.stateNode, child.memoizedProps)
			}
		case child.tag == HostText:
			if hide {
				r.host.HideTextInstance(child.stateNode)
			} else {
				text, _ := child.memoizedProps["content"].(string)
				r.host.UnhideTextInstance(child.stateNode, text)
			}
		case child.tag == OffscreenComponent && isHiddenOffscreen(child):
		default:
			r.hideOrUnhideAllChildren(child, hide)
		}
	}
}

// flushPassiveEffects runs queued effect destroys, then creates. It reports
// whether there was anything to run.
func (r *Reconciler) flushPassiveEffects(pending *pendingPassiveEffects) bool {
	unmount, update := pending.unmount, pending.update
	pending.unmount, pending.update = nil, nil
	if len(unmount) == 0 && len(update) == 0 {
		return false
	}
	r.log.Debug().Int("unmount", len(unmount)).Int("update", len(update)).Msg("flushing passive effects")

	for _, last := range unmount {
		commitHookEffectListUnmount(hookPassive, last)
	}
	for _, last := range update {
		commitHookEffectListUnmount(hookPassive|hookHasEffect, last)
	}
	for _, last := range update {
		commitHookEffectListMount(hookPassive|hookHasEffect, last)
	}
	r.flushSyncCallbacks()
	return true
}

func commitHookEffectListUnmount(tag hookFlags, last *effect) {
	e := last.next
	for {
		if e.tag&tag == tag {
			if destroy := e.destroy; destroy != nil {
				e.destroy = nil
				destroy()
			}
		}
		if e == last {
			return
		}
		e = e.next
	}
}

func commitHookEffectListMount(tag hookFlags, last *effect) {
	e := last.next
	for {
		if e.tag&tag == tag && e.create != nil {
			e.destroy = e.create()
		}
		if e == last {
			return
		}
		e = e.next
	}
}
