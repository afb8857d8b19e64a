package reconciler

import (
	"fmt"

	"github.com/delaneyj/fiberparty/element"
)

// completeWork creates or diffs the host node of wip once all of its
// children are complete, and folds the children's flags into wip.
func (r *Reconciler) completeWork(wip *Fiber) {
	current := wip.alternate
	newProps := wip.pendingProps

	switch wip.tag {
	case HostComponent:
		if current != nil && wip.stateNode != nil {
			if !element.SameProps(current.memoizedProps, newProps) {
				wip.flags |= Update
			}
			if !element.SameRef(current.ref, wip.ref) {
				wip.flags |= Ref
			}
		} else {
			typ, _ := wip.typ.(string)
			instance := r.host.CreateInstance(typ, newProps)
			r.appendAllChildren(instance, wip)
			wip.stateNode = instance
			if wip.ref != nil {
				wip.flags |= Ref
			}
		}
	case HostText:
		text, _ := newProps["content"].(string)
		if current != nil && wip.stateNode != nil {
			if old, _ := current.memoizedProps["content"].(string); old != text {
				wip.flags |= Update
			}
		} else {
			wip.stateNode = r.host.CreateTextInstance(text)
		}
	case ContextProvider:
		r.popProvider(wip.typ.(*element.ProviderType).Context)
	case SuspenseComponent:
		r.popSuspenseHandler()
		if offscreen := wip.child; offscreen != nil && current != nil && current.child != nil {
			if isHiddenOffscreen(offscreen) != isHiddenOffscreen(current.child) {
				offscreen.flags |= Visibility
			}
		}
	case HostRoot, FunctionComponent, FragmentTag, OffscreenComponent, MemoComponent, UnknownComponent:
	default:
		r.log.Warn().Stringer("tag", wip.tag).Msg("completeWork: unhandled tag")
	}
	bubbleProperties(wip)
}

// appendAllChildren attaches the top-level host nodes under wip to parent,
// looking through non-host fibers.
func (r *Reconciler) appendAllChildren(parent any, wip *Fiber) {
	node := wip.child
	for node != nil {
		if node.tag == HostComponent || node.tag == HostText {
			if err := r.host.AppendInitialChild(parent, node.stateNode); err != nil {
				panic(fmt.Errorf("%w: append initial child: %w", ErrHostOperation, err))
			}
		} else if node.child != nil {
			node.child.parent = node
			node = node.child
			continue
		}
		if node == wip {
			return
		}
		for node.sibling == nil {
			if node.parent == nil || node.parent == wip {
				return
			}
			node = node.parent
		}
		node.sibling.parent = node.parent
		node = node.sibling
	}
}

// bubbleProperties merges child lanes, and unless the children were reused
// untouched, their flags into wip.
func bubbleProperties(wip *Fiber) {
	didBailout := wip.alternate != nil && wip.alternate.child == wip.child
	subtreeFlags := NoFlags
	childLanes := NoLanes

	for child := wip.child; child != nil; child = child.sibling {
		childLanes |= child.lanes | child.childLanes
		if !didBailout {
			subtreeFlags |= child.subtreeFlags | child.flags
		}
		child.parent = wip
	}
	wip.subtreeFlags |= subtreeFlags
	wip.childLanes = childLanes
}
