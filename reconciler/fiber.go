package reconciler

import (
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/delaneyj/fiberparty/element"
	"github.com/delaneyj/fiberparty/scheduler"
)

// Fiber is one position of the UI tree across renders. A committed fiber
// and its work-in-progress twin point at each other through alternate and
// always share tag, key, type and stateNode.
type Fiber struct {
	tag       WorkTag
	key       string
	typ       any
	stateNode any
	ref       element.Ref

	parent  *Fiber
	child   *Fiber
	sibling *Fiber
	index   int

	pendingProps  element.Props
	memoizedProps element.Props
	memoizedState any
	updateQueue   any
	dependencies  *dependencies

	flags        Flags
	subtreeFlags Flags
	deletions    []*Fiber

	lanes      Lanes
	childLanes Lanes

	alternate *Fiber
}

func (f *Fiber) Tag() WorkTag { return f.tag }
func (f *Fiber) Key() string { return f.key }
func (f *Fiber) Type() any { return f.typ }
func (f *Fiber) StateNode() any { return f.stateNode }
func (f *Fiber) Return() *Fiber { return f.parent }
func (f *Fiber) Child() *Fiber { return f.child }
func (f *Fiber) Sibling() *Fiber { return f.sibling }
func (f *Fiber) Index() int { return f.index }
func (f *Fiber) Alternate() *Fiber { return f.alternate }
func (f *Fiber) Flags() Flags { return f.flags }
func (f *Fiber) SubtreeFlags() Flags { return f.subtreeFlags }
func (f *Fiber) Lanes() Lanes { return f.lanes }
func (f *Fiber) ChildLanes() Lanes { return f.childLanes }
func (f *Fiber) Props() element.Props { return f.memoizedProps }
func (f *Fiber) Deletions() []*Fiber { return f.deletions }
func (f *Fiber) MemoizedState() any { return f.memoizedState }
func (f *Fiber) PendingProps() element.Props { return f.pendingProps }

type dependencies struct {
	lanes        Lanes
	firstContext *contextItem
}

type contextItem struct {
	context       *element.Context
	memoizedState any
	next          *contextItem
}

func newFiber(tag WorkTag, pendingProps element.Props, key string) *Fiber {
	return &Fiber{
		tag:          tag,
		key:          key,
		pendingProps: pendingProps,
	}
}

// FiberRoot is the container record of a mounted tree.
type FiberRoot struct {
	container    any
	current      *Fiber
	finishedWork *Fiber
	finishedLane Lane

	pendingLanes   Lanes
	suspendedLanes Lanes
	pingedLanes    Lanes

	callbackNode     *scheduler.Task
	callbackPriority Lane

	pendingPassiveEffects pendingPassiveEffects
	hasPendingPassiveTask bool
	pingCache             map[Wakeable]mapset.Set[Lane]
}

type pendingPassiveEffects struct {
	unmount []*effect
	update  []*effect
}

func (r *FiberRoot) Container() any { return r.container }
func (r *FiberRoot) Current() *Fiber { return r.current }
func (r *FiberRoot) PendingLanes() Lanes { return r.pendingLanes }
func (r *FiberRoot) SuspendedLanes() Lanes { return r.suspendedLanes }

// createWorkInProgress returns the twin of current, reusing the previous
// alternate when there is one.
func createWorkInProgress(current *Fiber, pendingProps element.Props) *Fiber {
	wip := current.alternate
	if wip == nil {
		wip = newFiber(current.tag, pendingProps, current.key)
		wip.stateNode = current.stateNode
		wip.alternate = current
		current.alternate = wip
	} else {
		wip.pendingProps = pendingProps
		wip.flags = NoFlags
		wip.subtreeFlags = NoFlags
		wip.deletions = nil
	}
	wip.typ = current.typ
	wip.updateQueue = current.updateQueue
	wip.child = current.child
	wip.sibling = current.sibling
	wip.index = current.index
	wip.ref = current.ref
	wip.memoizedProps = current.memoizedProps
	wip.memoizedState = current.memoizedState
	wip.lanes = current.lanes
	wip.childLanes = current.childLanes
	if deps := current.dependencies; deps != nil {
		wip.dependencies = &dependencies{lanes: deps.lanes, firstContext: deps.firstContext}
	} else {
		wip.dependencies = nil
	}
	return wip
}

func (r *Reconciler) createFiberFromElement(el *element.Element, lane Lane) *Fiber {
	tag := FunctionComponent
	switch t := el.Type.(type) {
	case string:
		tag = HostComponent
	case Component, func(*Hooks, element.Props) (any, error):
	case element.Marker:
		switch t {
		case element.Fragment:
			tag = FragmentTag
		case element.Suspense:
			tag = SuspenseComponent
		case element.Offscreen:
			tag = OffscreenComponent
		default:
			tag = UnknownComponent
		}
	case *element.ProviderType:
		tag = ContextProvider
	case *element.MemoType:
		tag = MemoComponent
	default:
		tag = UnknownComponent
	}
	if tag == UnknownComponent {
		r.log.Warn().Str("type", element.TypeName(el.Type)).Msg("unsupported element type")
	}
	f := newFiber(tag, el.Props, el.Key)
	f.typ = el.Type
	f.ref = el.Ref
	f.lanes = lane
	return f
}

func createFiberFromFragment(children any, key string) *Fiber {
	f := newFiber(FragmentTag, element.Props{"children": children}, key)
	f.typ = element.Fragment
	return f
}

func createFiberFromText(text string) *Fiber {
	return newFiber(HostText, element.Props{"content": text}, "")
}

const (
	offscreenVisible = "visible"
	offscreenHidden  = "hidden"
)

func createFiberFromOffscreen(props element.Props) *Fiber {
	f := newFiber(OffscreenComponent, props, "")
	f.typ = element.Offscreen
	return f
}

func isHiddenOffscreen(f *Fiber) bool {
	return f.tag == OffscreenComponent && f.memoizedProps["mode"] == offscreenHidden
}

func asComponent(t any) (Component, bool) {
	switch c := t.(type) {
	case Component:
		return c, c != nil
	case func(*Hooks, element.Props) (any, error):
		return c, c != nil
	}
	return nil, false
}
