package reconciler

import (
	"testing"

	"github.com/delaneyj/fiberparty/element"
	"github.com/delaneyj/fiberparty/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func li(key string) *element.Element {
	return element.H("li", element.Props{"key": key}, key)
}

func mountList(t *testing.T, r *Reconciler, children ...any) *Fiber {
	t.Helper()
	parent := newFiber(HostComponent, element.Props{"children": children}, "")
	parent.typ = "ul"
	c := childReconciler{r: r}
	parent.child = c.reconcileChildFibers(parent, nil, children)
	parent.memoizedProps = parent.pendingProps
	return parent
}

func updateList(r *Reconciler, current *Fiber, children ...any) *Fiber {
	wip := createWorkInProgress(current, element.Props{"children": children})
	c := childReconciler{r: r, trackEffects: true}
	wip.child = c.reconcileChildFibers(wip, current.child, children)
	return wip
}

func childrenOf(f *Fiber) []*Fiber {
	var out []*Fiber
	for c := f.child; c != nil; c = c.sibling {
		out = append(out, c)
	}
	return out
}

func keysOf(fibers []*Fiber) []string {
	out := make([]string, len(fibers))
	for i, f := range fibers {
		out[i] = f.key
	}
	return out
}

func TestMountDoesNotFlagChildren(t *testing.T) {
	r := New(nil, scheduler.New())
	parent := mountList(t, r, li("a"), li("b"))
	kids := childrenOf(parent)
	require.Len(t, kids, 2)
	for i, k := range kids {
		assert.Equal(t, NoFlags, k.flags)
		assert.Equal(t, i, k.index)
		assert.Same(t, parent, k.parent)
	}
}

func TestKeyedMoveFlagsOnlyTheMovedChild(t *testing.T) {
	r := New(nil, scheduler.New())
	current := mountList(t, r, li("a"), li("b"), li("c"), li("d"))
	old := childrenOf(current)

	wip := updateList(r, current, li("a"), li("c"), li("b"), li("d"))
	kids := childrenOf(wip)
	require.Equal(t, []string{"a", "c", "b", "d"}, keysOf(kids))

	for _, k := range kids {
		require.NotNil(t, k.alternate, k.key)
	}
	assert.Same(t, old[0], kids[0].alternate)
	assert.Same(t, old[2], kids[1].alternate)
	assert.Same(t, old[1], kids[2].alternate)

	placed := map[string]bool{}
	for _, k := range kids {
		placed[k.key] = k.flags&Placement != 0
	}
	assert.Equal(t, map[string]bool{"a": false, "c": true, "b": false, "d": false}, placed)
	assert.Empty(t, wip.deletions)
}

func TestRotationMovesOnlyTheLastChild(t *testing.T) {
	r := New(nil, scheduler.New())
	current := mountList(t, r, li("1"), li("2"), li("3"))
	old := childrenOf(current)

	wip := updateList(r, current, li("3"), li("1"), li("2"))
	kids := childrenOf(wip)
	require.Equal(t, []string{"3", "1", "2"}, keysOf(kids))
	assert.Same(t, old[2], kids[0].alternate)
	assert.Same(t, old[0], kids[1].alternate)
	assert.Same(t, old[1], kids[2].alternate)

	assert.NotZero(t, kids[0].flags&Placement)
	assert.Zero(t, kids[1].flags&Placement)
	assert.Zero(t, kids[2].flags&Placement)
	assert.Empty(t, wip.deletions)
}

func TestRemovingMiddleChildDeletesOnlyIt(t *testing.T) {
	r := New(nil, scheduler.New())
	current := mountList(t, r, li("a"), li("b"), li("c"))
	old := childrenOf(current)

	wip := updateList(r, current, li("a"), li("c"))
	kids := childrenOf(wip)
	require.Len(t, kids, 2)
	assert.Same(t, old[0], kids[0].alternate)
	assert.Same(t, old[2], kids[1].alternate)
	for _, k := range kids {
		assert.Zero(t, k.flags&Placement, k.key)
	}
	assert.Equal(t, []*Fiber{old[1]}, wip.deletions)
}

func TestPlaceMovedChildrenKeepsLongestRun(t *testing.T) {
	for name, tc := range map[string]struct {
		old   []int
		moved []bool
	}{
		"in order":  {[]int{0, 1, 2, 3}, []bool{false, false, false, false}},
		"reversed":  {[]int{3, 2, 1, 0}, []bool{true, true, true, false}},
		"front":     {[]int{3, 0, 1, 2}, []bool{true, false, false, false}},
		"back":      {[]int{1, 2, 3, 0}, []bool{false, false, false, true}},
		"two swaps": {[]int{1, 0, 3, 2}, []bool{true, false, true, false}},
	} {
		t.Run(name, func(t *testing.T) {
			reused := make([]*Fiber, len(tc.old))
			for i, idx := range tc.old {
				current := newFiber(HostComponent, nil, "")
				current.index = idx
				reused[i] = createWorkInProgress(current, nil)
			}
			placeMovedChildren(reused)
			moved := make([]bool, len(reused))
			for i, f := range reused {
				moved[i] = f.flags&Placement != 0
			}
			assert.Equal(t, tc.moved, moved)
		})
	}
}

func TestRemovedAndTypeChangedChildrenAreDeleted(t *testing.T) {
	r := New(nil, scheduler.New())
	current := mountList(t, r, li("a"), li("b"), li("c"))
	old := childrenOf(current)

	wip := updateList(r, current, li("c"), element.H("p", element.Props{"key": "a"}))
	kids := childrenOf(wip)
	require.Len(t, kids, 2)

	assert.Same(t, old[2], kids[0].alternate)
	assert.Nil(t, kids[1].alternate)
	assert.NotZero(t, kids[1].flags&Placement)

	assert.NotZero(t, wip.flags&ChildDeletion)
	assert.Equal(t, []*Fiber{old[0], old[1]}, wip.deletions)
}

func TestSingleChildReplacesList(t *testing.T) {
	r := New(nil, scheduler.New())
	current := mountList(t, r, li("a"), li("b"))
	old := childrenOf(current)

	wip := updateList(r, current, li("b"))
	kids := childrenOf(wip)
	require.Len(t, kids, 1)
	assert.Same(t, old[1], kids[0].alternate)
	assert.Zero(t, kids[0].flags&Placement)
	assert.Equal(t, []*Fiber{old[0]}, wip.deletions)
}

func TestTextChildReusesTextFiber(t *testing.T) {
	r := New(nil, scheduler.New())
	parent := newFiber(HostComponent, nil, "")
	parent.typ = "span"
	c := childReconciler{r: r}
	parent.child = c.reconcileChildFibers(parent, nil, "hi")
	require.Equal(t, HostText, parent.child.tag)

	wip := createWorkInProgress(parent, nil)
	c.trackEffects = true
	wip.child = c.reconcileChildFibers(wip, parent.child, 42)
	assert.Same(t, parent.child, wip.child.alternate)
	assert.Equal(t, "42", wip.child.pendingProps["content"])
	assert.Empty(t, wip.deletions)
}

func TestUnkeyedFragmentIsUnwrapped(t *testing.T) {
	r := New(nil, scheduler.New())
	parent := mountList(t, r, element.Frag("", li("a"), li("b")))
	kids := childrenOf(parent)
	require.Len(t, kids, 1)
	assert.Equal(t, FragmentTag, kids[0].tag)

	top := newFiber(HostComponent, nil, "")
	top.typ = "ul"
	c := childReconciler{r: r}
	top.child = c.reconcileChildFibers(top, nil, element.Frag("", li("a"), li("b")))
	assert.Equal(t, []string{"a", "b"}, keysOf(childrenOf(top)))
}
