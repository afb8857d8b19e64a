package reconciler

import (
	"sort"

	"github.com/delaneyj/fiberparty/element"
)

// childReconciler diffs a fiber's children against new child descriptors.
// With trackEffects off (first mount) nothing is flagged: the parent's
// Placement inserts the whole subtree at once.
type childReconciler struct {
	r            *Reconciler
	trackEffects bool
	lane         Lane
}

// childKey identifies a child inside one parent: its explicit key, or its
// position when it has none.
type childKey struct {
	key   string
	index int
	keyed bool
}

func fiberChildKey(f *Fiber) childKey {
	if f.key != "" {
		return childKey{key: f.key, keyed: true}
	}
	return childKey{index: f.index}
}

func (c childReconciler) reconcileChildFibers(returnFiber, currentFirstChild *Fiber, newChild any) *Fiber {
	if el, ok := newChild.(*element.Element); ok && el != nil && el.Key == "" && el.Type == element.Fragment {
		newChild = el.Props.Children()
	}

	if el, ok := newChild.(*element.Element); ok && el != nil {
		return c.placeSingleChild(c.reconcileSingleElement(returnFiber, currentFirstChild, el))
	}
	if kids, ok := element.ChildSlice(newChild); ok {
		return c.reconcileChildrenArray(returnFiber, currentFirstChild, kids)
	}
	if text, ok := element.TextOf(newChild); ok {
		return c.placeSingleChild(c.reconcileSingleTextNode(returnFiber, currentFirstChild, text))
	}
	if !isEmptyChild(newChild) {
		c.r.log.Warn().Str("parent", element.TypeName(returnFiber.typ)).Msgf("unsupported child type %T", newChild)
	}
	c.deleteRemainingChildren(returnFiber, currentFirstChild)
	return nil
}

func isEmptyChild(v any) bool {
	switch v := v.(type) {
	case nil, bool:
		return true
	case *element.Element:
		return v == nil
	}
	return false
}

func (c childReconciler) deleteChild(returnFiber, child *Fiber) {
	if !c.trackEffects {
		return
	}
	returnFiber.deletions = append(returnFiber.deletions, child)
	returnFiber.flags |= ChildDeletion
}

func (c childReconciler) deleteRemainingChildren(returnFiber, currentFirstChild *Fiber) {
	if !c.trackEffects {
		return
	}
	for child := currentFirstChild; child != nil; child = child.sibling {
		c.deleteChild(returnFiber, child)
	}
}

func (c childReconciler) reconcileSingleElement(returnFiber, currentFirstChild *Fiber, el *element.Element) *Fiber {
	for current := currentFirstChild; current != nil; current = current.sibling {
		if current.key != el.Key {
			c.deleteChild(returnFiber, current)
			continue
		}
		if element.SameType(current.typ, el.Type) {
			existing := useFiber(current, el.Props)
			existing.parent = returnFiber
			existing.ref = el.Ref
			c.deleteRemainingChildren(returnFiber, current.sibling)
			return existing
		}
		// same key, different type: nothing after it can match either
		c.deleteRemainingChildren(returnFiber, current)
		break
	}

	f := c.r.createFiberFromElement(el, c.lane)
	f.parent = returnFiber
	return f
}

func (c childReconciler) reconcileSingleTextNode(returnFiber, currentFirstChild *Fiber, text string) *Fiber {
	if currentFirstChild != nil && currentFirstChild.tag == HostText {
		existing := useFiber(currentFirstChild, element.Props{"content": text})
		existing.parent = returnFiber
		c.deleteRemainingChildren(returnFiber, currentFirstChild.sibling)
		return existing
	}
	c.deleteRemainingChildren(returnFiber, currentFirstChild)
	f := createFiberFromText(text)
	f.parent = returnFiber
	return f
}

func (c childReconciler) placeSingleChild(f *Fiber) *Fiber {
	if c.trackEffects && f.alternate == nil {
		f.flags |= Placement
	}
	return f
}

func (c childReconciler) reconcileChildrenArray(returnFiber, currentFirstChild *Fiber, newChildren []any) *Fiber {
	var firstNewFiber, lastNewFiber *Fiber

	existing := map[childKey]*Fiber{}
	for current := currentFirstChild; current != nil; current = current.sibling {
		existing[fiberChildKey(current)] = current
	}

	var reused []*Fiber
	for i, child := range newChildren {
		newFiber := c.updateFromMap(returnFiber, existing, i, child)
		if newFiber == nil {
			continue
		}
		newFiber.index = i
		newFiber.parent = returnFiber

		if lastNewFiber == nil {
			firstNewFiber = newFiber
		} else {
			lastNewFiber.sibling = newFiber
		}
		lastNewFiber = newFiber

		if !c.trackEffects {
			continue
		}
		if newFiber.alternate != nil {
			reused = append(reused, newFiber)
		} else {
			newFiber.flags |= Placement
		}
	}

	if c.trackEffects {
		placeMovedChildren(reused)
	}

	// walk the old chain so deletions keep sibling order
	for current := currentFirstChild; current != nil; current = current.sibling {
		if existing[fiberChildKey(current)] == current {
			c.deleteChild(returnFiber, current)
		}
	}
	return firstNewFiber
}

// placeMovedChildren flags the fewest reused children with Placement: the
// longest run whose old indexes still increase stays put, the rest move.
func placeMovedChildren(reused []*Fiber) {
	if len(reused) < 2 {
		return
	}
	oldIndex := func(i int) int { return reused[i].alternate.index }

	tails := make([]int, 0, len(reused))
	prev := make([]int, len(reused))
	for i := range reused {
		j := sort.Search(len(tails), func(j int) bool { return oldIndex(tails[j]) >= oldIndex(i) })
		prev[i] = -1
		if j > 0 {
			prev[i] = tails[j-1]
		}
		if j == len(tails) {
			tails = append(tails, i)
		} else {
			tails[j] = i
		}
	}

	stays := make([]bool, len(reused))
	for i := tails[len(tails)-1]; i >= 0; i = prev[i] {
		stays[i] = true
	}
	for i, f := range reused {
		if !stays[i] {
			f.flags |= Placement
		}
	}
}

func (c childReconciler) updateFromMap(returnFiber *Fiber, existing map[childKey]*Fiber, index int, child any) *Fiber {
	k := childKey{index: index}

	if el, ok := child.(*element.Element); ok && el != nil {
		if el.Key != "" {
			k = childKey{key: el.Key, keyed: true}
		}
		before := existing[k]
		if el.Type == element.Fragment {
			return c.updateFragment(existing, k, before, el.Props, el.Key)
		}
		if before != nil && element.SameType(before.typ, el.Type) {
			delete(existing, k)
			f := useFiber(before, el.Props)
			f.ref = el.Ref
			return f
		}
		return c.r.createFiberFromElement(el, c.lane)
	}

	if text, ok := element.TextOf(child); ok {
		before := existing[k]
		if before != nil && before.tag == HostText {
			delete(existing, k)
			return useFiber(before, element.Props{"content": text})
		}
		return createFiberFromText(text)
	}

	if _, ok := element.ChildSlice(child); ok {
		return c.updateFragment(existing, k, existing[k], element.Props{"children": child}, "")
	}

	if !isEmptyChild(child) {
		c.r.log.Warn().Str("parent", element.TypeName(returnFiber.typ)).Msgf("unsupported child type %T", child)
	}
	return nil
}

func (c childReconciler) updateFragment(existing map[childKey]*Fiber, k childKey, before *Fiber, props element.Props, key string) *Fiber {
	if before == nil || before.tag != FragmentTag {
		f := newFiber(FragmentTag, props, key)
		f.typ = element.Fragment
		return f
	}
	delete(existing, k)
	return useFiber(before, props)
}

// useFiber reuses fiber's twin as a single child with new props.
func useFiber(fiber *Fiber, pendingProps element.Props) *Fiber {
	clone := createWorkInProgress(fiber, pendingProps)
	clone.index = 0
	clone.sibling = nil
	return clone
}

// cloneChildFibers gives wip fresh twins of its committed children.
func cloneChildFibers(wip *Fiber) {
	current := wip.child
	if current == nil {
		return
	}
	newChild := createWorkInProgress(current, current.pendingProps)
	wip.child = newChild
	newChild.parent = wip
	for current.sibling != nil {
		current = current.sibling
		next := createWorkInProgress(current, current.pendingProps)
		next.parent = wip
		newChild.sibling = next
		newChild = next
	}
	newChild.sibling = nil
}

func (r *Reconciler) reconcileChildren(wip *Fiber, children any) {
	current := wip.alternate
	c := childReconciler{r: r, trackEffects: current != nil, lane: r.wipRootRenderLane}
	var currentChild *Fiber
	if current != nil {
		currentChild = current.child
	}
	wip.child = c.reconcileChildFibers(wip, currentChild, children)
}
