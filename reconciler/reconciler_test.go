package reconciler_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/delaneyj/fiberparty/element"
	"github.com/delaneyj/fiberparty/noop"
	"github.com/delaneyj/fiberparty/reconciler"
	"github.com/delaneyj/fiberparty/scheduler"
	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type component = func(h *reconciler.Hooks, props element.Props) (any, error)

var H = element.H

func render(root *noop.Root, el any) {
	root.Act(func() { root.Render(el) })
}

func recoverError(t *testing.T, fn func()) (err error) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a panic")
		e, ok := r.(error)
		require.True(t, ok, "panic value %v is not an error", r)
		err = e
	}()
	fn()
	return nil
}

func counter(renders *int, set **reconciler.SetState[int]) component {
	return func(h *reconciler.Hooks, _ element.Props) (any, error) {
		*renders++
		n, s := reconciler.UseState(h, 0)
		*set = s
		return H("span", nil, n), nil
	}
}

func TestMountBuildsHostTree(t *testing.T) {
	root := noop.CreateRoot()
	render(root, H("div", element.Props{"id": "x"}, H("span", nil, "a"), "b"))

	assert.Equal(t, `<div id="x"><span>a</span>b</div>`, root.Markup())
	want := []noop.Op{
		{Kind: noop.OpCreate, Node: "text#1"},
		{Kind: noop.OpCreate, Node: "span#2"},
		{Kind: noop.OpCreate, Node: "text#3"},
		{Kind: noop.OpCreate, Node: "div#4"},
		{Kind: noop.OpAppend, Node: "div#4", Parent: "root"},
	}
	if diff := cmp.Diff(want, root.Ops()); diff != "" {
		t.Fatalf("ops mismatch (-want +got):\n%s", diff)
	}
}

func TestRerenderWithSameElementEmitsNothing(t *testing.T) {
	root := noop.CreateRoot()
	renders := 0
	var set *reconciler.SetState[int]
	el := H("section", nil, H(counter(&renders, &set), nil), "tail")
	render(root, el)
	before := root.Fingerprint()
	root.ClearOps()

	render(root, el)
	assert.Empty(t, root.Ops())
	assert.Equal(t, 1, renders)
	assert.Equal(t, before, root.Fingerprint())
}

func TestUpdatesInOneTickRenderOnce(t *testing.T) {
	root := noop.CreateRoot()
	renders := 0
	var set *reconciler.SetState[int]
	render(root, H(counter(&renders, &set), nil))
	require.Equal(t, 1, renders)

	root.Act(func() {
		for range 3 {
			set.Update(func(n int) int { return n + 1 })
		}
	})
	assert.Equal(t, 2, renders)
	assert.Equal(t, "<span>3</span>", root.Markup())
	assert.Equal(t, map[noop.OpKind]int{noop.OpUpdate: 1, noop.OpText: 1}, noop.CountOps(root.Ops()[3:]))
}

func TestSettingSameStateSkipsRender(t *testing.T) {
	root := noop.CreateRoot()
	renders := 0
	var set *reconciler.SetState[int]
	render(root, H(counter(&renders, &set), nil))

	root.Act(func() { set.Set(0) })
	assert.Equal(t, 1, renders)
	assert.False(t, root.Scheduler().HasPendingWork())
}

func TestLastUpdateWinsOverEagerState(t *testing.T) {
	root := noop.CreateRoot()
	renders := 0
	var set *reconciler.SetState[int]
	render(root, H(counter(&renders, &set), nil))

	root.Act(func() {
		set.Set(1)
		set.Set(0)
	})
	assert.Equal(t, "<span>0</span>", root.Markup())
}

func TestSyncUpdatePreemptsDefaultUpdate(t *testing.T) {
	root := noop.CreateRoot()
	sched := root.Scheduler()

	var set *reconciler.SetState[string]
	app := func(h *reconciler.Hooks, _ element.Props) (any, error) {
		s, setS := reconciler.UseState(h, "")
		set = setS
		return H("span", nil, s), nil
	}
	render(root, H(app, nil))

	set.Update(func(s string) string { return s + "D" })
	sched.YieldAfter(1)
	sched.FlushSlice()
	assert.Equal(t, "<span></span>", root.Markup(), "default pass yielded before committing")

	sched.RunWithPriority(scheduler.ImmediatePriority, func() {
		set.Update(func(s string) string { return s + "S" })
	})
	sched.FlushMicrotasks()
	assert.Equal(t, "<span>S</span>", root.Markup())

	sched.YieldAfter(-1)
	sched.FlushAll()
	assert.Equal(t, "<span>DS</span>", root.Markup())
}

func TestConcurrentRenderResumesAfterYield(t *testing.T) {
	root := noop.CreateRoot()
	sched := root.Scheduler()
	renders := 0
	var set *reconciler.SetState[int]
	render(root, H("div", nil, H(counter(&renders, &set), nil)))

	set.Set(7)
	sched.YieldAfter(1)
	slices := 0
	for sched.FlushSlice() {
		slices++
		if slices == 1 {
			assert.Equal(t, "<div><span>0</span></div>", root.Markup())
		}
	}
	assert.Greater(t, slices, 1)
	assert.Equal(t, "<div><span>7</span></div>", root.Markup())
}

func TestKeyedReorderMovesOneNode(t *testing.T) {
	root := noop.CreateRoot()
	items := map[string]*element.Element{}
	for _, k := range []string{"a", "b", "c", "d"} {
		items[k] = H("li", element.Props{"key": k}, k)
	}
	list := func(order ...string) *element.Element {
		kids := make([]any, len(order))
		for i, k := range order {
			kids[i] = items[k]
		}
		return H("ul", nil, kids...)
	}

	render(root, list("a", "b", "c", "d"))
	root.ClearOps()
	render(root, list("a", "c", "b", "d"))

	assert.Equal(t, "<ul><li>a</li><li>c</li><li>b</li><li>d</li></ul>", root.Markup())
	counts := noop.CountOps(root.Ops())
	assert.Equal(t, 1, counts[noop.OpInsert])
	assert.Zero(t, counts[noop.OpCreate])
	assert.Zero(t, counts[noop.OpRemove])
	assert.Zero(t, counts[noop.OpAppend])
}

func TestListAddAndRemove(t *testing.T) {
	root := noop.CreateRoot()
	render(root, H("ul", nil, H("li", element.Props{"key": "a"}, "a"), H("li", element.Props{"key": "b"}, "b")))
	root.ClearOps()

	render(root, H("ul", nil, H("li", element.Props{"key": "c"}, "c"), H("li", element.Props{"key": "b"}, "b")))
	assert.Equal(t, "<ul><li>c</li><li>b</li></ul>", root.Markup())
	counts := noop.CountOps(root.Ops())
	assert.Equal(t, 1, counts[noop.OpRemove])
	assert.Equal(t, 1, counts[noop.OpInsert])
}

func TestPassiveEffectOrder(t *testing.T) {
	root := noop.CreateRoot()
	var log []string
	effect := func(name string) func() func() {
		return func() func() {
			log = append(log, "create "+name)
			return func() { log = append(log, "destroy "+name) }
		}
	}
	child := func(h *reconciler.Hooks, _ element.Props) (any, error) {
		reconciler.UseEffect(h, effect("child"), nil)
		return "c", nil
	}
	parent := func(h *reconciler.Hooks, _ element.Props) (any, error) {
		reconciler.UseEffect(h, effect("parent"), nil)
		return H(child, nil), nil
	}

	render(root, H(parent, nil))
	assert.Equal(t, []string{"create child", "create parent"}, log)

	log = nil
	render(root, H(parent, nil))
	assert.Equal(t, []string{"destroy child", "destroy parent", "create child", "create parent"}, log)

	log = nil
	render(root, nil)
	assert.Equal(t, []string{"destroy parent", "destroy child"}, log)
	assert.Empty(t, root.Children())
}

func TestEffectDepsGateReruns(t *testing.T) {
	root := noop.CreateRoot()
	runs := 0
	app := func(h *reconciler.Hooks, props element.Props) (any, error) {
		reconciler.UseEffect(h, func() func() {
			runs++
			return nil
		}, []any{props["dep"]})
		return nil, nil
	}
	render(root, H(app, element.Props{"dep": 1}))
	render(root, H(app, element.Props{"dep": 1}))
	assert.Equal(t, 1, runs)
	render(root, H(app, element.Props{"dep": 2}))
	assert.Equal(t, 2, runs)
}

func TestHookCountMismatchPanics(t *testing.T) {
	hooks := func(h *reconciler.Hooks, props element.Props) (any, error) {
		for range props["n"].(int) {
			reconciler.UseState(h, 0)
		}
		return nil, nil
	}

	t.Run("more", func(t *testing.T) {
		root := noop.CreateRoot()
		render(root, H(hooks, element.Props{"n": 1}))
		err := recoverError(t, func() { render(root, H(hooks, element.Props{"n": 2})) })
		assert.ErrorIs(t, err, reconciler.ErrTooManyHooks)
	})
	t.Run("fewer", func(t *testing.T) {
		root := noop.CreateRoot()
		render(root, H(hooks, element.Props{"n": 2}))
		err := recoverError(t, func() { render(root, H(hooks, element.Props{"n": 1})) })
		assert.ErrorIs(t, err, reconciler.ErrTooFewHooks)
	})
}

func TestHooksOutsideRenderPanic(t *testing.T) {
	root := noop.CreateRoot()
	var saved *reconciler.Hooks
	ctx := element.CreateContext("c", 0)
	render(root, H(func(h *reconciler.Hooks, _ element.Props) (any, error) {
		saved = h
		return nil, nil
	}, nil))

	assert.PanicsWithError(t, reconciler.ErrInvalidHookCall.Error(), func() { reconciler.UseState(saved, 0) })
	assert.PanicsWithError(t, reconciler.ErrInvalidHookCall.Error(), func() { reconciler.UseRef(nil, 0) })
	err := recoverError(t, func() { reconciler.UseContext(saved, ctx) })
	assert.ErrorIs(t, err, reconciler.ErrContextOutsideRender)
}

func TestUpdateAfterUnmountIsIgnored(t *testing.T) {
	root := noop.CreateRoot(noop.WithLogger(zerolog.Nop()))
	renders := 0
	var set *reconciler.SetState[int]
	render(root, H(counter(&renders, &set), nil))
	render(root, nil)

	assert.NotPanics(t, func() { root.Act(func() { set.Set(5) }) })
	assert.Equal(t, 1, renders)
	assert.Empty(t, root.Children())
}

func TestMemoSkipsEqualProps(t *testing.T) {
	root := noop.CreateRoot()
	inner := 0
	label := element.Memo(func(_ *reconciler.Hooks, props element.Props) (any, error) {
		inner++
		return fmt.Sprint(props["label"]), nil
	}, nil)

	var set *reconciler.SetState[int]
	var text string
	app := func(h *reconciler.Hooks, _ element.Props) (any, error) {
		n, s := reconciler.UseState(h, 0)
		set = s
		return H("div", nil, H(label, element.Props{"label": text}), n), nil
	}

	text = "x"
	render(root, H(app, nil))
	root.Act(func() { set.Set(1) })
	assert.Equal(t, 1, inner)
	assert.Equal(t, "<div>x1</div>", root.Markup())

	text = "y"
	root.Act(func() { set.Set(2) })
	assert.Equal(t, 2, inner)
	assert.Equal(t, "<div>y2</div>", root.Markup())
}

func TestMemoCustomCompare(t *testing.T) {
	root := noop.CreateRoot()
	inner := 0
	never := element.Memo(func(_ *reconciler.Hooks, props element.Props) (any, error) {
		inner++
		return fmt.Sprint(props["v"]), nil
	}, func(prev, next element.Props) bool { return true })

	render(root, H(never, element.Props{"v": 1}))
	render(root, H(never, element.Props{"v": 2}))
	assert.Equal(t, 1, inner)
	assert.Equal(t, "1", root.Markup())
}

func TestContextReachesConsumerBehindMemo(t *testing.T) {
	root := noop.CreateRoot()
	theme := element.CreateContext("theme", "light")

	consumerRenders, middleRenders := 0, 0
	consumer := func(h *reconciler.Hooks, _ element.Props) (any, error) {
		consumerRenders++
		return fmt.Sprint(reconciler.UseContext(h, theme)), nil
	}
	middle := element.Memo(func(*reconciler.Hooks, element.Props) (any, error) {
		middleRenders++
		return H(consumer, nil), nil
	}, nil)

	var setTheme *reconciler.SetState[string]
	app := func(h *reconciler.Hooks, _ element.Props) (any, error) {
		v, set := reconciler.UseState(h, "dark")
		setTheme = set
		return theme.Provide(v, H(middle, nil)), nil
	}

	render(root, H(app, nil))
	assert.Equal(t, "dark", root.Markup())

	root.Act(func() { setTheme.Set("blue") })
	assert.Equal(t, "blue", root.Markup())
	assert.Equal(t, 2, consumerRenders)
	assert.Equal(t, 1, middleRenders)
}

func TestContextDefaultAndNesting(t *testing.T) {
	root := noop.CreateRoot()
	theme := element.CreateContext("theme", "light")
	read := func(h *reconciler.Hooks, _ element.Props) (any, error) {
		return fmt.Sprint(reconciler.UseContext(h, theme), ";"), nil
	}

	render(root, H("div", nil,
		H(read, nil),
		theme.Provide("outer",
			H(read, nil),
			theme.Provide("inner", H(read, nil)),
			H(read, nil),
		),
	))
	assert.Equal(t, "<div>light;outer;inner;outer;</div>", root.Markup())
}

func TestRefsAttachAndDetach(t *testing.T) {
	root := noop.CreateRoot()
	obj := &element.RefObject{}
	render(root, H("div", element.Props{"ref": obj}))
	inst, ok := obj.Current.(*noop.Instance)
	require.True(t, ok)
	assert.Equal(t, "div", inst.Type)

	var seen []any
	fn := element.RefFunc(func(v any) { seen = append(seen, v) })
	render(root, H("div", element.Props{"ref": fn}))
	assert.Nil(t, obj.Current)
	assert.Equal(t, []any{inst}, seen)

	render(root, nil)
	assert.Equal(t, []any{inst, nil}, seen)
}

func TestUseRefAndMemoAreStable(t *testing.T) {
	root := noop.CreateRoot()
	var refs []*element.RefObject
	var memos []int
	computed := 0
	app := func(h *reconciler.Hooks, props element.Props) (any, error) {
		refs = append(refs, reconciler.UseRef(h, nil))
		memos = append(memos, reconciler.UseMemo(h, func() int {
			computed++
			return props["n"].(int) * 10
		}, []any{props["n"]}))
		return nil, nil
	}
	render(root, H(app, element.Props{"n": 1}))
	render(root, H(app, element.Props{"n": 1}))
	render(root, H(app, element.Props{"n": 2}))

	require.Len(t, refs, 3)
	assert.Same(t, refs[0], refs[1])
	assert.Same(t, refs[0], refs[2])
	assert.Equal(t, []int{10, 10, 20}, memos)
	assert.Equal(t, 2, computed)
}

func TestTransitionRendersPendingFirst(t *testing.T) {
	root := noop.CreateRoot()
	type snapshot struct {
		pending bool
		value   string
	}
	var snaps []snapshot
	var start func(func())
	var set *reconciler.SetState[string]
	app := func(h *reconciler.Hooks, _ element.Props) (any, error) {
		pending, st := reconciler.UseTransition(h)
		v, s := reconciler.UseState(h, "old")
		start, set = st, s
		snaps = append(snaps, snapshot{pending, v})
		return v, nil
	}
	render(root, H(app, nil))
	firstStart := start
	snaps = nil

	root.Act(func() { start(func() { set.Set("new") }) })
	assert.Equal(t, []snapshot{{true, "old"}, {false, "new"}}, snaps)
	assert.Equal(t, "new", root.Markup())
	assert.Equal(t, fmt.Sprintf("%p", firstStart), fmt.Sprintf("%p", start))
}

func TestRenderErrorKeepsCommittedTree(t *testing.T) {
	var got error
	root := noop.CreateRoot(
		noop.WithLogger(zerolog.Nop()),
		noop.WithOnRenderError(func(_ *reconciler.FiberRoot, err error) { got = err }),
	)
	render(root, H("p", nil, "ok"))

	boom := errors.New("boom")
	bad := func(*reconciler.Hooks, element.Props) (any, error) { return nil, boom }
	render(root, H("div", nil, H(bad, nil)))
	assert.ErrorIs(t, got, boom)
	assert.Equal(t, "<p>ok</p>", root.Markup())
	assert.False(t, root.Scheduler().HasPendingWork())

	render(root, H("p", nil, "again"))
	assert.Equal(t, "<p>again</p>", root.Markup())
}

func TestSuspendWithoutWakeableIsAnError(t *testing.T) {
	var got error
	root := noop.CreateRoot(
		noop.WithLogger(zerolog.Nop()),
		noop.WithOnRenderError(func(_ *reconciler.FiberRoot, err error) { got = err }),
	)
	bad := func(*reconciler.Hooks, element.Props) (any, error) {
		return nil, fmt.Errorf("loading: %w", reconciler.ErrSuspended)
	}
	render(root, element.SuspenseOf("wait", H(bad, nil)))
	assert.ErrorIs(t, got, reconciler.ErrMissingThenable)
	assert.Empty(t, root.Children())
}

func data(h *reconciler.Hooks, props element.Props) (any, error) {
	v, err := reconciler.Use(h, props["promise"].(*reconciler.Promise[string]))
	if err != nil {
		return nil, err
	}
	return H("b", nil, v), nil
}

func TestSuspenseShowsFallbackUntilResolved(t *testing.T) {
	root := noop.CreateRoot()
	p := reconciler.NewPromise[string]()
	render(root, element.SuspenseOf(H("i", nil, "loading"), H(data, element.Props{"promise": p})))

	assert.Equal(t, "<i>loading</i>", root.Markup())
	counts := noop.CountOps(root.Ops())
	assert.Equal(t, 1, counts[noop.OpAppend])
	root.ClearOps()

	root.Act(func() { p.Resolve("data") })
	assert.Equal(t, "<b>data</b>", root.Markup())
	counts = noop.CountOps(root.Ops())
	assert.Equal(t, 1, counts[noop.OpRemove])
	assert.Equal(t, 1, counts[noop.OpAppend])
}

func TestSuspenseHidesCommittedContent(t *testing.T) {
	root := noop.CreateRoot()
	var setPromise *reconciler.SetState[*reconciler.Promise[string]]
	app := func(h *reconciler.Hooks, _ element.Props) (any, error) {
		p, set := reconciler.UseState(h, reconciler.Resolved("one"))
		setPromise = set
		return element.SuspenseOf(H("i", nil, "loading"), H(data, element.Props{"promise": p})), nil
	}
	render(root, H(app, nil))
	assert.Equal(t, "<b>one</b>", root.Markup())

	next := reconciler.NewPromise[string]()
	root.Act(func() { setPromise.Set(next) })
	assert.Equal(t, "<b hidden>one</b><i>loading</i>", root.Markup())

	jsx, ok := root.ChildrenAsJSX().(*element.Element)
	require.True(t, ok)
	assert.Equal(t, "i", jsx.Type)

	root.Act(func() { next.Resolve("two") })
	assert.Equal(t, "<b>two</b>", root.Markup())
}

func TestSuspenseWithoutBoundaryRetriesRoot(t *testing.T) {
	root := noop.CreateRoot()
	p := reconciler.NewPromise[string]()
	render(root, H("div", nil, H(data, element.Props{"promise": p})))
	assert.Empty(t, root.Children())

	root.Act(func() { p.Resolve("late") })
	assert.Equal(t, "<div><b>late</b></div>", root.Markup())
}

func TestRejectedPromiseIsRenderError(t *testing.T) {
	var got error
	root := noop.CreateRoot(
		noop.WithLogger(zerolog.Nop()),
		noop.WithOnRenderError(func(_ *reconciler.FiberRoot, err error) { got = err }),
	)
	p := reconciler.NewPromise[string]()
	render(root, element.SuspenseOf("wait", H(data, element.Props{"promise": p})))
	assert.Equal(t, "wait", root.Markup())

	failure := errors.New("no data")
	root.Act(func() { p.Reject(failure) })
	assert.ErrorIs(t, got, failure)
	assert.Equal(t, "wait", root.Markup())
}

func TestFlushSyncRendersImmediately(t *testing.T) {
	root := noop.CreateRoot()
	renders := 0
	var set *reconciler.SetState[int]
	render(root, H(counter(&renders, &set), nil))

	root.Reconciler().FlushSync(func() { set.Set(4) })
	assert.Equal(t, "<span>4</span>", root.Markup())
}

func TestPassiveEffectsRunForEveryRoot(t *testing.T) {
	sched := scheduler.New()
	rec := reconciler.New(noop.NewHost(sched), sched, reconciler.WithLogger(zerolog.Nop()))

	var ran []string
	app := func(h *reconciler.Hooks, props element.Props) (any, error) {
		name := props["name"].(string)
		reconciler.UseEffect(h, func() func() {
			ran = append(ran, name)
			return nil
		}, []any{})
		return name, nil
	}

	a := rec.CreateContainer(&noop.Container{RootID: "a"})
	b := rec.CreateContainer(&noop.Container{RootID: "b"})
	sched.Act(func() {
		rec.UpdateContainer(H(app, element.Props{"name": "a"}), a)
		rec.UpdateContainer(H(app, element.Props{"name": "b"}), b)
	})
	assert.ElementsMatch(t, []string{"a", "b"}, ran)
}

func TestFlushPassiveEffectsRunsThemEarly(t *testing.T) {
	root := noop.CreateRoot()
	runs := 0
	app := func(h *reconciler.Hooks, _ element.Props) (any, error) {
		reconciler.UseEffect(h, func() func() {
			runs++
			return nil
		}, []any{})
		return nil, nil
	}

	root.Reconciler().FlushSync(func() { root.Render(H(app, nil)) })
	require.Equal(t, "", root.Markup())
	require.True(t, root.Scheduler().HasPendingWork())
	require.Zero(t, runs, "passive effects wait for their own task")

	assert.True(t, root.Reconciler().FlushPassiveEffects(root.FiberRoot()))
	assert.Equal(t, 1, runs)
	assert.False(t, root.Reconciler().FlushPassiveEffects(root.FiberRoot()))

	root.Flush()
	assert.Equal(t, 1, runs)
}

func TestStartTransitionUsesTransitionLane(t *testing.T) {
	root := noop.CreateRoot()
	renders := 0
	var set *reconciler.SetState[int]
	render(root, H(counter(&renders, &set), nil))

	root.Reconciler().StartTransition(func() { set.Set(5) })
	pending := root.FiberRoot().PendingLanes()
	assert.True(t, reconciler.IncludesSomeLane(pending, reconciler.TransitionLane))
	assert.False(t, reconciler.IncludesSomeLane(pending, reconciler.SyncLane|reconciler.DefaultLane))

	root.Flush()
	assert.Equal(t, "<span>5</span>", root.Markup())
	assert.Equal(t, reconciler.NoLanes, root.FiberRoot().PendingLanes())
}

func TestUseCallbackKeepsIdentityUntilDepsChange(t *testing.T) {
	root := noop.CreateRoot()
	renders := 0
	var madeIn []int
	app := func(h *reconciler.Hooks, props element.Props) (any, error) {
		renders++
		n := renders
		cb := reconciler.UseCallback(h, func() int { return n }, []any{props["dep"]})
		madeIn = append(madeIn, cb())
		return nil, nil
	}

	render(root, H(app, element.Props{"dep": 1}))
	render(root, H(app, element.Props{"dep": 1}))
	render(root, H(app, element.Props{"dep": 2}))
	render(root, H(app, element.Props{"dep": 2}))

	assert.Equal(t, []int{1, 1, 3, 3}, madeIn)
}

func TestDeletingFragmentRemovesEveryHostChild(t *testing.T) {
	root := noop.CreateRoot()
	c := H("c", element.Props{"key": "c"})
	render(root, H("div", nil,
		element.Frag("f", H("a", nil), H("b", nil), "t"),
		c,
	))
	require.Equal(t, "<div><a></a><b></b>t<c></c></div>", root.Markup())
	root.ClearOps()

	render(root, H("div", nil, c))
	assert.Equal(t, "<div><c></c></div>", root.Markup())

	var removed []string
	for _, op := range root.Ops() {
		if op.Kind == noop.OpRemove {
			removed = append(removed, op.Node)
		}
	}
	assert.Equal(t, []string{"a#1", "b#2", "text#3"}, removed)
	assert.Zero(t, noop.CountOps(root.Ops())[noop.OpCreate])
}

func TestNestedListsReorderIndependently(t *testing.T) {
	root := noop.CreateRoot()
	items := map[string]*element.Element{}
	for _, k := range []string{"a", "b", "c", "d"} {
		items[k] = H("li", element.Props{"key": k}, k)
	}
	nested := func(groups ...[]string) *element.Element {
		kids := make([]any, len(groups))
		for i, g := range groups {
			inner := make([]any, len(g))
			for j, k := range g {
				inner[j] = items[k]
			}
			kids[i] = inner
		}
		return H("ul", nil, kids...)
	}

	render(root, nested([]string{"a", "b"}, []string{"c", "d"}))
	root.ClearOps()
	render(root, nested([]string{"b", "a"}, []string{"d", "c"}))

	assert.Equal(t, "<ul><li>b</li><li>a</li><li>d</li><li>c</li></ul>", root.Markup())
	counts := noop.CountOps(root.Ops())
	assert.Equal(t, 2, counts[noop.OpInsert])
	assert.Zero(t, counts[noop.OpCreate])
	assert.Zero(t, counts[noop.OpRemove])
}
