package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"strconv"
	"time"

	"github.com/delaneyj/fiberparty/element"
	"github.com/delaneyj/fiberparty/noop"
	"github.com/delaneyj/fiberparty/reconciler"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog"
)

var (
	ww    = []int{1, 10, 100, 1_000}
	hh    = []int{1, 10, 100}
	iters = 100

	profile = flag.String("profile", "default.pgo", "write a CPU profile here, empty to skip")
)

func main() {
	flag.Parse()

	if *profile != "" {
		f, err := os.Create(*profile)
		if err != nil {
			log.Fatal(err)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	log.Printf("warming up")
	benchmarkMount(false)

	benchmarkMount(true)
	benchmarkStateUpdate(true)
	benchmarkBailout(true)
	benchmarkReorder(true)
}

func newTable(title string) table.Writer {
	tbl := table.NewWriter()
	tbl.SetTitle(title)
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max"})
	return tbl
}

func appendCalc(tbl table.Writer, name string, tach *tachymeter.Tachymeter) {
	calc := tach.Calc()
	tbl.AppendRows([]table.Row{
		{
			name,
			calc.Time.Avg,
			calc.Time.Min,
			calc.Time.P75,
			calc.Time.P99,
			calc.Time.Max,
		},
	})
}

func newRoot() *noop.Root {
	return noop.CreateRoot(noop.WithLogger(zerolog.Nop()))
}

// tree builds w columns of h nested divs with a text leaf.
func tree(w, h int, leaf string) *element.Element {
	cols := make([]any, w)
	for i := range cols {
		var node any = leaf
		for j := 0; j < h; j++ {
			node = element.H("div", nil, node)
		}
		cols[i] = node
	}
	return element.H("main", nil, cols...)
}

func benchmarkMount(shouldRender bool) {
	tbl := newTable("Mount")
	for _, w := range ww {
		for _, h := range hh {
			tach := tachymeter.New(&tachymeter.Config{Size: iters})
			el := tree(w, h, "leaf")
			for i := 0; i < iters; i++ {
				root := newRoot()
				start := time.Now()
				root.Act(func() { root.Render(el) })
				tach.AddTime(time.Since(start))
			}
			appendCalc(tbl, fmt.Sprintf("mount: %d * %d", w, h), tach)
		}
	}
	if shouldRender {
		tbl.Render()
	}
}

// benchmarkStateUpdate measures one leaf state change under a deep tree of
// components that do not depend on it.
func benchmarkStateUpdate(shouldRender bool) {
	tbl := newTable("State update")
	for _, w := range ww {
		for _, h := range hh {
			tach := tachymeter.New(&tachymeter.Config{Size: iters})

			var set *reconciler.SetState[int]
			leaf := func(hooks *reconciler.Hooks, _ element.Props) (any, error) {
				n, s := reconciler.UseState(hooks, 0)
				set = s
				return element.H("span", nil, n), nil
			}
			cols := make([]any, w)
			for i := range cols {
				if i == 0 {
					var node any = element.H(leaf, nil)
					for j := 0; j < h; j++ {
						node = element.H("div", nil, node)
					}
					cols[i] = node
					continue
				}
				cols[i] = tree(1, h, strconv.Itoa(i))
			}
			root := newRoot()
			el := element.H("main", nil, cols...)
			root.Act(func() { root.Render(el) })

			for i := 0; i < iters; i++ {
				root.ClearOps()
				start := time.Now()
				root.Act(func() { set.Update(func(n int) int { return n + 1 }) })
				tach.AddTime(time.Since(start))
			}
			appendCalc(tbl, fmt.Sprintf("update: %d * %d", w, h), tach)
		}
	}
	if shouldRender {
		tbl.Render()
	}
}

func benchmarkBailout(shouldRender bool) {
	tbl := newTable("Bailout")
	for _, w := range ww {
		for _, h := range hh {
			tach := tachymeter.New(&tachymeter.Config{Size: iters})
			root := newRoot()
			el := tree(w, h, "leaf")
			root.Act(func() { root.Render(el) })
			before := root.Fingerprint()

			for i := 0; i < iters; i++ {
				start := time.Now()
				root.Act(func() { root.Render(element.Frag("", el)) })
				tach.AddTime(time.Since(start))
			}
			if root.Fingerprint() != before {
				log.Panicf("bailout %d * %d changed the host tree", w, h)
			}
			appendCalc(tbl, fmt.Sprintf("bailout: %d * %d", w, h), tach)
		}
	}
	if shouldRender {
		tbl.Render()
	}
}

func benchmarkReorder(shouldRender bool) {
	tbl := newTable("Keyed reorder")
	for _, n := range []int{10, 100, 1_000, 10_000} {
		tach := tachymeter.New(&tachymeter.Config{Size: iters})
		items := make([]*element.Element, n)
		for i := range items {
			k := strconv.Itoa(i)
			items[i] = element.H("li", element.Props{"key": k}, k)
		}
		list := func(reversed bool) *element.Element {
			kids := make([]any, n)
			for i, it := range items {
				if reversed {
					kids[n-1-i] = it
				} else {
					kids[i] = it
				}
			}
			return element.H("ul", nil, kids...)
		}
		root := newRoot()
		root.Act(func() { root.Render(list(false)) })

		for i := 0; i < iters; i++ {
			el := list(i%2 == 0)
			root.ClearOps()
			start := time.Now()
			root.Act(func() { root.Render(el) })
			tach.AddTime(time.Since(start))
		}
		appendCalc(tbl, fmt.Sprintf("reverse: %d", n), tach)
	}
	if shouldRender {
		tbl.Render()
	}
}
