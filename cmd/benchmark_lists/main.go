package main

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"slices"
	"strconv"
	"time"

	"github.com/delaneyj/fiberparty/element"
	"github.com/delaneyj/fiberparty/noop"
	"github.com/delaneyj/fiberparty/reconciler"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog"
)

type listOp func(rng *rand.Rand, items []int, nextID *int) []int

type listTestConfig struct {
	name       string // unique name of the test
	size       int    // rows mounted before the test starts
	iterations int64  // state updates dispatched per run
	batch      int    // updates dispatched before each flush
	op         listOp // how each update changes the rows
}

func main() {
	log.Print("Starting list benchmark, please wait...")
	defer log.Print("Finished list benchmark")

	cfgs := []listTestConfig{
		{name: "append row", size: 100, iterations: 2_000, batch: 1, op: appendRow},
		{name: "swap rows", size: 1_000, iterations: 2_000, batch: 1, op: swapRows},
		{name: "swap rows batched", size: 1_000, iterations: 2_000, batch: 10, op: swapRows},
		{name: "remove row", size: 5_000, iterations: 2_000, batch: 1, op: removeRow},
		{name: "shuffle", size: 1_000, iterations: 200, batch: 1, op: shuffle},
		{name: "replace all", size: 1_000, iterations: 200, batch: 1, op: replaceAll},
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{
		"test", "rows", "nTimes", "batch", "time", "renders", "host ops", "updateRate",
	})

	testRepeats := 5
	for _, cfg := range cfgs {
		log.Printf("Running '%s' config", cfg.name)
		runOnce(cfg)

		best := result{duration: time.Hour}
		for i := 0; i < testRepeats; i++ {
			log.Printf("Running '%s' config, iteration %d/%d %d%%", cfg.name, i+1, testRepeats, (i+1)*100/testRepeats)
			res := runOnce(cfg)
			if res.duration < best.duration {
				best = res
			}
		}

		updateRate := float64(cfg.iterations) / (float64(best.duration) / float64(time.Second))
		table.Append([]string{
			cfg.name,
			humanize.Comma(int64(cfg.size)),
			humanize.Comma(cfg.iterations),
			fmt.Sprint(cfg.batch),
			fmt.Sprint(best.duration),
			humanize.Comma(best.renders),
			humanize.Comma(best.ops),
			humanize.Comma(int64(updateRate)) + "/s",
		})
	}
	table.Render()
}

type result struct {
	duration time.Duration
	renders  int64
	ops      int64
}

func runOnce(cfg listTestConfig) result {
	rng := rand.New(rand.NewSource(42))
	root := noop.CreateRoot(noop.WithLogger(zerolog.Nop()))

	var res result
	var set *reconciler.SetState[[]int]
	initial := make([]int, cfg.size)
	for i := range initial {
		initial[i] = i
	}
	nextID := cfg.size

	rows := map[int]*element.Element{}
	row := func(id int) *element.Element {
		el, ok := rows[id]
		if !ok {
			k := strconv.Itoa(id)
			el = element.H("tr", element.Props{"key": k}, element.H("td", nil, k))
			rows[id] = el
		}
		return el
	}
	app := func(h *reconciler.Hooks, _ element.Props) (any, error) {
		res.renders++
		items, s := reconciler.UseState(h, initial)
		set = s
		kids := make([]any, len(items))
		for i, id := range items {
			kids[i] = row(id)
		}
		return element.H("table", nil, kids...), nil
	}
	root.Act(func() { root.Render(element.H(app, nil)) })
	res.renders = 0
	root.ClearOps()

	start := time.Now()
	for i := int64(0); i < cfg.iterations; {
		root.Act(func() {
			for b := 0; b < cfg.batch && i < cfg.iterations; b++ {
				set.Update(func(items []int) []int { return cfg.op(rng, items, &nextID) })
				i++
			}
		})
		res.ops += int64(len(root.Ops()))
		root.ClearOps()
	}
	res.duration = time.Since(start)
	return res
}

func appendRow(_ *rand.Rand, items []int, nextID *int) []int {
	*nextID++
	return append(slices.Clone(items), *nextID)
}

func swapRows(rng *rand.Rand, items []int, _ *int) []int {
	if len(items) < 2 {
		return items
	}
	out := slices.Clone(items)
	a, b := rng.Intn(len(out)), rng.Intn(len(out))
	out[a], out[b] = out[b], out[a]
	return out
}

func removeRow(rng *rand.Rand, items []int, _ *int) []int {
	if len(items) == 0 {
		return items
	}
	i := rng.Intn(len(items))
	return slices.Delete(slices.Clone(items), i, i+1)
}

func shuffle(rng *rand.Rand, items []int, _ *int) []int {
	out := slices.Clone(items)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

func replaceAll(_ *rand.Rand, items []int, nextID *int) []int {
	out := make([]int, len(items))
	for i := range out {
		*nextID++
		out[i] = *nextID
	}
	return out
}
