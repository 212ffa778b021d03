// Package resolver implements the Goal Resolver (§4.4): given a target item,
// count, and an inventory snapshot, it produces a linear Plan. The
// algorithm generalizes the teacher's bill-of-materials pass — DFS
// dependency discovery with cycle detection, Kahn-style topological sort,
// top-down demand propagation — across four production modes (smelt,
// craft, gather, harvest) instead of one (craft), and treats required
// tools/stations as ordinary graph nodes with a flat, non-scaled demand of
// one instead of folding them in as an afterthought.
//
// Resolver holds no state beyond the Knowledge Base and a small
// memoization cache: it performs no I/O and is safe for concurrent use.
package resolver

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/rsned/minebot-agent/internal/knowledge"
	"github.com/rsned/minebot-agent/pkg/agent"
)

// unambiguousNodeCacheSize bounds the cross-call node cache; the
// Knowledge Base's own seed set is small (well under a thousand items),
// so this never evicts anything that matters in practice.
const unambiguousNodeCacheSize = 4096

// Resolver decomposes a goal into a Plan using base for recipe/drop/fuel
// lookups. Production-mode selection for most items (recipe, smelt input,
// gather block, harvest crop) doesn't depend on the caller's inventory
// snapshot at all — only the rare multi-recipe tie-break
// (knowledge.Base.RecipeFor's "which log variant") does — so unambiguous
// nodes are memoized across Resolve calls in an LRU, satisfying the
// "recursive, memoised" decomposition shape.
type Resolver struct {
	base  *knowledge.Base
	cache *lru.Cache[agent.Item, *node]
}

// New returns a Resolver consulting base.
func New(base *knowledge.Base) *Resolver {
	cache, err := lru.New[agent.Item, *node](unambiguousNodeCacheSize)
	if err != nil {
		// Only returns an error for a non-positive size, which
		// unambiguousNodeCacheSize never is.
		panic(err)
	}
	return &Resolver{base: base, cache: cache}
}

type mode int

const (
	modeCraft mode = iota
	modeSmelt
	modeGather
	modeHarvest
	modeUnsatisfiable
)

// node is one item's resolved production plan within the dependency graph.
type node struct {
	item agent.Item
	mode mode

	recipe agent.Recipe // modeCraft

	smelt               agent.SmeltingRecipe // modeSmelt
	fuelItem            agent.Item
	fuelSubstitutedFrom agent.Item

	block     agent.Item // modeGather: block to mine
	blockDrop agent.DropRange
	toolReq   agent.ToolRequirement
	toolItem  agent.Item // "" if no tool gate, or the tool chain couldn't be discovered

	crop     agent.Item // modeHarvest
	cropDrop agent.DropRange

	stationReq agent.StationKind // set on modeCraft (if RequiresStation) and modeSmelt (always: furnace)
}

// discoverCtx threads the in-progress dependency graph and cycle-detection
// stack through recursive discovery, mirroring bill_of_materials.go's
// visited/pathStack maps.
type discoverCtx struct {
	nodes     map[agent.Item]*node
	pathStack map[agent.Item]bool
	held      func(agent.Item) int
}

// Resolve decomposes goal into a linear Plan, accounting for snapshot (the
// caller's current inventory). It performs no I/O: callers supply the
// inventory snapshot up front (via inventory.Accountant.Snapshot) rather
// than the Resolver re-querying the world itself.
func (r *Resolver) Resolve(_ context.Context, goal agent.Goal, snapshot map[agent.Item]int) (agent.Plan, error) {
	bottomUp, nodes, runs, err := r.resolveGraph(goal, snapshot)
	if err != nil {
		return agent.Plan{}, err
	}

	tasks := r.emitTasks(bottomUp, nodes, runs)
	return agent.Plan{ID: uuid.NewString(), Tasks: tasks}, nil
}

// resolveGraph runs both resolution phases — DFS discovery (Phase A) then
// Kahn-style topological demand propagation from goal down to leaves
// (Phase B) — and returns the dependency-ordered item list, the resolved
// production node per item, and the run count needed per item. Resolve
// and CraftPath both build on this;
// only how the result is rendered differs.
func (r *Resolver) resolveGraph(goal agent.Goal, snapshot map[agent.Item]int) (bottomUp []agent.Item, nodes map[agent.Item]*node, runs map[agent.Item]int, err error) {
	if goal.Count <= 0 {
		goal.Count = 1
	}

	dctx := &discoverCtx{
		nodes:     map[agent.Item]*node{},
		pathStack: map[agent.Item]bool{},
		held:      func(item agent.Item) int { return snapshot[item] },
	}

	if _, err := r.discoverItem(goal.Item, dctx); err != nil {
		return nil, nil, nil, fmt.Errorf("discovering %s: %w", goal.Item, err)
	}

	bottomUp, err = topologicalSort(dctx.nodes)
	if err != nil {
		return nil, nil, nil, err
	}
	topDown := make([]agent.Item, len(bottomUp))
	copy(topDown, bottomUp)
	for i, j := 0, len(topDown)-1; i < j; i, j = i+1, j-1 {
		topDown[i], topDown[j] = topDown[j], topDown[i]
	}

	demand := map[agent.Item]int{goal.Item: goal.Count}
	runs = map[agent.Item]int{}

	for _, item := range topDown {
		n := dctx.nodes[item]
		total := demand[item]
		netNeed := total - dctx.held(item)
		if netNeed < 0 {
			netNeed = 0
		}

		switch n.mode {
		case modeCraft:
			runCount := n.recipe.Runs(netNeed)
			runs[item] = runCount
			for _, in := range n.recipe.Inputs {
				demand[in.Item] += runCount * in.Quantity
			}
			if n.stationReq != agent.StationNone {
				bumpFlatDemand(demand, agent.Item(n.stationReq))
			}

		case modeSmelt:
			runs[item] = netNeed
			if netNeed > 0 {
				demand[n.smelt.InputItem] += netNeed
				if n.fuelItem != "" {
					fuelTicks := r.base.FuelTicks(n.fuelItem)
					demand[n.fuelItem] += n.smelt.FuelNeeded(netNeed, fuelTicks)
				}
			}
			bumpFlatDemand(demand, agent.Item(n.stationReq))

		case modeGather:
			runs[item] = runsFromDrop(netNeed, n.blockDrop)
			if runs[item] > 0 && n.toolItem != "" {
				bumpFlatDemand(demand, n.toolItem)
			}

		case modeHarvest:
			runs[item] = runsFromDrop(netNeed, n.cropDrop)

		case modeUnsatisfiable:
			if netNeed > 0 {
				return nil, nil, nil, &agent.UnsatisfiableError{Item: item}
			}
		}
	}

	return bottomUp, dctx.nodes, runs, nil
}

// bumpFlatDemand ensures item has at least one unit of demand, for
// prerequisites (tools, stations) that are consumed once regardless of how
// many callers need them.
func bumpFlatDemand(demand map[agent.Item]int, item agent.Item) {
	if item == "" {
		return
	}
	if demand[item] < 1 {
		demand[item] = 1
	}
}

// runsFromDrop computes how many gather/harvest operations are needed to
// yield at least netNeed units, conservatively assuming the worst-case
// (minimum) drop count per operation.
func runsFromDrop(netNeed int, drop agent.DropRange) int {
	if netNeed <= 0 {
		return 0
	}
	per := drop.Min
	if per < 1 {
		per = 1
	}
	return (netNeed + per - 1) / per
}

// discoverItem resolves item's production mode, recursing into its
// dependencies (craft inputs, smelt input/fuel/station, gather tool
// chain), memoizing by item and detecting cycles via the path stack. Mode
// priority is smelt, craft, gather, harvest, unsatisfiable (§4.4): an item
// with an applicable earlier mode never falls to a later one unless the
// earlier mode's dependencies themselves turn out to be unreachable.
func (r *Resolver) discoverItem(item agent.Item, dctx *discoverCtx) (*node, error) {
	if n, ok := dctx.nodes[item]; ok {
		return n, nil
	}
	if dctx.pathStack[item] {
		return nil, &agent.CycleError{Item: item}
	}

	// Leaf modes (no further dependencies to re-wire into this call's
	// graph) never depend on the snapshot, so a prior call's answer is
	// reusable as-is — this is the only part of discovery this cache
	// shortcuts; craft/smelt/tool-gated-gather nodes still recurse fresh
	// every call so their dependencies land in *this* dctx.
	if n, ok := r.cache.Get(item); ok {
		dctx.nodes[item] = n
		return n, nil
	}

	dctx.pathStack[item] = true
	defer delete(dctx.pathStack, item)

	if n, ok := r.trySmelt(item, dctx); ok {
		dctx.nodes[item] = n
		return n, nil
	}

	if n, ok := r.tryCraft(item, dctx); ok {
		dctx.nodes[item] = n
		return n, nil
	}

	if n, ok := r.tryGather(item, dctx); ok {
		dctx.nodes[item] = n
		if n.toolItem == "" {
			r.cache.Add(item, n)
		}
		return n, nil
	}

	if n, ok := r.tryHarvest(item); ok {
		dctx.nodes[item] = n
		r.cache.Add(item, n)
		return n, nil
	}

	n := &node{item: item, mode: modeUnsatisfiable}
	dctx.nodes[item] = n
	r.cache.Add(item, n)
	return n, nil
}

func (r *Resolver) trySmelt(item agent.Item, dctx *discoverCtx) (*node, bool) {
	sm, ok := r.base.SmeltFor(item)
	if !ok {
		return nil, false
	}
	if _, err := r.discoverItem(sm.InputItem, dctx); err != nil {
		return nil, false
	}
	fuelItem, substitutedFrom, err := r.chooseFuel(sm, dctx)
	if err != nil {
		return nil, false
	}
	if _, err := r.discoverItem(agent.Item(agent.StationFurnace), dctx); err != nil {
		return nil, false
	}
	return &node{
		item:                item,
		mode:                modeSmelt,
		smelt:               sm,
		fuelItem:            fuelItem,
		fuelSubstitutedFrom: substitutedFrom,
		stationReq:          agent.StationFurnace,
	}, true
}

func (r *Resolver) tryCraft(item agent.Item, dctx *discoverCtx) (*node, bool) {
	rec, ok := r.base.RecipeFor(item, dctx.held)
	if !ok {
		return nil, false
	}
	for _, in := range rec.Inputs {
		if _, err := r.discoverItem(in.Item, dctx); err != nil {
			return nil, false
		}
	}
	if rec.RequiresStation != agent.StationNone {
		if _, err := r.discoverItem(agent.Item(rec.RequiresStation), dctx); err != nil {
			return nil, false
		}
	}
	return &node{item: item, mode: modeCraft, recipe: rec, stationReq: rec.RequiresStation}, true
}

func (r *Resolver) tryGather(item agent.Item, dctx *discoverCtx) (*node, bool) {
	block, ok := r.base.BlockForItem(item)
	if !ok {
		return nil, false
	}
	drop, _ := r.base.DropFor(block)
	req := r.base.ToolRequirementFor(block)

	var toolItem agent.Item
	if req.ToolKind != agent.ToolAny {
		candidate := agent.Item(fmt.Sprintf("%s_%s", req.MinTier.String(), req.ToolKind))
		if _, err := r.discoverItem(candidate, dctx); err == nil {
			toolItem = candidate
		}
	}

	return &node{
		item:      item,
		mode:      modeGather,
		block:     block,
		blockDrop: drop,
		toolReq:   req,
		toolItem:  toolItem,
	}, true
}

func (r *Resolver) tryHarvest(item agent.Item) (*node, bool) {
	crop, ok := r.base.CropForItem(item)
	if !ok {
		return nil, false
	}
	drop, _ := r.base.CropFor(crop)
	return &node{item: item, mode: modeHarvest, crop: crop, cropDrop: drop}, true
}

// deps lists the items whose demand n's own demand must propagate into,
// for both topological ordering and the demand-propagation pass.
func deps(n *node) []agent.Item {
	switch n.mode {
	case modeCraft:
		out := make([]agent.Item, 0, len(n.recipe.Inputs)+1)
		for _, in := range n.recipe.Inputs {
			out = append(out, in.Item)
		}
		if n.stationReq != agent.StationNone {
			out = append(out, agent.Item(n.stationReq))
		}
		return out
	case modeSmelt:
		out := []agent.Item{n.smelt.InputItem}
		if n.fuelItem != "" {
			out = append(out, n.fuelItem)
		}
		out = append(out, agent.Item(n.stationReq))
		return out
	case modeGather:
		if n.toolItem != "" {
			return []agent.Item{n.toolItem}
		}
		return nil
	default:
		return nil
	}
}

// topologicalSort orders nodes dependencies-first (bottom-up), via Kahn's
// algorithm, the same shape as bill_of_materials.go's topologicalSort but
// walking the generalized deps() edges above.
func topologicalSort(nodes map[agent.Item]*node) ([]agent.Item, error) {
	inDegree := make(map[agent.Item]int, len(nodes))
	adjacency := make(map[agent.Item][]agent.Item)

	for item, n := range nodes {
		if _, ok := inDegree[item]; !ok {
			inDegree[item] = 0
		}
		for _, dep := range deps(n) {
			if _, ok := nodes[dep]; !ok {
				continue
			}
			adjacency[dep] = append(adjacency[dep], item)
			inDegree[item]++
		}
	}

	var queue []agent.Item
	for item, d := range inDegree {
		if d == 0 {
			queue = append(queue, item)
		}
	}
	sort.Slice(queue, func(i, j int) bool { return queue[i] < queue[j] })

	var sorted []agent.Item
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		sorted = append(sorted, cur)

		next := append([]agent.Item(nil), adjacency[cur]...)
		sort.Slice(next, func(i, j int) bool { return next[i] < next[j] })
		for _, dependent := range next {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				queue = append(queue, dependent)
			}
		}
	}

	if len(sorted) != len(nodes) {
		return nil, fmt.Errorf("cycle detected among resolved items")
	}
	return sorted, nil
}

// emitTasks walks bottomUp order (dependencies before dependents) and
// emits one Task per node with positive runs, inserting EnsureTool/
// EnsureStation tasks exactly once, immediately before the first task that
// needs them.
func (r *Resolver) emitTasks(bottomUp []agent.Item, nodes map[agent.Item]*node, runs map[agent.Item]int) []agent.Task {
	var tasks []agent.Task
	emittedTool := map[agent.Item]bool{}
	emittedStation := map[agent.StationKind]bool{}

	for _, item := range bottomUp {
		n := nodes[item]
		runCount := runs[item]
		if runCount <= 0 {
			continue
		}

		switch n.mode {
		case modeCraft:
			if n.stationReq != agent.StationNone && !emittedStation[n.stationReq] {
				tasks = append(tasks, agent.EnsureStationTask{Kind: n.stationReq})
				emittedStation[n.stationReq] = true
			}
			tasks = append(tasks, agent.CraftTask{Recipe: n.recipe, Repetitions: runCount})

		case modeSmelt:
			if n.stationReq != agent.StationNone && !emittedStation[n.stationReq] {
				tasks = append(tasks, agent.EnsureStationTask{Kind: n.stationReq})
				emittedStation[n.stationReq] = true
			}
			fuelCount := 0
			if n.fuelItem != "" {
				fuelCount = n.smelt.FuelNeeded(runCount, r.base.FuelTicks(n.fuelItem))
			}
			tasks = append(tasks, agent.SmeltTask{
				Recipe: agent.Recipe{
					OutputItem:  n.smelt.OutputItem,
					OutputCount: 1,
					Inputs:      []agent.RecipeComponent{{Item: n.smelt.InputItem, Quantity: 1}},
				},
				SmeltRecipe: n.smelt,
				Count:       runCount,
				Fuel: agent.FuelPlan{
					FuelItem:        n.fuelItem,
					FuelCount:       fuelCount,
					SubstitutedFrom: n.fuelSubstitutedFrom,
				},
			})

		case modeGather:
			if n.toolItem != "" && !emittedTool[n.toolItem] {
				tasks = append(tasks, agent.EnsureToolTask{Tool: n.toolItem})
				emittedTool[n.toolItem] = true
			}
			tasks = append(tasks, agent.GatherTask{Block: n.block, Count: runCount})

		case modeHarvest:
			tasks = append(tasks, agent.HarvestTask{Crop: n.crop, Count: runCount})
		}
	}

	return tasks
}
