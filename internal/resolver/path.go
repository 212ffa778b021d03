package resolver

import (
	"sort"

	"github.com/rsned/minebot-agent/pkg/agent"
)

// RawRequirement is a terminal item the plan gathers or harvests directly
// from the world rather than producing via another recipe — the
// equivalent of the teacher's raw-material leaves, generalized since this
// domain has no item without SOME production mode once it passes
// resolution (an item with none is an UnsatisfiableError, not a leaf).
type RawRequirement struct {
	Item  agent.Item
	Mode  string // "gather" or "harvest"
	Runs  int
	Yield int
}

// IntermediateStep is one non-goal item the plan must craft or smelt along
// the way, with how many runs and the resulting yield — the teacher's
// BOMIntermediate, generalized across the extra smelt mode.
type IntermediateStep struct {
	Item  agent.Item
	Mode  string // "craft" or "smelt"
	Runs  int
	Yield int
}

// BillOfMaterials is a dry-run report of what Resolve would plan, without
// committing to task order — CraftPath's read-only view over the same two-phase algorithm Resolve uses.
type BillOfMaterials struct {
	Goal          agent.Goal
	RawMaterials  []RawRequirement
	Intermediates []IntermediateStep
	Plan          agent.Plan
}

// CraftPath computes the full bill of materials for goal against snapshot,
// without assigning the resulting Plan an ID — callers wanting to execute
// it should call Resolve instead.
func (r *Resolver) CraftPath(goal agent.Goal, snapshot map[agent.Item]int) (BillOfMaterials, error) {
	bottomUp, nodes, runs, err := r.resolveGraph(goal, snapshot)
	if err != nil {
		return BillOfMaterials{}, err
	}

	var raw []RawRequirement
	var intermediates []IntermediateStep
	for _, item := range bottomUp {
		n := nodes[item]
		runCount := runs[item]
		if runCount <= 0 {
			continue
		}

		switch n.mode {
		case modeCraft:
			intermediates = append(intermediates, IntermediateStep{
				Item: item, Mode: "craft", Runs: runCount, Yield: runCount * n.recipe.OutputCount,
			})
		case modeSmelt:
			intermediates = append(intermediates, IntermediateStep{
				Item: item, Mode: "smelt", Runs: runCount, Yield: runCount,
			})
		case modeGather:
			raw = append(raw, RawRequirement{
				Item: item, Mode: "gather", Runs: runCount, Yield: runCount * maxInt(n.blockDrop.Min, 1),
			})
		case modeHarvest:
			raw = append(raw, RawRequirement{
				Item: item, Mode: "harvest", Runs: runCount, Yield: runCount * maxInt(n.cropDrop.Min, 1),
			})
		}
	}

	sort.Slice(raw, func(i, j int) bool { return raw[i].Item < raw[j].Item })
	sort.Slice(intermediates, func(i, j int) bool { return intermediates[i].Item < intermediates[j].Item })

	tasks := r.emitTasks(bottomUp, nodes, runs)
	return BillOfMaterials{
		Goal:          goal,
		RawMaterials:  raw,
		Intermediates: intermediates,
		Plan:          agent.Plan{Tasks: tasks},
	}, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
