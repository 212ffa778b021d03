package agent

import "fmt"

// Task is the closed sum type emitted by the Goal Resolver and consumed by
// the Task Executor. Per the design note on polymorphic tasks, variants
// share a small surface (Describe here; Preconditions/execution dispatch
// live in the executor package, which type-switches on the concrete kind)
// and are never extended via embedding/inheritance.
type Task interface {
	// Describe renders a short human-readable summary, used both for
	// plan dry-run output and for the chat acknowledgement lines.
	Describe() string

	isTask()
}

// GatherTask locates and breaks Count blocks of Block, collecting drops.
type GatherTask struct {
	Block Item
	Count int
}

func (t GatherTask) Describe() string {
	return fmt.Sprintf("gather %d x %s", t.Count, t.Block)
}
func (GatherTask) isTask() {}

// HarvestTask is the Gather variant for mature crops, with best-effort
// replanting.
type HarvestTask struct {
	Crop  Item
	Count int
}

func (t HarvestTask) Describe() string {
	return fmt.Sprintf("harvest %d x %s", t.Count, t.Crop)
}
func (HarvestTask) isTask() {}

// CraftTask invokes Recipe Repetitions times.
type CraftTask struct {
	Recipe      Recipe
	Repetitions int
}

func (t CraftTask) Describe() string {
	return fmt.Sprintf("craft %s x%d", t.Recipe.OutputItem, t.Repetitions)
}
func (CraftTask) isTask() {}

// SmeltTask converts Count units via Recipe, consuming FuelPlan's fuel.
type SmeltTask struct {
	Recipe Recipe
	SmeltRecipe SmeltingRecipe
	Count  int
	Fuel   FuelPlan
}

func (t SmeltTask) Describe() string {
	return fmt.Sprintf("smelt %s x%d (fuel: %s x%d)", t.SmeltRecipe.OutputItem, t.Count, t.Fuel.FuelItem, t.Fuel.FuelCount)
}
func (SmeltTask) isTask() {}

// EnsureToolTask is a no-op if Tool is already held; otherwise the
// Resolver has inserted a sub-plan ahead of it that produces Tool.
type EnsureToolTask struct {
	Tool Item
}

func (t EnsureToolTask) Describe() string {
	return fmt.Sprintf("ensure tool: %s", t.Tool)
}
func (EnsureToolTask) isTask() {}

// EnsureStationTask is a no-op if a station of Kind is already reachable;
// otherwise it is located, placed, or crafted.
type EnsureStationTask struct {
	Kind StationKind
}

func (t EnsureStationTask) Describe() string {
	return fmt.Sprintf("ensure station: %s", t.Kind)
}
func (EnsureStationTask) isTask() {}

// DeliverTask drops Count units of Item within reach of To.
type DeliverTask struct {
	To    PlayerID
	Item  Item
	Count int
}

func (t DeliverTask) Describe() string {
	return fmt.Sprintf("deliver %d x %s to %s", t.Count, t.Item, t.To)
}
func (DeliverTask) isTask() {}

// Plan is an ordered, linear sequence of Tasks: the Resolver flattens the
// decomposition DAG via post-order traversal before returning it.
type Plan struct {
	ID    string
	Tasks []Task
}

// Describe renders every task's Describe line, one per line, in order.
func (p Plan) Describe() string {
	s := ""
	for i, t := range p.Tasks {
		if i > 0 {
			s += "\n"
		}
		s += fmt.Sprintf("%d. %s", i+1, t.Describe())
	}
	return s
}

// Empty reports whether the plan has no tasks (the goal was already
// satisfied by inventory).
func (p Plan) Empty() bool {
	return len(p.Tasks) == 0
}
