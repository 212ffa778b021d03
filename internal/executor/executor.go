// Package executor implements the Task Executor (§4.5): walking a linear
// Plan and dispatching each Task to its driver, re-consulting the
// Inventory Accountant between tasks and applying the failure policy of
// §7.
package executor

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/rsned/minebot-agent/internal/inventory"
	"github.com/rsned/minebot-agent/internal/knowledge"
	"github.com/rsned/minebot-agent/internal/resolver"
	"github.com/rsned/minebot-agent/internal/station"
	"github.com/rsned/minebot-agent/internal/toolvalidator"
	"github.com/rsned/minebot-agent/internal/worldfacade"
	"github.com/rsned/minebot-agent/pkg/agent"
)

// Notifier receives the chat-style acknowledgement lines §6 calls for
// ("Operational Outputs: chat messages acknowledging start/progress/
// completion/failure per Task"). The cmd layer supplies the real one;
// tests use a slice-collecting stub.
type Notifier interface {
	Notify(message string)
}

// noopNotifier is used when the caller doesn't care about chat acks.
type noopNotifier struct{}

func (noopNotifier) Notify(string) {}

// Executor dispatches Tasks against a Facade, tracking the single
// cooperative worker's state (§5: no parallelism across Tasks, no mutual
// exclusion needed since only one Task is ever active).
type Executor struct {
	facade   worldfacade.Facade
	base     *knowledge.Base
	acct     *inventory.Accountant
	validate *toolvalidator.Validator
	resolve  *resolver.Resolver
	stations *station.Manager
	notify   Notifier
	logger   *slog.Logger

	processing atomic.Bool
	aborted    atomic.Bool
	current    atomic.Value // string
}

// New returns an Executor wired to its collaborators. notify may be nil,
// in which case chat acks are dropped. logger may be nil, in which case
// a stderr text logger is used, matching the teacher's default.
func New(facade worldfacade.Facade, base *knowledge.Base, acct *inventory.Accountant, validate *toolvalidator.Validator, resolve *resolver.Resolver, stations *station.Manager, notify Notifier, logger *slog.Logger) *Executor {
	if notify == nil {
		notify = noopNotifier{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	e := &Executor{
		facade:   facade,
		base:     base,
		acct:     acct,
		validate: validate,
		resolve:  resolve,
		stations: stations,
		notify:   notify,
		logger:   logger,
	}
	e.current.Store("")
	return e
}

// retryPolicy builds the §7 retry policy (3 retries, exponential backoff)
// for NavError/PlacementFailedError, fresh per call since backoff.BackOff
// implementations are stateful counters.
func retryPolicy(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 250 * time.Millisecond
	b.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(b, 3), ctx)
}

// Status is the §6 "REST-ish status surface" subset the Executor itself
// can answer; position/health/food come from the Facade directly.
type Status struct {
	Processing    bool
	CurrentAction string
}

// CurrentStatus reports whether a Plan is executing and, if so, what Task
// is active.
func (e *Executor) CurrentStatus() Status {
	return Status{Processing: e.processing.Load(), CurrentAction: e.current.Load().(string)}
}

// Abort requests that the currently running Plan stop at the next Task
// boundary. RunPlan clears any earlier request when it starts, so an
// Abort made while no Plan is running does not carry over to the next
// one. Builder.Build's per-voxel placement loop does not check it.
func (e *Executor) Abort() {
	e.aborted.Store(true)
}

// RunPlan executes plan's Tasks serially. It rejects re-entrant calls with
// BusyError per §5's current_plan/is_processing guard: commands arriving
// while a plan is executing are rejected, not queued. It is the entry
// point for top-level plans only — the Station Manager's recursive
// sub-plans and EnsureTool's own fallback run through runTasks directly
// (via the subRunner adapter below), since those happen *inside* an
// already-processing Task and must not trip this same guard.
func (e *Executor) RunPlan(ctx context.Context, plan agent.Plan) error {
	if !e.processing.CompareAndSwap(false, true) {
		return &agent.BusyError{}
	}
	defer e.processing.Store(false)
	defer e.current.Store("")
	e.aborted.Store(false)

	e.notify.Notify(fmt.Sprintf("starting plan (%d tasks)", len(plan.Tasks)))
	return e.runTasks(ctx, plan.Tasks)
}

// runTasks is the dispatch loop itself, shared by RunPlan and every
// recursive sub-plan a driver produces mid-Task.
func (e *Executor) runTasks(ctx context.Context, tasks []agent.Task) error {
	for i, task := range tasks {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if e.aborted.Load() {
			return &agent.AbortedError{TasksCompleted: i, TasksRemaining: len(tasks) - i}
		}

		e.current.Store(task.Describe())

		snapshot, err := e.acct.Snapshot(ctx)
		if err != nil {
			return fmt.Errorf("task %d (%s): %w", i, task.Describe(), err)
		}
		if e.satisfiedByInventory(task, snapshot) {
			e.logger.Debug("skipping already-satisfied task", "task", task.Describe())
			continue
		}

		e.notify.Notify("starting: " + task.Describe())
		if err := e.dispatch(ctx, task); err != nil {
			e.notify.Notify("failed: " + task.Describe() + ": " + err.Error())
			return fmt.Errorf("task %d (%s): %w", i, task.Describe(), err)
		}
		e.notify.Notify("completed: " + task.Describe())
	}

	return nil
}

// subRunner adapts Executor to station.PlanRunner via runTasks instead of
// RunPlan, so a Station Manager sub-plan produced mid-Task doesn't bounce
// off the busy guard the outer Plan already holds.
type subRunner struct{ e *Executor }

func (s subRunner) RunPlan(ctx context.Context, plan agent.Plan) error {
	return s.e.runTasks(ctx, plan.Tasks)
}

var _ station.PlanRunner = subRunner{}

// satisfiedByInventory implements §4.5 step 2: an output the inventory
// already holds enough of (earlier tasks over-producing, or an external
// change) means the task can be skipped.
func (e *Executor) satisfiedByInventory(task agent.Task, snapshot map[agent.Item]int) bool {
	switch t := task.(type) {
	case agent.GatherTask:
		drop, ok := e.base.DropFor(t.Block)
		return ok && snapshot[drop.Item] >= t.Count*max1(drop.Min)
	case agent.HarvestTask:
		drop, ok := e.base.CropFor(t.Crop)
		return ok && snapshot[drop.Item] >= t.Count*max1(drop.Min)
	case agent.CraftTask:
		return snapshot[t.Recipe.OutputItem] >= t.Repetitions*max1(t.Recipe.OutputCount)
	case agent.SmeltTask:
		return snapshot[t.SmeltRecipe.OutputItem] >= t.Count
	case agent.EnsureToolTask:
		return snapshot[t.Tool] > 0
	default:
		return false
	}
}

func max1(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// dispatch type-switches task to its driver (§4.8–§4.11).
func (e *Executor) dispatch(ctx context.Context, task agent.Task) error {
	switch t := task.(type) {
	case agent.GatherTask:
		return e.gather(ctx, t)
	case agent.HarvestTask:
		return e.harvest(ctx, t)
	case agent.CraftTask:
		return e.craft(ctx, t)
	case agent.SmeltTask:
		return e.smelt(ctx, t)
	case agent.EnsureToolTask:
		return e.ensureTool(ctx, t)
	case agent.EnsureStationTask:
		return e.stations.Ensure(ctx, t.Kind, subRunner{e})
	case agent.DeliverTask:
		return e.deliver(ctx, t)
	default:
		return fmt.Errorf("no driver for task %T", task)
	}
}
